package importer

import (
	"fmt"
	"time"

	"bizdash/clients"
	"bizdash/ledger"
	"bizdash/logbook"

	"github.com/google/uuid"
)

// Snapshot is one consistent load of the four tables. It is never mutated
// after BuildSnapshot returns; reloads build a new one.
type Snapshot struct {
	ID           uuid.UUID
	LoadedAt     time.Time
	Logbook      logbook.Table
	Revenue      []ledger.RevenueRow
	Compensation ledger.Compensation
	ClientMap    clients.NameMap
	Warnings     []string
	Stats        NormalizeResult
}

// Available reports whether the logbook holds any entry.
func (s *Snapshot) Available() bool {
	return s != nil && len(s.Logbook.Entries) > 0
}

// Resolver returns a client resolver over the actual revenue rows.
func (s *Snapshot) Resolver() *clients.Resolver {
	if s == nil {
		return clients.NewResolver(nil, nil)
	}
	return clients.NewResolver(s.Revenue, s.ClientMap)
}

// BuildSnapshot normalizes raw tables. Missing optional tables degrade to
// empty ones with a warning; a missing logbook leaves the snapshot
// unavailable.
func BuildSnapshot(tables Tables) *Snapshot {
	snap := &Snapshot{
		ID:       uuid.New(),
		LoadedAt: time.Now(),
		Warnings: make([]string, 0, 4),
	}

	if tables.Logbook == nil {
		snap.warn("logbook sheet not found")
	}
	snap.Stats = NormalizeSheet(tables.Logbook)
	snap.Logbook = snap.Stats.Table
	if snap.Stats.Dropped > 0 {
		snap.warn(fmt.Sprintf("dropped %d logbook rows with unreadable dates", snap.Stats.Dropped))
	}

	if tables.Revenue.Empty() {
		snap.warn(missingWarning(tables.Revenue, "revenue", "revenue is zero"))
	}
	snap.Revenue = ledger.ActualOnly(ParseRevenue(tables.Revenue))

	if tables.Compensation.Empty() {
		snap.warn(missingWarning(tables.Compensation, "compensation", "costs are zero"))
	}
	snap.Compensation = ParseCompensation(tables.Compensation)

	names, ok := ParseClientMap(tables.ClientMap)
	if !ok {
		names = clients.DefaultNameMap()
		snap.warn(fmt.Sprintf("client map unavailable; using built-in map %s", clients.DefaultMapVersion()))
	}
	snap.ClientMap = names

	return snap
}

func missingWarning(sheet *Sheet, role, effect string) string {
	if sheet == nil {
		return fmt.Sprintf("%s sheet not found; %s", role, effect)
	}
	return fmt.Sprintf("%s sheet %q is empty; %s", role, sheet.Name, effect)
}

func (s *Snapshot) warn(message string) {
	s.Warnings = append(s.Warnings, message)
}
