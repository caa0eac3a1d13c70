package filter

import (
	"sort"
	"strings"
	"time"

	"bizdash/internal/timeutil"
	"bizdash/logbook"
)

// Field selects which entry attribute Distinct reads.
type Field int

const (
	FieldCollaborator Field = iota
	FieldClient
	FieldDepartment
	FieldMacroActivity
)

// DefaultWindowDays is the length of the default window ending at the
// latest logbook date.
const DefaultWindowDays = 30

// Options are the selector values and date bounds offered to a user.
type Options struct {
	Collaborators   []string
	Clients         []string
	Departments     []string
	MacroActivities []string
	MinDate         time.Time
	MaxDate         time.Time
	DefaultPeriod   logbook.Period
}

// Distinct returns the sorted distinct non-blank values of field.
func Distinct(table logbook.Table, entries []logbook.Entry, field Field) []string {
	department := table.ResolveDepartmentField()
	seen := make(map[string]struct{}, 16)
	out := make([]string, 0, 16)
	for _, entry := range entries {
		var value string
		switch field {
		case FieldCollaborator:
			value = entry.Collaborator
		case FieldClient:
			value = entry.Client
		case FieldDepartment:
			value = department.Department(entry)
		case FieldMacroActivity:
			value = entry.MacroActivity
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

func BuildOptions(table logbook.Table) Options {
	opts := Options{
		Collaborators:   Distinct(table, table.Entries, FieldCollaborator),
		Clients:         Distinct(table, table.Entries, FieldClient),
		Departments:     Distinct(table, table.Entries, FieldDepartment),
		MacroActivities: Distinct(table, table.Entries, FieldMacroActivity),
	}

	// The window runs from DefaultWindowDays before the end date up to it.
	minDate, maxDate, ok := table.Bounds()
	if !ok {
		opts.DefaultPeriod = logbook.LastDays(time.Now(), DefaultWindowDays+1)
		return opts
	}
	opts.MinDate = minDate
	opts.MaxDate = maxDate

	opts.DefaultPeriod = logbook.LastDays(maxDate, DefaultWindowDays+1)
	if opts.DefaultPeriod.From.Before(minDate) {
		opts.DefaultPeriod.From = timeutil.StartOfDay(minDate)
	}
	return opts
}
