package importer

import (
	"strings"
	"testing"
)

func TestBuildSnapshot(t *testing.T) {
	t.Parallel()

	snap := BuildSnapshot(Tables{
		Logbook: logbookSheet(),
		Revenue: NewSheet("Clienti", [][]string{
			{"Cliente", "Actual", "Marzo"},
			{"Acos Medica", "Actual", "€ 1.000,00"},
			{"Acos Medica", "Forecast", "€ 5.000,00"},
		}),
		Compensation: NewSheet("Compensi collaboratori", [][]string{
			{"Collaboratore", "Marzo"},
			{"Anna", "300"},
		}),
	})

	if !snap.Available() {
		t.Fatalf("expected available snapshot")
	}
	if len(snap.Revenue) != 1 {
		t.Fatalf("forecast rows must be excluded, got %d rows", len(snap.Revenue))
	}
	if snap.ClientMap.Translate("ACOS MEDICA") != "Acos Medica" {
		t.Fatalf("expected built-in client map fallback")
	}
	if !containsWarning(snap.Warnings, "client map") || !containsWarning(snap.Warnings, "dropped 1") {
		t.Fatalf("unexpected warnings: %v", snap.Warnings)
	}
	if got := snap.Resolver().Amount("ACOS MEDICA", []string{"Marzo"}); got != 1000 {
		t.Fatalf("expected 1000 resolved revenue, got %v", got)
	}
}

func TestBuildSnapshotWithoutLogbook(t *testing.T) {
	t.Parallel()

	snap := BuildSnapshot(Tables{})
	if snap.Available() {
		t.Fatalf("snapshot without logbook must be unavailable")
	}
	if !containsWarning(snap.Warnings, "logbook sheet not found") {
		t.Fatalf("unexpected warnings: %v", snap.Warnings)
	}
	if snap.Compensation == nil || snap.Revenue == nil {
		t.Fatalf("optional tables must default to empty values")
	}

	var nilSnap *Snapshot
	if nilSnap.Available() {
		t.Fatalf("nil snapshot must be unavailable")
	}
}

func containsWarning(warnings []string, fragment string) bool {
	for _, warning := range warnings {
		if strings.Contains(warning, fragment) {
			return true
		}
	}
	return false
}
