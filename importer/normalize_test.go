package importer

import (
	"testing"
	"time"

	"bizdash/logbook"
)

func logbookSheet() *Sheet {
	return NewSheet("Logbook", [][]string{
		{"Nome", "Data", "Mese", "Reparto1", "Macro attività", "Micro attività", "Cliente", "Note", "Minuti Impiegati"},
		{"Anna", "05/03/2024", "aprile", "Dev", "Sviluppo", "Backend", "ACOS MEDICA", "", "120"},
		{"Bruno", "not a date", "", "Ops", "Supporto", "", "Zeiss", "", "30"},
		{"Carla", "2024-04-02", "", "", "Design", "", "", "interno", "abc"},
		{"", "", "", "", "", "", "", "", ""},
		{"Dario", "2024/04/03", "", "Ops", "Supporto", "", "Nowave", "", "-15"},
	})
}

func TestNormalizeDropsUnparseableDates(t *testing.T) {
	t.Parallel()

	sheet := logbookSheet()
	result := NormalizeSheet(sheet)

	if result.RowsRead != 4 {
		t.Fatalf("expected 4 rows read (blank row skipped), got %d", result.RowsRead)
	}
	if result.Dropped != 1 || result.RowsMapped != 3 {
		t.Fatalf("unexpected counters: %+v", result)
	}
	if len(result.Table.Entries) != result.RowsRead-result.Dropped {
		t.Fatalf("output length must equal input minus unparseable rows")
	}
}

func TestNormalizeFields(t *testing.T) {
	t.Parallel()

	table := Normalize(logbookSheet().Records, logbookSheet().Headers)
	if table.DepartmentField != logbook.FieldDepartmentAlt {
		t.Fatalf("expected alternate department binding, got %s", table.DepartmentField)
	}

	first := table.Entries[0]
	if first.Collaborator != "Anna" || first.Client != "ACOS MEDICA" || first.MacroActivity != "Sviluppo" || first.MicroActivity != "Backend" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if !first.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("unexpected date: %v", first.Date)
	}
	if first.MonthLabel != "Marzo" {
		t.Fatalf("month label must be derived from date, got %q", first.MonthLabel)
	}
	if first.Minutes != 120 {
		t.Fatalf("expected 120 minutes, got %v", first.Minutes)
	}

	second := table.Entries[1]
	if second.Minutes != 0 {
		t.Fatalf("garbled minutes must read as zero, got %v", second.Minutes)
	}
	if second.DepartmentAlt != logbook.DepartmentUnspecified {
		t.Fatalf("blank department must read as sentinel, got %q", second.DepartmentAlt)
	}
	if second.Note != "interno" {
		t.Fatalf("unexpected note: %q", second.Note)
	}

	if table.Entries[2].Minutes != 0 {
		t.Fatalf("negative minutes must clamp to zero")
	}
}

func TestNormalizeMissingColumns(t *testing.T) {
	t.Parallel()

	sheet := NewSheet("Logbook", [][]string{
		{"Data", "Nome"},
		{"01/02/2024", "Anna"},
	})
	table := Normalize(sheet.Records, sheet.Headers)

	if len(table.Entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(table.Entries))
	}
	entry := table.Entries[0]
	if entry.Client != "" || entry.MacroActivity != "" || entry.Minutes != 0 {
		t.Fatalf("missing columns must default to empty values: %+v", entry)
	}
	if table.DepartmentOf(entry) != logbook.DepartmentUnspecified || entry.Department != logbook.DepartmentUnspecified {
		t.Fatalf("missing department column must yield sentinel: %+v", entry)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	t.Parallel()

	sheet := logbookSheet()
	a := Normalize(sheet.Records, sheet.Headers)
	b := Normalize(sheet.Records, sheet.Headers)
	if len(a.Entries) != len(b.Entries) {
		t.Fatalf("expected equal lengths")
	}
	for i := range a.Entries {
		if a.Entries[i] != b.Entries[i] {
			t.Fatalf("entry %d differs: %+v vs %+v", i, a.Entries[i], b.Entries[i])
		}
	}
}

func TestNormalizeNilSheet(t *testing.T) {
	t.Parallel()

	result := NormalizeSheet(nil)
	if result.Table.Entries == nil || len(result.Table.Entries) != 0 {
		t.Fatalf("expected empty non-nil entries")
	}
}
