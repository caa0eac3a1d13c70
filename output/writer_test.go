package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"bizdash/logbook"
	"bizdash/reconcile"

	"github.com/xuri/excelize/v2"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return rows
}

func TestWriterForFormat(t *testing.T) {
	t.Parallel()

	if _, err := WriterForFormat("CSV"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := WriterForFormat("xlsx"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := WriterForFormat("pdf"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if FormatForPath("out.XLSX") != "excel" || FormatForPath("out.csv") != "csv" {
		t.Fatalf("unexpected format inference")
	}
}

func TestCSVWriterEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "entries.csv")
	if err := (&CSVWriter{}).Write(path, sampleEntries(), logbook.FieldDepartment); err != nil {
		t.Fatalf("write entries: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d", len(rows))
	}
	if rows[1][0] != "Anna" || rows[1][1] != "01/03/2024" || rows[1][8] != "90" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[4][3] != "unspecified" {
		t.Fatalf("blank department must be written as sentinel, got %q", rows[4][3])
	}
}

func TestCSVWriterUsesBoundDepartmentField(t *testing.T) {
	t.Parallel()

	// The subset alone would detect the primary column.
	entries := []logbook.Entry{
		{Collaborator: "Anna", Date: day(1), Department: "Dev", DepartmentAlt: "Sviluppo web", Minutes: 60},
	}
	path := filepath.Join(t.TempDir(), "entries.csv")
	if err := (&CSVWriter{}).Write(path, entries, logbook.FieldDepartmentAlt); err != nil {
		t.Fatalf("write entries: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 || rows[1][3] != "Sviluppo web" {
		t.Fatalf("expected bound alternate department, got %v", rows)
	}
}

func TestExcelWriterEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "entries.xlsx")
	if err := (&ExcelWriter{}).Write(path, sampleEntries(), logbook.FieldDepartment); err != nil {
		t.Fatalf("write entries: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer file.Close()

	value, err := file.GetCellValue("Logbook", "A2")
	if err != nil || value != "Anna" {
		t.Fatalf("unexpected A2 value %q (%v)", value, err)
	}
	minutes, err := file.GetCellValue("Logbook", "I2")
	if err != nil || minutes != "90" {
		t.Fatalf("unexpected I2 value %q (%v)", minutes, err)
	}
}

func TestWriteCollaboratorSummaryCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "summary.csv")
	rows := []reconcile.CollaboratorSummary{
		{Collaborator: "Anna", PayInMonths: 1234.5, PeriodHours: 10, EffectiveRate: 123.45, FilteredHours: 2.5, Clients: 3},
	}
	if err := WriteCollaboratorSummary(path, "csv", rows); err != nil {
		t.Fatalf("write summary: %v", err)
	}

	got := readCSV(t, path)
	want := []string{"Anna", "1.234,50 €", "10.0 h", "123,45 €", "2.5 h", "3"}
	for i := range want {
		if got[1][i] != want[i] {
			t.Fatalf("column %d: got %q, want %q", i, got[1][i], want[i])
		}
	}
}

func TestWriteCollaboratorSummaryExcel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	rows := []reconcile.CollaboratorSummary{{Collaborator: "Anna", PayInMonths: 100, Clients: 1}}
	if err := WriteCollaboratorSummary(path, "excel", rows); err != nil {
		t.Fatalf("write summary: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer file.Close()
	if value, _ := file.GetCellValue("Riepilogo", "B2"); value != "100" {
		t.Fatalf("unexpected pay cell %q", value)
	}

	if err := WriteCollaboratorSummary(path, "pdf", rows); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestWriteHoursAndMonthFlow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hoursPath := filepath.Join(dir, "clients.csv")
	if err := WriteHours(hoursPath, "csv", "Cliente", TopClients(sampleEntries(), 10)); err != nil {
		t.Fatalf("write hours: %v", err)
	}
	rows := readCSV(t, hoursPath)
	if rows[0][0] != "Cliente" || rows[1][0] != "X" || rows[1][1] != "2.50" {
		t.Fatalf("unexpected hours rows: %v", rows)
	}

	flowPath := filepath.Join(dir, "months.csv")
	flows := []reconcile.MonthFlow{{Month: "Marzo", Revenue: 1000, Cost: 300, Margin: 700}}
	if err := WriteMonthFlow(flowPath, "csv", flows); err != nil {
		t.Fatalf("write month flow: %v", err)
	}
	rows = readCSV(t, flowPath)
	if rows[1][0] != "Marzo" || rows[1][3] != "700,00 €" {
		t.Fatalf("unexpected month rows: %v", rows)
	}
}
