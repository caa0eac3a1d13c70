package output

import (
	"fmt"

	"bizdash/logbook"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, entries []logbook.Entry, department logbook.DepartmentField) error {
	rows := make([][]any, 0, len(entries))
	for _, entry := range entries {
		values := entryRow(entry, department.Department(entry))
		row := make([]any, len(values))
		for i, value := range values {
			row[i] = value
		}
		row[len(row)-1] = entry.Minutes
		rows = append(rows, row)
	}
	return writeTableExcel(path, "Logbook", entryHeaders, rows)
}

func writeTableExcel(path, sheetName string, headers []string, rows [][]any) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if sheetName != "" && sheetName != sheet {
		if err := file.SetSheetName(sheet, sheetName); err != nil {
			return fmt.Errorf("rename excel sheet: %w", err)
		}
		sheet = sheetName
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, values := range rows {
		row := i + 2
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
