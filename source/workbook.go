package source

import (
	"context"
	"fmt"
	"path/filepath"

	"bizdash/importer"

	"github.com/xuri/excelize/v2"
)

// WorkbookSource reads the four tables from named sheets of one xlsx file.
type WorkbookSource struct {
	Path  string
	Names SheetNames
}

func (s *WorkbookSource) Key() string {
	abs, err := filepath.Abs(s.Path)
	if err != nil {
		abs = s.Path
	}
	return "workbook:" + abs
}

func (s *WorkbookSource) Fetch(ctx context.Context) (importer.Tables, error) {
	if err := ctx.Err(); err != nil {
		return importer.Tables{}, err
	}

	file, err := excelize.OpenFile(s.Path)
	if err != nil {
		return importer.Tables{}, fmt.Errorf("open workbook %s: %w", s.Path, err)
	}
	defer file.Close()

	var tables importer.Tables
	targets := []struct {
		name string
		dst  **importer.Sheet
	}{
		{name: s.Names.Logbook, dst: &tables.Logbook},
		{name: s.Names.Revenue, dst: &tables.Revenue},
		{name: s.Names.Compensation, dst: &tables.Compensation},
		{name: s.Names.ClientMap, dst: &tables.ClientMap},
	}
	for _, target := range targets {
		sheet, err := importer.ReadExcelSheet(file, target.name)
		if err != nil {
			return importer.Tables{}, err
		}
		*target.dst = sheet
	}
	return tables, nil
}
