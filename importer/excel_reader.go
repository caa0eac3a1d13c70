package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads one sheet of a workbook: SheetName, or the first sheet
// when unset.
type ExcelReader struct {
	SheetName string
}

func (r *ExcelReader) Read(path string) (*Sheet, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := r.SheetName
	if sheetName == "" {
		sheetName = file.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets: %s", path)
	}

	sheet, err := ReadExcelSheet(file, sheetName)
	if err != nil {
		return nil, err
	}
	if sheet == nil {
		return nil, fmt.Errorf("sheet %s not found in %s", sheetName, path)
	}
	return sheet, nil
}

// ReadExcelSheet returns nil without error when the workbook has no sheet
// with that name.
func ReadExcelSheet(file *excelize.File, sheetName string) (*Sheet, error) {
	if index, err := file.GetSheetIndex(sheetName); err != nil || index < 0 {
		return nil, nil
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}
	return NewSheet(sheetName, rows), nil
}
