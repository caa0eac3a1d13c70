package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVReader reads comma or semicolon separated exports. UTF-16 files with a
// BOM are decoded to UTF-8.
type CSVReader struct {
	Comma rune
}

func (r *CSVReader) Read(path string) (*Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sheet, err := r.ReadFrom(name, file)
	if err != nil {
		return nil, fmt.Errorf("read csv file %s: %w", path, err)
	}
	return sheet, nil
}

func (r *CSVReader) ReadFrom(name string, input io.Reader) (*Sheet, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(input, decoder))
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = r.comma(string(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := make([][]string, 0, 128)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, row)
	}
	// A zero-byte export yields a sheet without headers.
	return NewSheet(name, rows), nil
}

func (r *CSVReader) comma(data string) rune {
	if r.Comma != 0 {
		return r.Comma
	}
	header, _, _ := strings.Cut(data, "\n")
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}
