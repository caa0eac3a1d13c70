package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"bizdash/importer"
)

// CSVDirSource reads "<Dir>/<sheet name>.csv" for each table.
type CSVDirSource struct {
	Dir   string
	Names SheetNames
}

func (s *CSVDirSource) Key() string {
	abs, err := filepath.Abs(s.Dir)
	if err != nil {
		abs = s.Dir
	}
	return "csv:" + abs
}

func (s *CSVDirSource) Fetch(ctx context.Context) (importer.Tables, error) {
	info, err := os.Stat(s.Dir)
	if err != nil {
		return importer.Tables{}, fmt.Errorf("stat csv directory %s: %w", s.Dir, err)
	}
	if !info.IsDir() {
		return importer.Tables{}, fmt.Errorf("csv source %s is not a directory", s.Dir)
	}

	reader := &importer.CSVReader{}
	read := func(name string) (*importer.Sheet, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.Dir, name+".csv")
		file, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("open csv file %s: %w", path, err)
		}
		defer file.Close()
		return reader.ReadFrom(name, file)
	}

	var tables importer.Tables
	if tables.Logbook, err = read(s.Names.Logbook); err != nil {
		return importer.Tables{}, err
	}
	if tables.Revenue, err = read(s.Names.Revenue); err != nil {
		return importer.Tables{}, err
	}
	if tables.Compensation, err = read(s.Names.Compensation); err != nil {
		return importer.Tables{}, err
	}
	if tables.ClientMap, err = read(s.Names.ClientMap); err != nil {
		return importer.Tables{}, err
	}
	return tables, nil
}
