// Package source fetches the four raw dashboard tables from a workbook, a
// directory of CSV exports or a Google spreadsheet.
package source

import (
	"context"
	"fmt"

	"bizdash/config"
	"bizdash/importer"
)

// Source fetches raw tables. A sheet missing from the source is left nil in
// the returned tables; only transport failures are errors.
type Source interface {
	Fetch(ctx context.Context) (importer.Tables, error)
	// Key identifies the source in the fetch cache.
	Key() string
}

// SheetNames maps each table role to its sheet title (or CSV file stem).
type SheetNames struct {
	Logbook      string
	Revenue      string
	Compensation string
	ClientMap    string
}

func DefaultSheetNames() SheetNames {
	return SheetNames{
		Logbook:      "Logbook",
		Revenue:      "Clienti",
		Compensation: "Compensi collaboratori",
		ClientMap:    "Mappa",
	}
}

func sheetNamesFromConfig(cfg config.SheetsConfig) SheetNames {
	names := DefaultSheetNames()
	if cfg.Logbook != "" {
		names.Logbook = cfg.Logbook
	}
	if cfg.Revenue != "" {
		names.Revenue = cfg.Revenue
	}
	if cfg.Compensation != "" {
		names.Compensation = cfg.Compensation
	}
	if cfg.ClientMap != "" {
		names.ClientMap = cfg.ClientMap
	}
	return names
}

// FromConfig builds the uncached source described by cfg.
func FromConfig(cfg *config.Config) (Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("missing configuration")
	}
	names := sheetNamesFromConfig(cfg.Source.Sheets)

	switch cfg.Source.Kind {
	case config.SourceWorkbook:
		return &WorkbookSource{Path: cfg.Source.Path, Names: names}, nil
	case config.SourceCSV:
		return &CSVDirSource{Dir: cfg.Source.Path, Names: names}, nil
	case config.SourceSheets:
		return &SheetsSource{
			SpreadsheetID:      cfg.Source.SpreadsheetID,
			ServiceAccountPath: cfg.Source.ServiceAccountPath,
			ClientID:           cfg.Source.OAuth.ClientID,
			ClientSecret:       cfg.Source.OAuth.ClientSecret,
			RefreshToken:       cfg.Source.OAuth.RefreshToken,
			Names:              names,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported source kind: %s", cfg.Source.Kind)
	}
}

// Load fetches from src and builds a snapshot.
func Load(ctx context.Context, src Source) (*importer.Snapshot, error) {
	tables, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return importer.BuildSnapshot(tables), nil
}

// Reload is Load with any fetch cache bypassed.
func Reload(ctx context.Context, src Source) (*importer.Snapshot, error) {
	if cached, ok := src.(*CachedSource); ok && !cached.Refresh {
		bypass := *cached
		bypass.Refresh = true
		src = &bypass
	}
	return Load(ctx, src)
}
