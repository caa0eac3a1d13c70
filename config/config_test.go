package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidateYAMLContent_ExampleIsValid(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
	if cfg.Source.Kind != SourceWorkbook || cfg.Source.Sheets.Compensation != "Compensi collaboratori" {
		t.Fatalf("unexpected source config: %+v", cfg.Source)
	}
	if cfg.Cache.TTL != 30*time.Minute || !cfg.Cache.Enabled {
		t.Fatalf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("unexpected port: %d", cfg.Server.Port)
	}
}

func TestExampleYAMLFor_EachKindValidates(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{SourceWorkbook, SourceCSV, SourceSheets} {
		kind := kind
		t.Run(kind, func(t *testing.T) {
			t.Parallel()

			content, err := ExampleYAMLFor(kind)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			cfg, err := ValidateYAMLContent([]byte(content))
			if err != nil {
				t.Fatalf("expected %s template to validate: %v\n%s", kind, err, content)
			}
			if cfg.Source.Kind != kind {
				t.Fatalf("expected kind %q, got %q", kind, cfg.Source.Kind)
			}
		})
	}

	if _, err := ExampleYAMLFor("ftp"); err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
}

func TestValidateYAMLContent_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("source:\n  kind: CSV\n  path: ./exports\n"))
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Source.Kind != SourceCSV {
		t.Fatalf("kind must be normalized, got %q", cfg.Source.Kind)
	}
	if cfg.Source.Sheets.Logbook != "Logbook" || cfg.Source.Sheets.ClientMap != "Mappa" {
		t.Fatalf("expected default sheet names, got %+v", cfg.Source.Sheets)
	}
}

func TestValidateYAMLContent_SheetsWithOAuth(t *testing.T) {
	t.Parallel()

	content := "source:\n  kind: sheets\n  spreadsheet_id: abc\n  oauth:\n    client_id: id\n    client_secret: secret\n    refresh_token: token\n"
	cfg, err := ValidateYAMLContent([]byte(content))
	if err != nil {
		t.Fatalf("expected oauth sheets config to validate: %v", err)
	}
	if cfg.Source.OAuth.RefreshToken != "token" {
		t.Fatalf("unexpected oauth config: %+v", cfg.Source.OAuth)
	}
}

func TestValidateYAMLContent_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unsupported kind",
			content: "source:\n  kind: ftp\n",
			wantErr: "validation failed",
		},
		{
			name:    "sheets without spreadsheet id",
			content: "source:\n  kind: sheets\n  service_account_path: sa.json\n",
			wantErr: "spreadsheet_id",
		},
		{
			name:    "sheets without credentials",
			content: "source:\n  kind: sheets\n  spreadsheet_id: abc\n",
			wantErr: "service_account_path or source.oauth",
		},
		{
			name:    "sheets with both credentials",
			content: "source:\n  kind: sheets\n  spreadsheet_id: abc\n  service_account_path: sa.json\n  oauth:\n    client_id: id\n    client_secret: secret\n    refresh_token: token\n",
			wantErr: "not both",
		},
		{
			name:    "workbook without path",
			content: "source:\n  kind: workbook\n  path: \"\"\n",
			wantErr: "source.path",
		},
		{
			name:    "duplicate sheet names",
			content: "source:\n  kind: workbook\n  path: a.xlsx\n  sheets:\n    revenue: Logbook\n",
			wantErr: "both name",
		},
		{
			name:    "port out of range",
			content: "source:\n  kind: workbook\n  path: a.xlsx\nserver:\n  port: 70000\n",
			wantErr: "validation failed",
		},
		{
			name:    "cache without path",
			content: "source:\n  kind: workbook\n  path: a.xlsx\ncache:\n  enabled: true\n  path: \"\"\n",
			wantErr: "cache.path",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ValidateYAMLContent([]byte(tc.content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
