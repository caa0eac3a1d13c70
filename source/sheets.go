package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"bizdash/importer"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource reads the four tables from a Google spreadsheet, using a
// service account key or an OAuth2 refresh token.
type SheetsSource struct {
	SpreadsheetID      string
	ServiceAccountPath string
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	Names              SheetNames
	Retry              RetryOptions

	// ClientOptions replaces the credential options when set.
	ClientOptions []option.ClientOption
}

func (s *SheetsSource) Key() string {
	return "sheets:" + s.SpreadsheetID
}

func (s *SheetsSource) Fetch(ctx context.Context) (importer.Tables, error) {
	if strings.TrimSpace(s.SpreadsheetID) == "" {
		return importer.Tables{}, fmt.Errorf("missing spreadsheet id")
	}

	srv, err := s.service(ctx)
	if err != nil {
		return importer.Tables{}, err
	}

	retry := s.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryOptions()
	}

	var titles map[string]bool
	err = withRetry(ctx, func() error {
		spreadsheet, err := srv.Spreadsheets.Get(s.SpreadsheetID).
			Fields("sheets.properties.title").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("get spreadsheet %s: %w", s.SpreadsheetID, err)
		}
		titles = make(map[string]bool, len(spreadsheet.Sheets))
		for _, sheet := range spreadsheet.Sheets {
			if sheet.Properties != nil {
				titles[sheet.Properties.Title] = true
			}
		}
		return nil
	}, retry)
	if err != nil {
		return importer.Tables{}, err
	}

	wanted := []string{s.Names.Logbook, s.Names.Revenue, s.Names.Compensation, s.Names.ClientMap}
	ranges := make([]string, 0, len(wanted))
	for _, name := range wanted {
		if titles[name] {
			ranges = append(ranges, quoteSheetRange(name))
		} else {
			slog.Warn("sheet not found in spreadsheet", "spreadsheet", s.SpreadsheetID, "sheet", name)
		}
	}

	byName := make(map[string]*importer.Sheet, len(ranges))
	if len(ranges) > 0 {
		var response *sheets.BatchGetValuesResponse
		err = withRetry(ctx, func() error {
			var err error
			response, err = srv.Spreadsheets.Values.BatchGet(s.SpreadsheetID).
				Ranges(ranges...).
				ValueRenderOption("FORMATTED_VALUE").
				Context(ctx).
				Do()
			if err != nil {
				return fmt.Errorf("read sheet values: %w", err)
			}
			return nil
		}, retry)
		if err != nil {
			return importer.Tables{}, err
		}

		for i, valueRange := range response.ValueRanges {
			if i >= len(ranges) {
				break
			}
			name := wantedByRange(wanted, ranges[i])
			byName[name] = importer.NewSheet(name, cellRows(valueRange.Values))
		}
	}

	slog.Info("fetched spreadsheet", "spreadsheet", s.SpreadsheetID, "sheets", len(byName))
	return importer.Tables{
		Logbook:      byName[s.Names.Logbook],
		Revenue:      byName[s.Names.Revenue],
		Compensation: byName[s.Names.Compensation],
		ClientMap:    byName[s.Names.ClientMap],
	}, nil
}

func (s *SheetsSource) service(ctx context.Context) (*sheets.Service, error) {
	if len(s.ClientOptions) > 0 {
		srv, err := sheets.NewService(ctx, s.ClientOptions...)
		if err != nil {
			return nil, fmt.Errorf("unable to create sheets service: %w", err)
		}
		return srv, nil
	}

	var tokenSource oauth2.TokenSource
	if s.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(s.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		if s.ClientID == "" || s.ClientSecret == "" || s.RefreshToken == "" {
			return nil, fmt.Errorf("no google sheets credentials configured")
		}
		client := &oauth2.Config{
			ClientID:     s.ClientID,
			ClientSecret: s.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsReadonlyScope},
		}
		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: s.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

// quoteSheetRange addresses a whole sheet in A1 notation.
func quoteSheetRange(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func wantedByRange(wanted []string, rangeName string) string {
	for _, name := range wanted {
		if quoteSheetRange(name) == rangeName {
			return name
		}
	}
	return rangeName
}

func cellRows(values [][]interface{}) [][]string {
	rows := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cellString(cell)
		}
		rows = append(rows, cells)
	}
	return rows
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
