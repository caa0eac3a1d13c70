package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func sheetsServer(t *testing.T, failFirst int32) (*httptest.Server, *int32) {
	t.Helper()

	var failures int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&failures, 1) <= failFirst {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"code":503,"message":"backend unavailable"}}`))
			return
		}

		if strings.HasSuffix(r.URL.Path, "/values:batchGet") {
			ranges := r.URL.Query()["ranges"]
			valueRanges := make([]map[string]any, 0, len(ranges))
			for _, rangeName := range ranges {
				var values [][]any
				switch rangeName {
				case "'Logbook'":
					values = [][]any{
						{"Nome", "Data", "Minuti Impiegati"},
						{"Anna", "05/03/2024", 90.0},
					}
				case "'Clienti'":
					values = [][]any{
						{"Cliente", "Marzo"},
						{"Zeiss", "1.000,00 €"},
					}
				}
				valueRanges = append(valueRanges, map[string]any{"range": rangeName, "values": values})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "abc", "valueRanges": valueRanges})
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"sheets": []map[string]any{
				{"properties": map[string]any{"title": "Logbook"}},
				{"properties": map[string]any{"title": "Clienti"}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server, &failures
}

func testSheetsSource(server *httptest.Server) *SheetsSource {
	return &SheetsSource{
		SpreadsheetID: "abc",
		Names:         DefaultSheetNames(),
		Retry:         RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 2},
		ClientOptions: []option.ClientOption{
			option.WithEndpoint(server.URL + "/"),
			option.WithHTTPClient(server.Client()),
		},
	}
}

func TestSheetsSource_Fetch(t *testing.T) {
	t.Parallel()

	server, _ := sheetsServer(t, 0)
	tables, err := testSheetsSource(server).Fetch(context.Background())
	require.NoError(t, err)

	require.NotNil(t, tables.Logbook)
	assert.Equal(t, "Logbook", tables.Logbook.Name)
	assert.Equal(t, "90", tables.Logbook.Records[0].Get("Minuti Impiegati"))
	require.NotNil(t, tables.Revenue)
	assert.Equal(t, "1.000,00 €", tables.Revenue.Records[0].Get("Marzo"))
	assert.Nil(t, tables.Compensation)
	assert.Nil(t, tables.ClientMap)
}

func TestSheetsSource_RetriesTransientErrors(t *testing.T) {
	t.Parallel()

	server, calls := sheetsServer(t, 2)
	tables, err := testSheetsSource(server).Fetch(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tables.Logbook)
	assert.Equal(t, int32(4), atomic.LoadInt32(calls))
}

func TestSheetsSource_GivesUp(t *testing.T) {
	t.Parallel()

	server, _ := sheetsServer(t, 10)
	_, err := testSheetsSource(server).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "giving up after 3 attempts")
}

func TestSheetsSource_RequiresSpreadsheetID(t *testing.T) {
	t.Parallel()

	_, err := (&SheetsSource{}).Fetch(context.Background())
	require.Error(t, err)
}

func TestCellString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "1234.5", cellString(1234.5))
	assert.Equal(t, "TRUE", strings.ToUpper(cellString(true)))
	assert.Equal(t, "abc", cellString("abc"))
}

func TestQuoteSheetRange(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "'Compensi collaboratori'", quoteSheetRange("Compensi collaboratori"))
	assert.Equal(t, "'Dell''Orto'", quoteSheetRange("Dell'Orto"))
}

func TestSheetsSource_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found."}}`))
	}))
	t.Cleanup(server.Close)

	_, err := testSheetsSource(server).Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
