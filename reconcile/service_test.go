package reconcile

import (
	"errors"
	"testing"

	"bizdash/filter"
	"bizdash/importer"
	"bizdash/logbook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *importer.Snapshot {
	return importer.BuildSnapshot(importer.Tables{
		Logbook: importer.NewSheet("Logbook", [][]string{
			{"Nome", "Data", "Reparto", "Macro attività", "Cliente", "Minuti Impiegati"},
			{"Anna", "05/03/2024", "Dev", "Sviluppo", "ACOS MEDICA", "120"},
			{"Anna", "06/03/2024", "Dev", "Interno", "", "120"},
			{"Bruno", "07/03/2024", "Ops", "Supporto", "Zeiss", "60"},
			{"Bruno", "08/03/2024", "Ops", "Supporto", "Unknwn Client", "60"},
		}),
		Revenue: importer.NewSheet("Clienti", [][]string{
			{"Cliente", "Actual", "Marzo"},
			{"Acos Medica", "Actual", "€ 1.000,00"},
			{"Zeiss", "Actual", "500,00 €"},
			{"Zeiss", "Forecast", "9.000,00 €"},
			{"Unknown Client Srl", "Forecast", "1,00"},
		}),
		Compensation: importer.NewSheet("Compensi collaboratori", [][]string{
			{"Collaboratore", "Marzo"},
			{"Anna", "400"},
			{"Bruno", "200"},
		}),
	})
}

func marchCriteria() filter.Criteria {
	return filter.Criteria{Period: logbook.NewPeriod(day(3, 1), day(3, 31))}
}

func TestRunWithoutSelectors(t *testing.T) {
	t.Parallel()

	report, err := Run(sampleSnapshot(), marchCriteria())
	require.NoError(t, err)

	assert.Equal(t, StatusOK, report.Status)
	assert.Len(t, report.Entries, 4)
	assert.InDelta(t, 6.0, report.Metrics.TotalHours, 1e-9)
	assert.InDelta(t, 600.0, report.Metrics.TotalPeriodCost, 1e-9)
	assert.InDelta(t, 100.0, report.Metrics.AverageHourlyCost, 1e-9)
	assert.InDelta(t, 1500.0, report.Metrics.TotalRevenue, 1e-9)
	assert.InDelta(t, 900.0, report.Metrics.Margin, 1e-9)

	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, "Unknwn Client", report.Unresolved[0].Label)
}

func TestRunScopesCostToActiveCollaborators(t *testing.T) {
	t.Parallel()

	criteria := marchCriteria()
	criteria.Departments = []string{"Ops"}

	report, err := Run(sampleSnapshot(), criteria)
	require.NoError(t, err)

	// Only Bruno is active in Ops: his pay over his whole period workload.
	assert.InDelta(t, 2.0, report.Metrics.TotalHours, 1e-9)
	assert.InDelta(t, 200.0, report.Metrics.TotalPeriodCost, 1e-9)
	assert.InDelta(t, 2.0, report.Metrics.TotalCompanyHours, 1e-9)
	// Revenue still covers every client active in the window.
	assert.InDelta(t, 1500.0, report.Metrics.TotalRevenue, 1e-9)
}

func TestRunSelectedClientsScopeRevenue(t *testing.T) {
	t.Parallel()

	criteria := marchCriteria()
	criteria.Clients = []string{"Zeiss"}

	report, err := Run(sampleSnapshot(), criteria)
	require.NoError(t, err)

	assert.InDelta(t, 500.0, report.Metrics.TotalRevenue, 1e-9)
	assert.InDelta(t, 1.0, report.Metrics.TotalHours, 1e-9)
	// Bruno is the only active collaborator: 200 over 2 period hours.
	assert.InDelta(t, 100.0, report.Metrics.AverageHourlyCost, 1e-9)
	assert.InDelta(t, 400.0, report.Metrics.Margin, 1e-9)
}

func TestRunEmptyFilters(t *testing.T) {
	t.Parallel()

	criteria := marchCriteria()
	criteria.Collaborators = []string{"Nobody"}

	report, err := Run(sampleSnapshot(), criteria)
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, report.Status)
	assert.NotNil(t, report.Entries)
	assert.Zero(t, report.Metrics.TotalHours)
	assert.Zero(t, report.Metrics.MarginPercentage)
}

func TestRunUnavailableLogbook(t *testing.T) {
	t.Parallel()

	_, err := Run(importer.BuildSnapshot(importer.Tables{}), marchCriteria())
	assert.True(t, errors.Is(err, ErrLogbookUnavailable))

	_, err = Run(nil, marchCriteria())
	assert.ErrorIs(t, err, ErrLogbookUnavailable)
}

func TestRunRejectsInvertedPeriod(t *testing.T) {
	t.Parallel()

	_, err := Run(sampleSnapshot(), filter.Criteria{Period: logbook.NewPeriod(day(3, 31), day(3, 1))})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrLogbookUnavailable))
}

func TestRunUnresolvedListsMappedAliases(t *testing.T) {
	t.Parallel()

	snap := importer.BuildSnapshot(importer.Tables{
		Logbook: importer.NewSheet("Logbook", [][]string{
			{"Nome", "Data", "Cliente", "Minuti Impiegati"},
			{"Anna", "05/03/2024", "Nowwave", "60"},
		}),
		Revenue: importer.NewSheet("Clienti", [][]string{
			{"Cliente", "Actual", "Marzo"},
			{"Nowave", "Actual", "100"},
		}),
	})

	report, err := Run(snap, marchCriteria())
	require.NoError(t, err)

	require.Len(t, report.Unresolved, 1)
	unresolved := report.Unresolved[0]
	assert.Equal(t, "Nowwave", unresolved.Label)
	assert.Equal(t, "Nowave", unresolved.Suggestion)
	assert.Equal(t, []string{"NOWAVE"}, unresolved.KnownAliases)
	assert.Zero(t, report.Metrics.TotalRevenue)
}
