package web

import (
	"testing"
	"time"

	"bizdash/filter"
	"bizdash/logbook"
	"bizdash/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReportView(t *testing.T) {
	t.Parallel()

	snap := fixtureSnapshot()
	period := logbook.NewPeriod(day(2024, 3, 1), day(2024, 3, 31))
	report, err := reconcile.Run(snap, filter.Criteria{Period: period})
	require.NoError(t, err)

	view := BuildReportView(snap, report)
	assert.Equal(t, "ok", view.Status)
	assert.Equal(t, snap.ID.String(), view.SnapshotID)
	assert.Equal(t, "2024-03-01", view.From)
	assert.Equal(t, "2024-03-31", view.To)
	assert.Equal(t, []string{"Marzo"}, view.Metrics.TouchedMonths)
	assert.InDelta(t, 2500, view.Metrics.TotalPeriodCost, 1e-6)
	assert.InDelta(t, -1000, view.Metrics.Margin, 1e-6)

	require.Len(t, view.Months, 1)
	assert.Equal(t, "Marzo", view.Months[0].Month)
	assert.InDelta(t, 1500, view.Months[0].Revenue, 1e-6)

	require.Len(t, view.HoursByDepartment, 2)
	assert.Equal(t, "Dev", view.HoursByDepartment[0].Key)
	require.Len(t, view.Timeline, 2)
	assert.Equal(t, "2024-03-05", view.Timeline[0].Date)
	assert.Empty(t, view.Unresolved)
}

func TestBuildReportView_WithoutSnapshot(t *testing.T) {
	t.Parallel()

	view := BuildReportView(nil, reconcile.Report{Status: reconcile.StatusEmpty})
	assert.Equal(t, "empty", view.Status)
	assert.NotNil(t, view.Collaborators)
	assert.NotNil(t, view.Warnings)
	assert.Empty(t, view.HoursByCollaborator)
	assert.Empty(t, view.From)
}

func TestBuildOptionsView(t *testing.T) {
	t.Parallel()

	opts := filter.BuildOptions(fixtureSnapshot().Logbook)
	view := BuildOptionsView(opts)
	assert.Equal(t, []string{"Acme", "Zeiss"}, view.Clients)
	assert.Equal(t, []string{"Supporto", "Sviluppo"}, view.MacroActivities)
	assert.Equal(t, "2024-03-06", view.DefaultTo)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.Local)
}
