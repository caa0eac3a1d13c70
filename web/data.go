package web

import (
	"time"

	"bizdash/filter"
	"bizdash/importer"
	"bizdash/logbook"
	"bizdash/money"
	"bizdash/output"
	"bizdash/reconcile"
)

// topClientsLimit is the number of bars in the client chart, the last one
// folding every remaining client.
const topClientsLimit = 10

type HoursRow struct {
	Key   string  `json:"key"`
	Hours float64 `json:"hours"`
}

type TimelineRow struct {
	Date          string  `json:"date"`
	MacroActivity string  `json:"macroActivity"`
	Hours         float64 `json:"hours"`
}

type MetricsView struct {
	TotalHours        float64  `json:"totalHours"`
	TotalPeriodCost   float64  `json:"totalPeriodCost"`
	TotalCompanyHours float64  `json:"totalCompanyHours"`
	AverageHourlyCost float64  `json:"averageHourlyCost"`
	FilteredHoursCost float64  `json:"filteredHoursCost"`
	TotalRevenue      float64  `json:"totalRevenue"`
	Margin            float64  `json:"margin"`
	MarginPercentage  float64  `json:"marginPercentage"`
	TouchedMonths     []string `json:"touchedMonths"`
}

type CollaboratorRow struct {
	Collaborator  string  `json:"collaborator"`
	PayInMonths   float64 `json:"payInMonths"`
	PeriodHours   float64 `json:"periodHours"`
	EffectiveRate float64 `json:"effectiveRate"`
	FilteredHours float64 `json:"filteredHours"`
	Clients       int     `json:"clients"`
}

type MonthRow struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Margin  float64 `json:"margin"`
}

type UnresolvedRow struct {
	Label        string   `json:"label"`
	Suggestion   string   `json:"suggestion,omitempty"`
	KnownAliases []string `json:"knownAliases,omitempty"`
}

// ReportView is the JSON and template model of one dashboard pass.
type ReportView struct {
	Status              string            `json:"status"`
	SnapshotID          string            `json:"snapshotId"`
	LoadedAt            time.Time         `json:"loadedAt"`
	From                string            `json:"from"`
	To                  string            `json:"to"`
	Metrics             MetricsView       `json:"metrics"`
	Collaborators       []CollaboratorRow `json:"collaborators"`
	HoursByCollaborator []HoursRow        `json:"hoursByCollaborator"`
	TopClients          []HoursRow        `json:"topClients"`
	HoursByDepartment   []HoursRow        `json:"hoursByDepartment"`
	Timeline            []TimelineRow     `json:"timeline"`
	Months              []MonthRow        `json:"months"`
	Unresolved          []UnresolvedRow   `json:"unresolved"`
	Warnings            []string          `json:"warnings"`
}

type OptionsView struct {
	Collaborators   []string `json:"collaborators"`
	Clients         []string `json:"clients"`
	Departments     []string `json:"departments"`
	MacroActivities []string `json:"macroActivities"`
	MinDate         string   `json:"minDate"`
	MaxDate         string   `json:"maxDate"`
	DefaultFrom     string   `json:"defaultFrom"`
	DefaultTo       string   `json:"defaultTo"`
}

func BuildReportView(snap *importer.Snapshot, report reconcile.Report) ReportView {
	metrics := report.Metrics
	view := ReportView{
		Status: string(report.Status),
		From:   formatISODate(report.Criteria.Period.From),
		To:     formatISODate(report.Criteria.Period.To),
		Metrics: MetricsView{
			TotalHours:        metrics.TotalHours,
			TotalPeriodCost:   metrics.TotalPeriodCost,
			TotalCompanyHours: metrics.TotalCompanyHours,
			AverageHourlyCost: metrics.AverageHourlyCost,
			FilteredHoursCost: metrics.FilteredHoursCost,
			TotalRevenue:      metrics.TotalRevenue,
			Margin:            metrics.Margin,
			MarginPercentage:  metrics.MarginPercentage,
			TouchedMonths:     append([]string{}, metrics.TouchedMonths...),
		},
		Collaborators: make([]CollaboratorRow, 0, len(metrics.Collaborators)),
		Months:        make([]MonthRow, 0, len(metrics.Months)),
		Unresolved:    make([]UnresolvedRow, 0, len(report.Unresolved)),
		Warnings:      []string{},
	}
	if snap != nil {
		view.SnapshotID = snap.ID.String()
		view.LoadedAt = snap.LoadedAt
		view.Warnings = append(view.Warnings, snap.Warnings...)
	}

	for _, row := range metrics.Collaborators {
		view.Collaborators = append(view.Collaborators, CollaboratorRow(row))
	}
	for _, flow := range metrics.Months {
		view.Months = append(view.Months, MonthRow(flow))
	}
	for _, unresolved := range report.Unresolved {
		view.Unresolved = append(view.Unresolved, UnresolvedRow(unresolved))
	}

	view.HoursByCollaborator = hoursRows(output.RankedHours(output.HoursByCollaborator(report.Entries)))
	view.TopClients = hoursRows(output.TopClients(report.Entries, topClientsLimit))
	var table logbook.Table
	if snap != nil {
		table = snap.Logbook
	}
	view.HoursByDepartment = hoursRows(output.RankedHours(output.HoursByDepartment(table, report.Entries)))

	timeline := output.ActivityTimeline(report.Entries)
	view.Timeline = make([]TimelineRow, 0, len(timeline))
	for _, point := range timeline {
		view.Timeline = append(view.Timeline, TimelineRow{
			Date:          formatISODate(point.Date),
			MacroActivity: point.MacroActivity,
			Hours:         point.Hours,
		})
	}
	return view
}

func BuildOptionsView(opts filter.Options) OptionsView {
	return OptionsView{
		Collaborators:   opts.Collaborators,
		Clients:         opts.Clients,
		Departments:     opts.Departments,
		MacroActivities: opts.MacroActivities,
		MinDate:         formatISODate(opts.MinDate),
		MaxDate:         formatISODate(opts.MaxDate),
		DefaultFrom:     formatISODate(opts.DefaultPeriod.From),
		DefaultTo:       formatISODate(opts.DefaultPeriod.To),
	}
}

func hoursRows(rows []output.HoursRow) []HoursRow {
	out := make([]HoursRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, HoursRow(row))
	}
	return out
}

func formatISODate(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format("2006-01-02")
}

func formatMoney(value float64) string {
	return money.FormatCurrency(value)
}
