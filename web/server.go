// Package web serves a localhost-only single-user dashboard; it intentionally
// has no auth/CSRF protection in this mode.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"bizdash/filter"
	"bizdash/importer"
	"bizdash/logbook"
	"bizdash/reconcile"
)

//go:embed templates/*.html
var templateFS embed.FS

// Loader builds a snapshot from the data source; refresh bypasses any
// fetch cache.
type Loader func(ctx context.Context, refresh bool) (*importer.Snapshot, error)

type Server struct {
	load Loader
	mux  *http.ServeMux

	mu   sync.RWMutex
	snap *importer.Snapshot

	loadMu sync.Mutex
}

type dashboardPageView struct {
	Title    string
	Setup    string
	Options  OptionsView
	Selected selectedView
	Report   ReportView
}

type selectedView struct {
	Collaborators   map[string]bool
	Departments     map[string]bool
	MacroActivities map[string]bool
	Clients         map[string]bool
}

type reloadResponse struct {
	SnapshotID string    `json:"snapshotId"`
	LoadedAt   time.Time `json:"loadedAt"`
	Entries    int       `json:"entries"`
	Dropped    int       `json:"dropped"`
	Warnings   []string  `json:"warnings"`
}

var errInvalidCriteria = errors.New("invalid filter")

func NewServer(load Loader) http.Handler {
	server := &Server{load: load}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleDashboard)
	mux.HandleFunc("GET /api/options", server.handleAPIOptions)
	mux.HandleFunc("GET /api/report", server.handleAPIReport)
	mux.HandleFunc("POST /api/reload", server.handleAPIReload)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("load data source: %v", err), http.StatusBadGateway)
		return
	}

	opts := filter.BuildOptions(snap.Logbook)
	criteria, err := parseCriteria(r.URL.Query(), opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := dashboardPageView{
		Title:    "bizdash",
		Options:  BuildOptionsView(opts),
		Selected: selectedFrom(criteria),
	}
	status := http.StatusOK

	report, err := reconcile.Run(snap, criteria)
	switch {
	case errors.Is(err, reconcile.ErrLogbookUnavailable):
		view.Setup = "Logbook data is unavailable. Check the data source configuration and the logbook sheet."
		view.Report = BuildReportView(snap, reconcile.Report{Criteria: criteria})
		status = http.StatusServiceUnavailable
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	default:
		view.Report = BuildReportView(snap, report)
	}

	if err := renderTemplate(w, status, "dashboard.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleAPIOptions(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("load data source: %v", err), http.StatusBadGateway)
		return
	}
	if !snap.Available() {
		http.Error(w, reconcile.ErrLogbookUnavailable.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, BuildOptionsView(filter.BuildOptions(snap.Logbook)))
}

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("load data source: %v", err), http.StatusBadGateway)
		return
	}

	criteria, err := parseCriteria(r.URL.Query(), filter.BuildOptions(snap.Logbook))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := reconcile.Run(snap, criteria)
	if err != nil {
		http.Error(w, err.Error(), reportErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, BuildReportView(snap, report))
}

func (s *Server) handleAPIReload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.reload(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("reload data source: %v", err), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{
		SnapshotID: snap.ID.String(),
		LoadedAt:   snap.LoadedAt,
		Entries:    snap.Logbook.Len(),
		Dropped:    snap.Stats.Dropped,
		Warnings:   append([]string{}, snap.Warnings...),
	})
}

// snapshot returns the current snapshot, loading it on first use.
func (s *Server) snapshot(ctx context.Context) (*importer.Snapshot, error) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.RLock()
	snap = s.snap
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	return s.swap(ctx, false)
}

func (s *Server) reload(ctx context.Context) (*importer.Snapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.swap(ctx, true)
}

// swap must be called with loadMu held. Readers keep the previous snapshot
// until the new one is complete.
func (s *Server) swap(ctx context.Context, refresh bool) (*importer.Snapshot, error) {
	snap, err := s.load(ctx, refresh)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("data source returned no snapshot")
	}
	for _, warning := range snap.Warnings {
		slog.Warn("snapshot warning", "snapshot", snap.ID, "warning", warning)
	}
	slog.Info("snapshot loaded", "snapshot", snap.ID, "entries", snap.Logbook.Len(), "refresh", refresh)

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return snap, nil
}

// parseCriteria reads the filter query. Missing dates fall back to the
// default window of opts.
func parseCriteria(query url.Values, opts filter.Options) (filter.Criteria, error) {
	period := opts.DefaultPeriod

	if raw := strings.TrimSpace(query.Get("from")); raw != "" {
		from, err := parseISODate(raw)
		if err != nil {
			return filter.Criteria{}, fmt.Errorf("%w: invalid from date (expected YYYY-MM-DD)", errInvalidCriteria)
		}
		period.From = from
	}
	if raw := strings.TrimSpace(query.Get("to")); raw != "" {
		to, err := parseISODate(raw)
		if err != nil {
			return filter.Criteria{}, fmt.Errorf("%w: invalid to date (expected YYYY-MM-DD)", errInvalidCriteria)
		}
		period.To = to
	}
	period = logbook.NewPeriod(period.From, period.To)
	if err := period.Validate(); err != nil {
		return filter.Criteria{}, fmt.Errorf("%w: %v", errInvalidCriteria, err)
	}

	return filter.Criteria{
		Period:          period,
		Collaborators:   queryValues(query, "collaborator"),
		Departments:     queryValues(query, "department"),
		MacroActivities: queryValues(query, "macro"),
		Clients:         queryValues(query, "client"),
	}, nil
}

// queryValues accepts repeated keys and comma separated lists.
func queryValues(query url.Values, key string) []string {
	out := make([]string, 0, len(query[key]))
	for _, raw := range query[key] {
		for _, value := range strings.Split(raw, ",") {
			if value = strings.TrimSpace(value); value != "" {
				out = append(out, value)
			}
		}
	}
	return out
}

func selectedFrom(criteria filter.Criteria) selectedView {
	set := func(values []string) map[string]bool {
		out := make(map[string]bool, len(values))
		for _, value := range values {
			out[value] = true
		}
		return out
	}
	return selectedView{
		Collaborators:   set(criteria.Collaborators),
		Departments:     set(criteria.Departments),
		MacroActivities: set(criteria.MacroActivities),
		Clients:         set(criteria.Clients),
	}
}

func reportErrorStatus(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrLogbookUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errInvalidCriteria):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func renderTemplate(w http.ResponseWriter, status int, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"fmtHours": func(value float64) string {
			return fmt.Sprintf("%.1f", value)
		},
		"fmtMoney": formatMoney,
		"join":     strings.Join,
		"fmtPercent": func(value float64) string {
			return fmt.Sprintf("%.1f%%", value)
		},
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}

	var body strings.Builder
	if err := tmpl.ExecuteTemplate(&body, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body.String()))
	return nil
}

func parseISODate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", strings.TrimSpace(value), time.Local)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("encode json response", "error", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
