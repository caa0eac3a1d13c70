package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"bizdash/config"
	"bizdash/filter"
	"bizdash/importer"
	"bizdash/logbook"
	"bizdash/source"
	"bizdash/storage"

	"github.com/spf13/cobra"
)

var verbose bool

var dateFlagLayouts = []string{"2006-01-02", "02/01/2006"}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// openSource builds the configured source, wrapped in the fetch cache when
// caching is enabled. The returned close function is never nil.
func openSource(cfg *config.Config, refresh bool) (source.Source, func(), error) {
	src, err := source.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Cache.Enabled {
		return src, func() {}, nil
	}

	cache, err := storage.OpenSQLite(cfg.Cache.Path)
	if err != nil {
		return nil, nil, err
	}
	cached := source.NewCachedSource(src, cache, cfg.Cache.TTL)
	cached.Refresh = refresh
	return cached, func() { _ = cache.Close() }, nil
}

func loadSnapshot(ctx context.Context, refresh bool) (*importer.Snapshot, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}
	src, closeSource, err := openSource(cfg, refresh)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	return source.Load(ctx, src)
}

// criteriaFlags are the filter flags shared by report and export.
type criteriaFlags struct {
	from          string
	to            string
	collaborators []string
	departments   []string
	macros        []string
	clients       []string
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "First day of the period, YYYY-MM-DD or DD/MM/YYYY (default: 30 days before the latest logbook date)")
	cmd.Flags().StringVar(&f.to, "to", "", "Last day of the period (default: latest logbook date)")
	cmd.Flags().StringArrayVar(&f.collaborators, "collaborator", nil, "Collaborator name (repeatable)")
	cmd.Flags().StringArrayVar(&f.departments, "department", nil, "Department (repeatable)")
	cmd.Flags().StringArrayVar(&f.macros, "macro", nil, "Macro activity (repeatable)")
	cmd.Flags().StringArrayVar(&f.clients, "client", nil, "Client label as used in the logbook (repeatable)")
}

// criteria resolves the flags against table; blank dates take the default
// window.
func (f criteriaFlags) criteria(table logbook.Table) (filter.Criteria, error) {
	period := filter.BuildOptions(table).DefaultPeriod

	if strings.TrimSpace(f.from) != "" {
		from, err := parseDateFlag(f.from)
		if err != nil {
			return filter.Criteria{}, fmt.Errorf("invalid --from value: %w", err)
		}
		period.From = from
	}
	if strings.TrimSpace(f.to) != "" {
		to, err := parseDateFlag(f.to)
		if err != nil {
			return filter.Criteria{}, fmt.Errorf("invalid --to value: %w", err)
		}
		period.To = to
	}
	period = logbook.NewPeriod(period.From, period.To)
	if err := period.Validate(); err != nil {
		return filter.Criteria{}, fmt.Errorf("invalid range: %w", err)
	}

	return filter.Criteria{
		Period:          period,
		Collaborators:   trimValues(f.collaborators),
		Departments:     trimValues(f.departments),
		MacroActivities: trimValues(f.macros),
		Clients:         trimValues(f.clients),
	}, nil
}

func parseDateFlag(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateFlagLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or DD/MM/YYYY)", raw)
}

func trimValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func printWarnings(w io.Writer, snap *importer.Snapshot) {
	if snap == nil {
		return
	}
	for _, warning := range snap.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}

// commandContext is the command context, or Background for direct calls.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
