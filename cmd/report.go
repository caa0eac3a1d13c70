package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"bizdash/money"
	"bizdash/reconcile"

	"github.com/spf13/cobra"
)

var (
	reportFlags   criteriaFlags
	reportRefresh bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print hours, cost, revenue and margin for a filtered period",
	Long: `Load the configured source and reconcile logbook hours with compensation and revenue.

Cost covers the selected collaborators or, without a selection, every collaborator active
under the other filters. Revenue covers the selected clients or every client active in the
date window. Months are the calendar months touched by the filtered rows.`,
	Example: `
  # Default window: the last 30 days of logbook data
  bizdash report

  # One month, one department
  bizdash report --from 2024-03-01 --to 2024-03-31 --department Dev

  # Bypass the fetch cache
  bizdash report --refresh
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(commandContext(cmd), reportRefresh)
		if err != nil {
			return err
		}
		printWarnings(os.Stderr, snap)

		criteria, err := reportFlags.criteria(snap.Logbook)
		if err != nil {
			return err
		}

		report, err := reconcile.Run(snap, criteria)
		if errors.Is(err, reconcile.ErrLogbookUnavailable) {
			return fmt.Errorf("%w: check source configuration and the logbook sheet", err)
		}
		if err != nil {
			return err
		}

		printReport(os.Stdout, report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportFlags.register(reportCmd)
	reportCmd.Flags().BoolVar(&reportRefresh, "refresh", false, "Fetch from the source even when the cache is fresh")
}

func printReport(w io.Writer, report reconcile.Report) {
	metrics := report.Metrics

	fmt.Fprintf(w, "Period: %s (%s)\n", report.Criteria.Period, strings.Join(metrics.TouchedMonths, ", "))
	if report.Status == reconcile.StatusEmpty {
		fmt.Fprintln(w, "No logbook rows match the selected filters.")
	}
	fmt.Fprintf(w, "Hours (filtered): %.1f h\n", metrics.TotalHours)
	fmt.Fprintf(w, "Hours (company, period): %.1f h\n", metrics.TotalCompanyHours)
	fmt.Fprintf(w, "Cost of period: %s\n", money.FormatCurrency(metrics.TotalPeriodCost))
	fmt.Fprintf(w, "Average hourly cost: %s\n", money.FormatCurrency(metrics.AverageHourlyCost))
	fmt.Fprintf(w, "Cost of filtered hours: %s\n", money.FormatCurrency(metrics.FilteredHoursCost))
	fmt.Fprintf(w, "Revenue: %s\n", money.FormatCurrency(metrics.TotalRevenue))
	fmt.Fprintf(w, "Margin: %s (%.1f%%)\n", money.FormatCurrency(metrics.Margin), metrics.MarginPercentage)

	if len(metrics.Collaborators) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "Collaborator\tPay\tPeriod hours\tRate\tFiltered hours\tClients\t")
		for _, row := range metrics.Collaborators {
			fmt.Fprintf(tw, "%s\t%s\t%.1f\t%s\t%.1f\t%d\t\n",
				row.Collaborator,
				money.FormatCurrency(row.PayInMonths),
				row.PeriodHours,
				money.FormatCurrency(row.EffectiveRate),
				row.FilteredHours,
				row.Clients,
			)
		}
		_ = tw.Flush()
	}

	if len(metrics.Months) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "Month\tRevenue\tCost\tMargin\t")
		for _, flow := range metrics.Months {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
				flow.Month,
				money.FormatCurrency(flow.Revenue),
				money.FormatCurrency(flow.Cost),
				money.FormatCurrency(flow.Margin),
			)
		}
		_ = tw.Flush()
	}

	if len(report.Unresolved) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Clients without revenue rows:")
		for _, unresolved := range report.Unresolved {
			if unresolved.Suggestion != "" {
				fmt.Fprintf(w, "- %s (did you mean %s?", unresolved.Label, unresolved.Suggestion)
				if len(unresolved.KnownAliases) > 0 {
					fmt.Fprintf(w, " mapped aliases: %s", strings.Join(unresolved.KnownAliases, ", "))
				}
				fmt.Fprintln(w, ")")
				continue
			}
			fmt.Fprintf(w, "- %s\n", unresolved.Label)
		}
	}
}

