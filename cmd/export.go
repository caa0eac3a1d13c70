package cmd

import (
	"fmt"
	"strings"

	"bizdash/output"
	"bizdash/reconcile"

	"github.com/spf13/cobra"
)

var (
	exportFormat  string
	exportMode    string
	exportOutput  string
	exportRefresh bool
	exportFlags   criteriaFlags
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export filtered logbook rows or dashboard tables to CSV/Excel",
	Long: `Export the result of one filtered dashboard pass.

Modes:
- entries: each filtered logbook row
- summary: per-collaborator pay, hours, effective rate and clients
- collaborators | clients | departments: ranked hours per group
- months: revenue, cost and margin per touched month

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export filtered rows to CSV
  bizdash export --mode entries --from 2024-03-01 --to 2024-03-31 --output ./logbook.csv

  # Export the collaborator summary to Excel
  bizdash export --mode summary --output ./riepilogo.xlsx

  # Force Excel format independent of extension
  bizdash export --mode months --format excel --output ./mesi.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = output.FormatForPath(exportOutput)
		}

		snap, err := loadSnapshot(commandContext(cmd), exportRefresh)
		if err != nil {
			return err
		}
		criteria, err := exportFlags.criteria(snap.Logbook)
		if err != nil {
			return err
		}
		report, err := reconcile.Run(snap, criteria)
		if err != nil {
			return err
		}

		rows, err := exportReport(exportMode, exportOutput, format, report, snap.Logbook)
		if err != nil {
			return err
		}
		fmt.Printf("Export completed. Rows: %d, Mode: %s, Format: %s, File: %s\n", rows, exportModeName(exportMode), format, exportOutput)
		return nil
	},
}

func exportModeName(mode string) string {
	mode = strings.TrimSpace(strings.ToLower(mode))
	if mode == "" {
		return "entries"
	}
	return mode
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "entries", "Export mode: entries|summary|collaborators|clients|departments|months")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().BoolVar(&exportRefresh, "refresh", false, "Fetch from the source even when the cache is fresh")
	exportFlags.register(exportCmd)

	_ = exportCmd.MarkFlagRequired("output")
}
