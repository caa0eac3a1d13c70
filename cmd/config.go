package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bizdash configuration file values.",
	Long: `Create, edit, display, and delete the bizdash configuration file.

The configuration stores the data source and local runtime values:
- source.kind / path / spreadsheet_id / service_account_path / oauth.*
- source.sheets.logbook / revenue / compensation / client_map
- cache.enabled / path / ttl
- server.port`,
	Example: `
  # Create a Google Sheets config in $HOME/.bizdash.yaml
  bizdash config create --kind sheets

  # Show active config and source file
  bizdash config show

  # Open active config in editor (creates example if missing)
  bizdash config edit

  # Delete active config file and its fetch cache
  bizdash config delete --with-cache
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
