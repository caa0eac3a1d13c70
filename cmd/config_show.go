package cmd

import (
	"fmt"

	"bizdash/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Secrets are masked.`,
	Example: `
  # Show active configuration
  bizdash config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", viper.ConfigFileUsed())
		}
		fmt.Println("Configuration:")
		fmt.Printf("source.kind: %s\n", cfg.Source.Kind)
		fmt.Printf("source.path: %s\n", cfg.Source.Path)
		fmt.Printf("source.spreadsheet_id: %s\n", cfg.Source.SpreadsheetID)
		fmt.Printf("source.service_account_path: %s\n", cfg.Source.ServiceAccountPath)
		fmt.Printf("source.oauth.client_id: %s\n", cfg.Source.OAuth.ClientID)
		fmt.Printf("source.oauth.client_secret: %s\n", maskSecret(cfg.Source.OAuth.ClientSecret))
		fmt.Printf("source.oauth.refresh_token: %s\n", maskSecret(cfg.Source.OAuth.RefreshToken))
		fmt.Printf("source.sheets.logbook: %s\n", cfg.Source.Sheets.Logbook)
		fmt.Printf("source.sheets.revenue: %s\n", cfg.Source.Sheets.Revenue)
		fmt.Printf("source.sheets.compensation: %s\n", cfg.Source.Sheets.Compensation)
		fmt.Printf("source.sheets.client_map: %s\n", cfg.Source.Sheets.ClientMap)
		fmt.Printf("cache.enabled: %t\n", cfg.Cache.Enabled)
		fmt.Printf("cache.path: %s\n", cfg.Cache.Path)
		fmt.Printf("cache.ttl: %s\n", cfg.Cache.TTL)
		fmt.Printf("server.port: %d\n", cfg.Server.Port)
	},
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	return "********"
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
