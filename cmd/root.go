/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"bizdash/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bizdash",
	Short: "Reconcile logbook hours, compensation, and revenue into business metrics.",
	Long: `
**********************************************
*                 BIZDASH                    *
**********************************************

This CLI loads the business workbook (logbook, client revenue, collaborator compensation,
client name map) from an xlsx file, a directory of CSV exports, or a Google spreadsheet,
and reports hours, costs, revenue, and margins for a filtered period.

Supported sources:
- workbook: one .xlsx file with the four named sheets
- csv: a directory holding <sheet name>.csv files
- sheets: a Google spreadsheet (service account or OAuth2 refresh token)
`,
	Example: `
  # Create configuration file
  bizdash config create

  # Fetch the source and check normalization
  bizdash import

  # Report the default window (last 30 days of logbook data)
  bizdash report

  # Report March 2024 for two collaborators
  bizdash report --from 2024-03-01 --to 2024-03-31 --collaborator Anna --collaborator Bruno

  # Export the per-collaborator table
  bizdash export --mode summary --output ./riepilogo.xlsx

  # Start the local dashboard
  bizdash serve
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.bizdash.yaml, then ./.bizdash.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log source fetches and cache activity")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setupLogging(verbose)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".bizdash" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bizdash")
	}

	viper.SetEnvPrefix("BIZDASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: bizdash config create")
	}
}
