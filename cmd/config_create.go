package cmd

import (
	"fmt"

	"bizdash/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configCreateKind  string
	configCreateForce bool
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from an example template.",
	Long: `Create a configuration file prefilled for one source kind:
- workbook: a single xlsx file holding the four sheets
- csv: a directory with one <sheet>.csv file per sheet
- sheets: a Google spreadsheet read through the Sheets API

An existing file is kept unless --force is given.`,
	Example: `
  # Create a workbook config at $HOME/.bizdash.yaml
  bizdash config create

  # Start from the Google Sheets template
  bizdash config create --kind sheets

  # Replace an existing custom config
  bizdash --configFile ./custom-bizdash.yaml config create --kind csv --force
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return createConfig(configCreateKind, configCreateForce)
	},
}

func createConfig(kind string, force bool) error {
	path, err := configTargetPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	written, err := writeExampleConfig(path, kind, force)
	if err != nil {
		return err
	}
	if !written {
		fmt.Printf("Config file already exists at: %s (use --force to replace it)\n", path)
		return nil
	}

	fmt.Printf("New %s config file created at: %s\n", kind, path)
	if kind == config.SourceSheets {
		fmt.Println("Set source.spreadsheet_id and the credentials before the first import.")
	}
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().StringVar(&configCreateKind, "kind", config.SourceWorkbook, "Source kind for the template: workbook, csv or sheets")
	configCreateCmd.Flags().BoolVar(&configCreateForce, "force", false, "Overwrite an existing config file")
}
