package cmd

import (
	"errors"
	"fmt"
	"os"

	"bizdash/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configDeleteYes       bool
	configDeleteWithCache bool
)

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by bizdash.

The command asks for a "Y" confirmation unless --yes is given. With --with-cache the
fetch cache database named by the config is removed as well. The source data is never touched.`,
	Example: `
  # Delete active config
  bizdash config delete

  # Delete a custom config and its cache without prompting
  bizdash --configFile ./custom-bizdash.yaml config delete --with-cache --yes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.ConfigFileUsed()
		if path == "" {
			return fmt.Errorf("no configuration file found")
		}

		var cachePath string
		if configDeleteWithCache {
			cfg, err := config.LoadAndValidate()
			if err != nil {
				return fmt.Errorf("read cache path from %s: %w", path, err)
			}
			cachePath = cfg.Cache.Path
		}

		if !configDeleteYes {
			question := fmt.Sprintf("Delete configuration file %q?", path)
			if cachePath != "" {
				question = fmt.Sprintf("Delete configuration file %q and cache %q?", path, cachePath)
			}
			confirmed, err := confirmPrompt(promptInput, promptOutput, question)
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("config delete aborted: confirmation was not 'Y'")
			}
		}

		removed, err := deleteConfigFiles(path, cachePath)
		if err != nil {
			return err
		}
		for _, file := range removed {
			fmt.Printf("Deleted: %s\n", file)
		}
		return nil
	},
}

// deleteConfigFiles removes the config file and, when cachePath is set, the
// cache database. A cache that was never created is not an error.
func deleteConfigFiles(configPath, cachePath string) ([]string, error) {
	if err := os.Remove(configPath); err != nil {
		return nil, fmt.Errorf("delete configuration file: %w", err)
	}
	removed := []string{configPath}

	if cachePath == "" {
		return removed, nil
	}
	if err := os.Remove(cachePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return removed, nil
		}
		return removed, fmt.Errorf("delete cache %s: %w", cachePath, err)
	}
	return append(removed, cachePath), nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)

	configDeleteCmd.Flags().BoolVarP(&configDeleteYes, "yes", "y", false, "Skip the confirmation prompt")
	configDeleteCmd.Flags().BoolVar(&configDeleteWithCache, "with-cache", false, "Also delete the fetch cache database")
}
