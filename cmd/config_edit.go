package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"bizdash/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active bizdash config file in $VISUAL, $EDITOR or vi (first one set wins).

A missing config file is created from the workbook template first. When the editor exits
the file is validated and the configured source is summarized. An invalid file is kept
as written so it can be fixed with another edit.`,
	Example: `
  # Edit active config
  bizdash config edit

  # Edit with an explicit editor
  EDITOR="code --wait" bizdash config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configTargetPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		created, err := writeExampleConfig(path, config.SourceWorkbook, false)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No config file found. Created workbook example at: %s\n", path)
		}

		argv := editorArgv(os.Getenv("VISUAL"), os.Getenv("EDITOR"))
		editor := exec.Command(argv[0], append(argv[1:], path)...)
		editor.Stdin = os.Stdin
		editor.Stdout = os.Stdout
		editor.Stderr = os.Stderr
		if err := editor.Run(); err != nil {
			return fmt.Errorf("run editor %s: %w", argv[0], err)
		}

		cfg, err := validateConfigFile(path)
		if err != nil {
			return err
		}
		fmt.Printf("Configuration saved and validated: %s\n", path)
		fmt.Printf("Source: %s\n", describeSource(cfg.Source))
		return nil
	},
}

// configTargetPath picks the config file a command writes: the --configFile
// flag, then the file viper loaded, then $HOME/.bizdash.yaml.
func configTargetPath(flagPath, activePath string) (string, error) {
	for _, candidate := range []string{flagPath, activePath} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".bizdash.yaml"), nil
}

// writeExampleConfig writes the template for kind to path. An existing file
// is left untouched unless overwrite is set; the result reports a write.
func writeExampleConfig(path, kind string, overwrite bool) (bool, error) {
	content, err := config.ExampleYAMLFor(kind)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return false, fmt.Errorf("config path is a directory: %s", path)
	case err == nil && !overwrite:
		return false, nil
	case err != nil && !os.IsNotExist(err):
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return false, fmt.Errorf("write example config: %w", err)
	}
	return true, nil
}

func validateConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return nil, fmt.Errorf("config %s is invalid: %w", path, err)
	}
	return cfg, nil
}

// editorArgv splits the first non-blank editor setting into program and
// arguments, falling back to vi.
func editorArgv(visual, editor string) []string {
	for _, candidate := range []string{visual, editor} {
		if argv := strings.Fields(candidate); len(argv) > 0 {
			return argv
		}
	}
	return []string{"vi"}
}

// describeSource is a one-line summary of where bizdash reads its sheets.
func describeSource(src config.SourceConfig) string {
	switch src.Kind {
	case config.SourceSheets:
		auth := "oauth refresh token"
		if strings.TrimSpace(src.ServiceAccountPath) != "" {
			auth = "service account " + src.ServiceAccountPath
		}
		return fmt.Sprintf("Google spreadsheet %s (%s)", src.SpreadsheetID, auth)
	case config.SourceCSV:
		return fmt.Sprintf("CSV directory %s", src.Path)
	default:
		return fmt.Sprintf("workbook %s", src.Path)
	}
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
