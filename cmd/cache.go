package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"bizdash/config"
	"bizdash/storage"

	"github.com/spf13/cobra"
)

var (
	promptInput  io.Reader = os.Stdin
	promptOutput io.Writer = os.Stdout
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the source fetch cache",
	Long: `The fetch cache stores raw sheet cells per source in SQLite so repeated runs within the
configured TTL do not contact the source again. It never replaces the source.`,
	Example: `
  # List cached fetches
  bizdash cache list

  # Clear every cached fetch (requires interactive confirmation)
  bizdash cache clear
`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached fetches",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		cache, err := storage.OpenSQLite(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer cache.Close()

		entries, err := cache.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("Cache is empty.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSOURCE\tFETCHED AT\tROWS")
		for _, entry := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", entry.ID, entry.SourceKey, entry.FetchedAt.Local().Format("2006-01-02 15:04:05"), entry.Rows)
		}
		return tw.Flush()
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached fetch",
	Long: `Destructive cache cleanup command.

Before deletion, an interactive security prompt requires typing exactly "Y".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfg.Cache.Path); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("cache file not found: %s", cfg.Cache.Path)
		}

		question := fmt.Sprintf("Clear every cached fetch in %q?", cfg.Cache.Path)
		confirmed, err := confirmPrompt(promptInput, promptOutput, question)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("cache clear aborted: confirmation was not 'Y'")
		}

		removed, err := clearCache(cfg.Cache.Path)
		if err != nil {
			return err
		}
		fmt.Printf("Cleared cache %s. Fetches removed: %d\n", cfg.Cache.Path, removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// confirmPrompt asks question and reports whether the answer is exactly "Y".
func confirmPrompt(input io.Reader, output io.Writer, question string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "%s Type Y to confirm: ", question); err != nil {
		return false, fmt.Errorf("write confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func clearCache(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("cache file not found: %s", path)
		}
		return 0, fmt.Errorf("stat cache file: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("cache path is a directory: %s", path)
	}

	cache, err := storage.OpenSQLite(path)
	if err != nil {
		return 0, err
	}
	defer cache.Close()
	return cache.Clear()
}
