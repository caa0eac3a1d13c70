package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"bizdash/config"
	"bizdash/importer"
	"bizdash/source"
	"bizdash/web"

	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveFrom   string
	serveTo     string
	serveNoOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local dashboard web UI",
	Long: `Start a local HTTP server with the dashboard page and its JSON API.

The snapshot is loaded on the first request and kept in memory; POST /api/reload (or the
reload button) fetches the source again, bypassing the cache.`,
	Example: `
  # Start local server on the configured port
  bizdash serve

  # Start on a custom port and open March 2024
  bizdash serve --port 9090 --from 2024-03-01 --to 2024-03-31
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		initial, err := parseServeInitialPeriod(serveFrom, serveTo)
		if err != nil {
			return err
		}

		src, closeSource, err := openSource(cfg, false)
		if err != nil {
			return err
		}
		defer closeSource()

		loader := func(ctx context.Context, refresh bool) (*importer.Snapshot, error) {
			if refresh {
				return source.Reload(ctx, src)
			}
			return source.Load(ctx, src)
		}

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           withServeInitialPeriod(web.NewServer(loader), initial),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", port)
		fmt.Printf("Listening on %s\n", listenURL)
		if !serveNoOpen {
			target := listenURL + "/"
			if initial != "" {
				target += "?" + initial
			}
			if openErr := openURLInBrowser(target); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local web server (default from server.port)")
	serveCmd.Flags().StringVar(&serveFrom, "from", "", "Initial period start, YYYY-MM-DD or DD/MM/YYYY")
	serveCmd.Flags().StringVar(&serveTo, "to", "", "Initial period end, YYYY-MM-DD or DD/MM/YYYY")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

// parseServeInitialPeriod returns the dashboard query for the initial
// period, or "" when neither bound is set.
func parseServeInitialPeriod(fromValue, toValue string) (string, error) {
	values := url.Values{}

	parse := func(flag, raw string) error {
		if strings.TrimSpace(raw) == "" {
			return nil
		}
		parsed, err := parseDateFlag(raw)
		if err != nil {
			return fmt.Errorf("invalid --%s value: %w", flag, err)
		}
		values.Set(flag, parsed.Format("2006-01-02"))
		return nil
	}

	if err := parse("from", fromValue); err != nil {
		return "", err
	}
	if err := parse("to", toValue); err != nil {
		return "", err
	}
	if from, to := values.Get("from"), values.Get("to"); from != "" && to != "" && from > to {
		return "", fmt.Errorf("invalid range: --from must be <= --to")
	}
	return values.Encode(), nil
}

func withServeInitialPeriod(next http.Handler, query string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/" && r.URL.RawQuery == "" && query != "" {
			http.Redirect(w, r, "/?"+query, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
