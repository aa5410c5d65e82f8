package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/web"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web interface",
	Long: `Start the browser interface and JSON API.

The page offers single-PDF and batch analysis. The same operations are
available as JSON under /api (answer, batch, invalidate, stats).

Examples:
  pdfanalysis serve
  pdfanalysis serve --addr :8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings, 127.0.0.1:8501)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	cfg := serverConfig
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	server, err := web.NewServer(analysisService, cfg)
	if err != nil {
		return err
	}

	for _, w := range startupWarnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}
	cmd.Printf("Serving on http://%s\n", displayAddr(cfg.Addr))
	return server.Run(cmd.Context())
}

// displayAddr turns a listen address into something a browser can open.
func displayAddr(addr string) string {
	if addr == "" {
		addr = domain.DefaultServerAddr
	}
	if addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
