package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for PDF analysis.

The TUI asks questions about a single PDF or a batch of PDFs, shows the
answers, and edits the AI provider settings.

Controls:
  ↑/k, ↓/j - Navigate menus and results
  Tab      - Switch input field
  Ctrl+S   - Analyse
  Ctrl+T   - Toggle answer cache
  n        - New analysis
  Esc      - Back
  q        - Quit (from the menu)`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	app, err := tui.NewApp(tui.NewPorts(analysisService, settingsService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	for _, w := range startupWarnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
