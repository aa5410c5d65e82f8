// Package cli implements the pdfanalysis command line.
package cli

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/web"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/app"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driving"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// Services used by the commands. They are wired by bootstrap unless already set.
var (
	analysisService driving.AnalysisService
	settingsService driving.SettingsService
	serverConfig    web.Config
	startupWarnings []string
)

// application is the wired App owned by this process, if any.
var application *app.App

// Global flags.
var (
	configDir  string
	verbose    bool
	logFormat  string
	noConfig   bool
	validateAI bool
)

// annotationNoServices marks commands that run without the analysis stack.
const annotationNoServices = "pdfanalysis/no-services"

var rootCmd = &cobra.Command{
	Use:   "pdfanalysis",
	Short: "Ask questions about PDF documents",
	Long: `pdfanalysis fetches PDF documents, builds a semantic index for each one
and answers questions about them with Claude.

Indexes and answers are cached for the lifetime of the process, so repeated
questions against the same document are served without re-fetching.

API keys are read from the config file or from the environment
(ANTHROPIC_API_KEY, OPENAI_API_KEY). A .env file in the working directory
is loaded when present.`,
	SilenceUsage:       true,
	PersistentPreRunE:  bootstrap,
	PersistentPostRunE: shutdown,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.pdfanalysis)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print debug logs")
	flags.StringVar(&logFormat, "log-format", string(logger.FormatText), "log format: text or json")
	flags.BoolVar(&noConfig, "no-config", false, "ignore the config file; use defaults and environment only")
	flags.BoolVar(&validateAI, "validate-ai", false, "ping AI providers at start-up")
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which commands observe for cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	format, err := logger.ParseFormat(logFormat)
	if err != nil {
		return err
	}
	logger.SetFormat(format)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Load .env: %v", err)
	}

	if _, ok := cmd.Annotations[annotationNoServices]; ok {
		return nil
	}
	if analysisService != nil && settingsService != nil {
		return nil
	}

	a, err := app.New(app.Options{
		ConfigDir:  configDir,
		NoConfig:   noConfig,
		ValidateAI: validateAI,
	})
	if err != nil {
		return err
	}

	application = a
	analysisService = a.Analysis
	settingsService = a.Settings
	startupWarnings = a.Warnings
	serverConfig = web.Config{
		Addr:      a.AppSettings.Server.Addr,
		RateLimit: a.AppSettings.Server.RateLimit,
		Burst:     a.AppSettings.Server.Burst,
	}
	return nil
}

func shutdown(_ *cobra.Command, _ []string) error {
	if application == nil {
		return nil
	}
	err := application.Close()
	application = nil
	return err
}
