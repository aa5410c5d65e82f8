package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
)

// withGlobalFlags restores the persistent flag values after the test.
func withGlobalFlags(t *testing.T) {
	t.Helper()
	prevDir, prevVerbose, prevFormat := configDir, verbose, logFormat
	prevNoConfig, prevValidate := noConfig, validateAI
	t.Cleanup(func() {
		configDir, verbose, logFormat = prevDir, prevVerbose, prevFormat
		noConfig, validateAI = prevNoConfig, prevValidate
		logger.SetVerbose(false)
		logger.SetFormat(logger.FormatText)
	})
}

func TestRootCmd_Commands(t *testing.T) {
	want := []string{"ask", "batch", "serve", "mcp", "settings", "tui", "version"}

	var got []string
	for _, c := range rootCmd.Commands() {
		got = append(got, c.Name())
	}
	for _, name := range want {
		assert.Contains(t, got, name)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	for _, name := range []string{"config-dir", "verbose", "log-format", "no-config", "validate-ai"} {
		assert.NotNil(t, flags.Lookup(name), "%s flag should exist", name)
	}
	assert.Equal(t, "v", flags.Lookup("verbose").Shorthand)
	assert.Equal(t, "text", flags.Lookup("log-format").DefValue)
}

func TestBootstrap_WiresServices(t *testing.T) {
	withGlobalFlags(t)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, cleanup := setupTestServices()
	defer cleanup()
	analysisService, settingsService = nil, nil

	configDir = t.TempDir()
	noConfig = true

	require.NoError(t, bootstrap(askCmd, nil))
	require.NotNil(t, application)
	assert.NotNil(t, analysisService)
	assert.NotNil(t, settingsService)
	assert.Equal(t, domain.DefaultServerAddr, serverConfig.Addr)
	// Both providers lack keys.
	assert.Len(t, startupWarnings, 2)

	require.NoError(t, shutdown(askCmd, nil))
	assert.Nil(t, application)
	assert.NoError(t, shutdown(askCmd, nil))
}

func TestBootstrap_SkipsWhenServicesSet(t *testing.T) {
	withGlobalFlags(t)
	svc, cleanup := setupTestServices()
	defer cleanup()

	require.NoError(t, bootstrap(askCmd, nil))
	assert.Nil(t, application)
	assert.Equal(t, svc.analysis, analysisService)
	assert.Equal(t, svc.settings, settingsService)
}

func TestBootstrap_SkipsAnnotatedCommands(t *testing.T) {
	withGlobalFlags(t)
	_, cleanup := setupTestServices()
	defer cleanup()
	analysisService, settingsService = nil, nil

	require.NoError(t, bootstrap(versionCmd, nil))
	assert.Nil(t, application)
	assert.Nil(t, analysisService)
}

func TestBootstrap_InvalidLogFormat(t *testing.T) {
	withGlobalFlags(t)
	logFormat = "xml"

	err := bootstrap(versionCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}
