package config

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/swift-mt/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.False(t, config.Parser.StrictValidation)
	assert.False(t, config.Parser.StopOnFirstError)
	assert.Empty(t, config.Rules.Directory)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, "2006-01-02", config.CSV.DateFormat)
	assert.True(t, config.CSV.IncludeHeaders)
	assert.Equal(t, 4, config.Batch.Workers)
	assert.Contains(t, config.Batch.Extensions, ".mt")
	assert.Equal(t, ":8080", config.Server.Address)
	assert.Equal(t, int64(1<<20), config.Server.MaxBodyBytes)
	assert.Equal(t, "yaml", config.Report.Format)

	assert.Equal(t, config, DefaultConfig())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	t.Setenv("SWIFTMT_LOG_LEVEL", "debug")
	t.Setenv("SWIFTMT_LOG_FORMAT", "json")
	t.Setenv("SWIFTMT_PARSER_STRICT_VALIDATION", "true")
	t.Setenv("SWIFTMT_CSV_DELIMITER", ";")
	t.Setenv("SWIFTMT_BATCH_WORKERS", "8")
	t.Setenv("SWIFTMT_RULES_DIR", "/etc/swift-mt/rules")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.True(t, config.Parser.StrictValidation)
	assert.Equal(t, ";", config.CSV.Delimiter)
	assert.Equal(t, 8, config.Batch.Workers)
	assert.Equal(t, "/etc/swift-mt/rules", config.Rules.Directory)
}

func TestInitializeConfig_ConfigFileAndPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	dir := t.TempDir()
	content := `
log:
  level: "warn"
  format: "json"
parser:
  stop_on_first_error: true
csv:
  delimiter: "|"
server:
  address: "127.0.0.1:9090"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	chdir(t, dir)
	t.Setenv("SWIFTMT_LOG_LEVEL", "error")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.True(t, config.Parser.StopOnFirstError)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, "127.0.0.1:9090", config.Server.Address)
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{name: "invalid log level", modifyConfig: func(c *Config) { c.Log.Level = "loud" }, expectError: "invalid log level"},
		{name: "invalid log format", modifyConfig: func(c *Config) { c.Log.Format = "xml" }, expectError: "invalid log format"},
		{name: "invalid CSV delimiter", modifyConfig: func(c *Config) { c.CSV.Delimiter = ";;" }, expectError: "CSV delimiter must be a single character"},
		{name: "no workers", modifyConfig: func(c *Config) { c.Batch.Workers = 0 }, expectError: "batch.workers must be between 1 and 256"},
		{name: "body limit", modifyConfig: func(c *Config) { c.Server.MaxBodyBytes = 0 }, expectError: "server.max_body_bytes must be positive"},
		{name: "report format", modifyConfig: func(c *Config) { c.Report.Format = "csv" }, expectError: "invalid report format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			require.NoError(t, validateConfig(config))
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := DefaultConfig()
	config.Log.Level = "DEBUG"
	config.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(config)
	_, ok := logger.(*logging.LogrusAdapter)
	assert.True(t, ok)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SWIFTMT_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("SWIFTMT_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("SWIFTMT_TEST_MISSING", "fallback"))
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(original))
	})
}

func clearTestEnvVars(t *testing.T) {
	for _, key := range []string{
		"SWIFTMT_LOG_LEVEL",
		"SWIFTMT_LOG_FORMAT",
		"SWIFTMT_PARSER_STRICT_VALIDATION",
		"SWIFTMT_PARSER_STOP_ON_FIRST_ERROR",
		"SWIFTMT_RULES_DIRECTORY",
		"SWIFTMT_RULES_DIR",
		"SWIFTMT_CSV_DELIMITER",
		"SWIFTMT_CSV_DATE_FORMAT",
		"SWIFTMT_BATCH_WORKERS",
		"SWIFTMT_SERVER_ADDRESS",
		"SWIFTMT_REPORT_FORMAT",
	} {
		// t.Setenv registers the restore; Unsetenv then hides the variable.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}
