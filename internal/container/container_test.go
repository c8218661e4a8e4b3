package container

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/swift-mt/internal/config"
	"fjacquet/swift-mt/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mt103 = "{1:F01DEUTDEFFAXXX0123456789}{2:I103CHASUS33AXXXN}{4:\n" +
	":20:FT21234567890\n" +
	":23B:CRED\n" +
	":32A:210315EUR1000,00\n" +
	":50K:/12345678\nJOHN DOE\n" +
	":59:/DE89370400440532013000\nJANE SMITH\n" +
	":71A:SHA\n" +
	"-}"

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Log.Level = "error"
	return cfg
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      func(t *testing.T) *config.Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil config",
			config:      func(*testing.T) *config.Config { return nil },
			expectError: true,
			errorMsg:    "configuration cannot be nil",
		},
		{
			name:   "default config",
			config: func(*testing.T) *config.Config { return testConfig() },
		},
		{
			name: "missing rules directory",
			config: func(t *testing.T) *config.Config {
				cfg := testConfig()
				cfg.Rules.Directory = filepath.Join(t.TempDir(), "missing")
				return cfg
			},
			expectError: true,
			errorMsg:    "failed to load rules",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainer(tt.config(t))
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c.GetLogger())
			assert.NotNil(t, c.GetConfig())
			assert.NotNil(t, c.GetRuleStore())
			assert.NotNil(t, c.GetReportGenerator())
			assert.NotNil(t, c.GetAggregator())
			assert.NoError(t, c.Close())
		})
	}
}

func TestContainer_GetParser(t *testing.T) {
	c, err := NewContainer(testConfig())
	require.NoError(t, err)

	auto, err := c.GetParser(parser.Auto)
	require.NoError(t, err)
	again, err := c.GetParser("")
	require.NoError(t, err)
	assert.Same(t, auto, again)

	forced, err := c.GetParser("103")
	require.NoError(t, err)
	assert.Equal(t, "103", forced.(*parser.SwiftParser).Options().MessageType)

	_, err = c.GetParser("999")
	assert.Error(t, err)
}

func TestContainer_NewParserUsesConfiguredRules(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yaml"),
		[]byte("mandatory_fields:\n  \"103\": [\"20\", \"23B\", \"32A\", \"50\", \"59\", \"71A\", \"70\"]\n"), 0600))

	cfg := testConfig()
	cfg.Rules.Directory = dir
	c, err := NewContainer(cfg)
	require.NoError(t, err)

	p, err := c.NewParser(parser.Auto, parser.Options{StopOnFirstError: true})
	require.NoError(t, err)
	msg, err := p.ParseString(mt103)
	require.NoError(t, err)

	report := p.Validate(msg)
	assert.Equal(t, []string{parser.CodeMandatoryField}, report.Codes())
	assert.Equal(t, "70", report.Violations[0].Field)
}

func TestContainer_CSVOptions(t *testing.T) {
	cfg := testConfig()
	cfg.CSV.Delimiter = ";"
	cfg.CSV.IncludeHeaders = false
	c, err := NewContainer(cfg)
	require.NoError(t, err)

	opts := c.CSVOptions()
	assert.Equal(t, ';', opts.Delimiter)
	assert.False(t, opts.IncludeHeaders)
}

func TestContainer_Collaborators(t *testing.T) {
	c, err := NewContainer(testConfig())
	require.NoError(t, err)
	p, err := c.GetParser(parser.Auto)
	require.NoError(t, err)

	assert.NotNil(t, c.NewBatchProcessor(p, true, false))

	server := c.NewAPIServer(p)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
