package validate_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"fjacquet/swift-mt/cmd/root"
	"fjacquet/swift-mt/cmd/validate"
	"fjacquet/swift-mt/internal/config"
	"fjacquet/swift-mt/internal/container"
	"fjacquet/swift-mt/internal/parser"
	"fjacquet/swift-mt/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const mt103 = "{1:F01DEUTDEFFAXXX0123456789}{2:I103CHASUS33AXXXN}{4:\n" +
	":20:FT21234567890\n" +
	":23B:CRED\n" +
	":32A:210315EUR1000,00\n" +
	":50K:/12345678\nJOHN DOE\n" +
	":59:/DE89370400440532013000\nJANE SMITH\n" +
	":71A:SHA\n" +
	"-}"

const mt910 = "{1:F01DEUTDEFFAXXX0123456789}{2:I910CHASUS33AXXXN}{4:\n" +
	":20:REF\n" +
	":21:RELATED\n" +
	":25:12345678\n" +
	":32A:210315EUR100,00\n" +
	"-}"

func setup(t *testing.T) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Log.Level = "error"
	c, err := container.NewContainer(cfg)
	require.NoError(t, err)
	root.SetContainer(c)
	t.Cleanup(func() {
		root.SetContainer(nil)
		root.SharedFlags = root.CommonFlags{}
		validate.MessageType = string(parser.Auto)
		validate.StopOnFirst = false
		validate.Format = validate.FormatText
	})
}

func run(t *testing.T, stdin string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	validate.Cmd.SetIn(strings.NewReader(stdin))
	validate.Cmd.SetOut(&out)
	err := validate.Cmd.RunE(validate.Cmd, nil)
	return out.String(), err
}

func TestValidateCommand_Metadata(t *testing.T) {
	assert.Equal(t, "validate", validate.Cmd.Use)
	assert.Contains(t, validate.Cmd.Short, "network rules")
	for _, name := range []string{"type", "stop-on-first", "format"} {
		assert.NotNil(t, validate.Cmd.Flags().Lookup(name), name)
	}
}

func TestValidateCommand_Text(t *testing.T) {
	setup(t)

	out, err := run(t, mt103)
	require.NoError(t, err)
	assert.Equal(t, "MT103 FT21234567890: valid\n", out)

	out, err = run(t, mt103+mt910)
	require.Error(t, err)
	assert.True(t, errors.Is(err, parsererror.ErrRuleViolation))
	assert.Contains(t, err.Error(), "1 of 2 messages")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "MT910 REF: 1 violation(s)", lines[1])
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[2]), "C06"))
}

func TestValidateCommand_JSON(t *testing.T) {
	setup(t)
	validate.Format = "JSON"

	out, err := run(t, mt103+mt910)
	require.Error(t, err)

	var result validate.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Valid)
	require.Len(t, result.Reports, 2)
	assert.Equal(t, []string{"C06"}, result.Reports[1].Codes())
	assert.Equal(t, 1, result.Summary.ByCode["C06"])
}

func TestValidateCommand_YAML(t *testing.T) {
	setup(t)
	validate.Format = validate.FormatYAML

	out, err := run(t, mt103)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, true, decoded["valid"])
	assert.Len(t, decoded["reports"], 1)
}

func TestValidateCommand_Errors(t *testing.T) {
	setup(t)

	validate.Format = "xml"
	_, err := run(t, mt103)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")

	validate.Format = validate.FormatText
	_, err = run(t, "{1:F01DEUTDEFFAXXX0123456789}{2:I103")
	require.Error(t, err)
	assert.False(t, errors.Is(err, parsererror.ErrRuleViolation))
}
