package convert_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/swift-mt/cmd/convert"
	"fjacquet/swift-mt/cmd/root"
	"fjacquet/swift-mt/internal/config"
	"fjacquet/swift-mt/internal/container"
	"fjacquet/swift-mt/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const mt103 = "{1:F01DEUTDEFFAXXX0123456789}{2:I103CHASUS33AXXXN}{4:\n" +
	":20:FT21234567890\n" +
	":23B:CRED\n" +
	":32A:210315EUR1000,00\n" +
	":50K:/12345678\nJOHN DOE\n" +
	":59:/DE89370400440532013000\nJANE SMITH\n" +
	":71A:SHA\n" +
	"-}"

const mt940 = "{1:F01DEUTDEFFAXXX0123456789}{2:I940CHASUS33AXXXN}{4:\n" +
	":20:STMT0315\n" +
	":25:12345678\n" +
	":28C:42/1\n" +
	":60F:C210315EUR1000,00\n" +
	":61:2103150316C100,00NTRFREF1//BANK1\n" +
	":86:SALARY\n" +
	":61:210316D50,5NCHGREF2\n" +
	":62F:C210316EUR1049,50\n" +
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
		convert.To = convert.ToCSV
		convert.MessageType = string(parser.Auto)
	})
}

func run(t *testing.T, stdin string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	convert.Cmd.SetIn(strings.NewReader(stdin))
	convert.Cmd.SetOut(&out)
	err := convert.Cmd.RunE(convert.Cmd, nil)
	return out.String(), err
}

func TestConvertCommand_Metadata(t *testing.T) {
	assert.Equal(t, "convert", convert.Cmd.Use)
	assert.Contains(t, convert.Cmd.Long, "Example")
	assert.NotNil(t, convert.Cmd.Flags().Lookup("to"))
	assert.NotNil(t, convert.Cmd.Flags().Lookup("type"))
}

func TestConvertCommand_CSVFileToFile(t *testing.T) {
	setup(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "statement.fin")
	require.NoError(t, os.WriteFile(in, []byte(mt940), 0600))
	root.SharedFlags.Input = in
	root.SharedFlags.Output = filepath.Join(dir, "out", "statement.csv")
	root.SharedFlags.Validate = true

	_, err := run(t, "")
	require.NoError(t, err)

	data, err := os.ReadFile(root.SharedFlags.Output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Account,"))
	assert.Contains(t, lines[1], "REF1")
}

func TestConvertCommand_CSVStdout(t *testing.T) {
	setup(t)

	out, err := run(t, mt940)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "REF2")

	_, err = run(t, mt103)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a statement message")
}

func TestConvertCommand_XLSX(t *testing.T) {
	setup(t)
	convert.To = convert.ToXLSX
	root.SharedFlags.Output = filepath.Join(t.TempDir(), "statement.xlsx")

	_, err := run(t, mt940)
	require.NoError(t, err)

	f, err := excelize.OpenFile(root.SharedFlags.Output)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Statement")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestConvertCommand_JSONRoundTrip(t *testing.T) {
	setup(t)

	convert.To = convert.ToJSON
	single, err := run(t, mt103)
	require.NoError(t, err)
	many, err := run(t, mt103+"\n"+mt940)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(many), "["))

	convert.To = convert.ToMT
	out, err := run(t, single)
	require.NoError(t, err)
	assert.Equal(t, mt103, out)

	out, err = run(t, many)
	require.NoError(t, err)
	assert.Equal(t, mt103+"\n"+mt940, out)

	_, err = run(t, "[{")
	assert.Error(t, err)
}

func TestConvertCommand_UnsupportedTarget(t *testing.T) {
	setup(t)
	convert.To = "pdf"

	_, err := run(t, mt940)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported target format")
}
