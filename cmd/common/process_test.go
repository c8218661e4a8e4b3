package common_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/swift-mt/cmd/common"
	csvutil "fjacquet/swift-mt/internal/common"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
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

// MockConverter implements common.Converter for testing
type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) ValidateFormat(file string) (bool, error) {
	args := m.Called(file)
	return args.Bool(0), args.Error(1)
}

func (m *MockConverter) ConvertToCSV(inputFile, outputFile, dateFormat string, opts csvutil.CSVOptions) error {
	args := m.Called(inputFile, outputFile, dateFormat, opts)
	return args.Error(0)
}

func TestProcessFile(t *testing.T) {
	opts := csvutil.DefaultCSVOptions()

	tests := []struct {
		name      string
		validate  bool
		setup     func(m *MockConverter)
		wantErr   string
		converted bool
	}{
		{
			name:     "without validation",
			validate: false,
			setup: func(m *MockConverter) {
				m.On("ConvertToCSV", "in.mt", "out.csv", "2006-01-02", opts).Return(nil)
			},
			converted: true,
		},
		{
			name:     "valid format",
			validate: true,
			setup: func(m *MockConverter) {
				m.On("ValidateFormat", "in.mt").Return(true, nil)
				m.On("ConvertToCSV", "in.mt", "out.csv", "2006-01-02", opts).Return(nil)
			},
			converted: true,
		},
		{
			name:     "invalid format",
			validate: true,
			setup: func(m *MockConverter) {
				m.On("ValidateFormat", "in.mt").Return(false, nil)
			},
			wantErr: "not in a valid format",
		},
		{
			name:     "validation error",
			validate: true,
			setup: func(m *MockConverter) {
				m.On("ValidateFormat", "in.mt").Return(false, errors.New("boom"))
			},
			wantErr: "error validating file",
		},
		{
			name:     "conversion error",
			validate: false,
			setup: func(m *MockConverter) {
				m.On("ConvertToCSV", "in.mt", "out.csv", "2006-01-02", opts).Return(errors.New("boom"))
			},
			wantErr: "error converting to CSV",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockConverter{}
			tt.setup(m)
			logger := logging.NewMockLogger()

			err := common.ProcessFile(m, "in.mt", "out.csv", tt.validate, "2006-01-02", opts, logger)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.converted, logger.HasEntry("INFO", "Conversion completed successfully!"))
			m.AssertExpectations(t)
		})
	}
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msg.mt")
	require.NoError(t, os.WriteFile(path, []byte(mt103), 0600))

	got, err := common.ReadInput(path, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, mt103, got)

	for _, p := range []string{"", common.Stdio} {
		got, err = common.ReadInput(p, strings.NewReader("from stdin"))
		require.NoError(t, err)
		assert.Equal(t, "from stdin", got)
	}

	_, err = common.ReadInput(filepath.Join(t.TempDir(), "missing.mt"), nil)
	assert.Error(t, err)
}

func TestWriteOutput(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, common.WriteOutput("", []byte("hello"), &stdout))
	assert.Equal(t, "hello", stdout.String())

	path := filepath.Join(t.TempDir(), "nested", "out.json")
	require.NoError(t, common.WriteOutput(path, []byte("{}"), &stdout))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
	assert.Equal(t, "hello", stdout.String())
}

func TestParseMessages(t *testing.T) {
	p, err := parser.GetParser(parser.Auto, logging.NewMockLogger())
	require.NoError(t, err)

	msgs, err := common.ParseMessages(p, mt103+"\n"+mt103)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "103", msgs[0].MessageType)

	_, err = common.ParseMessages(p, "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SWIFT MT message")

	broken := strings.Replace(mt103, ":20:FT21234567890\n", "", 1)
	_, err = common.ParseMessages(p, mt103+broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message 2")
}
