package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/swift-mt/internal/common"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseParser(t *testing.T) {
	t.Run("with provided logger", func(t *testing.T) {
		mockLog := logging.NewMockLogger()
		baseParser := NewBaseParser(mockLog)
		assert.Equal(t, mockLog, baseParser.logger)
	})

	t.Run("with nil logger uses default", func(t *testing.T) {
		baseParser := NewBaseParser(nil)
		assert.NotNil(t, baseParser.GetLogger())
	})
}

func TestBaseParser_SetLogger(t *testing.T) {
	baseParser := NewBaseParser(nil)
	mockLog := logging.NewMockLogger()

	baseParser.SetLogger(mockLog)
	assert.Equal(t, mockLog, baseParser.logger)

	baseParser.SetLogger(nil)
	assert.Equal(t, mockLog, baseParser.logger, "nil is ignored")
}

func TestBaseParser_WriteToCSV(t *testing.T) {
	csvFile := filepath.Join(t.TempDir(), "rows.csv")
	mockLog := logging.NewMockLogger()
	baseParser := NewBaseParser(mockLog)

	row, err := models.NewStatementRowBuilder("").
		WithStatement("940", "STMT", "12345678", "1/1").
		WithValueDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
		WithAmount(decimal.RequireFromString("100.5"), "C", "CHF").
		WithReferences("NTRF", "test-1", "").
		Build()
	require.NoError(t, err)

	require.NoError(t, baseParser.WriteToCSV([]models.StatementRow{row}, csvFile, common.DefaultCSVOptions()))
	assert.True(t, mockLog.HasEntry("INFO", "Writing statement rows to CSV using common writer"))

	content, err := os.ReadFile(csvFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "test-1")
	assert.Contains(t, string(content), "100.50")

	assert.Error(t, baseParser.WriteToCSV(nil, csvFile, common.DefaultCSVOptions()))
}

func TestBaseParser_InterfaceCompliance(t *testing.T) {
	var _ LoggerConfigurable = &BaseParser{}
	var _ FullParser = &SwiftParser{}
}
