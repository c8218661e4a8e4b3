package common

import (
	"path/filepath"
	"testing"

	"fjacquet/swift-mt/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStatementRowsToXLSX(t *testing.T) {
	s := parseStatement(t, mt940)
	out := filepath.Join(t.TempDir(), "statement.xlsx")

	require.NoError(t, WriteStatementRowsToXLSX(s.Rows, out, logging.NewMockLogger()))

	rows, err := ReadStatementRowsXLSX(out)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, xlsxColumns, rows[0])
	assert.Equal(t, "DE89370400440532013000", rows[1][0])
	assert.Equal(t, "100", rows[1][7])
	assert.Equal(t, "-50.5", rows[2][7])
	assert.Equal(t, "SALARY MARCH", rows[1][13])
}
