package batch

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cryptoRandIntn returns a random int in [0, n) using crypto/rand
func cryptoRandIntn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(result.Int64())
}

func day(d int) time.Time {
	return time.Date(2021, 3, d, 0, 0, 0, 0, time.UTC)
}

func stmtRow(d int, amount, ref string) models.StatementRow {
	return models.StatementRow{
		Date:              day(d),
		SignedAmount:      decimal.RequireFromString(amount),
		CustomerReference: ref,
	}
}

func TestDateRange_String(t *testing.T) {
	tests := []struct {
		name     string
		dr       DateRange
		expected string
	}{
		{name: "valid date range", dr: DateRange{Start: day(1), End: day(31)}, expected: "2021-03-01_2021-03-31"},
		{name: "zero dates", dr: DateRange{}, expected: ""},
		{name: "open end", dr: DateRange{Start: day(1)}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dr.String())
		})
	}
}

func TestDateRange_Merge(t *testing.T) {
	tests := []struct {
		name     string
		dr1      DateRange
		dr2      DateRange
		expected DateRange
	}{
		{
			name:     "overlapping ranges",
			dr1:      DateRange{Start: day(1), End: day(20)},
			dr2:      DateRange{Start: day(15), End: day(30)},
			expected: DateRange{Start: day(1), End: day(30)},
		},
		{
			name:     "one range is zero",
			dr1:      DateRange{},
			dr2:      DateRange{Start: day(5), End: day(6)},
			expected: DateRange{Start: day(5), End: day(6)},
		},
		{
			name:     "other range is zero",
			dr1:      DateRange{Start: day(5), End: day(6)},
			dr2:      DateRange{},
			expected: DateRange{Start: day(5), End: day(6)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dr1.Merge(tt.dr2))
		})
	}
}

func TestBatchAggregator_GroupByAccount(t *testing.T) {
	logger := logging.NewMockLogger()
	aggregator := NewBatchAggregator(logger)

	files := []FileResult{
		{File: "/in/b.mt", Statements: []*models.Statement{
			{Account: "/22222222", Rows: []models.StatementRow{stmtRow(10, "5", "R1")}},
		}},
		{File: "/in/a1.mt", Statements: []*models.Statement{
			{Account: "11111111", Rows: []models.StatementRow{stmtRow(3, "1", "R2")}},
			{Account: "11111111", Rows: []models.StatementRow{stmtRow(4, "2", "R3")}},
		}},
		{File: "/in/a2.mt", Statements: []*models.Statement{
			{Account: "11111111", Rows: []models.StatementRow{stmtRow(1, "3", "R4")}},
		}},
		{File: "/in/broken.mt", Err: errors.New("bad"), Statements: []*models.Statement{{Account: "33333333"}}},
		{File: "/in/noaccount.mt", Statements: []*models.Statement{{Rows: []models.StatementRow{stmtRow(2, "1", "R5")}}}},
	}

	groups := aggregator.GroupByAccount(files)
	require.Len(t, groups, 3)

	assert.Equal(t, "11111111", groups[0].AccountID)
	assert.Equal(t, []string{"/in/a1.mt", "/in/a2.mt"}, groups[0].Files)
	assert.Len(t, groups[0].Statements, 3)
	assert.Equal(t, DateRange{Start: day(1), End: day(4)}, groups[0].DateRange)

	assert.Equal(t, "22222222", groups[1].AccountID)
	assert.Equal(t, "content", groups[1].Source)

	assert.Equal(t, "noaccount", groups[2].AccountID)
	assert.Equal(t, "filename", groups[2].Source)

	assert.True(t, logger.HasEntry("INFO", "Grouped statements into account groups"))
}

func TestBatchAggregator_AggregateRows(t *testing.T) {
	logger := logging.NewMockLogger()
	aggregator := NewBatchAggregator(logger)

	group := FileGroup{
		AccountID: "11111111",
		Files:     []string{"/in/a.mt"},
		Statements: []*models.Statement{
			{Rows: []models.StatementRow{stmtRow(5, "10", "LATE"), stmtRow(2, "-4", "DUP")}},
			{Rows: []models.StatementRow{stmtRow(2, "-4", "dup"), stmtRow(2, "-9", "BIG")}},
		},
	}

	rows := aggregator.AggregateRows(group)
	require.Len(t, rows, 4)
	refs := make([]string, len(rows))
	for i, r := range rows {
		refs[i] = r.CustomerReference
	}
	assert.Equal(t, []string{"BIG", "DUP", "dup", "LATE"}, refs)
	assert.True(t, logger.HasEntry("WARN", "Potential duplicate statement line"))
	assert.True(t, logger.HasEntry("WARN", "Found potential duplicate statement lines"))
}

func TestChronologicalRowOrdering(t *testing.T) {
	aggregator := NewBatchAggregator(logging.NewMockLogger())

	for i := 0; i < 20; i++ {
		t.Run(fmt.Sprintf("iteration_%d", i), func(t *testing.T) {
			rows := make([]models.StatementRow, cryptoRandIntn(40)+10)
			for j := range rows {
				rows[j] = stmtRow(cryptoRandIntn(28)+1, fmt.Sprintf("%d.%02d", cryptoRandIntn(1000)-500, cryptoRandIntn(100)), "")
			}

			aggregator.sortRowsChronologically(rows)

			for j := 1; j < len(rows); j++ {
				prev, curr := rows[j-1], rows[j]
				assert.False(t, curr.Date.Before(prev.Date))
				if prev.Date.Equal(curr.Date) {
					assert.True(t, prev.SignedAmount.LessThanOrEqual(curr.SignedAmount))
				}
			}
		})
	}
}

func TestBatchAggregator_GenerateOutputFilename(t *testing.T) {
	aggregator := NewBatchAggregator(logging.NewMockLogger())

	tests := []struct {
		name      string
		accountID string
		dateRange DateRange
		ext       string
		expected  string
	}{
		{name: "with date range", accountID: "12345678", dateRange: DateRange{Start: day(1), End: day(31)}, ext: "csv", expected: "12345678_2021-03-01_2021-03-31.csv"},
		{name: "without date range", accountID: "12345678", ext: ".xlsx", expected: "12345678.xlsx"},
		{name: "with unsafe characters", accountID: "account/with\\unsafe:chars", ext: "csv", expected: "account_with_unsafe_chars.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, aggregator.GenerateOutputFilename(tt.accountID, tt.dateRange, tt.ext))
		})
	}
}

func TestBatchAggregator_GenerateSourceFileHeader(t *testing.T) {
	aggregator := NewBatchAggregator(logging.NewMockLogger())

	assert.Empty(t, aggregator.GenerateSourceFileHeader(nil))

	header := aggregator.GenerateSourceFileHeader([]string{"/in/a.mt", "/in/b.fin"})
	assert.True(t, strings.HasPrefix(header, "# Consolidated from source files:\n# - a.mt\n# - b.fin\n"))
	assert.Contains(t, header, "# Generated on: ")
	assert.True(t, strings.HasSuffix(header, "\n#\n"))
}

func TestBatchAggregator_CalculateDateRangeFromRows(t *testing.T) {
	aggregator := NewBatchAggregator(logging.NewMockLogger())

	assert.Equal(t, DateRange{}, aggregator.CalculateDateRangeFromRows(nil))

	rows := []models.StatementRow{stmtRow(9, "1", ""), stmtRow(2, "1", ""), stmtRow(20, "1", "")}
	assert.Equal(t, DateRange{Start: day(2), End: day(20)}, aggregator.CalculateDateRangeFromRows(rows))
}
