package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStatementRowBuilder(t *testing.T) {
	row, err := NewStatementRowBuilder("02.01.2006").
		WithStatement("940", "STMT", "12345678", "1/1").
		WithValueDate(date(2021, 3, 15)).
		WithEntryDate("0316").
		WithAmount(decimal.RequireFromString("100.5"), "D", "EUR").
		WithReferences("NTRF", "REF1", "BANKREF").
		WithInformation("RENT").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "15.03.2021", row.ValueDate)
	assert.Equal(t, "16.03.2021", row.EntryDate)
	assert.Equal(t, "100.50", row.Amount)
	assert.Equal(t, TransactionTypeDebit, row.CreditDebit)
	assert.True(t, row.IsDebit())
	assert.True(t, row.SignedAmount.Equal(decimal.RequireFromString("-100.5")))
	assert.Equal(t, "BANKREF", row.BankReference)
	assert.Equal(t, "RENT", row.Information)
}

func TestStatementRowBuilderMarks(t *testing.T) {
	tests := []struct {
		mark   string
		debit  bool
		signed string
	}{
		{"C", false, "10"},
		{"D", true, "-10"},
		{"RC", true, "-10"},
		{"RD", false, "10"},
	}
	for _, tt := range tests {
		t.Run(tt.mark, func(t *testing.T) {
			row, err := NewStatementRowBuilder("").
				WithValueDate(date(2021, 1, 1)).
				WithAmount(decimal.NewFromInt(10), tt.mark, "JPY").
				Build()
			require.NoError(t, err)
			assert.Equal(t, tt.debit, row.IsDebit())
			assert.Equal(t, tt.signed, row.SignedAmount.String())
			assert.Equal(t, "10", row.Amount)
			assert.Equal(t, "2021-01-01", row.ValueDate)
		})
	}
}

func TestStatementRowBuilderEntryDateYearEnd(t *testing.T) {
	row, err := NewStatementRowBuilder("").
		WithValueDate(date(2021, 12, 31)).
		WithEntryDate("0102").
		WithAmount(decimal.NewFromInt(1), "C", "EUR").
		Build()
	require.NoError(t, err)
	assert.Equal(t, "2022-01-02", row.EntryDate)

	row, err = NewStatementRowBuilder("").
		WithValueDate(date(2022, 1, 2)).
		WithEntryDate("1231").
		WithAmount(decimal.NewFromInt(1), "C", "EUR").
		Build()
	require.NoError(t, err)
	assert.Equal(t, "2021-12-31", row.EntryDate)
}

func TestStatementRowBuilderErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *StatementRowBuilder
		want    string
	}{
		{"zero value date", NewStatementRowBuilder("").WithValueDate(time.Time{}), "value date cannot be zero"},
		{"missing value date", NewStatementRowBuilder("").WithAmount(decimal.NewFromInt(1), "C", "EUR"), "value date is required"},
		{"missing amount", NewStatementRowBuilder("").WithValueDate(date(2021, 1, 1)), "amount and currency are required"},
		{"bad mark", NewStatementRowBuilder("").WithValueDate(date(2021, 1, 1)).WithAmount(decimal.NewFromInt(1), "X", "EUR"), "invalid debit/credit mark"},
		{"negative amount", NewStatementRowBuilder("").WithValueDate(date(2021, 1, 1)).WithAmount(decimal.NewFromInt(-1), "C", "EUR"), "must not be negative"},
		{"entry date first", NewStatementRowBuilder("").WithEntryDate("0101"), "entry date requires a value date"},
		{"bad entry date", NewStatementRowBuilder("").WithValueDate(date(2021, 1, 1)).WithEntryDate("1340"), "invalid entry date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStatementHelpers(t *testing.T) {
	s := &Statement{
		Balances: []Balance{
			{Kind: BalanceOpening, Date: date(2021, 3, 1), Currency: "EUR", Amount: decimal.NewFromInt(100)},
			{Kind: BalanceClosing, Date: date(2021, 3, 31), Currency: "EUR", Amount: decimal.NewFromInt(150)},
		},
	}
	start, end := s.DateRange()
	assert.Equal(t, date(2021, 3, 1), start)
	assert.Equal(t, date(2021, 3, 31), end)

	s.Rows = []StatementRow{
		{Date: date(2021, 3, 10), SignedAmount: decimal.NewFromInt(80)},
		{Date: date(2021, 3, 5), SignedAmount: decimal.NewFromInt(-30)},
	}
	start, end = s.DateRange()
	assert.Equal(t, date(2021, 3, 5), start)
	assert.Equal(t, date(2021, 3, 10), end)
	assert.Equal(t, "50", s.Net().String())

	closing, ok := s.Balance(BalanceClosing)
	require.True(t, ok)
	assert.Equal(t, "150", closing.Amount.String())
	_, ok = s.Balance(BalanceForwardAvailable)
	assert.False(t, ok)
}
