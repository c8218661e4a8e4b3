package common

import (
	"testing"

	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementFromMT940(t *testing.T) {
	s := parseStatement(t, mt940)

	assert.Equal(t, "940", s.MessageType)
	assert.Equal(t, "STMT0315", s.Reference)
	assert.Equal(t, "DE89370400440532013000", s.Account)
	assert.Equal(t, "42/1", s.StatementNumber)
	assert.Equal(t, "EUR", s.Currency)

	require.Len(t, s.Rows, 2)
	first := s.Rows[0]
	assert.Equal(t, "2021-03-15", first.ValueDate)
	assert.Equal(t, "2021-03-16", first.EntryDate)
	assert.Equal(t, models.TransactionTypeCredit, first.CreditDebit)
	assert.Equal(t, "100.00", first.Amount)
	assert.Equal(t, "NTRF", first.TransactionType)
	assert.Equal(t, "REF1", first.CustomerReference)
	assert.Equal(t, "BANK1", first.BankReference)
	assert.Equal(t, "SALARY MARCH", first.Information)

	second := s.Rows[1]
	assert.Equal(t, models.TransactionTypeDebit, second.CreditDebit)
	assert.Equal(t, "50.50", second.Amount)
	assert.Equal(t, "-50.5", second.SignedAmount.String())
	assert.Empty(t, second.Information)

	require.Len(t, s.Balances, 3)
	opening, ok := s.Balance(models.BalanceOpening)
	require.True(t, ok)
	assert.Equal(t, "1000", opening.Amount.String())
	_, ok = s.Balance(models.BalanceClosingAvailable)
	assert.True(t, ok)
	assert.Equal(t, "49.5", s.Net().String())
}

func TestStatementFromMT942UsesFloorLimitCurrency(t *testing.T) {
	s := parseStatement(t, message("942",
		":20:INTERIM", ":25:12345678", ":28C:1/1", ":34F:CHF0,", ":13D:2103151200+0100",
		":61:210315D25,NMSCREF",
	))
	assert.Equal(t, "CHF", s.Currency)
	require.Len(t, s.Rows, 1)
	assert.Equal(t, "CHF", s.Rows[0].Currency)
	assert.Empty(t, s.Balances)
}

func TestStatementFromMT941HasNoRows(t *testing.T) {
	s := parseStatement(t, message("941",
		":20:BALANCE", ":25:12345678", ":28:7/1", ":62F:D210315USD10,00",
	))
	assert.Equal(t, "7/1", s.StatementNumber)
	assert.Empty(t, s.Rows)
	closing, ok := s.Balance(models.BalanceClosing)
	require.True(t, ok)
	assert.Equal(t, "-10", closing.Amount.String())
}

func TestStatementFromPaymentFails(t *testing.T) {
	msg, err := messages.Parse(message("910", ":20:REF", ":21:REL", ":25:123", ":32A:210315EUR1,00", ":52A:DEUTDEFF"))
	require.NoError(t, err)
	_, err = StatementFromMessage(msg, "")
	assert.ErrorContains(t, err, "not a statement message")
}
