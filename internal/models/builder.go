package models

import (
	"errors"
	"fmt"
	"time"

	"fjacquet/swift-mt/internal/currencyutils"

	"github.com/shopspring/decimal"
)

// StatementRowBuilder provides a fluent API for constructing statement rows
type StatementRowBuilder struct {
	row        StatementRow
	dateFormat string
	err        error
}

// NewStatementRowBuilder creates a builder rendering dates with dateFormat,
// a time layout. An empty layout means ISO dates.
func NewStatementRowBuilder(dateFormat string) *StatementRowBuilder {
	if dateFormat == "" {
		dateFormat = "2006-01-02"
	}
	return &StatementRowBuilder{
		row: StatementRow{
			CreditDebit:  TransactionTypeCredit,
			SignedAmount: decimal.Zero,
		},
		dateFormat: dateFormat,
	}
}

// WithStatement sets the statement-level columns
func (b *StatementRowBuilder) WithStatement(messageType, reference, account, number string) *StatementRowBuilder {
	if b.err != nil {
		return b
	}
	b.row.MessageType = messageType
	b.row.Reference = reference
	b.row.Account = account
	b.row.StatementNumber = number
	return b
}

// WithValueDate sets the value date
func (b *StatementRowBuilder) WithValueDate(date time.Time) *StatementRowBuilder {
	if b.err != nil {
		return b
	}
	if date.IsZero() {
		b.err = errors.New("value date cannot be zero")
		return b
	}
	b.row.Date = date
	b.row.ValueDate = date.Format(b.dateFormat)
	return b
}

// WithEntryDate sets the MMDD entry date. It is resolved against the value
// date year, rolling over the year end.
func (b *StatementRowBuilder) WithEntryDate(mmdd string) *StatementRowBuilder {
	if b.err != nil || mmdd == "" {
		return b
	}
	if b.row.Date.IsZero() {
		b.err = errors.New("entry date requires a value date")
		return b
	}
	entry, err := time.Parse("20060102", fmt.Sprintf("%04d%s", b.row.Date.Year(), mmdd))
	if err != nil {
		b.err = fmt.Errorf("invalid entry date %q: %w", mmdd, err)
		return b
	}
	switch {
	case entry.Sub(b.row.Date) > 180*24*time.Hour:
		entry = entry.AddDate(-1, 0, 0)
	case b.row.Date.Sub(entry) > 180*24*time.Hour:
		entry = entry.AddDate(1, 0, 0)
	}
	b.row.EntryDate = entry.Format(b.dateFormat)
	return b
}

// WithAmount sets the amount from the debit/credit mark. D and RC mark a debit.
func (b *StatementRowBuilder) WithAmount(amount decimal.Decimal, mark, currency string) *StatementRowBuilder {
	if b.err != nil {
		return b
	}
	if amount.IsNegative() {
		b.err = errors.New("amount must not be negative")
		return b
	}
	b.row.Currency = currency
	b.row.Amount = currencyutils.FormatPlainAmount(amount, currency)
	switch mark {
	case "D", "RC":
		b.row.CreditDebit = TransactionTypeDebit
		b.row.SignedAmount = amount.Neg()
	case "C", "RD":
		b.row.CreditDebit = TransactionTypeCredit
		b.row.SignedAmount = amount
	default:
		b.err = fmt.Errorf("invalid debit/credit mark %q", mark)
	}
	return b
}

// WithReferences sets the transaction type and references
func (b *StatementRowBuilder) WithReferences(transactionType, customer, bank string) *StatementRowBuilder {
	if b.err != nil {
		return b
	}
	b.row.TransactionType = transactionType
	b.row.CustomerReference = customer
	b.row.BankReference = bank
	return b
}

// WithSupplementary sets the supplementary details of the line
func (b *StatementRowBuilder) WithSupplementary(details string) *StatementRowBuilder {
	if b.err != nil {
		return b
	}
	b.row.Supplementary = details
	return b
}

// WithInformation sets the information to account owner
func (b *StatementRowBuilder) WithInformation(info string) *StatementRowBuilder {
	if b.err != nil {
		return b
	}
	b.row.Information = info
	return b
}

// Build returns the row or the first error met
func (b *StatementRowBuilder) Build() (StatementRow, error) {
	if b.err != nil {
		return StatementRow{}, b.err
	}
	if b.row.Date.IsZero() {
		return StatementRow{}, errors.New("value date is required")
	}
	if b.row.Currency == "" {
		return StatementRow{}, errors.New("amount and currency are required")
	}
	return b.row, nil
}
