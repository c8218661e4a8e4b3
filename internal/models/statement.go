// Package models provides the flat data structures exported from parsed
// statements: CSV/XLSX rows, balances and statement summaries.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementRow is one statement line (61 with its optional 86) flattened for
// export. Amount is signed: debits are negative.
type StatementRow struct {
	Account           string          `csv:"Account" json:"account" yaml:"account"`
	StatementNumber   string          `csv:"StatementNumber" json:"statement_number" yaml:"statement_number"`
	MessageType       string          `csv:"MessageType" json:"message_type" yaml:"message_type"`
	Reference         string          `csv:"Reference" json:"reference" yaml:"reference"`
	ValueDate         string          `csv:"ValueDate" json:"value_date" yaml:"value_date"`
	EntryDate         string          `csv:"EntryDate" json:"entry_date,omitempty" yaml:"entry_date,omitempty"`
	CreditDebit       string          `csv:"CreditDebit" json:"credit_debit" yaml:"credit_debit"`
	Amount            string          `csv:"Amount" json:"amount" yaml:"amount"`
	Currency          string          `csv:"Currency" json:"currency" yaml:"currency"`
	TransactionType   string          `csv:"TransactionType" json:"transaction_type" yaml:"transaction_type"`
	CustomerReference string          `csv:"CustomerReference" json:"customer_reference" yaml:"customer_reference"`
	BankReference     string          `csv:"BankReference" json:"bank_reference,omitempty" yaml:"bank_reference,omitempty"`
	Supplementary     string          `csv:"Supplementary" json:"supplementary,omitempty" yaml:"supplementary,omitempty"`
	Information       string          `csv:"Information" json:"information,omitempty" yaml:"information,omitempty"`
	SignedAmount      decimal.Decimal `csv:"-" json:"-" yaml:"-"`
	Date              time.Time       `csv:"-" json:"-" yaml:"-"`
}

// IsDebit reports whether the row reduces the balance.
func (r StatementRow) IsDebit() bool {
	return r.CreditDebit == TransactionTypeDebit
}

// Balance is a booked or available balance of a statement.
type Balance struct {
	Kind     string          `json:"kind" yaml:"kind"`
	Tag      string          `json:"tag" yaml:"tag"`
	Date     time.Time       `json:"date" yaml:"date"`
	Currency string          `json:"currency" yaml:"currency"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
}

// Statement is a parsed MT940, MT941, MT942 or MT950 reduced to what exports
// and reports need.
type Statement struct {
	MessageType     string         `json:"message_type" yaml:"message_type"`
	Reference       string         `json:"reference" yaml:"reference"`
	Account         string         `json:"account" yaml:"account"`
	StatementNumber string         `json:"statement_number" yaml:"statement_number"`
	Currency        string         `json:"currency" yaml:"currency"`
	Balances        []Balance      `json:"balances,omitempty" yaml:"balances,omitempty"`
	Rows            []StatementRow `json:"rows" yaml:"rows"`
}

// DateRange returns the earliest and latest value date of the rows, then of
// the balances when there are no rows. Both are zero for an empty statement.
func (s *Statement) DateRange() (start, end time.Time) {
	var dates []time.Time
	for _, r := range s.Rows {
		dates = append(dates, r.Date)
	}
	if len(dates) == 0 {
		for _, b := range s.Balances {
			dates = append(dates, b.Date)
		}
	}
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if start.IsZero() || d.Before(start) {
			start = d
		}
		if end.IsZero() || d.After(end) {
			end = d
		}
	}
	return start, end
}

// Balance returns the first balance of the given kind.
func (s *Statement) Balance(kind string) (Balance, bool) {
	for _, b := range s.Balances {
		if b.Kind == kind {
			return b, true
		}
	}
	return Balance{}, false
}

// Net returns the sum of the signed row amounts.
func (s *Statement) Net() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Rows {
		total = total.Add(r.SignedAmount)
	}
	return total
}
