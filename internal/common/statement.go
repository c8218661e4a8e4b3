package common

import (
	"fmt"

	"fjacquet/swift-mt/internal/fields"
	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/models"
	"fjacquet/swift-mt/internal/tokenizer"
)

// StatementTypes lists the message types StatementFromMessage accepts.
var StatementTypes = []string{"940", "941", "942", "950"}

var balanceKinds = map[string]string{
	"60": models.BalanceOpening,
	"62": models.BalanceClosing,
	"64": models.BalanceClosingAvailable,
	"65": models.BalanceForwardAvailable,
}

// StatementFromMessage flattens a customer or interim statement into rows and
// balances. Dates are rendered with dateFormat, a time layout.
func StatementFromMessage(msg *messages.SwiftMessage, dateFormat string) (*models.Statement, error) {
	switch msg.MessageType {
	case "940", "941", "942", "950":
	default:
		return nil, fmt.Errorf("MT%s is not a statement message", msg.MessageType)
	}

	s := &models.Statement{
		MessageType:     msg.MessageType,
		Reference:       value(msg, "20"),
		Account:         value(msg, "25"),
		StatementNumber: value(msg, "28C"),
		Rows:            []models.StatementRow{},
	}
	if s.StatementNumber == "" {
		s.StatementNumber = value(msg, "28")
	}

	for _, f := range msg.Fields() {
		switch f := f.(type) {
		case *fields.Balance:
			s.Balances = append(s.Balances, models.Balance{
				Kind:     balanceKinds[tokenizer.BaseTag(f.Tag())],
				Tag:      f.Tag(),
				Date:     f.Date,
				Currency: f.Currency,
				Amount:   f.Signed(),
			})
			if s.Currency == "" {
				s.Currency = f.Currency
			}
		case *fields.Field34F:
			if s.Currency == "" {
				s.Currency = f.Currency
			}
		}
	}

	for i, line := range messages.StatementLines(msg) {
		if line.Field61 == nil {
			continue
		}
		l := line.Field61
		b := models.NewStatementRowBuilder(dateFormat).
			WithStatement(s.MessageType, s.Reference, s.Account, s.StatementNumber).
			WithValueDate(l.ValueDate).
			WithEntryDate(l.EntryDate).
			WithAmount(l.Amount, l.Mark, s.Currency).
			WithReferences(l.TransactionType, l.CustomerReference, l.BankReference).
			WithSupplementary(l.Supplementary)
		if line.Field86 != nil {
			b = b.WithInformation(line.Field86.Text())
		}
		row, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("statement line %d: %w", i+1, err)
		}
		s.Rows = append(s.Rows, row)
	}
	return s, nil
}

func value(msg *messages.SwiftMessage, key string) string {
	if f, ok := msg.Get(key); ok {
		return f.Value()
	}
	return ""
}
