package fields

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/swift-mt/internal/currencyutils"
	"fjacquet/swift-mt/internal/dateutils"
	"fjacquet/swift-mt/internal/textutils"
	"fjacquet/swift-mt/internal/validation"
)

// Field61 is a statement line:
// 6!n[4!n]2a[1!a]15d1!a3!c16x[//16x][34x]
type Field61 struct {
	ValueDate         time.Time       `json:"value_date"`
	EntryDate         string          `json:"entry_date,omitempty"`
	Mark              string          `json:"debit_credit_mark"`
	FundsCode         string          `json:"funds_code,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	TransactionType   string          `json:"transaction_type"`
	CustomerReference string          `json:"customer_reference"`
	BankReference     string          `json:"bank_reference,omitempty"`
	Supplementary     string          `json:"supplementary_details,omitempty"`

	amountText string
}

func (f *Field61) Tag() string { return "61" }

func (f *Field61) Value() string {
	var sb strings.Builder
	sb.WriteString(dateutils.FormatYYMMDD(f.ValueDate))
	sb.WriteString(f.EntryDate)
	sb.WriteString(f.Mark)
	sb.WriteString(f.FundsCode)
	sb.WriteString(f.AmountText())
	sb.WriteString(f.TransactionType)
	sb.WriteString(f.CustomerReference)
	if f.BankReference != "" {
		sb.WriteString("//")
		sb.WriteString(f.BankReference)
	}
	if f.Supplementary != "" {
		sb.WriteString("\n")
		sb.WriteString(f.Supplementary)
	}
	return sb.String()
}

// AmountText returns the amount as it appeared on the wire, or a comma rendering
// of Amount for lines built in code.
func (f *Field61) AmountText() string {
	if f.amountText != "" {
		return f.amountText
	}
	return formatRate(f.Amount)
}

// IsDebit reports whether the line debits the account, reversals of credits included.
func (f *Field61) IsDebit() bool {
	return f.Mark == "D" || f.Mark == "RC"
}

// Signed returns the amount, negated for debits.
func (f *Field61) Signed() decimal.Decimal {
	if f.IsDebit() {
		return f.Amount.Neg()
	}
	return f.Amount
}

// ParseField61 parses a statement line.
func ParseField61(content string) (*Field61, error) {
	const tag = "61"
	ctx := fieldContext(tag)
	fail := func(err error) (*Field61, error) { return nil, fieldError(tag, content, err) }

	first, supplementary, _ := strings.Cut(content, "\n")
	s := first
	if len(s) < 6 {
		return fail(lengthError(ctx, "too short", "6!n[4!n]2a[1!a]15d1!a3!c16x", content))
	}

	f := &Field61{}
	valueDate, err := dateutils.ParseYYMMDD(s[0:6], ctx+" value date")
	if err != nil {
		return fail(err)
	}
	f.ValueDate = valueDate
	s = s[6:]

	if len(s) >= 4 && validation.Numeric(s[0:4], ctx) == nil {
		if err := dateutils.ValidateMMDD(s[0:4], ctx+" entry date"); err != nil {
			return fail(err)
		}
		f.EntryDate = s[0:4]
		s = s[4:]
	}

	switch {
	case strings.HasPrefix(s, "RC"), strings.HasPrefix(s, "RD"):
		f.Mark = s[0:2]
		s = s[2:]
	case strings.HasPrefix(s, "C"), strings.HasPrefix(s, "D"):
		f.Mark = s[0:1]
		s = s[1:]
	default:
		return fail(formatError(ctx+" mark", "invalid debit/credit mark", "D, C, RD or RC", textutils.Snippet(s, 2)))
	}

	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		f.FundsCode = s[0:1]
		s = s[1:]
	}

	i := 0
	for i < len(s) && ((s[i] >= '0' && s[i] <= '9') || s[i] == ',') {
		i++
	}
	amount, err := currencyutils.ParseAmount(s[:i], ctx+" amount")
	if err != nil {
		return fail(err)
	}
	f.Amount = amount
	f.amountText = s[:i]
	s = s[i:]

	if len(s) < 4 {
		return fail(formatError(ctx+" transaction type", "missing transaction type", "1!a3!c", s))
	}
	if err := validation.Uppercase(s[0:1], ctx+" transaction type"); err != nil {
		return fail(err)
	}
	if err := validation.Alphanumeric(s[1:4], ctx+" transaction type"); err != nil {
		return fail(err)
	}
	f.TransactionType = s[0:4]
	s = s[4:]

	custRef, bankRef, hasBankRef := strings.Cut(s, "//")
	if err := validation.LengthRange(custRef, 1, 16, ctx+" customer reference"); err != nil {
		return fail(err)
	}
	if err := textutils.ValidateSwiftChars(custRef, ctx+" customer reference"); err != nil {
		return fail(err)
	}
	f.CustomerReference = custRef
	if hasBankRef {
		if err := validation.LengthRange(bankRef, 1, 16, ctx+" bank reference"); err != nil {
			return fail(err)
		}
		if err := textutils.ValidateSwiftChars(bankRef, ctx+" bank reference"); err != nil {
			return fail(err)
		}
		f.BankReference = bankRef
	}

	if supplementary != "" {
		if err := validation.MaxLength(supplementary, 34, ctx+" supplementary details"); err != nil {
			return fail(err)
		}
		if err := textutils.ValidateSwiftChars(supplementary, ctx+" supplementary details"); err != nil {
			return fail(err)
		}
		f.Supplementary = supplementary
	}
	return f, nil
}
