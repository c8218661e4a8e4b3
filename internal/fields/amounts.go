package fields

import (
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/swift-mt/internal/currencyutils"
	"fjacquet/swift-mt/internal/dateutils"
)

// CurrencyAmount is a currency code followed by an amount: 32B, 33B, 71F and 71G.
type CurrencyAmount struct {
	FieldTag string          `json:"-"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func (f *CurrencyAmount) Tag() string { return f.FieldTag }
func (f *CurrencyAmount) Value() string {
	return f.Currency + currencyutils.FormatAmount(f.Amount, f.Currency)
}

// ParseCurrencyAmount parses 3!a15d.
func ParseCurrencyAmount(tag, content string) (*CurrencyAmount, error) {
	ccy, amount, err := parseCurrencyAndAmount(tag, content)
	if err != nil {
		return nil, err
	}
	return &CurrencyAmount{FieldTag: tag, Currency: ccy, Amount: amount}, nil
}

// ParseField33B parses the instructed amount.
func ParseField33B(content string) (*CurrencyAmount, error) {
	return ParseCurrencyAmount("33B", content)
}

func parseCurrencyAndAmount(tag, content string) (string, decimal.Decimal, error) {
	ctx := fieldContext(tag)
	if len(content) < 4 {
		return "", decimal.Zero, fieldError(tag, content, lengthError(ctx, "too short", "3!a15d", content))
	}
	ccy := content[0:3]
	if err := currencyutils.ValidateCurrency(ccy, ctx+" currency"); err != nil {
		return "", decimal.Zero, fieldError(tag, content, err)
	}
	amount, err := currencyutils.ParseAmountForCurrency(content[3:], ccy, ctx+" amount")
	if err != nil {
		return "", decimal.Zero, fieldError(tag, content, err)
	}
	return ccy, amount, nil
}

// DatedAmount is a value date, currency and amount: 32A, 32C and 32D.
type DatedAmount struct {
	FieldTag string          `json:"-"`
	Date     time.Time       `json:"date"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func (f *DatedAmount) Tag() string { return f.FieldTag }
func (f *DatedAmount) Value() string {
	return dateutils.FormatYYMMDD(f.Date) + f.Currency + currencyutils.FormatAmount(f.Amount, f.Currency)
}

// ParseDatedAmount parses 6!n3!a15d.
func ParseDatedAmount(tag, content string) (*DatedAmount, error) {
	ctx := fieldContext(tag)
	if len(content) < 10 {
		return nil, fieldError(tag, content, lengthError(ctx, "too short", "6!n3!a15d", content))
	}
	date, err := dateutils.ParseYYMMDD(content[0:6], ctx+" date")
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	ccy, amount, err := parseCurrencyAndAmount(tag, content[6:])
	if err != nil {
		return nil, err
	}
	return &DatedAmount{FieldTag: tag, Date: date, Currency: ccy, Amount: amount}, nil
}

// ParseField32A parses the value date, currency and interbank settled amount.
func ParseField32A(content string) (*DatedAmount, error) {
	return ParseDatedAmount("32A", content)
}

// Balance is a D/C mark, date, currency and amount: 60F, 60M, 62F, 62M, 64 and 65.
type Balance struct {
	FieldTag string          `json:"-"`
	Mark     string          `json:"mark"`
	Date     time.Time       `json:"date"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func (f *Balance) Tag() string { return f.FieldTag }
func (f *Balance) Value() string {
	return f.Mark + dateutils.FormatYYMMDD(f.Date) + f.Currency + currencyutils.FormatAmount(f.Amount, f.Currency)
}

// Signed returns the amount, negated for a debit balance.
func (f *Balance) Signed() decimal.Decimal {
	if f.Mark == "D" {
		return f.Amount.Neg()
	}
	return f.Amount
}

// ParseBalance parses 1!a6!n3!a15d.
func ParseBalance(tag, content string) (*Balance, error) {
	ctx := fieldContext(tag)
	if len(content) < 11 {
		return nil, fieldError(tag, content, lengthError(ctx, "too short", "1!a6!n3!a15d", content))
	}
	mark := content[0:1]
	if mark != "D" && mark != "C" {
		return nil, fieldError(tag, content, formatError(ctx, "invalid debit/credit mark", "D or C", mark))
	}
	date, err := dateutils.ParseYYMMDD(content[1:7], ctx+" date")
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	ccy, amount, err := parseCurrencyAndAmount(tag, content[7:])
	if err != nil {
		return nil, err
	}
	return &Balance{FieldTag: tag, Mark: mark, Date: date, Currency: ccy, Amount: amount}, nil
}

// Field34F is a floor limit: currency, optional D/C mark and amount.
type Field34F struct {
	Currency string          `json:"currency"`
	Mark     string          `json:"mark,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

func (f *Field34F) Tag() string { return "34F" }
func (f *Field34F) Value() string {
	return f.Currency + f.Mark + currencyutils.FormatAmount(f.Amount, f.Currency)
}

// ParseField34F parses 3!a[1!a]15d.
func ParseField34F(content string) (*Field34F, error) {
	const tag = "34F"
	if len(content) > 3 && (content[3] == 'D' || content[3] == 'C') {
		ccy, amount, err := parseCurrencyAndAmount(tag, content[0:3]+content[4:])
		if err != nil {
			return nil, err
		}
		return &Field34F{Currency: ccy, Mark: content[3:4], Amount: amount}, nil
	}
	ccy, amount, err := parseCurrencyAndAmount(tag, content)
	if err != nil {
		return nil, err
	}
	return &Field34F{Currency: ccy, Amount: amount}, nil
}

// Field90 is a number of entries with their sum: 90C (credits) and 90D (debits).
type Field90 struct {
	FieldTag string          `json:"-"`
	Count    string          `json:"count"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func (f *Field90) Tag() string { return f.FieldTag }
func (f *Field90) Value() string {
	return f.Count + f.Currency + currencyutils.FormatAmount(f.Amount, f.Currency)
}

// ParseField90 parses 5n3!a15d.
func ParseField90(tag, content string) (*Field90, error) {
	ctx := fieldContext(tag)
	i := 0
	for i < len(content) && content[i] >= '0' && content[i] <= '9' {
		i++
	}
	if i == 0 || i > 5 {
		return nil, fieldError(tag, content, formatError(ctx, "invalid number of entries", "1 to 5 digits", content[:i]))
	}
	ccy, amount, err := parseCurrencyAndAmount(tag, content[i:])
	if err != nil {
		return nil, err
	}
	return &Field90{FieldTag: tag, Count: content[:i], Currency: ccy, Amount: amount}, nil
}

// Field19 is the sum of amounts of an MT with several transactions (17d).
type Field19 struct {
	Amount decimal.Decimal `json:"amount"`
}

func (f *Field19) Tag() string   { return "19" }
func (f *Field19) Value() string { return formatRate(f.Amount) }

// ParseField19 parses a sum of amounts.
func ParseField19(content string) (*Field19, error) {
	const tag = "19"
	ctx := fieldContext(tag)
	amount, err := parseDecimalComma(content, ctx, 17)
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &Field19{Amount: amount}, nil
}
