// Package currencyutils provides currency code checks and the SWIFT decimal-comma
// amount format, with ISO 4217 precision rules applied on both parse and format.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/swift-mt/internal/parsererror"
)

// MaxAmountLength is the 15d limit of SWIFT amount components, comma included.
const MaxAmountLength = 15

// DefaultDecimals applies to every currency not listed in the precision table.
const DefaultDecimals = 2

var currencyDecimals = map[string]int32{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0, "KRW": 0, "PYG": 0,
	"RWF": 0, "UGX": 0, "UYI": 0, "VND": 0, "VUV": 0, "XAF": 0, "XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
	"CLF": 4, "UYW": 4,
}

var commodityCodes = map[string]bool{
	"XAU": true, "XAG": true, "XPD": true, "XPT": true,
}

// Decimals returns the number of minor-unit digits for a currency.
func Decimals(currency string) int32 {
	if d, ok := currencyDecimals[strings.ToUpper(currency)]; ok {
		return d
	}
	return DefaultDecimals
}

// IsCommodity reports whether the code is a precious-metal code.
func IsCommodity(currency string) bool {
	return commodityCodes[currency]
}

// ValidateCurrency checks the ISO 4217 shape: three uppercase letters.
func ValidateCurrency(currency, context string) error {
	if len(currency) != 3 {
		return &parsererror.FormatError{
			Context:    context,
			Constraint: "invalid currency length",
			Expected:   "3!a",
			Actual:     currency,
			Err:        parsererror.ErrInvalidFieldLength,
		}
	}
	for i := 0; i < 3; i++ {
		if currency[i] < 'A' || currency[i] > 'Z' {
			return &parsererror.FormatError{
				Context:    context,
				Constraint: "currency must be uppercase letters",
				Expected:   "3!a",
				Actual:     currency,
				Err:        parsererror.ErrInvalidFieldFormat,
			}
		}
	}
	return nil
}

// ValidateNonCommodityCurrency is ValidateCurrency that also rejects XAU, XAG, XPD and XPT.
func ValidateNonCommodityCurrency(currency, context string) error {
	if err := ValidateCurrency(currency, context); err != nil {
		return err
	}
	if IsCommodity(currency) {
		return &parsererror.FormatError{
			Context:    context,
			Constraint: "commodity currency not allowed",
			Expected:   "non-commodity ISO 4217 code",
			Actual:     currency,
			Err:        parsererror.ErrInvalidFieldFormat,
		}
	}
	return nil
}

// ParseAmount parses a SWIFT amount: digits with an optional decimal comma and no
// other separators. "1234,56", "125000" and "100," are valid.
func ParseAmount(amountStr, context string) (decimal.Decimal, error) {
	if amountStr == "" {
		return decimal.Zero, &parsererror.FormatError{
			Context:    context,
			Constraint: "amount cannot be empty",
			Err:        parsererror.ErrAmountParse,
		}
	}
	if len(amountStr) > MaxAmountLength {
		return decimal.Zero, &parsererror.FormatError{
			Context:    context,
			Constraint: "amount too long",
			Expected:   fmt.Sprintf("at most %d characters", MaxAmountLength),
			Actual:     amountStr,
			Err:        parsererror.ErrAmountParse,
		}
	}
	intPart, fracPart, _ := strings.Cut(amountStr, ",")
	if intPart == "" || !allDigits(intPart) || !allDigits(fracPart) {
		return decimal.Zero, &parsererror.FormatError{
			Context:    context,
			Constraint: "malformed amount",
			Expected:   "digits with an optional decimal comma",
			Actual:     amountStr,
			Err:        parsererror.ErrAmountParse,
		}
	}
	normalized := intPart
	if fracPart != "" {
		normalized += "." + fracPart
	}
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: failed to parse amount '%s': %w", context, amountStr, parsererror.ErrAmountParse)
	}
	return amount, nil
}

// ParseAmountForCurrency parses an amount and rejects more decimals than the currency allows.
func ParseAmountForCurrency(amountStr, currency, context string) (decimal.Decimal, error) {
	amount, err := ParseAmount(amountStr, context)
	if err != nil {
		return decimal.Zero, err
	}
	_, fracPart, _ := strings.Cut(amountStr, ",")
	if allowed := Decimals(currency); int32(len(fracPart)) > allowed {
		return decimal.Zero, &parsererror.FormatError{
			Context:    context,
			Constraint: fmt.Sprintf("too many decimals for %s", currency),
			Expected:   fmt.Sprintf("at most %d decimals", allowed),
			Actual:     amountStr,
			Err:        parsererror.ErrAmountParse,
		}
	}
	return amount, nil
}

// FormatAmount renders an amount in SWIFT form with the canonical number of decimals
// for the currency. Zero-decimal currencies are rendered without a comma.
func FormatAmount(amount decimal.Decimal, currency string) string {
	places := Decimals(currency)
	s := amount.StringFixed(places)
	return strings.Replace(s, ".", ",", 1)
}

// FormatPlainAmount renders an amount for CSV and report output using a decimal point.
func FormatPlainAmount(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(Decimals(currency))
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
