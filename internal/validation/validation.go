// Package validation provides the structural validators for SWIFT identifiers and
// length-bounded values: BIC codes, accounts, references and fixed or bounded lengths.
package validation

import (
	"fmt"

	"fjacquet/swift-mt/internal/parsererror"
	"fjacquet/swift-mt/internal/textutils"
)

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlnum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isUpperAlnum(b byte) bool {
	return isUpper(b) || isDigit(b)
}

// ValidateBIC checks the structure of an 8 or 11 character BIC: a 4 letter bank code,
// a 2 letter country code, a 2 character alphanumeric location code and an optional
// 3 character alphanumeric branch code. Letters must be uppercase.
func ValidateBIC(bic string) error {
	if len(bic) != 8 && len(bic) != 11 {
		return &parsererror.FormatError{
			Context:    "BIC",
			Constraint: "invalid length",
			Expected:   "8 or 11 characters",
			Actual:     bic,
			Err:        parsererror.ErrInvalidFieldLength,
		}
	}
	checks := []struct {
		from, to int
		ok       func(byte) bool
		what     string
	}{
		{0, 4, isUpper, "bank code must be uppercase letters"},
		{4, 6, isUpper, "country code must be uppercase letters"},
		{6, 8, isUpperAlnum, "location code must be uppercase alphanumeric"},
		{8, len(bic), isUpperAlnum, "branch code must be uppercase alphanumeric"},
	}
	for _, c := range checks {
		for i := c.from; i < c.to; i++ {
			if !c.ok(bic[i]) {
				return &parsererror.FormatError{
					Context:    "BIC",
					Constraint: c.what,
					Expected:   "4!a2!a2!c[3!c]",
					Actual:     bic,
					Err:        parsererror.ErrInvalidFieldFormat,
				}
			}
		}
	}
	return nil
}

// IsBIC reports whether s is a structurally valid BIC.
func IsBIC(s string) bool {
	return ValidateBIC(s) == nil
}

// ExactLength fails unless s has exactly n characters.
func ExactLength(s string, n int, context string) error {
	if len(s) != n {
		return &parsererror.FormatError{
			Context:    context,
			Constraint: "invalid length",
			Expected:   fmt.Sprintf("exactly %d characters", n),
			Actual:     s,
			Err:        parsererror.ErrInvalidFieldLength,
		}
	}
	return nil
}

// MaxLength fails when s is longer than max characters.
func MaxLength(s string, max int, context string) error {
	if len(s) > max {
		return &parsererror.FormatError{
			Context:    context,
			Constraint: "value too long",
			Expected:   fmt.Sprintf("at most %d characters", max),
			Actual:     s,
			Err:        parsererror.ErrInvalidFieldLength,
		}
	}
	return nil
}

// LengthRange fails unless min <= len(s) <= max.
func LengthRange(s string, min, max int, context string) error {
	if len(s) < min || len(s) > max {
		return &parsererror.FormatError{
			Context:    context,
			Constraint: "invalid length",
			Expected:   fmt.Sprintf("between %d and %d characters", min, max),
			Actual:     s,
			Err:        parsererror.ErrInvalidFieldLength,
		}
	}
	return nil
}

// Numeric fails unless s is non-empty and made of ASCII digits only.
func Numeric(s, context string) error {
	if s == "" {
		return &parsererror.FormatError{Context: context, Constraint: "value cannot be empty", Err: parsererror.ErrInvalidFieldFormat}
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return &parsererror.FormatError{
				Context:    context,
				Constraint: "must contain only digits",
				Expected:   "digits",
				Actual:     s,
				Err:        parsererror.ErrInvalidFieldFormat,
			}
		}
	}
	return nil
}

// Alphanumeric fails unless s is made of ASCII letters and digits only.
func Alphanumeric(s, context string) error {
	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) {
			return &parsererror.FormatError{
				Context:    context,
				Constraint: "must contain only letters and digits",
				Expected:   "alphanumeric",
				Actual:     s,
				Err:        parsererror.ErrInvalidFieldFormat,
			}
		}
	}
	return nil
}

// Uppercase fails unless s is made of ASCII uppercase letters only.
func Uppercase(s, context string) error {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return &parsererror.FormatError{
				Context:    context,
				Constraint: "must contain only uppercase letters",
				Expected:   "A-Z",
				Actual:     s,
				Err:        parsererror.ErrInvalidFieldFormat,
			}
		}
	}
	return nil
}

// ValidateAccount checks an account or party identifier (34x).
func ValidateAccount(account, context string) error {
	if account == "" {
		return &parsererror.FormatError{Context: context, Constraint: "account cannot be empty", Err: parsererror.ErrInvalidFieldFormat}
	}
	if err := MaxLength(account, 34, context); err != nil {
		return err
	}
	return textutils.ValidateSwiftChars(account, context)
}

// ValidateReference checks a 16x transaction reference. SWIFT forbids a leading or
// trailing slash and embedded "//".
func ValidateReference(ref, context string) error {
	if ref == "" {
		return &parsererror.FormatError{Context: context, Constraint: "reference cannot be empty", Err: parsererror.ErrInvalidFieldFormat}
	}
	if err := MaxLength(ref, 16, context); err != nil {
		return err
	}
	if err := textutils.ValidateSwiftChars(ref, context); err != nil {
		return err
	}
	if ref[0] == '/' || ref[len(ref)-1] == '/' {
		return &parsererror.FormatError{Context: context, Constraint: "must not start or end with '/'", Actual: ref, Err: parsererror.ErrInvalidFieldFormat}
	}
	for i := 0; i+1 < len(ref); i++ {
		if ref[i] == '/' && ref[i+1] == '/' {
			return &parsererror.FormatError{Context: context, Constraint: "must not contain '//'", Actual: ref, Err: parsererror.ErrInvalidFieldFormat}
		}
	}
	return nil
}
