// Package rules enforces the cross-field network validation rules of each message
// type. Violations are reported, never returned as parse errors.
package rules

import (
	"fjacquet/swift-mt/internal/fields"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/parsererror"
)

// Rule is one network validation rule. ID is local to the message type (C1, C2,
// ...), Code the SWIFT error code the rule reports.
type Rule struct {
	ID    string
	Code  string
	Check func(m *messages.SwiftMessage) []*parsererror.ValidationError
}

var ruleSets = map[string][]Rule{}

func register(name string, rules ...Rule) {
	ruleSets[name] = append(ruleSets[name], rules...)
}

// For returns the rules of a schema name such as "103STP", in evaluation order.
func For(name string) []Rule {
	return ruleSets[name]
}

// Validate runs the rules of the message's schema in order. With stopOnFirst it
// returns after the first failing rule, with every violation that rule produced.
func Validate(m *messages.SwiftMessage, stopOnFirst bool) []*parsererror.ValidationError {
	var out []*parsererror.ValidationError
	for _, r := range For(m.SchemaName()) {
		violations := r.Check(m)
		for _, v := range violations {
			if v.Rule == "" {
				v.Rule = r.ID
			}
			if v.Code == "" {
				v.Code = r.Code
			}
		}
		out = append(out, violations...)
		if stopOnFirst && len(violations) > 0 {
			break
		}
	}
	return out
}

// Validator runs Validate and logs the outcome.
type Validator struct {
	logger logging.Logger
}

// NewValidator creates a Validator. A nil logger falls back to the default adapter.
func NewValidator(logger logging.Logger) *Validator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Validator{logger: logger.WithField("component", "Validator")}
}

// Validate checks m and logs each violation at debug level.
func (v *Validator) Validate(m *messages.SwiftMessage, stopOnFirst bool) []*parsererror.ValidationError {
	violations := Validate(m, stopOnFirst)
	for _, e := range violations {
		v.logger.WithFields(
			logging.Field{Key: logging.FieldMessageType, Value: m.SchemaName()},
			logging.Field{Key: logging.FieldRuleCode, Value: e.Code},
			logging.Field{Key: logging.FieldTag, Value: e.Field},
		).Debug(e.Message)
	}
	if len(violations) > 0 {
		v.logger.WithFields(
			logging.Field{Key: logging.FieldMessageType, Value: m.SchemaName()},
			logging.Field{Key: logging.FieldCount, Value: len(violations)},
		).Info("Network validation failed")
	}
	return violations
}

func violation(code, field, value, message string, affected ...string) *parsererror.ValidationError {
	return &parsererror.ValidationError{
		Code:           code,
		Field:          field,
		Value:          value,
		Message:        message,
		AffectedFields: affected,
	}
}

func single(v *parsererror.ValidationError) []*parsererror.ValidationError {
	if v == nil {
		return nil
	}
	return []*parsererror.ValidationError{v}
}

// currency returns the currency carried by an amount-bearing field.
func currency(f fields.Field) (string, bool) {
	switch v := f.(type) {
	case *fields.DatedAmount:
		return v.Currency, true
	case *fields.CurrencyAmount:
		return v.Currency, true
	case *fields.Balance:
		return v.Currency, true
	case *fields.Field34F:
		return v.Currency, true
	case *fields.Field90:
		return v.Currency, true
	}
	return "", false
}

// sameCurrency reports every field of keys whose currency differs from the first
// currency found, in key order.
func sameCurrency(code string, body *messages.Body, keys ...string) []*parsererror.ValidationError {
	var (
		out      []*parsererror.ValidationError
		expected string
		firstKey string
	)
	for _, key := range keys {
		for _, f := range body.All(key) {
			ccy, ok := currency(f)
			if !ok {
				continue
			}
			if expected == "" {
				expected, firstKey = ccy, f.Tag()
				continue
			}
			if ccy != expected {
				out = append(out, violation(code, f.Tag(), f.Value(),
					"Currency code "+ccy+" differs from "+expected+" in field "+firstKey, firstKey))
			}
		}
	}
	return out
}

// presentRequires reports when key is present and required is not.
func presentRequires(code string, body *messages.Body, key, required string) *parsererror.ValidationError {
	f, ok := body.Get(key)
	if !ok || body.Has(required) {
		return nil
	}
	return violation(code, required, "", "Field "+required+" must be present when field "+key+" is present", f.Tag())
}
