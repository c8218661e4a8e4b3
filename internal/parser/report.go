package parser

import (
	"fmt"

	"fjacquet/swift-mt/internal/parsererror"
)

// Codes of the violations raised from the configured rule store.
const (
	CodeMandatoryField = "MANDATORY"
	CodeFieldRule      = "FIELD_RULE"
	RuleConfig         = "config"
)

// ValidationReport lists the violations found in one message.
type ValidationReport struct {
	MessageType string                         `json:"message_type" yaml:"message_type"`
	Schema      string                         `json:"schema" yaml:"schema"`
	Reference   string                         `json:"reference,omitempty" yaml:"reference,omitempty"`
	Violations  []*parsererror.ValidationError `json:"violations" yaml:"violations"`
	// Ambiguous lists the tags whose option letter was inferred from content
	// that fits more than one option.
	Ambiguous []string `json:"ambiguous_fields,omitempty" yaml:"ambiguous_fields,omitempty"`
}

// Valid reports whether no violation was found.
func (r *ValidationReport) Valid() bool {
	return len(r.Violations) == 0
}

// Codes returns the violation codes in report order.
func (r *ValidationReport) Codes() []string {
	codes := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		codes = append(codes, v.Code)
	}
	return codes
}

// ValidationFailedError is returned by a strict parser when the message
// parsed but broke at least one rule.
type ValidationFailedError struct {
	Report *ValidationReport
}

func (e *ValidationFailedError) Error() string {
	first := e.Report.Violations[0]
	if len(e.Report.Violations) == 1 {
		return fmt.Sprintf("MT%s failed validation: %v", e.Report.MessageType, first)
	}
	return fmt.Sprintf("MT%s failed validation with %d violations, first: %v",
		e.Report.MessageType, len(e.Report.Violations), first)
}

func (e *ValidationFailedError) Unwrap() error {
	return parsererror.ErrRuleViolation
}
