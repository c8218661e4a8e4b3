// Package fields implements the block 4 field grammars: one parser per tag or
// option, each producing a validated value that serializes back to its wire form.
package fields

import (
	"strings"

	"fjacquet/swift-mt/internal/parsererror"
	"fjacquet/swift-mt/internal/textutils"
)

// Field is a parsed block 4 field.
type Field interface {
	// Tag returns the full tag including the option letter, e.g. "50K".
	Tag() string
	// Value returns the wire content that follows ":TAG:".
	Value() string
}

// Serialize renders a field as ":TAG:content".
func Serialize(f Field) string {
	return ":" + f.Tag() + ":" + f.Value()
}

// Generic holds a field without a dedicated grammar. Its content is kept verbatim.
type Generic struct {
	FieldTag string `json:"-"`
	Content  string `json:"content"`
}

func (f *Generic) Tag() string   { return f.FieldTag }
func (f *Generic) Value() string { return f.Content }

func fieldError(tag, content string, err error) error {
	return &parsererror.FieldError{Tag: tag, Value: content, Err: err}
}

func formatError(context, constraint, expected, actual string) error {
	return &parsererror.FormatError{
		Context:    context,
		Constraint: constraint,
		Expected:   expected,
		Actual:     actual,
		Err:        parsererror.ErrInvalidFieldFormat,
	}
}

func lengthError(context, constraint, expected, actual string) error {
	return &parsererror.FormatError{
		Context:    context,
		Constraint: constraint,
		Expected:   expected,
		Actual:     actual,
		Err:        parsererror.ErrInvalidFieldLength,
	}
}

// fieldContext names a field in error messages, e.g. "Field 50K".
func fieldContext(tag string) string {
	return "Field " + tag
}

// splitAccountLine separates an optional leading "/account" line from the rest.
// The returned account has the leading slash removed.
func splitAccountLine(lines []string) (account string, hasAccount bool, rest []string) {
	if len(lines) > 0 && strings.HasPrefix(lines[0], "/") {
		return lines[0][1:], true, lines[1:]
	}
	return "", false, lines
}

func validateAccountLine(account, context string) error {
	if account == "" {
		return formatError(context, "account cannot be empty", "/34x", "/")
	}
	if len(account) > 34 {
		return lengthError(context, "account too long", "at most 34 characters", account)
	}
	return textutils.ValidateSwiftChars(account, context)
}

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n")
}

// withAccount prepends "/account" when present.
func withAccount(account string, hasAccount bool, lines []string) string {
	if hasAccount {
		return joinLines(append([]string{"/" + account}, lines...)...)
	}
	return joinLines(lines...)
}
