// Package textutils provides the SWIFT character-set and multi-line text primitives
// shared by the header and field grammars.
package textutils

import (
	"fmt"
	"strings"

	"fjacquet/swift-mt/internal/parsererror"
)

// swiftSpecial lists the non-alphanumeric characters accepted in the SWIFT "x"
// character set, including the extended set seen in production traffic.
const swiftSpecial = "/-?:().,'+{} \r\n%&*;<=>@[]_$!\"#|"

// IsSwiftChar reports whether r belongs to the SWIFT "x" character set.
func IsSwiftChar(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	default:
		return strings.ContainsRune(swiftSpecial, r)
	}
}

// IsSwiftText reports whether every character of s is in the SWIFT "x" set.
func IsSwiftText(s string) bool {
	for _, r := range s {
		if !IsSwiftChar(r) {
			return false
		}
	}
	return true
}

// ValidateSwiftChars returns a FormatError when s contains characters outside the SWIFT set.
func ValidateSwiftChars(s, context string) error {
	for i, r := range s {
		if !IsSwiftChar(r) {
			return &parsererror.FormatError{
				Context:    context,
				Constraint: fmt.Sprintf("invalid character at offset %d", i),
				Expected:   "SWIFT x character set",
				Actual:     s,
				Err:        parsererror.ErrInvalidFieldFormat,
			}
		}
	}
	return nil
}

// SplitLines splits field content into lines, accepting both LF and CRLF endings.
// Empty content yields no lines.
func SplitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// IsNumberedLine reports whether line starts with a digit followed by '/' (e.g. "1/ACME").
func IsNumberedLine(line string) bool {
	return len(line) >= 2 && line[0] >= '0' && line[0] <= '9' && line[1] == '/'
}

// ValidateLines splits content and checks it against a (maxLines, maxChars) bound
// using the SWIFT character set. At least one line is required.
func ValidateLines(content, context string, maxLines, maxChars int) ([]string, error) {
	return validateLines(content, context, maxLines, maxChars, true)
}

// ValidateAnyLines is ValidateLines for "z" format content, where any character is allowed.
func ValidateAnyLines(content, context string, maxLines, maxChars int) ([]string, error) {
	return validateLines(content, context, maxLines, maxChars, false)
}

func validateLines(content, context string, maxLines, maxChars int, swiftOnly bool) ([]string, error) {
	lines := SplitLines(content)
	if len(lines) == 0 {
		return nil, &parsererror.FormatError{
			Context:    context,
			Constraint: "content cannot be empty",
			Err:        parsererror.ErrInvalidFieldFormat,
		}
	}
	if len(lines) > maxLines {
		return nil, &parsererror.FormatError{
			Context:    context,
			Constraint: "too many lines",
			Expected:   fmt.Sprintf("at most %d lines", maxLines),
			Actual:     fmt.Sprintf("%d lines", len(lines)),
			Err:        parsererror.ErrInvalidFieldLength,
		}
	}
	for i, line := range lines {
		lineContext := fmt.Sprintf("%s line %d", context, i+1)
		if len(line) > maxChars {
			return nil, &parsererror.FormatError{
				Context:    lineContext,
				Constraint: "line too long",
				Expected:   fmt.Sprintf("at most %d characters", maxChars),
				Actual:     line,
				Err:        parsererror.ErrInvalidFieldLength,
			}
		}
		if swiftOnly {
			if err := ValidateSwiftChars(line, lineContext); err != nil {
				return nil, err
			}
		}
	}
	return lines, nil
}

// Snippet shortens s for inclusion in error messages.
func Snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
