package parser

import (
	"io"

	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/messages"
)

// Parser reads one SWIFT MT message.
type Parser interface {
	// Parse reads a complete message from r. Structural, field and message
	// level failures are returned as parsererror types.
	Parse(r io.Reader) (*messages.SwiftMessage, error)
}

// Validator checks a parsed message against the network rules and the
// configured field rules.
type Validator interface {
	Validate(msg *messages.SwiftMessage) *ValidationReport
}

// LoggerConfigurable is implemented by components whose logger can be replaced.
type LoggerConfigurable interface {
	SetLogger(logger logging.Logger)
}

// FormatChecker tells whether a file looks like a SWIFT MT message.
type FormatChecker interface {
	ValidateFormat(file string) (bool, error)
}

// FullParser is everything the CLI, the batch processor and the API need.
type FullParser interface {
	Parser
	Validator
	LoggerConfigurable
	FormatChecker
	ParseString(raw string) (*messages.SwiftMessage, error)
	ParseFile(path string) ([]*messages.SwiftMessage, error)
}
