// Package swiftmt is the public API of the SWIFT MT engine: parse raw
// messages into typed structures, validate them against the network rules and
// convert them to and from JSON.
//
// Parsing and validation are separate steps. A message that breaks a network
// rule still parses; Validate reports the violations.
package swiftmt

import (
	"sync"

	"fjacquet/swift-mt/internal/config"
	"fjacquet/swift-mt/internal/jsonmap"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/parser"
	"fjacquet/swift-mt/internal/parsererror"
	"fjacquet/swift-mt/internal/rules"
)

type (
	// Message is a parsed message.
	Message = messages.SwiftMessage
	// Violation is one broken network or configured rule.
	Violation = parsererror.ValidationError
	// Report lists the violations of one message.
	Report = parser.ValidationReport
	// Kind categorizes parse errors.
	Kind = parsererror.Kind
)

// Error kinds returned by ErrorKind.
const (
	KindUnknown    = parsererror.KindUnknown
	KindStructural = parsererror.KindStructural
	KindField      = parsererror.KindField
	KindMessage    = parsererror.KindMessage
	KindValidation = parsererror.KindValidation
)

// Parse parses a complete message, picking the schema from its application
// header.
func Parse(raw string) (*Message, error) {
	return messages.Parse(raw)
}

// ParseAs parses a complete message with a forced schema such as "103STP".
func ParseAs(raw, messageType string) (*Message, error) {
	return messages.ParseAs(raw, messageType)
}

// ParseFromBlock4 parses a bare text block with the schema of messageType.
func ParseFromBlock4(messageType, block4 string) (*Message, error) {
	return messages.ParseFromBlock4(messageType, block4)
}

// Validate runs the network rules of the message's schema. With stopOnFirst
// it returns after the first failing rule.
func Validate(m *Message, stopOnFirst bool) []*Violation {
	return rules.Validate(m, stopOnFirst)
}

var (
	checkerOnce sync.Once
	checker     *parser.SwiftParser
	checkerErr  error
)

// Check runs the network rules and the embedded mandatory-field and field
// rules, and returns the full report.
func Check(m *Message) (*Report, error) {
	checkerOnce.Do(func() {
		logger := logging.NewLogrusAdapter("warn", "text")
		var store *config.RuleStore
		if store, checkerErr = config.LoadDefaultRules(logger); checkerErr != nil {
			return
		}
		checker, checkerErr = parser.NewSwiftParser(logger, parser.Options{Rules: store})
	})
	if checkerErr != nil {
		return nil, checkerErr
	}
	return checker.Validate(m), nil
}

// ToJSON renders a message as indented JSON.
func ToJSON(m *Message) ([]byte, error) {
	return jsonmap.Marshal(m)
}

// FromJSON rebuilds a message from its JSON document.
func FromJSON(data []byte) (*Message, error) {
	return jsonmap.Unmarshal(data)
}

// JSONToMT converts a JSON document back to the wire format.
func JSONToMT(data []byte) (string, error) {
	return jsonmap.ToMT(data)
}

// SupportedTypes returns the schema names the engine knows, in ascending order.
func SupportedTypes() []string {
	return messages.SupportedTypes()
}

// ErrorKind classifies an error returned by the parse functions.
func ErrorKind(err error) Kind {
	return parsererror.KindOf(err)
}
