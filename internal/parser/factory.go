package parser

import (
	"fmt"
	"strings"

	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/messages"
)

// ParserType selects the schema a parser enforces.
type ParserType string

// Auto detects the schema from the application header.
const Auto ParserType = "auto"

// ParserTypes returns Auto followed by every registered schema name.
func ParserTypes() []ParserType {
	names := messages.SupportedTypes()
	out := make([]ParserType, 0, len(names)+1)
	out = append(out, Auto)
	for _, name := range names {
		out = append(out, ParserType(name))
	}
	return out
}

// ParseParserType accepts "auto", "103", "MT103", "mt103stp" and the like.
func ParseParserType(s string) (ParserType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "AUTO" {
		return Auto, nil
	}
	s = strings.TrimPrefix(s, "MT")
	if _, ok := messages.Lookup(s); !ok {
		return "", fmt.Errorf("unknown parser type: %s", s)
	}
	return ParserType(s), nil
}

// GetParser returns a new parser for the given type with default options.
// It acts as a factory for creating Parser implementations.
func GetParser(parserType ParserType, logger logging.Logger) (FullParser, error) {
	return NewParser(parserType, logger, Options{})
}

// NewParser returns a parser for the given type with opts. The type wins over
// opts.MessageType.
func NewParser(parserType ParserType, logger logging.Logger, opts Options) (FullParser, error) {
	switch parserType {
	case Auto, "":
		opts.MessageType = ""
	default:
		if _, ok := messages.Lookup(string(parserType)); !ok {
			return nil, fmt.Errorf("unknown parser type: %s", parserType)
		}
		opts.MessageType = string(parserType)
	}
	return NewSwiftParser(logger, opts)
}
