// Package parsererror defines the error taxonomy shared by every stage of SWIFT MT
// processing: block structure, field grammar, message assembly and network validation.
package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors identify the category of a failure. The typed errors below wrap
// one of them so callers can use errors.Is regardless of the concrete type.
var (
	ErrNoBlocksFound          = errors.New("no SWIFT blocks found")
	ErrUnknownBlockNumber     = errors.New("unknown block number")
	ErrInvalidBlockFormat     = errors.New("invalid block format")
	ErrInvalidFieldFormat     = errors.New("invalid field format")
	ErrInvalidFieldLength     = errors.New("invalid field length")
	ErrAmountParse            = errors.New("invalid amount")
	ErrDateParse              = errors.New("invalid date")
	ErrUnknownField           = errors.New("unknown field")
	ErrWrongMessageType       = errors.New("wrong message type")
	ErrMissingRequiredField   = errors.New("missing required field")
	ErrUnsupportedMessageType = errors.New("unsupported message type")
	ErrRuleViolation          = errors.New("network validation rule violated")
	ErrInvalidJSON            = errors.New("invalid JSON message")
)

// Kind groups errors into the categories reported to callers.
type Kind int

const (
	KindUnknown Kind = iota
	KindStructural
	KindField
	KindMessage
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindField:
		return "field"
	case KindMessage:
		return "message"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// KindOf classifies err by the sentinel it wraps.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNoBlocksFound), errors.Is(err, ErrUnknownBlockNumber), errors.Is(err, ErrInvalidBlockFormat),
		errors.Is(err, ErrInvalidJSON):
		return KindStructural
	case errors.Is(err, ErrInvalidFieldFormat), errors.Is(err, ErrInvalidFieldLength),
		errors.Is(err, ErrAmountParse), errors.Is(err, ErrDateParse), errors.Is(err, ErrUnknownField):
		return KindField
	case errors.Is(err, ErrWrongMessageType), errors.Is(err, ErrMissingRequiredField), errors.Is(err, ErrUnsupportedMessageType):
		return KindMessage
	case errors.Is(err, ErrRuleViolation):
		return KindValidation
	default:
		return KindUnknown
	}
}

// BlockError represents a failure to locate or delimit a message block.
type BlockError struct {
	Block   int
	Snippet string
	Err     error
}

func (e *BlockError) Error() string {
	msg := e.Err.Error()
	if e.Block > 0 {
		msg = fmt.Sprintf("block %d: %s", e.Block, msg)
	}
	if e.Snippet != "" {
		msg = fmt.Sprintf("%s near '%s'", msg, e.Snippet)
	}
	return msg
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// FormatError is returned by the grammar primitives. Context names the value being
// checked (for example "Field 50K line 2") and Constraint the rule that failed.
type FormatError struct {
	Context    string
	Constraint string
	Expected   string
	Actual     string
	Err        error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Context, e.Constraint)
	if e.Expected != "" {
		msg = fmt.Sprintf("%s (expected %s, got '%s')", msg, e.Expected, e.Actual)
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidFieldFormat
	}
	return e.Err
}

// FieldError represents a field whose content does not match its grammar.
type FieldError struct {
	Tag   string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: failed to parse '%s': %v", e.Tag, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// MessageError represents a message-level assembly failure. Err is one of
// ErrWrongMessageType, ErrMissingRequiredField or ErrUnsupportedMessageType.
type MessageError struct {
	MessageType string
	Tag         string
	Expected    string
	Err         error
}

func (e *MessageError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingRequiredField):
		return fmt.Sprintf("MT%s: missing required field %s", e.MessageType, e.Tag)
	case errors.Is(e.Err, ErrWrongMessageType):
		return fmt.Sprintf("wrong message type: expected MT%s, got MT%s", e.Expected, e.MessageType)
	case errors.Is(e.Err, ErrUnsupportedMessageType):
		return fmt.Sprintf("unsupported message type: MT%s", e.MessageType)
	default:
		return fmt.Sprintf("MT%s: %v", e.MessageType, e.Err)
	}
}

func (e *MessageError) Unwrap() error {
	return e.Err
}

// ValidationError is a single network validation rule violation. Code is the SWIFT
// error code (C06, D75, ...), Rule the message-local rule id (C1, C2, ...).
type ValidationError struct {
	Code           string   `json:"code" yaml:"code"`
	Rule           string   `json:"rule" yaml:"rule"`
	Field          string   `json:"field" yaml:"field"`
	Value          string   `json:"value,omitempty" yaml:"value,omitempty"`
	Message        string   `json:"message" yaml:"message"`
	AffectedFields []string `json:"affected_fields,omitempty" yaml:"affected_fields,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.AffectedFields) > 0 {
		return fmt.Sprintf("%s [%s] field %s: %s (affects %s)",
			e.Code, e.Rule, e.Field, e.Message, strings.Join(e.AffectedFields, ","))
	}
	return fmt.Sprintf("%s [%s] field %s: %s", e.Code, e.Rule, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrRuleViolation
}

// InvalidFormatError represents an input file that is not a SWIFT MT message at all.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

func (e *InvalidFormatError) Unwrap() error {
	return ErrNoBlocksFound
}
