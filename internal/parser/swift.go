package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"fjacquet/swift-mt/internal/common"
	"fjacquet/swift-mt/internal/config"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/models"
	"fjacquet/swift-mt/internal/parsererror"
	"fjacquet/swift-mt/internal/rules"
	"fjacquet/swift-mt/internal/textutils"
	"fjacquet/swift-mt/internal/tokenizer"
)

// Options configures a SwiftParser.
type Options struct {
	// MessageType forces the schema ("103", "103STP", ...). Empty detects it
	// from the application header.
	MessageType string
	// StrictValidation turns any violation into a parse error.
	StrictValidation bool
	StopOnFirstError bool
	// Rules is the configured rule store. Nil means the embedded defaults.
	Rules *config.RuleStore
}

// SwiftParser parses and validates SWIFT MT messages.
type SwiftParser struct {
	BaseParser
	opts      Options
	validator *rules.Validator
}

// NewSwiftParser creates a parser. A nil logger falls back to the default one.
func NewSwiftParser(logger logging.Logger, opts Options) (*SwiftParser, error) {
	base := NewBaseParser(logger)
	if opts.Rules == nil {
		store, err := config.LoadDefaultRules(base.logger)
		if err != nil {
			return nil, err
		}
		opts.Rules = store
	}
	if opts.MessageType != "" {
		if _, ok := messages.Lookup(opts.MessageType); !ok {
			return nil, &parsererror.MessageError{MessageType: opts.MessageType, Err: parsererror.ErrUnsupportedMessageType}
		}
	}
	return &SwiftParser{
		BaseParser: base,
		opts:       opts,
		validator:  rules.NewValidator(base.logger),
	}, nil
}

// SetLogger replaces the logger of the parser and of its validator.
func (p *SwiftParser) SetLogger(logger logging.Logger) {
	if logger == nil {
		return
	}
	p.BaseParser.SetLogger(logger)
	p.validator = rules.NewValidator(logger)
}

// Options returns the parser options.
func (p *SwiftParser) Options() Options {
	return p.opts
}

// Parse reads a single message from r.
func (p *SwiftParser) Parse(r io.Reader) (*messages.SwiftMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	return p.ParseString(string(data))
}

// ParseString parses one message. In strict mode a message with violations
// yields a *ValidationFailedError.
func (p *SwiftParser) ParseString(raw string) (*messages.SwiftMessage, error) {
	start := time.Now()
	var (
		msg *messages.SwiftMessage
		err error
	)
	if p.opts.MessageType != "" {
		msg, err = messages.ParseAs(raw, p.opts.MessageType)
	} else {
		msg, err = ParseAuto(raw)
	}
	if err != nil {
		p.logger.WithError(err).Debug("Failed to parse message",
			logging.Field{Key: logging.FieldReason, Value: parsererror.KindOf(err).String()})
		return nil, err
	}

	p.logger.Debug("Parsed message",
		logging.Field{Key: logging.FieldMessageType, Value: msg.SchemaName()},
		logging.Field{Key: logging.FieldCount, Value: len(msg.FieldOrder)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})

	if len(msg.Unknown) > 0 {
		p.logger.Debug("Message carries fields outside its schema",
			logging.Field{Key: logging.FieldMessageType, Value: msg.SchemaName()},
			logging.Field{Key: logging.FieldCount, Value: len(msg.Unknown)})
	}

	if p.opts.StrictValidation {
		if report := p.Validate(msg); !report.Valid() {
			return nil, &ValidationFailedError{Report: report}
		}
	}
	return msg, nil
}

// ParseFile parses every message of a file. A file may hold several messages
// back to back.
func (p *SwiftParser) ParseFile(path string) ([]*messages.SwiftMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	parts := SplitMessages(string(data))
	if len(parts) == 0 {
		return nil, &parsererror.InvalidFormatError{
			FilePath:             path,
			ExpectedFormat:       "SWIFT MT message",
			ActualContentSnippet: textutils.Snippet(string(data), 40),
			Msg:                  "no message found",
		}
	}
	out := make([]*messages.SwiftMessage, 0, len(parts))
	for i, part := range parts {
		msg, err := p.ParseString(part)
		if err != nil {
			return nil, fmt.Errorf("%s: message %d: %w", path, i+1, err)
		}
		out = append(out, msg)
	}
	p.logger.Info("Parsed file",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(out)})
	return out, nil
}

// Validate runs the network rules then the configured field rules.
func (p *SwiftParser) Validate(msg *messages.SwiftMessage) *ValidationReport {
	report := &ValidationReport{
		MessageType: msg.MessageType,
		Schema:      msg.SchemaName(),
		Violations:  p.validator.Validate(msg, p.opts.StopOnFirstError),
	}
	if f, ok := msg.Get("20"); ok {
		report.Reference = f.Value()
	}
	for _, e := range msg.Ambiguities() {
		report.Ambiguous = append(report.Ambiguous, e.Field.Tag())
	}
	if p.opts.StopOnFirstError && len(report.Violations) > 0 {
		return report
	}
	report.Violations = append(report.Violations, p.configViolations(msg)...)
	if p.opts.StopOnFirstError && len(report.Violations) > 1 {
		report.Violations = report.Violations[:1]
	}
	if report.Violations == nil {
		report.Violations = []*parsererror.ValidationError{}
	}
	return report
}

func (p *SwiftParser) configViolations(msg *messages.SwiftMessage) []*parsererror.ValidationError {
	var out []*parsererror.ValidationError

	mandatory := p.opts.Rules.MandatoryFields(msg.SchemaName())
	if mandatory == nil {
		mandatory = p.opts.Rules.MandatoryFields(msg.MessageType)
	}
	for _, tag := range mandatory {
		if _, ok := msg.GetField(tag); !ok {
			out = append(out, &parsererror.ValidationError{
				Code:    CodeMandatoryField,
				Rule:    RuleConfig,
				Field:   tag,
				Message: fmt.Sprintf("field %s is mandatory for MT%s", tag, msg.SchemaName()),
			})
		}
	}

	check := func(tag, value string) {
		if err := p.opts.Rules.CheckField(tag, value); err != nil {
			var fe *parsererror.FieldError
			reason := err
			if errors.As(err, &fe) {
				reason = fe.Err
			}
			out = append(out, &parsererror.ValidationError{
				Code:    CodeFieldRule,
				Rule:    RuleConfig,
				Field:   tag,
				Value:   value,
				Message: reason.Error(),
			})
		}
	}
	for _, f := range msg.Fields() {
		check(f.Tag(), f.Value())
	}
	for _, u := range msg.Unknown {
		check(u.Tag, u.Content)
	}
	return out
}

// ValidateFormat reports whether file holds at least one message with an
// application header and a text block.
func (p *SwiftParser) ValidateFormat(file string) (bool, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", file, err)
	}
	parts := SplitMessages(string(data))
	if len(parts) == 0 {
		return false, nil
	}
	blocks, err := tokenizer.ExtractBlocks(parts[0])
	if err != nil {
		p.logger.Debug("File is not a SWIFT MT message",
			logging.Field{Key: logging.FieldFile, Value: file},
			logging.Field{Key: logging.FieldReason, Value: err.Error()})
		return false, nil
	}
	return blocks.Block2 != "" && blocks.Block4 != "", nil
}

// ConvertToCSV parses a statement file and writes its lines as CSV.
func (p *SwiftParser) ConvertToCSV(inputFile, outputFile string, dateFormat string, opts common.CSVOptions) error {
	msgs, err := p.ParseFile(inputFile)
	if err != nil {
		return err
	}
	rows := []models.StatementRow{}
	for _, msg := range msgs {
		s, err := common.StatementFromMessage(msg, dateFormat)
		if err != nil {
			return err
		}
		rows = append(rows, s.Rows...)
	}
	return p.WriteToCSV(rows, outputFile, opts)
}

// ParseAuto parses a complete message, picking the schema from the type in
// the application header and the validation flag of the user header.
func ParseAuto(raw string) (*messages.SwiftMessage, error) {
	blocks, err := tokenizer.ExtractBlocks(raw)
	if err != nil {
		return nil, err
	}
	typ, err := tokenizer.ExtractMessageType(blocks)
	if err != nil {
		return nil, err
	}
	if _, ok := messages.Lookup(typ); !ok {
		return nil, &parsererror.MessageError{MessageType: typ, Err: parsererror.ErrUnsupportedMessageType}
	}
	return messages.Parse(raw)
}

// SplitMessages splits data holding several messages back to back. Each
// message starts at a basic header "{1:"; data without one is returned as a
// single message when it contains any block.
func SplitMessages(data string) []string {
	data = strings.TrimSpace(strings.TrimPrefix(data, "\ufeff"))
	if data == "" {
		return nil
	}
	var starts []int
	for i := 0; ; {
		j := strings.Index(data[i:], "{1:")
		if j < 0 {
			break
		}
		starts = append(starts, i+j)
		i += j + 3
	}
	if len(starts) == 0 {
		if strings.Contains(data, "{") {
			return []string{data}
		}
		return nil
	}
	out := make([]string, 0, len(starts))
	for i, s := range starts {
		end := len(data)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		out = append(out, strings.TrimSpace(data[s:end]))
	}
	return out
}
