package messages

import (
	"fmt"
	"strings"

	"fjacquet/swift-mt/internal/fields"
	"fjacquet/swift-mt/internal/headers"
	"fjacquet/swift-mt/internal/parsererror"
	"fjacquet/swift-mt/internal/tokenizer"
)

// SwiftMessage is a parsed message: its headers, the assembled block 4 and the
// block 4 fields no schema slot claimed.
type SwiftMessage struct {
	Blocks      tokenizer.RawBlockSet       `json:"-"`
	Basic       *headers.BasicHeader        `json:"basic_header,omitempty"`
	Application *headers.ApplicationHeader  `json:"application_header,omitempty"`
	User        *headers.UserHeader         `json:"user_header,omitempty"`
	Trailer     *headers.Trailer            `json:"trailer,omitempty"`
	MessageType string                      `json:"message_type"`
	Schema      *Schema                     `json:"-"`
	Body        *Body                       `json:"body"`
	FieldOrder  []string                    `json:"field_order"`
	Unknown     []tokenizer.ParsedField     `json:"unknown_fields,omitempty"`
}

// SchemaName returns the name of the schema the message was assembled with.
func (m *SwiftMessage) SchemaName() string {
	if m.Schema == nil {
		return m.MessageType
	}
	return m.Schema.Name()
}

// ParseFromBlock4 assembles the text block of a message of the given type.
// name may carry a variant, e.g. "103STP".
func ParseFromBlock4(name, block4 string) (*SwiftMessage, error) {
	schema, ok := Lookup(name)
	if !ok {
		return nil, unsupported(name)
	}
	msg := &SwiftMessage{Blocks: tokenizer.RawBlockSet{Block4: block4}}
	if err := msg.assemble(schema, block4); err != nil {
		return nil, err
	}
	return msg, nil
}

// Parse parses a complete message. The schema follows the application header
// type, refined by the validation flag of the user header (STP, COV).
func Parse(raw string) (*SwiftMessage, error) {
	return parse(raw, "")
}

// ParseAs parses a complete message that must be of type name. A type mismatch
// with the application header is a WrongMessageType error.
func ParseAs(raw, name string) (*SwiftMessage, error) {
	if _, ok := Lookup(name); !ok {
		return nil, unsupported(name)
	}
	return parse(raw, name)
}

func parse(raw, forced string) (*SwiftMessage, error) {
	blocks, err := tokenizer.ExtractBlocks(raw)
	if err != nil {
		return nil, err
	}
	msg := &SwiftMessage{Blocks: blocks}
	if err := msg.parseHeaders(); err != nil {
		return nil, err
	}
	if msg.Application == nil {
		return nil, &parsererror.BlockError{Block: 2, Err: fmt.Errorf("%w: application header is missing", parsererror.ErrInvalidBlockFormat)}
	}
	if blocks.Block4 == "" {
		return nil, &parsererror.BlockError{Block: 4, Err: fmt.Errorf("%w: text block is missing", parsererror.ErrInvalidBlockFormat)}
	}

	name := forced
	if name == "" {
		name = msg.Application.MessageType + msg.variant()
		if _, ok := Lookup(name); !ok {
			name = msg.Application.MessageType
		}
	}
	schema, ok := Lookup(name)
	if !ok {
		return nil, unsupported(name)
	}
	if schema.Type != msg.Application.MessageType {
		return nil, &parsererror.MessageError{
			MessageType: msg.Application.MessageType,
			Expected:    schema.Type,
			Err:         parsererror.ErrWrongMessageType,
		}
	}
	if err := msg.assemble(schema, blocks.Block4); err != nil {
		return nil, err
	}
	return msg, nil
}

func (m *SwiftMessage) parseHeaders() error {
	var err error
	if m.Blocks.Block1 != "" {
		if m.Basic, err = headers.ParseBasicHeader(m.Blocks.Block1); err != nil {
			return err
		}
	}
	if m.Blocks.Block2 != "" {
		if m.Application, err = headers.ParseApplicationHeader(m.Blocks.Block2); err != nil {
			return err
		}
	}
	if m.Blocks.Block3 != "" {
		if m.User, err = headers.ParseUserHeader(m.Blocks.Block3); err != nil {
			return err
		}
	}
	if m.Blocks.Block5 != "" {
		if m.Trailer, err = headers.ParseTrailer(m.Blocks.Block5); err != nil {
			return err
		}
	}
	return nil
}

// variant maps the user header validation flag to a schema variant.
func (m *SwiftMessage) variant() string {
	if m.User == nil {
		return ""
	}
	switch m.User.ValidationFlag {
	case "STP", "COV":
		return m.User.ValidationFlag
	}
	return ""
}

func (m *SwiftMessage) assemble(schema *Schema, block4 string) error {
	body, tr, err := assemble(schema, tokenizer.ParseBlock4Fields(block4))
	if err != nil {
		return err
	}
	m.Schema = schema
	m.MessageType = schema.Type
	m.Body = body
	for _, f := range tr.Consumed() {
		m.FieldOrder = append(m.FieldOrder, f.Tag)
	}
	m.Unknown = tr.Remaining()
	return nil
}

func unsupported(name string) error {
	return &parsererror.MessageError{MessageType: name, Err: parsererror.ErrUnsupportedMessageType}
}

// Get returns the first field assembled under a schema key such as "20" or "50a".
func (m *SwiftMessage) Get(key string) (fields.Field, bool) {
	return m.Body.Get(key)
}

// GetField finds a field by tag among the assembled fields, then among the
// unknown ones. An exact tag match wins; a bare base tag ("50") matches any
// option of that base.
func (m *SwiftMessage) GetField(tag string) (fields.Field, bool) {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	entries := m.Body.Entries()
	for _, e := range entries {
		if e.Field.Tag() == tag {
			return e.Field, true
		}
	}
	for _, u := range m.Unknown {
		if u.Tag == tag {
			return &fields.Generic{FieldTag: u.Tag, Content: u.Content}, true
		}
	}
	normalized := tokenizer.NormalizeTag(tag)
	for _, e := range entries {
		ft := e.Field.Tag()
		if tokenizer.NormalizeTag(ft) == normalized || (len(tag) == 2 && tokenizer.BaseTag(ft) == tag) {
			return e.Field, true
		}
	}
	for _, u := range m.Unknown {
		if tokenizer.NormalizeTag(u.Tag) == normalized {
			return &fields.Generic{FieldTag: u.Tag, Content: u.Content}, true
		}
	}
	return nil, false
}

// FieldAs returns the field found by GetField when it has type T.
func FieldAs[T fields.Field](m *SwiftMessage, tag string) (T, bool) {
	var zero T
	f, ok := m.GetField(tag)
	if !ok {
		return zero, false
	}
	typed, ok := f.(T)
	return typed, ok
}

// Fields returns the assembled fields in schema order.
func (m *SwiftMessage) Fields() []fields.Field {
	entries := m.Body.Entries()
	out := make([]fields.Field, len(entries))
	for i, e := range entries {
		out[i] = e.Field
	}
	return out
}

// Ambiguities returns the fields whose option was inferred from ambiguous content.
func (m *SwiftMessage) Ambiguities() []Entry {
	var out []Entry
	for _, e := range m.Body.Entries() {
		if e.Ambiguous {
			out = append(out, e)
		}
	}
	return out
}

// Block4 renders the text block: assembled fields in schema order, then the
// unknown fields, then the terminating "-".
func (m *SwiftMessage) Block4() string {
	var out []tokenizer.ParsedField
	for _, f := range m.Fields() {
		out = append(out, tokenizer.ParsedField{Tag: f.Tag(), Content: f.Value()})
	}
	out = append(out, m.Unknown...)
	return tokenizer.SerializeFields(out)
}

// ToMTString renders the complete message.
func (m *SwiftMessage) ToMTString() string {
	blocks := tokenizer.RawBlockSet{Block4: m.Block4()}
	if m.Basic != nil {
		blocks.Block1 = m.Basic.String()
	}
	if m.Application != nil {
		blocks.Block2 = m.Application.String()
	}
	if m.User != nil {
		blocks.Block3 = m.User.String()
	}
	if m.Trailer != nil {
		blocks.Block5 = m.Trailer.String()
	}
	return tokenizer.Reconstruct(blocks)
}
