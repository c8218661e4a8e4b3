// Package jsonmap converts parsed messages to a JSON document and back. Fields
// are flattened: each carries its tag, option letter and wire content next to
// its decoded components.
package jsonmap

import (
	"encoding/json"
	"fmt"
	"sort"

	"fjacquet/swift-mt/internal/headers"
	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/parsererror"
	"fjacquet/swift-mt/internal/tokenizer"
)

// Document is the JSON form of a message. Converting back to MT uses the raw
// text of each field; the decoded components are informational and edits to
// them are not carried over.
type Document struct {
	MessageType string                     `json:"message_type"`
	Schema      string                     `json:"schema"`
	Blocks      tokenizer.RawBlockSet      `json:"blocks"`
	Basic       *headers.BasicHeader       `json:"basic_header,omitempty"`
	Application *headers.ApplicationHeader `json:"application_header,omitempty"`
	User        *headers.UserHeader        `json:"user_header,omitempty"`
	Trailer     *headers.Trailer           `json:"trailer,omitempty"`
	Fields      []Field                    `json:"fields"`
	FieldOrder  []string                   `json:"field_order"`
	Unknown     []tokenizer.ParsedField    `json:"unknown_fields,omitempty"`
}

// Field is one assembled field. Components holds the decoded values and is
// flattened into the same JSON object as the metadata. Raw is the source of
// truth when the field is written back to MT.
type Field struct {
	Key        string
	Tag        string
	Option     string
	Raw        string
	Position   int
	Sequence   string
	Item       int
	Ambiguous  bool
	Components map[string]any
}

// reserved are the metadata keys of a flattened field.
var reserved = []string{"key", "tag", "option", "raw", "position", "sequence", "item", "ambiguous"}

func (f Field) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Components)+len(reserved))
	for k, v := range f.Components {
		out[k] = v
	}
	out["key"] = f.Key
	out["tag"] = f.Tag
	out["raw"] = f.Raw
	out["position"] = f.Position
	if f.Option != "" {
		out["option"] = f.Option
	}
	if f.Sequence != "" {
		out["sequence"] = f.Sequence
		out["item"] = f.Item
	}
	if f.Ambiguous {
		out["ambiguous"] = true
	}
	return json.Marshal(out)
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var in map[string]json.RawMessage
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	decode := func(key string, dst any) error {
		raw, ok := in[key]
		if !ok {
			return nil
		}
		delete(in, key)
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("field attribute %q: %w", key, err)
		}
		return nil
	}
	*f = Field{}
	for key, dst := range map[string]any{
		"key": &f.Key, "tag": &f.Tag, "option": &f.Option, "raw": &f.Raw,
		"position": &f.Position, "sequence": &f.Sequence, "item": &f.Item, "ambiguous": &f.Ambiguous,
	} {
		if err := decode(key, dst); err != nil {
			return err
		}
	}
	if len(in) > 0 {
		f.Components = make(map[string]any, len(in))
		for k, raw := range in {
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return err
			}
			f.Components[k] = v
		}
	}
	return nil
}

// FromMessage builds the document of msg.
func FromMessage(msg *messages.SwiftMessage) (*Document, error) {
	doc := &Document{
		MessageType: msg.MessageType,
		Schema:      msg.SchemaName(),
		Blocks:      msg.Blocks,
		Basic:       msg.Basic,
		Application: msg.Application,
		User:        msg.User,
		Trailer:     msg.Trailer,
		FieldOrder:  msg.FieldOrder,
		Unknown:     msg.Unknown,
	}
	if doc.FieldOrder == nil {
		doc.FieldOrder = []string{}
	}
	doc.Fields = []Field{}
	if err := doc.addBody(msg.Body, "", 0); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) addBody(body *messages.Body, sequence string, item int) error {
	if body == nil {
		return nil
	}
	for _, g := range body.Groups {
		for _, e := range g.Entries {
			f, err := flatten(g.Key, e)
			if err != nil {
				return err
			}
			f.Sequence = sequence
			f.Item = item
			d.Fields = append(d.Fields, f)
		}
		for i, sub := range g.Items {
			if err := d.addBody(sub, g.Key, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func flatten(key string, e messages.Entry) (Field, error) {
	tag := e.Field.Tag()
	f := Field{
		Key:       key,
		Tag:       tag,
		Option:    tokenizer.OptionLetter(tag),
		Raw:       e.Field.Value(),
		Position:  e.Position,
		Ambiguous: e.Ambiguous,
	}
	data, err := json.Marshal(e.Field)
	if err != nil {
		return f, fmt.Errorf("failed to encode field %s: %w", tag, err)
	}
	if err := json.Unmarshal(data, &f.Components); err != nil {
		// Scalar encodings are kept under a single component.
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return f, fmt.Errorf("failed to encode field %s: %w", tag, err)
		}
		f.Components = map[string]any{"value": v}
	}
	for _, k := range reserved {
		delete(f.Components, k)
	}
	return f, nil
}

// Marshal renders msg as indented JSON.
func Marshal(msg *messages.SwiftMessage) ([]byte, error) {
	doc, err := FromMessage(msg)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// MarshalMessages renders several messages as one indented JSON array.
func MarshalMessages(msgs []*messages.SwiftMessage) ([]byte, error) {
	docs := make([]*Document, 0, len(msgs))
	for _, msg := range msgs {
		doc, err := FromMessage(msg)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return json.MarshalIndent(docs, "", "  ")
}

// Unmarshal decodes a document and re-parses it into a message.
func Unmarshal(data []byte) (*messages.SwiftMessage, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", parsererror.ErrInvalidJSON, err)
	}
	return doc.ToMessage()
}

// Block4 rebuilds the text block from the fields and the unknown fields in
// source position order.
func (d *Document) Block4() (string, error) {
	all := make([]tokenizer.ParsedField, 0, len(d.Fields)+len(d.Unknown))
	for i, f := range d.Fields {
		if f.Tag == "" {
			return "", fmt.Errorf("%w: field %d has no tag", parsererror.ErrInvalidJSON, i)
		}
		all = append(all, tokenizer.ParsedField{Tag: f.Tag, Content: f.Raw, Position: f.Position})
	}
	all = append(all, d.Unknown...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Position < all[j].Position })
	return tokenizer.SerializeFields(all), nil
}

// ToMT renders the document as a wire message. Raw header blocks win over the
// decoded headers, which are only used when their raw block is absent.
func (d *Document) ToMT() (string, error) {
	block4, err := d.Block4()
	if err != nil {
		return "", err
	}
	blocks := d.Blocks
	blocks.Block4 = block4
	if blocks.Block1 == "" && d.Basic != nil {
		blocks.Block1 = d.Basic.String()
	}
	if blocks.Block2 == "" && d.Application != nil {
		blocks.Block2 = d.Application.String()
	}
	if blocks.Block3 == "" && d.User != nil {
		blocks.Block3 = d.User.String()
	}
	if blocks.Block5 == "" && d.Trailer != nil {
		blocks.Block5 = d.Trailer.String()
	}
	return tokenizer.Reconstruct(blocks), nil
}

// ToMessage re-parses the document. Without an application header the text
// block is assembled against the document schema.
func (d *Document) ToMessage() (*messages.SwiftMessage, error) {
	if d.Blocks.Block2 == "" && d.Application == nil {
		block4, err := d.Block4()
		if err != nil {
			return nil, err
		}
		name := d.Schema
		if name == "" {
			name = d.MessageType
		}
		return messages.ParseFromBlock4(name, block4)
	}
	raw, err := d.ToMT()
	if err != nil {
		return nil, err
	}
	if d.Schema != "" {
		return messages.ParseAs(raw, d.Schema)
	}
	return messages.Parse(raw)
}

// ToMT converts a JSON document to the wire format.
func ToMT(data []byte) (string, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", parsererror.ErrInvalidJSON, err)
	}
	return doc.ToMT()
}
