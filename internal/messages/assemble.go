package messages

import (
	"fjacquet/swift-mt/internal/fields"
	"fjacquet/swift-mt/internal/parsererror"
	"fjacquet/swift-mt/internal/tokenizer"
	"fjacquet/swift-mt/internal/tracker"
)

// Entry is one assembled field with its block 4 position.
type Entry struct {
	Field    fields.Field `json:"field"`
	Position int          `json:"position"`
	// Ambiguous is set when the option letter was inferred from content that
	// also fits the fallback option of its family.
	Ambiguous bool `json:"ambiguous,omitempty"`
}

// Group holds what one schema slot received: entries for a field slot, items
// for a sequence.
type Group struct {
	Key     string  `json:"key"`
	Entries []Entry `json:"entries,omitempty"`
	Items   []*Body `json:"items,omitempty"`
}

// Body is an assembled message or sequence item, one group per schema slot.
type Body struct {
	Groups []Group `json:"groups"`
}

// Get returns the first field assembled under key.
func (b *Body) Get(key string) (fields.Field, bool) {
	for _, g := range b.Groups {
		if g.Key == key && len(g.Entries) > 0 {
			return g.Entries[0].Field, true
		}
	}
	return nil, false
}

// All returns every field assembled under key, in source order.
func (b *Body) All(key string) []fields.Field {
	var out []fields.Field
	for _, g := range b.Groups {
		if g.Key != key {
			continue
		}
		for _, e := range g.Entries {
			out = append(out, e.Field)
		}
	}
	return out
}

// Has reports whether key received at least one field.
func (b *Body) Has(key string) bool {
	_, ok := b.Get(key)
	return ok
}

// Items returns the items of the sequence named key.
func (b *Body) Items(key string) []*Body {
	for _, g := range b.Groups {
		if g.Key == key {
			return g.Items
		}
	}
	return nil
}

// Entries returns every entry of the body, items included, in schema order.
func (b *Body) Entries() []Entry {
	var out []Entry
	for _, g := range b.Groups {
		out = append(out, g.Entries...)
		for _, item := range g.Items {
			out = append(out, item.Entries()...)
		}
	}
	return out
}

// assembler fills one schema from the fields of one message.
type assembler struct {
	messageType string
	tr          *tracker.Tracker
}

// assemble maps parsed fields onto schema. The returned tracker tells which
// fields no slot claimed.
func assemble(schema *Schema, parsed []tokenizer.ParsedField) (*Body, *tracker.Tracker, error) {
	a := &assembler{messageType: schema.Type, tr: tracker.New(parsed)}
	body, err := a.fill(schema.Slots, 0, a.tr.Len())
	if err != nil {
		return nil, nil, err
	}
	return body, a.tr, nil
}

func (a *assembler) fill(slots []Slot, from, to int) (*Body, error) {
	body := &Body{Groups: make([]Group, 0, len(slots))}
	for i, slot := range slots {
		group := Group{Key: slot.Key()}
		if slot.Sequence != nil {
			items, err := a.fillSequence(slot.Sequence, from, to)
			if err != nil {
				return nil, err
			}
			group.Items = items
			body.Groups = append(body.Groups, group)
			continue
		}

		// Fields of a later sequence belong to that sequence.
		limit := a.nextSequenceStart(slots[i+1:], from, to)
		for {
			pf, ok := a.tr.NextBetween(slot.matcher(), from, limit)
			if !ok {
				break
			}
			entry, err := a.take(slot, pf)
			if err != nil {
				return nil, err
			}
			group.Entries = append(group.Entries, entry)
			if !slot.Repeat {
				break
			}
		}
		if slot.Mandatory && len(group.Entries) == 0 {
			return nil, a.missing(slot.Tag)
		}
		body.Groups = append(body.Groups, group)
	}
	return body, nil
}

// fillSequence collects marker-initiated runs. The first marker may be anywhere
// in range; each following item must start right where the previous one ended.
func (a *assembler) fillSequence(seq *Sequence, from, to int) ([]*Body, error) {
	marker := seq.marker().matcher()
	var items []*Body
	start, end := from, to
	for seq.Max == 0 || len(items) < seq.Max {
		pf, ok := a.tr.NextBetween(marker, start, end)
		if !ok {
			break
		}
		stop := pf.Position + 1
		for stop < to {
			tag := a.tr.Field(stop).Tag
			if marker(tag) || !seq.owns(tag) {
				break
			}
			stop++
		}
		item, err := a.fill(seq.Slots, pf.Position, stop)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		start, end = stop, stop+1
	}
	if len(items) < seq.Min {
		return nil, a.missing(seq.marker().Tag)
	}
	return items, nil
}

func (a *assembler) nextSequenceStart(later []Slot, from, to int) int {
	for _, s := range later {
		if s.Sequence == nil {
			continue
		}
		if pf, ok := a.tr.NextBetween(s.Sequence.marker().matcher(), from, to); ok {
			return pf.Position
		}
	}
	return to
}

func (a *assembler) take(slot Slot, pf tokenizer.ParsedField) (Entry, error) {
	var (
		f      fields.Field
		result fields.SniffResult
		err    error
	)
	if slot.Options != nil {
		f, result, err = fields.ParseVariant(pf.Tag, pf.Content, slot.Options)
	} else {
		f, err = fields.Parse(pf.Tag, pf.Content)
	}
	if err != nil {
		return Entry{}, &parsererror.MessageError{MessageType: a.messageType, Tag: pf.Tag, Err: err}
	}
	if err := a.tr.MarkConsumed(pf.Position); err != nil {
		return Entry{}, &parsererror.MessageError{MessageType: a.messageType, Tag: pf.Tag, Err: err}
	}
	return Entry{Field: f, Position: pf.Position, Ambiguous: result.Ambiguous}, nil
}

func (a *assembler) missing(tag string) error {
	return &parsererror.MessageError{
		MessageType: a.messageType,
		Tag:         tag,
		Err:         parsererror.ErrMissingRequiredField,
	}
}
