// Package tracker records which block 4 fields a message parse has already
// assigned to a schema slot.
//
// A Tracker is an arena: the fields are kept in source order and a parallel
// slice flags the consumed positions. It belongs to exactly one parse and must
// not be shared.
package tracker

import (
	"errors"
	"fmt"
	"slices"

	"fjacquet/swift-mt/internal/tokenizer"
)

var (
	// ErrAlreadyConsumed is returned when a position is consumed twice.
	ErrAlreadyConsumed = errors.New("field already consumed")
	// ErrOutOfOrder is returned when a tag is consumed behind an occurrence already taken.
	ErrOutOfOrder = errors.New("field consumed out of source order")
)

// Matcher selects candidate tags.
type Matcher func(tag string) bool

// Exact matches one tag.
func Exact(tag string) Matcher {
	return func(t string) bool { return t == tag }
}

// Variant matches base followed by one of the option letters. The bare base tag
// always matches: its option is resolved from the content.
func Variant(base string, options []string) Matcher {
	return func(t string) bool {
		if len(t) < 2 || t[:2] != base {
			return false
		}
		return len(t) == 2 || slices.Contains(options, t[2:])
	}
}

// Tracker hands out the fields of one message in source order.
type Tracker struct {
	fields   []tokenizer.ParsedField
	consumed []bool
	last     map[string]int
}

// New creates a tracker over fields. Positions must be the slice indexes, as
// produced by tokenizer.ParseBlock4Fields.
func New(fields []tokenizer.ParsedField) *Tracker {
	return &Tracker{
		fields:   fields,
		consumed: make([]bool, len(fields)),
		last:     make(map[string]int),
	}
}

// Len returns the number of fields.
func (t *Tracker) Len() int { return len(t.fields) }

// Field returns the field at position.
func (t *Tracker) Field(position int) tokenizer.ParsedField { return t.fields[position] }

// IsConsumed reports whether position has been assigned.
func (t *Tracker) IsConsumed(position int) bool { return t.consumed[position] }

// MarkConsumed assigns the field at position.
func (t *Tracker) MarkConsumed(position int) error {
	if position < 0 || position >= len(t.fields) {
		return fmt.Errorf("position %d out of range [0, %d)", position, len(t.fields))
	}
	f := t.fields[position]
	if t.consumed[position] {
		return fmt.Errorf("%w: %s at position %d", ErrAlreadyConsumed, f.Tag, position)
	}
	if last, ok := t.last[f.Tag]; ok && position < last {
		return fmt.Errorf("%w: %s at position %d after position %d", ErrOutOfOrder, f.Tag, position, last)
	}
	t.consumed[position] = true
	t.last[f.Tag] = position
	return nil
}

// NextBetween returns the lowest unconsumed field in [from, to) accepted by match.
// Occurrences behind the last consumed one of the same tag are skipped.
func (t *Tracker) NextBetween(match Matcher, from, to int) (tokenizer.ParsedField, bool) {
	from = max(from, 0)
	to = min(to, len(t.fields))
	for pos := from; pos < to; pos++ {
		f := t.fields[pos]
		if t.consumed[pos] || !match(f.Tag) {
			continue
		}
		if last, ok := t.last[f.Tag]; ok && pos < last {
			continue
		}
		return f, true
	}
	return tokenizer.ParsedField{}, false
}

// NextAvailable returns the lowest unconsumed occurrence of tag.
func (t *Tracker) NextAvailable(tag string) (tokenizer.ParsedField, bool) {
	return t.NextBetween(Exact(tag), 0, len(t.fields))
}

// NextVariant returns the lowest unconsumed occurrence of base whose option is in
// options. Occurrences with other letters never hide a later compatible one.
func (t *Tracker) NextVariant(base string, options []string) (tokenizer.ParsedField, bool) {
	return t.NextBetween(Variant(base, options), 0, len(t.fields))
}

// NextBefore returns the lowest unconsumed occurrence of tag before limit.
func (t *Tracker) NextBefore(tag string, limit int) (tokenizer.ParsedField, bool) {
	return t.NextBetween(Exact(tag), 0, limit)
}

// Consumed returns the assigned fields in source order.
func (t *Tracker) Consumed() []tokenizer.ParsedField {
	return t.collect(true)
}

// Remaining returns the unassigned fields in source order.
func (t *Tracker) Remaining() []tokenizer.ParsedField {
	return t.collect(false)
}

func (t *Tracker) collect(consumed bool) []tokenizer.ParsedField {
	var out []tokenizer.ParsedField
	for pos, f := range t.fields {
		if t.consumed[pos] == consumed {
			out = append(out, f)
		}
	}
	return out
}
