// Package messages assembles block 4 fields into typed messages. Every message
// type is a declarative Schema interpreted by one assembly engine.
package messages

import (
	"slices"
	"sort"

	"fjacquet/swift-mt/internal/tracker"
)

// Slot is one position of a schema: a field, possibly lettered or repeating, or
// a repeating sequence.
type Slot struct {
	// Tag is the exact tag, or the base tag when Options is set.
	Tag string
	// Options lists the accepted option letters; "" accepts the bare tag.
	Options   []string
	Mandatory bool
	Repeat    bool
	Sequence  *Sequence
}

// Sequence is a repeating group of fields introduced by a marker, the first slot.
type Sequence struct {
	Name  string
	Slots []Slot
	Min   int
	// Max caps the number of items; 0 means unbounded.
	Max int
}

// Key identifies the slot in a Body: the tag, "50a" for lettered families, or
// the sequence name.
func (s Slot) Key() string {
	switch {
	case s.Sequence != nil:
		return s.Sequence.Name
	case s.Options != nil:
		return s.Tag + "a"
	}
	return s.Tag
}

func (s Slot) matcher() tracker.Matcher {
	if s.Options != nil {
		return tracker.Variant(s.Tag, s.Options)
	}
	return tracker.Exact(s.Tag)
}

func (q *Sequence) marker() Slot { return q.Slots[0] }

// owns reports whether tag can belong to an item of the sequence.
func (q *Sequence) owns(tag string) bool {
	return slices.ContainsFunc(q.Slots, func(s Slot) bool {
		return s.Sequence == nil && s.matcher()(tag)
	})
}

// Schema declares the slots of one message type in wire order.
type Schema struct {
	// Type is the three digit message type.
	Type string
	// Variant distinguishes validation profiles sharing a type, e.g. "STP" or "COV".
	Variant string
	Slots   []Slot
}

// Name returns the type and variant, e.g. "103STP".
func (s *Schema) Name() string { return s.Type + s.Variant }

func mandatory(tag string) Slot { return Slot{Tag: tag, Mandatory: true} }
func optional(tag string) Slot  { return Slot{Tag: tag} }
func repeated(tag string) Slot  { return Slot{Tag: tag, Repeat: true} }

func variant(base string, options ...string) Slot {
	return Slot{Tag: base, Options: options, Mandatory: true}
}

func optionalVariant(base string, options ...string) Slot {
	return Slot{Tag: base, Options: options}
}

func sequence(name string, min, max int, slots ...Slot) Slot {
	return Slot{Sequence: &Sequence{Name: name, Slots: slots, Min: min, Max: max}}
}

var schemas = map[string]*Schema{}

func register(s *Schema) {
	schemas[s.Name()] = s
}

// Lookup returns the schema registered under name ("103", "103STP", "202COV", ...).
func Lookup(name string) (*Schema, bool) {
	s, ok := schemas[name]
	return s, ok
}

// SupportedTypes returns the registered schema names in ascending order.
func SupportedTypes() []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
