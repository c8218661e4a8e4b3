package headers

import "fjacquet/swift-mt/internal/parsererror"

// Trailer tags.
const (
	TagChecksum                  = "CHK"
	TagTestAndTraining           = "TNG"
	TagPossibleDuplicateEmission = "PDE"
	TagDelayedMessage            = "DLM"
	TagMessageReference          = "MRF"
	TagPossibleDuplicateMessage  = "PDM"
	TagSystemOriginatedMessage   = "SYS"
)

// TimedReference is the shared layout of PDE, PDM and SYS: an optional HHMM time
// followed by an optional 28 character message reference.
type TimedReference struct {
	Time      string                 `json:"time,omitempty" yaml:"time,omitempty"`
	Reference *MessageInputReference `json:"reference,omitempty" yaml:"reference,omitempty"`
}

// MessageReference is the MRF tag: date, full time and the MIR of the original message.
type MessageReference struct {
	Date      string                 `json:"date" yaml:"date"`
	Time      string                 `json:"time" yaml:"time"`
	Reference *MessageInputReference `json:"reference" yaml:"reference"`
}

// Trailer is block 5. MAC and PAC values are kept as opaque tags.
type Trailer struct {
	Tags []Tag `json:"tags" yaml:"tags"`

	Checksum                  string            `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	TestAndTraining           bool              `json:"test_and_training,omitempty" yaml:"test_and_training,omitempty"`
	DelayedMessage            bool              `json:"delayed_message,omitempty" yaml:"delayed_message,omitempty"`
	PossibleDuplicateEmission *TimedReference   `json:"possible_duplicate_emission,omitempty" yaml:"possible_duplicate_emission,omitempty"`
	PossibleDuplicateMessage  *TimedReference   `json:"possible_duplicate_message,omitempty" yaml:"possible_duplicate_message,omitempty"`
	SystemOriginatedMessage   *TimedReference   `json:"system_originated_message,omitempty" yaml:"system_originated_message,omitempty"`
	MessageReference          *MessageReference `json:"message_reference,omitempty" yaml:"message_reference,omitempty"`
}

// ParseTrailer decodes block 5.
func ParseTrailer(block5 string) (*Trailer, error) {
	tags, err := parseTags(block5, 5)
	if err != nil {
		return nil, err
	}
	tr := &Trailer{Tags: tags}
	for _, t := range tags {
		if err := tr.decode(t); err != nil {
			return nil, &parsererror.BlockError{Block: 5, Snippet: t.String(), Err: err}
		}
	}
	return tr, nil
}

func (tr *Trailer) decode(t Tag) error {
	switch t.Tag {
	case TagChecksum:
		tr.Checksum = t.Value
	case TagTestAndTraining:
		tr.TestAndTraining = true
	case TagDelayedMessage:
		tr.DelayedMessage = true
	case TagPossibleDuplicateEmission, TagPossibleDuplicateMessage, TagSystemOriginatedMessage:
		ref, ok := parseTimedReference(t.Value)
		if !ok {
			return tagError(t.Tag, t.Value, "[HHMM][28 character reference]")
		}
		switch t.Tag {
		case TagPossibleDuplicateEmission:
			tr.PossibleDuplicateEmission = ref
		case TagPossibleDuplicateMessage:
			tr.PossibleDuplicateMessage = ref
		default:
			tr.SystemOriginatedMessage = ref
		}
	case TagMessageReference:
		if len(t.Value) != 38 {
			return tagError(t.Tag, t.Value, "YYMMDDHHMM + 28 character MIR")
		}
		mir, _ := parseMIR(t.Value[10:])
		tr.MessageReference = &MessageReference{Date: t.Value[0:6], Time: t.Value[6:10], Reference: mir}
	}
	return nil
}

func parseTimedReference(v string) (*TimedReference, bool) {
	ref := &TimedReference{}
	switch len(v) {
	case 0:
	case 4:
		ref.Time = v
	case 32:
		ref.Time = v[0:4]
		ref.Reference, _ = parseMIR(v[4:])
	default:
		return nil, false
	}
	return ref, true
}

// Get returns the raw value of a tag.
func (tr *Trailer) Get(tag string) (string, bool) {
	for _, t := range tr.Tags {
		if t.Tag == tag {
			return t.Value, true
		}
	}
	return "", false
}

func (tr *Trailer) String() string {
	return joinTags(tr.Tags)
}
