package fields

import (
	"strings"

	"fjacquet/swift-mt/internal/textutils"
	"fjacquet/swift-mt/internal/validation"
)

// NarrativeFormat bounds a free-text field.
type NarrativeFormat struct {
	MaxLines int
	MaxChars int
	// AnyCharacter selects the "z" character set, where every character is allowed.
	AnyCharacter bool
	// MaxTotal caps the whole content, used by the z format fields.
	MaxTotal int
}

// NarrativeFormats lists the bounds of every narrative tag.
var NarrativeFormats = map[string]NarrativeFormat{
	"70":  {MaxLines: 4, MaxChars: 35},
	"71B": {MaxLines: 6, MaxChars: 35},
	"72":  {MaxLines: 6, MaxChars: 35},
	"75":  {MaxLines: 6, MaxChars: 35},
	"76":  {MaxLines: 6, MaxChars: 35},
	"77A": {MaxLines: 20, MaxChars: 35},
	"77B": {MaxLines: 3, MaxChars: 35},
	"79":  {MaxLines: 35, MaxChars: 50},
	"86":  {MaxLines: 6, MaxChars: 65},
	"77T": {MaxLines: 9000, MaxChars: 9000, AnyCharacter: true, MaxTotal: 9000},
}

// Narrative is a multi-line free-text field.
type Narrative struct {
	FieldTag string   `json:"-"`
	Lines    []string `json:"lines"`
}

func (f *Narrative) Tag() string   { return f.FieldTag }
func (f *Narrative) Value() string { return joinLines(f.Lines...) }

// Text returns the lines joined with single spaces.
func (f *Narrative) Text() string {
	return strings.Join(f.Lines, " ")
}

// ParseNarrative parses a narrative tag against its NarrativeFormats bounds.
func ParseNarrative(tag, content string) (*Narrative, error) {
	format, ok := NarrativeFormats[tag]
	if !ok {
		format = NarrativeFormat{MaxLines: 35, MaxChars: 50}
	}
	ctx := fieldContext(tag)
	if format.MaxTotal > 0 {
		if err := validation.MaxLength(content, format.MaxTotal, ctx); err != nil {
			return nil, fieldError(tag, content, err)
		}
	}
	var lines []string
	var err error
	if format.AnyCharacter {
		lines, err = textutils.ValidateAnyLines(content, ctx, format.MaxLines, format.MaxChars)
	} else {
		lines, err = textutils.ValidateLines(content, ctx, format.MaxLines, format.MaxChars)
	}
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &Narrative{FieldTag: tag, Lines: lines}, nil
}
