package fields

import (
	"slices"

	"fjacquet/swift-mt/internal/tokenizer"
)

type parseFunc func(tag, content string) (Field, error)

// wrap adapts a typed tag-aware parser to parseFunc.
func wrap[T Field](fn func(tag, content string) (T, error)) parseFunc {
	return func(tag, content string) (Field, error) {
		f, err := fn(tag, content)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

// fixed adapts a parser bound to one tag to parseFunc.
func fixed[T Field](fn func(content string) (T, error)) parseFunc {
	return func(_, content string) (Field, error) {
		f, err := fn(content)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

var registry = map[string]parseFunc{}

func register(fn parseFunc, tags ...string) {
	for _, tag := range tags {
		registry[tag] = fn
	}
}

func init() {
	register(wrap(ParseReference), "20", "21", "21C", "21D", "21E", "21F", "21R")
	register(wrap(ParseCode), "12", "23B", "26T", "71A")
	register(fixed(ParseField23E), "23E")
	register(wrap(ParseAccount), "25", "25P")
	register(fixed(ParseField28), "28")
	register(fixed(ParseField28C), "28C")
	register(fixed(ParseField28D), "28D")
	register(wrap(ParseDateField), "30")
	register(fixed(ParseField13C), "13C")
	register(fixed(ParseField13D), "13D")
	register(wrap(ParseField11), "11R", "11S")
	register(fixed(ParseField19), "19")
	register(wrap(ParseDatedAmount), "32A", "32C", "32D")
	register(wrap(ParseCurrencyAmount), "32B", "33B", "71F", "71G")
	register(fixed(ParseField34F), "34F")
	register(wrap(ParseRate), "36")
	register(fixed(ParseField37H), "37H")
	register(wrap(ParseBalance), "60F", "60M", "62F", "62M", "64", "65")
	register(wrap(ParseField90), "90C", "90D")
	register(fixed(ParseField61), "61")
	for tag := range NarrativeFormats {
		register(wrap(ParseNarrative), tag)
	}

	register(fixed(ParseField50), "50")
	register(fixed(ParseField50A), "50A")
	register(fixed(ParseField50C), "50C")
	register(fixed(ParseField50F), "50F")
	register(fixed(ParseField50G), "50G")
	register(fixed(ParseField50H), "50H")
	register(fixed(ParseField50K), "50K")
	register(fixed(ParseField50L), "50L")
	register(fixed(ParseField59), "59")
	register(fixed(ParseField59A), "59A")
	register(fixed(ParseField59F), "59F")

	for base, options := range InstitutionOptions {
		for _, option := range options {
			register(func(_, content string) (Field, error) {
				return ParseInstitution(base, string(option), content)
			}, base+string(option))
		}
	}
}

// IsKnown reports whether tag has a dedicated grammar.
func IsKnown(tag string) bool {
	_, ok := registry[tag]
	return ok
}

// Parse parses content with the grammar registered for the exact tag.
// Tags without a grammar are returned as Generic.
func Parse(tag, content string) (Field, error) {
	fn, ok := registry[tag]
	if !ok {
		return &Generic{FieldTag: tag, Content: content}, nil
	}
	return fn(tag, content)
}

// ParseVariant parses a field that belongs to a lettered family. A letter on the
// tag is always honoured and must be one of allowed. A bare tag is the
// letterless option when the family has one; otherwise the option is sniffed
// from the content.
func ParseVariant(tag, content string, allowed []string) (Field, SniffResult, error) {
	base := tokenizer.BaseTag(tag)
	option := tokenizer.OptionLetter(tag)
	if option != "" || slices.Contains(allowed, "") {
		if !slices.Contains(allowed, option) {
			return nil, SniffResult{}, fieldError(tag, content, formatError(fieldContext(tag), "option not allowed here", joinOptions(base, allowed), tag))
		}
		f, err := Parse(tag, content)
		return f, SniffResult{Option: option}, err
	}
	result := SniffOption(base, content, allowed)
	f, err := Parse(base+result.Option, content)
	return f, result, err
}

func joinOptions(base string, allowed []string) string {
	out := ""
	for i, o := range allowed {
		if i > 0 {
			out += ", "
		}
		out += base + o
	}
	return out
}

// Letters splits an option string such as "ABD" into option letters.
func Letters(options string) []string {
	out := make([]string, 0, len(options))
	for _, r := range options {
		out = append(out, string(r))
	}
	return out
}
