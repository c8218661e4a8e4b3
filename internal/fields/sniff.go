package fields

import (
	"slices"
	"strings"

	"fjacquet/swift-mt/internal/textutils"
	"fjacquet/swift-mt/internal/validation"
)

// SniffResult is the option chosen for content whose tag carries no letter.
type SniffResult struct {
	// Option is the selected letter, empty for the letterless option.
	Option string
	// Ambiguous is set when the content also parses under the fallback option
	// of its family, so the choice rests on shape alone.
	Ambiguous bool
}

// SniffOption infers the option letter of a field from the shape of its content.
// allowed restricts the candidates; the decision list is applied in order:
//
//  1. a line of the form "n/..." selects the numbered-line option (50A, 59F)
//  2. exactly two lines ending in a BIC select the account and BIC option
//     (50G or 50F, 59A, institution A); a single BIC selects 50C, 59A or A
//  3. otherwise the most permissive option of the family applies
func SniffOption(base, content string, allowed []string) SniffResult {
	lines := textutils.SplitLines(content)
	switch {
	case base == "50":
		return sniffOrderingParty(content, lines, allowed)
	case base == "59":
		return sniffBeneficiary(content, lines, allowed)
	case InstitutionOptions[base] != "":
		return sniffInstitution(base, content, lines, allowed)
	}
	return SniffResult{Option: firstOption(allowed)}
}

func sniffOrderingParty(content string, lines []string, allowed []string) SniffResult {
	has := func(o string) bool { return slices.Contains(allowed, o) }
	if has("A") && slices.ContainsFunc(lines, textutils.IsNumberedLine) {
		return SniffResult{Option: "A"}
	}
	fallback := orderingFallback(lines, allowed)
	if len(lines) == 2 && validation.IsBIC(lines[1]) {
		option := ""
		switch {
		case has("G") && strings.HasPrefix(lines[0], "/"):
			option = "G"
		case has("F"):
			option = "F"
		}
		if option != "" {
			return SniffResult{Option: option, Ambiguous: parses("50"+fallback, content)}
		}
	}
	if has("C") && len(lines) == 1 && validation.IsBIC(lines[0]) {
		return SniffResult{Option: "C"}
	}
	return SniffResult{Option: fallback}
}

func orderingFallback(lines []string, allowed []string) string {
	has := func(o string) bool { return slices.Contains(allowed, o) }
	switch {
	case has("K"):
		return "K"
	case has("H") && len(lines) > 0 && strings.HasPrefix(lines[0], "/"):
		return "H"
	case has(""):
		return ""
	case has("L"):
		return "L"
	}
	return firstOption(allowed)
}

func sniffBeneficiary(content string, lines []string, allowed []string) SniffResult {
	has := func(o string) bool { return slices.Contains(allowed, o) }
	fallback := firstOption(allowed)
	if has("") {
		fallback = ""
	}
	if has("F") && slices.ContainsFunc(lines, textutils.IsNumberedLine) {
		return SniffResult{Option: "F"}
	}
	if has("A") {
		if len(lines) == 2 && strings.HasPrefix(lines[0], "/") && validation.IsBIC(lines[1]) {
			return SniffResult{Option: "A", Ambiguous: parses("59"+fallback, content)}
		}
		if len(lines) == 1 && validation.IsBIC(lines[0]) {
			return SniffResult{Option: "A"}
		}
	}
	return SniffResult{Option: fallback}
}

func sniffInstitution(base, content string, lines []string, allowed []string) SniffResult {
	has := func(o string) bool { return slices.Contains(allowed, o) }
	fallback := firstOption(allowed)
	switch {
	case has("D"):
		fallback = "D"
	case has("B"):
		fallback = "B"
	}
	if has("A") && len(lines) > 0 && validation.IsBIC(lines[len(lines)-1]) {
		if len(lines) == 1 {
			return SniffResult{Option: "A"}
		}
		if len(lines) == 2 && strings.HasPrefix(lines[0], "/") {
			return SniffResult{Option: "A", Ambiguous: fallback != "A" && parses(base+fallback, content)}
		}
	}
	if has("C") && len(lines) == 1 && strings.HasPrefix(lines[0], "/") {
		return SniffResult{Option: "C"}
	}
	return SniffResult{Option: fallback}
}

func firstOption(allowed []string) string {
	if len(allowed) == 0 {
		return ""
	}
	return allowed[0]
}

func parses(tag, content string) bool {
	_, err := Parse(tag, content)
	return err == nil
}
