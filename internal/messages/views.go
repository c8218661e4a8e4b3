package messages

import (
	"slices"
	"strings"

	"fjacquet/swift-mt/internal/fields"
)

// StatementLine is one item of the statement line sequence of MT940, MT942 and MT950.
type StatementLine struct {
	Field61 *fields.Field61   `json:"field_61"`
	Field86 *fields.Narrative `json:"field_86,omitempty"`
}

// StatementLines returns the statement lines in source order.
func StatementLines(m *SwiftMessage) []StatementLine {
	items := m.Body.Items("statement_lines")
	lines := make([]StatementLine, 0, len(items))
	for _, item := range items {
		var line StatementLine
		if f, ok := item.Get("61"); ok {
			line.Field61, _ = f.(*fields.Field61)
		}
		if f, ok := item.Get("86"); ok {
			line.Field86, _ = f.(*fields.Narrative)
		}
		lines = append(lines, line)
	}
	return lines
}

// narrativeLines returns the lines of an optional narrative field.
func narrativeLines(m *SwiftMessage, key string) []string {
	f, ok := m.Get(key)
	if !ok {
		return nil
	}
	if n, ok := f.(*fields.Narrative); ok {
		return n.Lines
	}
	return nil
}

func anyLineContains(lines []string, codes ...string) bool {
	return slices.ContainsFunc(lines, func(line string) bool {
		return slices.ContainsFunc(codes, func(code string) bool {
			return strings.Contains(line, code)
		})
	})
}

func murContains(m *SwiftMessage, code string) bool {
	return m.User != nil && strings.Contains(strings.ToUpper(m.User.MessageUserReference), code)
}

// HasRejectCodes reports whether the message signals a reject: REJT in the user
// reference (108) or a /REJT/ code in field 72.
func HasRejectCodes(m *SwiftMessage) bool {
	return murContains(m, "REJT") || anyLineContains(narrativeLines(m, "72"), "/REJT/", "/RJT/")
}

// HasReturnCodes reports whether the message signals a return: RETN in the user
// reference (108) or a /RETN/ code in field 72.
func HasReturnCodes(m *SwiftMessage) bool {
	return murContains(m, "RETN") || anyLineContains(narrativeLines(m, "72"), "/RETN/", "/RET/")
}

// IsCoverMessage reports whether an MT202 or MT205 covers a customer transfer.
func IsCoverMessage(m *SwiftMessage) bool {
	if m.SchemaName() == "202COV" {
		return true
	}
	return anyLineContains(narrativeLines(m, "72"), "/COV/", "/COVER/")
}

// SPRIInstructionCodes lists the 23E codes allowed with bank operation code SPRI.
var SPRIInstructionCodes = []string{"SDVA", "TELB", "PHOB", "INTC"}

// IsSTPCompliant applies the MT103 bank operation code restrictions: SPRI allows
// only SDVA, TELB, PHOB and INTC in 23E and no 56a; SSTD and SPAY allow no 23E.
// Other codes are compliant.
func IsSTPCompliant(m *SwiftMessage) bool {
	code, ok := FieldAs[*fields.Code](m, "23B")
	if !ok {
		return true
	}
	instructions := m.Body.All("23E")
	switch code.Code {
	case "SPRI":
		for _, f := range instructions {
			if e, ok := f.(*fields.Field23E); ok && !slices.Contains(SPRIInstructionCodes, e.InstructionCode) {
				return false
			}
		}
		return !m.Body.Has("56a")
	case "SSTD", "SPAY":
		return len(instructions) == 0
	}
	return true
}
