package fields

import (
	"strings"

	"fjacquet/swift-mt/internal/textutils"
	"fjacquet/swift-mt/internal/validation"
)

// InstitutionA identifies a financial institution by BIC: [/1!a][/34x] then 4!a2!a2!c[3!c].
// Base holds the field number, e.g. "52" for 52A.
type InstitutionA struct {
	Base            string `json:"-"`
	PartyIdentifier string `json:"party_identifier,omitempty"`
	BIC             string `json:"bic"`
}

func (f *InstitutionA) Tag() string { return f.Base + "A" }
func (f *InstitutionA) Value() string {
	return withAccount(f.PartyIdentifier, f.PartyIdentifier != "", []string{f.BIC})
}

// ParseInstitutionA parses option A of an institution field.
func ParseInstitutionA(base, content string) (*InstitutionA, error) {
	tag := base + "A"
	ctx := fieldContext(tag)
	lines := textutils.SplitLines(content)
	party, hasParty, rest := splitAccountLine(lines)
	if len(rest) != 1 {
		return nil, fieldError(tag, content, formatError(ctx, "expected an optional party line and a BIC", "[/34x]\\n4!a2!a2!c[3!c]", content))
	}
	if hasParty {
		if err := validateAccountLine(party, ctx+" party identifier"); err != nil {
			return nil, fieldError(tag, content, err)
		}
	}
	if err := validation.ValidateBIC(rest[0]); err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &InstitutionA{Base: base, PartyIdentifier: party, BIC: rest[0]}, nil
}

// InstitutionB identifies an institution by an optional party and location: [/1!a][/34x] then [35x].
type InstitutionB struct {
	Base            string `json:"-"`
	PartyIdentifier string `json:"party_identifier,omitempty"`
	Location        string `json:"location,omitempty"`
}

func (f *InstitutionB) Tag() string { return f.Base + "B" }
func (f *InstitutionB) Value() string {
	var lines []string
	if f.Location != "" {
		lines = []string{f.Location}
	}
	return withAccount(f.PartyIdentifier, f.PartyIdentifier != "", lines)
}

// ParseInstitutionB parses option B of an institution field.
func ParseInstitutionB(base, content string) (*InstitutionB, error) {
	tag := base + "B"
	ctx := fieldContext(tag)
	lines := textutils.SplitLines(content)
	party, hasParty, rest := splitAccountLine(lines)
	if (!hasParty && len(rest) == 0) || len(rest) > 1 {
		return nil, fieldError(tag, content, formatError(ctx, "expected a party line, a location line or both", "[/34x]\\n[35x]", content))
	}
	if hasParty {
		if err := validateAccountLine(party, ctx+" party identifier"); err != nil {
			return nil, fieldError(tag, content, err)
		}
	}
	f := &InstitutionB{Base: base, PartyIdentifier: party}
	if len(rest) == 1 {
		if _, err := textutils.ValidateLines(rest[0], ctx+" location", 1, 35); err != nil {
			return nil, fieldError(tag, content, err)
		}
		f.Location = rest[0]
	}
	return f, nil
}

// InstitutionC identifies an institution by a clearing code: /34x.
type InstitutionC struct {
	Base            string `json:"-"`
	PartyIdentifier string `json:"party_identifier"`
}

func (f *InstitutionC) Tag() string   { return f.Base + "C" }
func (f *InstitutionC) Value() string { return "/" + f.PartyIdentifier }

// ParseInstitutionC parses option C of an institution field.
func ParseInstitutionC(base, content string) (*InstitutionC, error) {
	tag := base + "C"
	ctx := fieldContext(tag)
	if !strings.HasPrefix(content, "/") || strings.Contains(content, "\n") {
		return nil, fieldError(tag, content, formatError(ctx, "expected a single party identifier line", "/34x", content))
	}
	if err := validateAccountLine(content[1:], ctx); err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &InstitutionC{Base: base, PartyIdentifier: content[1:]}, nil
}

// InstitutionD identifies an institution by name and address: [/1!a][/34x] then 4*35x.
type InstitutionD struct {
	Base            string   `json:"-"`
	PartyIdentifier string   `json:"party_identifier,omitempty"`
	NameAndAddress  []string `json:"name_and_address"`
}

func (f *InstitutionD) Tag() string { return f.Base + "D" }
func (f *InstitutionD) Value() string {
	return withAccount(f.PartyIdentifier, f.PartyIdentifier != "", f.NameAndAddress)
}

// ParseInstitutionD parses option D of an institution field.
func ParseInstitutionD(base, content string) (*InstitutionD, error) {
	tag := base + "D"
	ctx := fieldContext(tag)
	party, hasParty, rest := splitAccountLine(textutils.SplitLines(content))
	if hasParty {
		if err := validateAccountLine(party, ctx+" party identifier"); err != nil {
			return nil, fieldError(tag, content, err)
		}
	}
	lines, err := textutils.ValidateLines(joinLines(rest...), ctx+" name and address", 4, 35)
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &InstitutionD{Base: base, PartyIdentifier: party, NameAndAddress: lines}, nil
}

// InstitutionOptions lists the options each institution field accepts in any message.
var InstitutionOptions = map[string]string{
	"51": "A",
	"52": "ABD",
	"53": "ABD",
	"54": "ABD",
	"55": "ABD",
	"56": "ACD",
	"57": "ABCD",
	"58": "AD",
}

// ParseInstitution parses an institution field given its explicit option letter.
func ParseInstitution(base, option, content string) (Field, error) {
	var (
		f   Field
		err error
	)
	switch option {
	case "A":
		f, err = asField(ParseInstitutionA(base, content))
	case "B":
		f, err = asField(ParseInstitutionB(base, content))
	case "C":
		f, err = asField(ParseInstitutionC(base, content))
	case "D":
		f, err = asField(ParseInstitutionD(base, content))
	default:
		tag := base + option
		err = fieldError(tag, content, formatError(fieldContext(tag), "unsupported option", "one of A, B, C, D", option))
	}
	return f, err
}

// asField drops the typed nil a failed parser returns.
func asField[T Field](f T, err error) (Field, error) {
	if err != nil {
		return nil, err
	}
	return f, nil
}
