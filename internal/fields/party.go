package fields

import (
	"fmt"
	"strconv"
	"strings"

	"fjacquet/swift-mt/internal/textutils"
	"fjacquet/swift-mt/internal/validation"
)

// Option letter sets of the party field families. The empty string stands for
// the letterless option, e.g. ":59:".
var (
	OrderingCustomerAFK = []string{"A", "F", "K"}
	OrderingCustomerNCF = []string{"", "C", "F"}
	OrderingCustomerFGH = []string{"F", "G", "H"}
	InstructingParty    = []string{"C", "L"}
	Creditor            = []string{"A", "K"}
	Beneficiary         = []string{"", "A", "F"}
)

// NumberedLine is one "n/text" line of a structured name and address.
type NumberedLine struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

func (l NumberedLine) String() string {
	return strconv.Itoa(l.Number) + "/" + l.Text
}

func parseNumberedLines(lines []string, ctx string) ([]NumberedLine, error) {
	if len(lines) == 0 || len(lines) > 4 {
		return nil, lengthError(ctx, "invalid number of numbered lines", "1 to 4 lines", fmt.Sprintf("%d lines", len(lines)))
	}
	out := make([]NumberedLine, 0, len(lines))
	for i, line := range lines {
		lineCtx := fmt.Sprintf("%s line %d", ctx, i+1)
		if !textutils.IsNumberedLine(line) {
			return nil, formatError(lineCtx, "line must start with a line number", "1!n/33x", line)
		}
		text := line[2:]
		if err := validation.LengthRange(text, 1, 33, lineCtx); err != nil {
			return nil, err
		}
		if err := textutils.ValidateSwiftChars(text, lineCtx); err != nil {
			return nil, err
		}
		out = append(out, NumberedLine{Number: int(line[0] - '0'), Text: text})
	}
	return out, nil
}

func numberedLineStrings(lines []NumberedLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

// Field50 is the letterless ordering customer: 4*35x.
type Field50 struct {
	NameAndAddress []string `json:"name_and_address"`
}

func (f *Field50) Tag() string   { return "50" }
func (f *Field50) Value() string { return joinLines(f.NameAndAddress...) }

// ParseField50 parses the letterless option.
func ParseField50(content string) (*Field50, error) {
	lines, err := textutils.ValidateLines(content, fieldContext("50"), 4, 35)
	if err != nil {
		return nil, fieldError("50", content, err)
	}
	return &Field50{NameAndAddress: lines}, nil
}

// Field50A is an ordering customer with numbered name and address lines:
// [/34x] then 4*(1!n/33x).
type Field50A struct {
	PartyIdentifier string         `json:"party_identifier,omitempty"`
	NameAndAddress  []NumberedLine `json:"name_and_address"`
}

func (f *Field50A) Tag() string { return "50A" }
func (f *Field50A) Value() string {
	return withAccount(f.PartyIdentifier, f.PartyIdentifier != "", numberedLineStrings(f.NameAndAddress))
}

// ParseField50A parses option A.
func ParseField50A(content string) (*Field50A, error) {
	const tag = "50A"
	ctx := fieldContext(tag)
	party, hasParty, rest := splitAccountLine(textutils.SplitLines(content))
	if hasParty {
		if err := validateAccountLine(party, ctx+" party identifier"); err != nil {
			return nil, fieldError(tag, content, err)
		}
	}
	lines, err := parseNumberedLines(rest, ctx)
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &Field50A{PartyIdentifier: party, NameAndAddress: lines}, nil
}

// Field50F is an ordering customer given by account and BIC, with an optional
// party identifier and name lines in between.
type Field50F struct {
	Account         string   `json:"account"`
	PartyIdentifier string   `json:"party_identifier,omitempty"`
	NameAndAddress  []string `json:"name_and_address,omitempty"`
	BIC             string   `json:"bic"`
}

func (f *Field50F) Tag() string { return "50F" }
func (f *Field50F) Value() string {
	lines := []string{f.Account}
	if f.PartyIdentifier != "" {
		lines = append(lines, "/"+f.PartyIdentifier)
	}
	lines = append(lines, f.NameAndAddress...)
	return joinLines(append(lines, f.BIC)...)
}

// ParseField50F parses option F.
func ParseField50F(content string) (*Field50F, error) {
	const tag = "50F"
	ctx := fieldContext(tag)
	lines := textutils.SplitLines(content)
	if len(lines) < 2 {
		return nil, fieldError(tag, content, formatError(ctx, "expected an account line and a BIC line", "35x\\n[/34x]\\n[4*35x]\\n4!a2!a2!c[3!c]", content))
	}
	if _, err := textutils.ValidateLines(lines[0], ctx+" account", 1, 35); err != nil {
		return nil, fieldError(tag, content, err)
	}
	f := &Field50F{Account: lines[0], BIC: lines[len(lines)-1]}
	if err := validation.ValidateBIC(f.BIC); err != nil {
		return nil, fieldError(tag, content, err)
	}
	middle := lines[1 : len(lines)-1]
	if len(middle) > 0 && strings.HasPrefix(middle[0], "/") {
		if err := validateAccountLine(middle[0][1:], ctx+" party identifier"); err != nil {
			return nil, fieldError(tag, content, err)
		}
		f.PartyIdentifier = middle[0][1:]
		middle = middle[1:]
	}
	if len(middle) > 0 {
		names, err := textutils.ValidateLines(joinLines(middle...), ctx+" name and address", 4, 35)
		if err != nil {
			return nil, fieldError(tag, content, err)
		}
		f.NameAndAddress = names
	}
	return f, nil
}

// Field50K is an ordering customer in free format: [/34x] then 4*35x.
type Field50K struct {
	Account        string   `json:"account,omitempty"`
	NameAndAddress []string `json:"name_and_address"`
}

func (f *Field50K) Tag() string { return "50K" }
func (f *Field50K) Value() string {
	return withAccount(f.Account, f.Account != "", f.NameAndAddress)
}

// ParseField50K parses option K.
func ParseField50K(content string) (*Field50K, error) {
	account, names, err := parseAccountAndNames("50K", content, false)
	if err != nil {
		return nil, err
	}
	return &Field50K{Account: account, NameAndAddress: names}, nil
}

// Field50C is an instructing party identified by BIC.
type Field50C struct {
	BIC string `json:"bic"`
}

func (f *Field50C) Tag() string   { return "50C" }
func (f *Field50C) Value() string { return f.BIC }

// ParseField50C parses option C.
func ParseField50C(content string) (*Field50C, error) {
	if err := validation.ValidateBIC(content); err != nil {
		return nil, fieldError("50C", content, err)
	}
	return &Field50C{BIC: content}, nil
}

// Field50L is an instructing party identified by a single line of text.
type Field50L struct {
	PartyIdentifier string `json:"party_identifier"`
}

func (f *Field50L) Tag() string   { return "50L" }
func (f *Field50L) Value() string { return f.PartyIdentifier }

// ParseField50L parses option L.
func ParseField50L(content string) (*Field50L, error) {
	if _, err := textutils.ValidateLines(content, fieldContext("50L"), 1, 35); err != nil {
		return nil, fieldError("50L", content, err)
	}
	return &Field50L{PartyIdentifier: content}, nil
}

// Field50G is an ordering customer given by account and BIC: /34x then 4!a2!a2!c[3!c].
type Field50G struct {
	Account string `json:"account"`
	BIC     string `json:"bic"`
}

func (f *Field50G) Tag() string   { return "50G" }
func (f *Field50G) Value() string { return joinLines("/"+f.Account, f.BIC) }

// ParseField50G parses option G.
func ParseField50G(content string) (*Field50G, error) {
	const tag = "50G"
	ctx := fieldContext(tag)
	lines := textutils.SplitLines(content)
	account, hasAccount, rest := splitAccountLine(lines)
	if !hasAccount || len(rest) != 1 {
		return nil, fieldError(tag, content, formatError(ctx, "expected an account line and a BIC line", "/34x\\n4!a2!a2!c[3!c]", content))
	}
	if err := validateAccountLine(account, ctx+" account"); err != nil {
		return nil, fieldError(tag, content, err)
	}
	if err := validation.ValidateBIC(rest[0]); err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &Field50G{Account: account, BIC: rest[0]}, nil
}

// Field50H is an ordering customer given by account and name: /34x then 4*35x.
type Field50H struct {
	Account        string   `json:"account"`
	NameAndAddress []string `json:"name_and_address"`
}

func (f *Field50H) Tag() string { return "50H" }
func (f *Field50H) Value() string {
	return withAccount(f.Account, true, f.NameAndAddress)
}

// ParseField50H parses option H.
func ParseField50H(content string) (*Field50H, error) {
	account, names, err := parseAccountAndNames("50H", content, true)
	if err != nil {
		return nil, err
	}
	return &Field50H{Account: account, NameAndAddress: names}, nil
}

// parseAccountAndNames parses [/34x] followed by 4*35x.
func parseAccountAndNames(tag, content string, accountRequired bool) (string, []string, error) {
	ctx := fieldContext(tag)
	account, hasAccount, rest := splitAccountLine(textutils.SplitLines(content))
	if accountRequired && !hasAccount {
		return "", nil, fieldError(tag, content, formatError(ctx, "account line is mandatory", "/34x", textutils.Snippet(content, 35)))
	}
	if hasAccount {
		if err := validateAccountLine(account, ctx+" account"); err != nil {
			return "", nil, fieldError(tag, content, err)
		}
	}
	names, err := textutils.ValidateLines(joinLines(rest...), ctx+" name and address", 4, 35)
	if err != nil {
		return "", nil, fieldError(tag, content, err)
	}
	return account, names, nil
}

// Field59 is the letterless beneficiary customer: [/34x] then 4*35x.
type Field59 struct {
	Account        string   `json:"account,omitempty"`
	NameAndAddress []string `json:"name_and_address"`
}

func (f *Field59) Tag() string { return "59" }
func (f *Field59) Value() string {
	return withAccount(f.Account, f.Account != "", f.NameAndAddress)
}

// ParseField59 parses the letterless option.
func ParseField59(content string) (*Field59, error) {
	account, names, err := parseAccountAndNames("59", content, false)
	if err != nil {
		return nil, err
	}
	return &Field59{Account: account, NameAndAddress: names}, nil
}

// Field59A is a beneficiary identified by BIC: [/34x] then 4!a2!a2!c[3!c].
type Field59A struct {
	Account string `json:"account,omitempty"`
	BIC     string `json:"bic"`
}

func (f *Field59A) Tag() string { return "59A" }
func (f *Field59A) Value() string {
	return withAccount(f.Account, f.Account != "", []string{f.BIC})
}

// ParseField59A parses option A.
func ParseField59A(content string) (*Field59A, error) {
	const tag = "59A"
	ctx := fieldContext(tag)
	account, hasAccount, rest := splitAccountLine(textutils.SplitLines(content))
	if len(rest) != 1 {
		return nil, fieldError(tag, content, formatError(ctx, "expected an optional account line and a BIC", "[/34x]\\n4!a2!a2!c[3!c]", content))
	}
	if hasAccount {
		if err := validateAccountLine(account, ctx+" account"); err != nil {
			return nil, fieldError(tag, content, err)
		}
	}
	if err := validation.ValidateBIC(rest[0]); err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &Field59A{Account: account, BIC: rest[0]}, nil
}

// Field59F is a beneficiary with numbered name and address lines: [/34x] then 4*(1!n/33x).
type Field59F struct {
	Account        string         `json:"account,omitempty"`
	NameAndAddress []NumberedLine `json:"name_and_address"`
}

func (f *Field59F) Tag() string { return "59F" }
func (f *Field59F) Value() string {
	return withAccount(f.Account, f.Account != "", numberedLineStrings(f.NameAndAddress))
}

// ParseField59F parses option F.
func ParseField59F(content string) (*Field59F, error) {
	const tag = "59F"
	ctx := fieldContext(tag)
	account, hasAccount, rest := splitAccountLine(textutils.SplitLines(content))
	if hasAccount {
		if err := validateAccountLine(account, ctx+" account"); err != nil {
			return nil, fieldError(tag, content, err)
		}
	}
	lines, err := parseNumberedLines(rest, ctx)
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &Field59F{Account: account, NameAndAddress: lines}, nil
}
