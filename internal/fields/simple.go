package fields

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/swift-mt/internal/dateutils"
	"fjacquet/swift-mt/internal/textutils"
	"fjacquet/swift-mt/internal/validation"
)

// Reference is a transaction reference: field 20 and the field 21 options.
type Reference struct {
	FieldTag  string `json:"-"`
	Reference string `json:"reference"`
}

func (f *Reference) Tag() string   { return f.FieldTag }
func (f *Reference) Value() string { return f.Reference }

// referenceMaxLength holds the options of field 21 that widen the 16x reference.
var referenceMaxLength = map[string]int{"21C": 35, "21D": 35, "21E": 35}

// ParseReference parses field 20 or any field 21 option.
func ParseReference(tag, content string) (*Reference, error) {
	ctx := fieldContext(tag)
	if max, ok := referenceMaxLength[tag]; ok {
		if content == "" {
			return nil, fieldError(tag, content, formatError(ctx, "reference cannot be empty", "35x", content))
		}
		if err := validation.MaxLength(content, max, ctx); err != nil {
			return nil, fieldError(tag, content, err)
		}
		if err := textutils.ValidateSwiftChars(content, ctx); err != nil {
			return nil, fieldError(tag, content, err)
		}
		return &Reference{FieldTag: tag, Reference: content}, nil
	}
	if err := validation.ValidateReference(content, ctx); err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &Reference{FieldTag: tag, Reference: content}, nil
}

// Code is a single coded value: 23B, 71A, 26T, 12 and 23.
type Code struct {
	FieldTag string `json:"-"`
	Code     string `json:"code"`
}

func (f *Code) Tag() string   { return f.FieldTag }
func (f *Code) Value() string { return f.Code }

// Code lists for the enumerated fields.
var (
	BankOperationCodes = []string{"CRED", "CRTS", "SPAY", "SPRI", "SSTD"}
	ChargeCodes        = []string{"BEN", "OUR", "SHA"}
)

// ParseCode parses a coded field, checking enumerations where the tag has one.
func ParseCode(tag, content string) (*Code, error) {
	ctx := fieldContext(tag)
	var err error
	switch tag {
	case "23B":
		err = oneOf(content, BankOperationCodes, ctx)
	case "71A":
		err = oneOf(content, ChargeCodes, ctx)
	case "26T":
		if err = validation.ExactLength(content, 3, ctx); err == nil {
			err = validation.Alphanumeric(content, ctx)
		}
	case "12":
		if err = validation.ExactLength(content, 3, ctx); err == nil {
			err = validation.Numeric(content, ctx)
		}
	default:
		if err = validation.LengthRange(content, 1, 16, ctx); err == nil {
			err = textutils.ValidateSwiftChars(content, ctx)
		}
	}
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &Code{FieldTag: tag, Code: content}, nil
}

func oneOf(value string, allowed []string, ctx string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return formatError(ctx, "invalid code", strings.Join(allowed, ", "), value)
}

// Field23E is an instruction code with optional additional information.
type Field23E struct {
	InstructionCode string `json:"instruction_code"`
	AdditionalInfo  string `json:"additional_info,omitempty"`
}

func (f *Field23E) Tag() string { return "23E" }
func (f *Field23E) Value() string {
	if f.AdditionalInfo == "" {
		return f.InstructionCode
	}
	return f.InstructionCode + "/" + f.AdditionalInfo
}

// ParseField23E parses 4!c[/30x].
func ParseField23E(content string) (*Field23E, error) {
	const tag = "23E"
	ctx := fieldContext(tag)
	code, info, hasInfo := strings.Cut(content, "/")
	if err := validation.ExactLength(code, 4, ctx+" code"); err != nil {
		return nil, fieldError(tag, content, err)
	}
	if err := validation.Alphanumeric(code, ctx+" code"); err != nil {
		return nil, fieldError(tag, content, err)
	}
	if hasInfo {
		if err := validation.LengthRange(info, 1, 30, ctx+" additional information"); err != nil {
			return nil, fieldError(tag, content, err)
		}
		if err := textutils.ValidateSwiftChars(info, ctx); err != nil {
			return nil, fieldError(tag, content, err)
		}
	}
	return &Field23E{InstructionCode: code, AdditionalInfo: info}, nil
}

// Account is field 25, an account identification of up to 35 characters.
type Account struct {
	FieldTag string `json:"-"`
	Account  string `json:"account"`
}

func (f *Account) Tag() string   { return f.FieldTag }
func (f *Account) Value() string { return f.Account }

// ParseAccount parses field 25.
func ParseAccount(tag, content string) (*Account, error) {
	ctx := fieldContext(tag)
	if err := validation.LengthRange(content, 1, 35, ctx); err != nil {
		return nil, fieldError(tag, content, err)
	}
	if err := textutils.ValidateSwiftChars(content, ctx); err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &Account{FieldTag: tag, Account: content}, nil
}

// Field28C is the statement number and optional sequence number: 5n[/5n].
type Field28C struct {
	StatementNumber string `json:"statement_number"`
	SequenceNumber  string `json:"sequence_number,omitempty"`
}

func (f *Field28C) Tag() string { return "28C" }
func (f *Field28C) Value() string {
	if f.SequenceNumber == "" {
		return f.StatementNumber
	}
	return f.StatementNumber + "/" + f.SequenceNumber
}

// ParseField28C parses 5n[/5n].
func ParseField28C(content string) (*Field28C, error) {
	stmt, seq, err := parseNumberPair("28C", content, 5, 5, false)
	if err != nil {
		return nil, err
	}
	return &Field28C{StatementNumber: stmt, SequenceNumber: seq}, nil
}

// Field28 is the MT941 statement number and optional page: 5n[/2n].
type Field28 struct {
	StatementNumber string `json:"statement_number"`
	PageNumber      string `json:"page_number,omitempty"`
}

func (f *Field28) Tag() string { return "28" }
func (f *Field28) Value() string {
	if f.PageNumber == "" {
		return f.StatementNumber
	}
	return f.StatementNumber + "/" + f.PageNumber
}

// ParseField28 parses 5n[/2n].
func ParseField28(content string) (*Field28, error) {
	stmt, page, err := parseNumberPair("28", content, 5, 2, false)
	if err != nil {
		return nil, err
	}
	return &Field28{StatementNumber: stmt, PageNumber: page}, nil
}

// Field28D is the message index and total: 5n/5n.
type Field28D struct {
	Index string `json:"index"`
	Total string `json:"total"`
}

func (f *Field28D) Tag() string   { return "28D" }
func (f *Field28D) Value() string { return f.Index + "/" + f.Total }

// ParseField28D parses 5n/5n.
func ParseField28D(content string) (*Field28D, error) {
	index, total, err := parseNumberPair("28D", content, 5, 5, true)
	if err != nil {
		return nil, err
	}
	return &Field28D{Index: index, Total: total}, nil
}

func parseNumberPair(tag, content string, firstMax, secondMax int, secondRequired bool) (string, string, error) {
	ctx := fieldContext(tag)
	first, second, hasSecond := strings.Cut(content, "/")
	if err := validation.LengthRange(first, 1, firstMax, ctx); err != nil {
		return "", "", fieldError(tag, content, err)
	}
	if err := validation.Numeric(first, ctx); err != nil {
		return "", "", fieldError(tag, content, err)
	}
	if !hasSecond {
		if secondRequired {
			return "", "", fieldError(tag, content, formatError(ctx, "missing second number", fmt.Sprintf("%dn/%dn", firstMax, secondMax), content))
		}
		return first, "", nil
	}
	if err := validation.LengthRange(second, 1, secondMax, ctx); err != nil {
		return "", "", fieldError(tag, content, err)
	}
	if err := validation.Numeric(second, ctx); err != nil {
		return "", "", fieldError(tag, content, err)
	}
	return first, second, nil
}

// DateField is a bare YYMMDD date such as field 30.
type DateField struct {
	FieldTag string    `json:"-"`
	Date     time.Time `json:"date"`
}

func (f *DateField) Tag() string   { return f.FieldTag }
func (f *DateField) Value() string { return dateutils.FormatYYMMDD(f.Date) }

// ParseDateField parses a YYMMDD field.
func ParseDateField(tag, content string) (*DateField, error) {
	date, err := dateutils.ParseYYMMDD(content, fieldContext(tag))
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &DateField{FieldTag: tag, Date: date}, nil
}

// Field13C is a time indication: /8c/4!n1!x4!n, e.g. /CLSTIME/0915+0100.
type Field13C struct {
	Code      string `json:"code"`
	Time      int    `json:"time_minutes"`
	UTCOffset int    `json:"utc_offset_minutes"`
}

func (f *Field13C) Tag() string { return "13C" }
func (f *Field13C) Value() string {
	return "/" + f.Code + "/" + dateutils.FormatHHMM(f.Time) + dateutils.FormatUTCOffset(f.UTCOffset)
}

// ParseField13C parses a time indication.
func ParseField13C(content string) (*Field13C, error) {
	const tag = "13C"
	ctx := fieldContext(tag)
	if !strings.HasPrefix(content, "/") {
		return nil, fieldError(tag, content, formatError(ctx, "must start with '/'", "/8c/4!n1!x4!n", content))
	}
	code, rest, ok := strings.Cut(content[1:], "/")
	if !ok || len(rest) != 9 {
		return nil, fieldError(tag, content, formatError(ctx, "malformed time indication", "/8c/4!n1!x4!n", content))
	}
	if err := validation.LengthRange(code, 1, 8, ctx+" code"); err != nil {
		return nil, fieldError(tag, content, err)
	}
	if err := validation.Alphanumeric(code, ctx+" code"); err != nil {
		return nil, fieldError(tag, content, err)
	}
	minutes, err := dateutils.ParseHHMM(rest[0:4], ctx+" time")
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	offset, err := dateutils.ParseUTCOffset(rest[4:9], ctx+" offset")
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &Field13C{Code: code, Time: minutes, UTCOffset: offset}, nil
}

// Field13D is a date-time indication: 6!n4!n1!x4!n.
type Field13D struct {
	Date      time.Time `json:"date"`
	Time      int       `json:"time_minutes"`
	UTCOffset int       `json:"utc_offset_minutes"`
}

func (f *Field13D) Tag() string { return "13D" }
func (f *Field13D) Value() string {
	return dateutils.FormatYYMMDD(f.Date) + dateutils.FormatHHMM(f.Time) + dateutils.FormatUTCOffset(f.UTCOffset)
}

// ParseField13D parses a date-time indication.
func ParseField13D(content string) (*Field13D, error) {
	const tag = "13D"
	ctx := fieldContext(tag)
	if len(content) != 15 {
		return nil, fieldError(tag, content, lengthError(ctx, "invalid length", "15 characters (YYMMDDHHMM+HHMM)", content))
	}
	date, err := dateutils.ParseYYMMDD(content[0:6], ctx+" date")
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	minutes, err := dateutils.ParseHHMM(content[6:10], ctx+" time")
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	offset, err := dateutils.ParseUTCOffset(content[10:15], ctx+" offset")
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &Field13D{Date: date, Time: minutes, UTCOffset: offset}, nil
}

// Rate is an exchange rate (field 36): up to 12 digits with a mandatory decimal comma.
type Rate struct {
	FieldTag string          `json:"-"`
	Rate     decimal.Decimal `json:"rate"`
}

func (f *Rate) Tag() string   { return f.FieldTag }
func (f *Rate) Value() string { return formatRate(f.Rate) }

// ParseRate parses field 36.
func ParseRate(tag, content string) (*Rate, error) {
	rate, err := parseRate(content, fieldContext(tag))
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	return &Rate{FieldTag: tag, Rate: rate}, nil
}

func parseRate(s, ctx string) (decimal.Decimal, error) {
	return parseDecimalComma(s, ctx, 12)
}

// parseDecimalComma parses digits with a mandatory decimal comma, max characters long.
func parseDecimalComma(s, ctx string, max int) (decimal.Decimal, error) {
	if err := validation.LengthRange(s, 2, max, ctx); err != nil {
		return decimal.Zero, err
	}
	intPart, fracPart, ok := strings.Cut(s, ",")
	if !ok || intPart == "" || validation.Numeric(intPart, ctx) != nil || (fracPart != "" && validation.Numeric(fracPart, ctx) != nil) {
		return decimal.Zero, formatError(ctx, "malformed rate", "digits with a decimal comma", s)
	}
	if fracPart == "" {
		return decimal.RequireFromString(intPart), nil
	}
	return decimal.RequireFromString(intPart + "." + fracPart), nil
}

func formatRate(d decimal.Decimal) string {
	s := d.String()
	if strings.Contains(s, ".") {
		return strings.Replace(s, ".", ",", 1)
	}
	return s + ","
}

// Field37H is an interest rate: C/D indicator, optional N for negative, and the rate.
type Field37H struct {
	Indicator string          `json:"indicator"`
	Negative  bool            `json:"negative,omitempty"`
	Rate      decimal.Decimal `json:"rate"`
}

func (f *Field37H) Tag() string { return "37H" }
func (f *Field37H) Value() string {
	s := f.Indicator
	if f.Negative {
		s += "N"
	}
	return s + formatRate(f.Rate)
}

// ParseField37H parses 1!a[N]12d.
func ParseField37H(content string) (*Field37H, error) {
	const tag = "37H"
	ctx := fieldContext(tag)
	if content == "" || (content[0] != 'C' && content[0] != 'D') {
		return nil, fieldError(tag, content, formatError(ctx, "invalid indicator", "C or D", content))
	}
	f := &Field37H{Indicator: content[0:1]}
	rest := content[1:]
	if strings.HasPrefix(rest, "N") {
		f.Negative = true
		rest = rest[1:]
	}
	rate, err := parseRate(rest, ctx+" rate")
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	f.Rate = rate
	return f, nil
}

// Field11 is the MT and date of the original message (11R or 11S), with an
// optional session and input sequence number on a third line.
type Field11 struct {
	FieldTag      string    `json:"-"`
	MessageType   string    `json:"message_type"`
	Date          time.Time `json:"date"`
	SessionNumber string    `json:"session_number,omitempty"`
	ISN           string    `json:"isn,omitempty"`
}

func (f *Field11) Tag() string { return f.FieldTag }
func (f *Field11) Value() string {
	lines := []string{f.MessageType, dateutils.FormatYYMMDD(f.Date)}
	if f.SessionNumber != "" {
		lines = append(lines, f.SessionNumber+f.ISN)
	}
	return joinLines(lines...)
}

// ParseField11 parses 3!n / 6!n / [4!n6!n].
func ParseField11(tag, content string) (*Field11, error) {
	ctx := fieldContext(tag)
	lines := textutils.SplitLines(content)
	if len(lines) < 2 || len(lines) > 3 {
		return nil, fieldError(tag, content, formatError(ctx, "expected 2 or 3 lines", "3!n / 6!n / [4!n6!n]", content))
	}
	if err := validation.ExactLength(lines[0], 3, ctx+" MT"); err != nil {
		return nil, fieldError(tag, content, err)
	}
	if err := validation.Numeric(lines[0], ctx+" MT"); err != nil {
		return nil, fieldError(tag, content, err)
	}
	date, err := dateutils.ParseYYMMDD(lines[1], ctx+" date")
	if err != nil {
		return nil, fieldError(tag, content, err)
	}
	f := &Field11{FieldTag: tag, MessageType: lines[0], Date: date}
	if len(lines) == 3 {
		if err := validation.ExactLength(lines[2], 10, ctx+" session and ISN"); err != nil {
			return nil, fieldError(tag, content, err)
		}
		if err := validation.Numeric(lines[2], ctx+" session and ISN"); err != nil {
			return nil, fieldError(tag, content, err)
		}
		f.SessionNumber = lines[2][0:4]
		f.ISN = lines[2][4:10]
	}
	return f, nil
}
