// Package dateutils provides the SWIFT date and time formats used by header and field grammars.
package dateutils

import (
	"fmt"
	"strconv"
	"time"

	"fjacquet/swift-mt/internal/parsererror"
)

// Date layouts used when rendering parsed SWIFT dates.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutYYMMDD   = "060102"
	DateLayoutYYYYMMDD = "20060102"
)

func digits(s, context, layout string) error {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return &parsererror.FormatError{
				Context:    context,
				Constraint: "must be numeric",
				Expected:   layout,
				Actual:     s,
				Err:        parsererror.ErrDateParse,
			}
		}
	}
	return nil
}

func calendarDate(year, month, day int, raw, context, layout string) (time.Time, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, &parsererror.FormatError{
			Context:    context,
			Constraint: "not a calendar date",
			Expected:   layout,
			Actual:     raw,
			Err:        parsererror.ErrDateParse,
		}
	}
	return t, nil
}

// ExpandYear maps a two-digit SWIFT year to a full year: 00-49 are 20xx, 50-99 are 19xx.
func ExpandYear(yy int) int {
	if yy < 50 {
		return 2000 + yy
	}
	return 1900 + yy
}

// ParseYYMMDD parses a calendar-validated six-digit date.
func ParseYYMMDD(s, context string) (time.Time, error) {
	if len(s) != 6 {
		return time.Time{}, &parsererror.FormatError{
			Context:    context,
			Constraint: "invalid date length",
			Expected:   "YYMMDD",
			Actual:     s,
			Err:        parsererror.ErrDateParse,
		}
	}
	if err := digits(s, context, "YYMMDD"); err != nil {
		return time.Time{}, err
	}
	yy, _ := strconv.Atoi(s[0:2])
	mm, _ := strconv.Atoi(s[2:4])
	dd, _ := strconv.Atoi(s[4:6])
	return calendarDate(ExpandYear(yy), mm, dd, s, context, "YYMMDD")
}

// FormatYYMMDD renders t as YYMMDD.
func FormatYYMMDD(t time.Time) string {
	return t.Format(DateLayoutYYMMDD)
}

// ParseYYYYMMDD parses a calendar-validated eight-digit date.
func ParseYYYYMMDD(s, context string) (time.Time, error) {
	if len(s) != 8 {
		return time.Time{}, &parsererror.FormatError{
			Context:    context,
			Constraint: "invalid date length",
			Expected:   "YYYYMMDD",
			Actual:     s,
			Err:        parsererror.ErrDateParse,
		}
	}
	if err := digits(s, context, "YYYYMMDD"); err != nil {
		return time.Time{}, err
	}
	yyyy, _ := strconv.Atoi(s[0:4])
	mm, _ := strconv.Atoi(s[4:6])
	dd, _ := strconv.Atoi(s[6:8])
	return calendarDate(yyyy, mm, dd, s, context, "YYYYMMDD")
}

// ValidateMMDD checks a month/day pair such as the entry date of field 61. The year is
// not known, so February 29 is always accepted.
func ValidateMMDD(s, context string) error {
	if len(s) != 4 {
		return &parsererror.FormatError{
			Context:    context,
			Constraint: "invalid date length",
			Expected:   "MMDD",
			Actual:     s,
			Err:        parsererror.ErrDateParse,
		}
	}
	if err := digits(s, context, "MMDD"); err != nil {
		return err
	}
	mm, _ := strconv.Atoi(s[0:2])
	dd, _ := strconv.Atoi(s[2:4])
	_, err := calendarDate(2000, mm, dd, s, context, "MMDD")
	return err
}

// ParseHHMM parses a four-digit time of day and returns the minutes since midnight.
func ParseHHMM(s, context string) (int, error) {
	if len(s) != 4 {
		return 0, &parsererror.FormatError{
			Context:    context,
			Constraint: "invalid time length",
			Expected:   "HHMM",
			Actual:     s,
			Err:        parsererror.ErrDateParse,
		}
	}
	if err := digits(s, context, "HHMM"); err != nil {
		return 0, err
	}
	hh, _ := strconv.Atoi(s[0:2])
	mm, _ := strconv.Atoi(s[2:4])
	if hh > 23 || mm > 59 {
		return 0, &parsererror.FormatError{
			Context:    context,
			Constraint: "time out of range",
			Expected:   "HHMM between 0000 and 2359",
			Actual:     s,
			Err:        parsererror.ErrDateParse,
		}
	}
	return hh*60 + mm, nil
}

// FormatHHMM renders minutes since midnight as HHMM.
func FormatHHMM(minutes int) string {
	return fmt.Sprintf("%02d%02d", minutes/60, minutes%60)
}

// ParseUTCOffset parses a signed HHMM offset such as "+0100" and returns it in minutes.
func ParseUTCOffset(s, context string) (int, error) {
	if len(s) != 5 || (s[0] != '+' && s[0] != '-') {
		return 0, &parsererror.FormatError{
			Context:    context,
			Constraint: "invalid UTC offset",
			Expected:   "+HHMM or -HHMM",
			Actual:     s,
			Err:        parsererror.ErrDateParse,
		}
	}
	if err := digits(s[1:], context, "+HHMM"); err != nil {
		return 0, err
	}
	hh, _ := strconv.Atoi(s[1:3])
	mm, _ := strconv.Atoi(s[3:5])
	if hh > 13 || mm > 59 {
		return 0, &parsererror.FormatError{
			Context:    context,
			Constraint: "offset out of range",
			Expected:   "at most 1359",
			Actual:     s,
			Err:        parsererror.ErrDateParse,
		}
	}
	offset := hh*60 + mm
	if s[0] == '-' {
		offset = -offset
	}
	return offset, nil
}

// FormatUTCOffset renders an offset in minutes as +HHMM or -HHMM.
func FormatUTCOffset(minutes int) string {
	sign := '+'
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}
	return fmt.Sprintf("%c%02d%02d", sign, minutes/60, minutes%60)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD).
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}
