package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldError(t *testing.T) {
	tests := []struct {
		name     string
		err      *FieldError
		expected string
	}{
		{
			name: "amount error",
			err: &FieldError{
				Tag:   "32A",
				Value: "210315EUR12,345",
				Err:   errors.New("too many decimals"),
			},
			expected: "field 32A: failed to parse '210315EUR12,345': too many decimals",
		},
		{
			name: "empty value",
			err: &FieldError{
				Tag:   "20",
				Value: "",
				Err:   errors.New("reference cannot be empty"),
			},
			expected: "field 20: failed to parse '': reference cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestFieldError_UnwrapsFormatError(t *testing.T) {
	formatErr := &FormatError{
		Context:    "Field 32A date",
		Constraint: "not a calendar date",
		Expected:   "YYMMDD",
		Actual:     "210230",
		Err:        ErrDateParse,
	}
	err := &FieldError{Tag: "32A", Value: "210230EUR1,00", Err: formatErr}

	assert.True(t, errors.Is(err, ErrDateParse))
	var target *FormatError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "210230", target.Actual)
	assert.Equal(t, KindField, KindOf(err))
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      *FormatError
		expected string
		sentinel error
	}{
		{
			name:     "with expectation",
			err:      &FormatError{Context: "BIC", Constraint: "invalid length", Expected: "8 or 11 characters", Actual: "DEUT", Err: ErrInvalidFieldLength},
			expected: "BIC: invalid length (expected 8 or 11 characters, got 'DEUT')",
			sentinel: ErrInvalidFieldLength,
		},
		{
			name:     "defaults to invalid format",
			err:      &FormatError{Context: "Field 70 line 1", Constraint: "contains characters outside the SWIFT set"},
			expected: "Field 70 line 1: contains characters outside the SWIFT set",
			sentinel: ErrInvalidFieldFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.True(t, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestBlockError(t *testing.T) {
	tests := []struct {
		name     string
		err      *BlockError
		expected string
	}{
		{"no blocks", &BlockError{Err: ErrNoBlocksFound}, "no SWIFT blocks found"},
		{"unknown block", &BlockError{Block: 7, Err: ErrUnknownBlockNumber}, "block 7: unknown block number"},
		{"with snippet", &BlockError{Block: 3, Snippet: "{108:AB", Err: ErrInvalidBlockFormat}, "block 3: invalid block format near '{108:AB'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.Equal(t, KindStructural, KindOf(tt.err))
		})
	}
}

func TestMessageError(t *testing.T) {
	tests := []struct {
		name     string
		err      *MessageError
		expected string
	}{
		{"missing field", &MessageError{MessageType: "103", Tag: "71A", Err: ErrMissingRequiredField}, "MT103: missing required field 71A"},
		{"wrong type", &MessageError{MessageType: "202", Expected: "103", Err: ErrWrongMessageType}, "wrong message type: expected MT103, got MT202"},
		{"unsupported", &MessageError{MessageType: "999", Err: ErrUnsupportedMessageType}, "unsupported message type: MT999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.Equal(t, KindMessage, KindOf(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Code:           "C06",
		Rule:           "C1",
		Field:          "50a/52a",
		Message:        "Either field 50a or field 52a must be present",
		AffectedFields: []string{"50", "52"},
	}

	assert.Equal(t, "C06 [C1] field 50a/52a: Either field 50a or field 52a must be present (affects 50,52)", err.Error())
	assert.True(t, errors.Is(err, ErrRuleViolation))
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestKindOf_WrappedAndForeign(t *testing.T) {
	wrapped := fmt.Errorf("parsing inbox/001.fin: %w", &BlockError{Err: ErrNoBlocksFound})

	assert.Equal(t, KindStructural, KindOf(wrapped))
	assert.Equal(t, KindUnknown, KindOf(errors.New("disk full")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, "structural", KindStructural.String())
}

func TestInvalidFormatError(t *testing.T) {
	err := &InvalidFormatError{
		FilePath:             "in/statement.txt",
		ExpectedFormat:       "SWIFT MT blocks",
		ActualContentSnippet: "<xml>",
		Msg:                  "no block markers",
	}

	assert.Equal(t, "invalid format in file 'in/statement.txt': no block markers. Expected: SWIFT MT blocks. Content snippet: '<xml>'", err.Error())
	assert.True(t, errors.Is(err, ErrNoBlocksFound))
}
