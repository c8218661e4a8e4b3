package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantsAreDistinct(t *testing.T) {
	names := []string{
		FieldFile, FieldParser, FieldMessageType, FieldTag, FieldRuleCode, FieldAccount,
		FieldReference, FieldReason, FieldOperation, FieldStatus, FieldError, FieldDuration,
		FieldCount, FieldFormat, FieldInputFile, FieldOutputFile,
	}
	seen := map[string]bool{}
	for _, name := range names {
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "duplicate field name %q", name)
		seen[name] = true
	}
}
