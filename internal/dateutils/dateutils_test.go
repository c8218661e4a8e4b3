package dateutils

import (
	"errors"
	"testing"
	"time"

	"fjacquet/swift-mt/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYYMMDD(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		expectedOk bool
		expected   time.Time
	}{
		{"21st century", "210315", true, time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{"pivot year 49", "491231", true, time.Date(2049, time.December, 31, 0, 0, 0, 0, time.UTC)},
		{"pivot year 50", "500101", true, time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"leap day", "240229", true, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{"non leap day", "230229", false, time.Time{}},
		{"month 13", "211315", false, time.Time{}},
		{"day zero", "210300", false, time.Time{}},
		{"letters", "21A315", false, time.Time{}},
		{"too short", "2103", false, time.Time{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			date, err := ParseYYMMDD(tc.input, "Field 32A date")
			if !tc.expectedOk {
				require.Error(t, err)
				assert.True(t, errors.Is(err, parsererror.ErrDateParse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, date)
			assert.Equal(t, tc.input, FormatYYMMDD(date))
		})
	}
}

func TestParseYYYYMMDD(t *testing.T) {
	date, err := ParseYYYYMMDD("20210315", "MIR date")
	require.NoError(t, err)
	assert.Equal(t, "2021-03-15", ToISODate(date))

	_, err = ParseYYYYMMDD("20210431", "MIR date")
	assert.Error(t, err)
}

func TestValidateMMDD(t *testing.T) {
	assert.NoError(t, ValidateMMDD("0316", "Field 61 entry date"))
	assert.NoError(t, ValidateMMDD("0229", "Field 61 entry date"))
	assert.Error(t, ValidateMMDD("0230", "Field 61 entry date"))
	assert.Error(t, ValidateMMDD("1301", "Field 61 entry date"))
	assert.Error(t, ValidateMMDD("031", "Field 61 entry date"))
}

func TestParseHHMM(t *testing.T) {
	tests := []struct {
		input      string
		expectedOk bool
		minutes    int
	}{
		{"0000", true, 0},
		{"1530", true, 930},
		{"2359", true, 1439},
		{"2400", false, 0},
		{"1260", false, 0},
		{"12:3", false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			minutes, err := ParseHHMM(tc.input, "Field 13C time")
			if !tc.expectedOk {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.minutes, minutes)
			assert.Equal(t, tc.input, FormatHHMM(minutes))
		})
	}
}

func TestParseUTCOffset(t *testing.T) {
	offset, err := ParseUTCOffset("+0100", "Field 13D offset")
	require.NoError(t, err)
	assert.Equal(t, 60, offset)
	assert.Equal(t, "+0100", FormatUTCOffset(offset))

	offset, err = ParseUTCOffset("-0530", "Field 13D offset")
	require.NoError(t, err)
	assert.Equal(t, -330, offset)
	assert.Equal(t, "-0530", FormatUTCOffset(offset))

	_, err = ParseUTCOffset("0100", "Field 13D offset")
	assert.Error(t, err)
	_, err = ParseUTCOffset("+1400", "Field 13D offset")
	assert.Error(t, err)
}

func TestExpandYear(t *testing.T) {
	assert.Equal(t, 2000, ExpandYear(0))
	assert.Equal(t, 2049, ExpandYear(49))
	assert.Equal(t, 1950, ExpandYear(50))
	assert.Equal(t, 1999, ExpandYear(99))
}
