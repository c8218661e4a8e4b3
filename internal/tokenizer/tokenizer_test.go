package tokenizer

import (
	"errors"
	"testing"

	"fjacquet/swift-mt/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMT103 = "{1:F01DEUTDEFFAXXX0123456789}{2:I103CHASUS33AXXXU3003}" +
	"{3:{108:MUR12345}{121:e2c6d4a8-3f1b-4c2a-9d7e-5b8a1c3f6e90}}" +
	"{4:\n:20:FT21234567890\n:23B:CRED\n:32A:210315EUR1234567,89\n:50K:/DE89370400440532013000\nJOHN DOE\nMAIN STREET 1\n:59:JANE SMITH\n:71A:OUR\n-}" +
	"{5:{CHK:123456789ABC}}"

func TestExtractBlocks(t *testing.T) {
	blocks, err := ExtractBlocks(sampleMT103)
	require.NoError(t, err)

	assert.Equal(t, "F01DEUTDEFFAXXX0123456789", blocks.Block1)
	assert.Equal(t, "I103CHASUS33AXXXU3003", blocks.Block2)
	assert.Equal(t, "{108:MUR12345}{121:e2c6d4a8-3f1b-4c2a-9d7e-5b8a1c3f6e90}", blocks.Block3)
	assert.Contains(t, blocks.Block4, ":20:FT21234567890")
	assert.Equal(t, "{CHK:123456789ABC}", blocks.Block5)
}

func TestExtractBlocks_Block4MayContainBraces(t *testing.T) {
	msg := "{1:F01DEUTDEFFAXXX0123456789}{2:I199CHASUS33AXXXN}{4:\n:20:REF\n:79:SEE {ATTACHED} NOTE}\n-}"
	blocks, err := ExtractBlocks(msg)
	require.NoError(t, err)
	assert.Equal(t, "\n:20:REF\n:79:SEE {ATTACHED} NOTE}\n-", blocks.Block4)
}

func TestExtractBlocks_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
	}{
		{"plain text", "hello world", parsererror.ErrNoBlocksFound},
		{"only block 3", "{3:{108:ABC}}", parsererror.ErrNoBlocksFound},
		{"block 7", "{1:F01DEUTDEFFAXXX0123456789}{7:XYZ}", parsererror.ErrUnknownBlockNumber},
		{"unterminated block 1", "{1:F01DEUTDEFFAXXX0123456789", parsererror.ErrInvalidBlockFormat},
		{"unbalanced block 3", "{1:F01DEUTDEFFAXXX0123456789}{3:{108:ABC}", parsererror.ErrInvalidBlockFormat},
		{"duplicate block 1", "{1:A}{1:B}", parsererror.ErrInvalidBlockFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractBlocks(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.Equal(t, parsererror.KindStructural, parsererror.KindOf(err))
		})
	}
}

func TestReconstruct_IsIdempotent(t *testing.T) {
	first, err := ExtractBlocks(sampleMT103)
	require.NoError(t, err)

	second, err := ExtractBlocks(Reconstruct(first))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, sampleMT103, Reconstruct(second))
}

func TestParseBlock4Fields(t *testing.T) {
	blocks, err := ExtractBlocks(sampleMT103)
	require.NoError(t, err)

	fields := ParseBlock4Fields(blocks.Block4)
	require.Len(t, fields, 6)

	expected := []ParsedField{
		{Tag: "20", Content: "FT21234567890", Position: 0},
		{Tag: "23B", Content: "CRED", Position: 1},
		{Tag: "32A", Content: "210315EUR1234567,89", Position: 2},
		{Tag: "50K", Content: "/DE89370400440532013000\nJOHN DOE\nMAIN STREET 1", Position: 3},
		{Tag: "59", Content: "JANE SMITH", Position: 4},
		{Tag: "71A", Content: "OUR", Position: 5},
	}
	assert.Equal(t, expected, fields)
}

func TestParseBlock4Fields_EdgeCases(t *testing.T) {
	t.Run("crlf and trailing spaces", func(t *testing.T) {
		fields := ParseBlock4Fields("\r\n:20:REF  \r\n:86:LINE ONE\r\nLINE TWO \r\n-")
		require.Len(t, fields, 2)
		assert.Equal(t, "REF", fields[0].Content)
		assert.Equal(t, "LINE ONE\nLINE TWO", fields[1].Content)
	})

	t.Run("dash inside content is kept", func(t *testing.T) {
		fields := ParseBlock4Fields("\n:70:INV 2021-001\n-ABC\n-")
		require.Len(t, fields, 1)
		assert.Equal(t, "INV 2021-001\n-ABC", fields[0].Content)
	})

	t.Run("colon line that is not a tag", func(t *testing.T) {
		fields := ParseBlock4Fields("\n:79:NOTE\n:ABC: NOT A TAG\n-")
		require.Len(t, fields, 1)
		assert.Equal(t, "NOTE\n:ABC: NOT A TAG", fields[0].Content)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, ParseBlock4Fields(""))
	})
}

func TestSerializeFields_RoundTrip(t *testing.T) {
	fields := []ParsedField{
		{Tag: "20", Content: "REF", Position: 0},
		{Tag: "86", Content: "A\nB", Position: 1},
	}
	block4 := SerializeFields(fields)
	assert.Equal(t, "\n:20:REF\n:86:A\nB\n-", block4)
	assert.Equal(t, fields, ParseBlock4Fields(block4))
}

func TestExtractMessageType(t *testing.T) {
	mt, err := ExtractMessageType(RawBlockSet{Block2: "O9401200210315DEUTDEFFAXXX12345678902103151200N"})
	require.NoError(t, err)
	assert.Equal(t, "940", mt)

	_, err = ExtractMessageType(RawBlockSet{Block2: "I10"})
	assert.Error(t, err)
}

func TestTagHelpers(t *testing.T) {
	assert.Equal(t, "50K", NormalizeTag(" 50k "))
	assert.Equal(t, "60", NormalizeTag("60F"))
	assert.Equal(t, "20", NormalizeTag("20"))
	assert.Equal(t, "32A", NormalizeTag("32A"))
	assert.Equal(t, "59", BaseTag("59F"))
	assert.Equal(t, "F", OptionLetter("59F"))
	assert.Equal(t, "", OptionLetter("59"))
}
