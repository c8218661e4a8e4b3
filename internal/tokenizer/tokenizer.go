// Package tokenizer splits a raw SWIFT MT message into its five blocks and the
// text block into an ordered list of tagged fields.
package tokenizer

import (
	"regexp"
	"strings"

	"fjacquet/swift-mt/internal/parsererror"
	"fjacquet/swift-mt/internal/textutils"
)

// RawBlockSet holds the raw content of blocks 1 to 5. An empty string means the
// block was absent.
type RawBlockSet struct {
	Block1 string `json:"block1,omitempty" yaml:"block1,omitempty"`
	Block2 string `json:"block2,omitempty" yaml:"block2,omitempty"`
	Block3 string `json:"block3,omitempty" yaml:"block3,omitempty"`
	Block4 string `json:"block4,omitempty" yaml:"block4,omitempty"`
	Block5 string `json:"block5,omitempty" yaml:"block5,omitempty"`
}

// Get returns block n, or "" when n is out of range or the block is absent.
func (b RawBlockSet) Get(n int) string {
	switch n {
	case 1:
		return b.Block1
	case 2:
		return b.Block2
	case 3:
		return b.Block3
	case 4:
		return b.Block4
	case 5:
		return b.Block5
	}
	return ""
}

func (b *RawBlockSet) set(n int, content string) {
	switch n {
	case 1:
		b.Block1 = content
	case 2:
		b.Block2 = content
	case 3:
		b.Block3 = content
	case 4:
		b.Block4 = content
	case 5:
		b.Block5 = content
	}
}

// ParsedField is one tagged field of block 4. Position is its index among all
// block 4 fields in source order.
type ParsedField struct {
	Tag      string `json:"tag"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

const snippetLength = 20

// ExtractBlocks scans message for {N:...} regions. Blocks 1 and 2 end at the first
// closing brace, block 4 at "-}", blocks 3 and 5 at the brace closing their nesting.
func ExtractBlocks(message string) (RawBlockSet, error) {
	var blocks RawBlockSet
	seen := [6]bool{}

	i := 0
	for i < len(message) {
		if message[i] != '{' || i+2 >= len(message) || message[i+2] != ':' || !isDigit(message[i+1]) {
			i++
			continue
		}
		n := int(message[i+1] - '0')
		if n < 1 || n > 5 {
			return RawBlockSet{}, &parsererror.BlockError{
				Block:   n,
				Snippet: textutils.Snippet(message[i:], snippetLength),
				Err:     parsererror.ErrUnknownBlockNumber,
			}
		}
		if seen[n] {
			return RawBlockSet{}, &parsererror.BlockError{
				Block:   n,
				Snippet: textutils.Snippet(message[i:], snippetLength),
				Err:     parsererror.ErrInvalidBlockFormat,
			}
		}

		start := i + 3
		var end, next int
		switch n {
		case 1, 2:
			end = strings.IndexByte(message[start:], '}')
			if end >= 0 {
				end += start
				next = end + 1
			}
		case 4:
			end = strings.Index(message[start:], "-}")
			if end >= 0 {
				end += start + 1
				next = end + 1
			} else {
				end = matchingBrace(message, start)
				next = end + 1
			}
		default:
			end = matchingBrace(message, start)
			next = end + 1
		}
		if end < 0 {
			return RawBlockSet{}, &parsererror.BlockError{
				Block:   n,
				Snippet: textutils.Snippet(message[i:], snippetLength),
				Err:     parsererror.ErrInvalidBlockFormat,
			}
		}

		blocks.set(n, message[start:end])
		seen[n] = true
		i = next
	}

	if blocks.Block1 == "" && blocks.Block2 == "" && blocks.Block4 == "" {
		return RawBlockSet{}, &parsererror.BlockError{Err: parsererror.ErrNoBlocksFound}
	}
	return blocks, nil
}

// matchingBrace returns the index of the brace closing a block whose content starts
// at start, or -1 when the braces are unbalanced.
func matchingBrace(s string, start int) int {
	depth := 1
	for j := start; j < len(s); j++ {
		switch s[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Reconstruct re-emits the non-empty blocks in block order.
func Reconstruct(b RawBlockSet) string {
	var sb strings.Builder
	for n := 1; n <= 5; n++ {
		content := b.Get(n)
		if content == "" {
			continue
		}
		sb.WriteString("{")
		sb.WriteByte(byte('0' + n))
		sb.WriteString(":")
		sb.WriteString(content)
		sb.WriteString("}")
	}
	return sb.String()
}

var fieldTagRegex = regexp.MustCompile(`^:(\d{2}[A-Z]?):`)

// ParseBlock4Fields splits block 4 content into fields. A line starting with :NNa:
// opens a field whose content runs to the next tag line. Trailing whitespace and
// the terminating "-" line are dropped. The returned order defines field positions.
func ParseBlock4Fields(block4 string) []ParsedField {
	lines := textutils.SplitLines(block4)
	for len(lines) > 0 {
		last := strings.TrimSpace(lines[len(lines)-1])
		if last != "" && last != "-" {
			break
		}
		lines = lines[:len(lines)-1]
	}

	var fields []ParsedField
	var current *ParsedField
	var content []string

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimRight(strings.Join(content, "\n"), " \t\r\n")
		fields = append(fields, *current)
	}

	for _, line := range lines {
		if m := fieldTagRegex.FindStringSubmatch(line); m != nil {
			flush()
			current = &ParsedField{Tag: m[1], Position: len(fields)}
			content = []string{line[len(m[0]):]}
			continue
		}
		if current != nil {
			content = append(content, line)
		}
	}
	flush()
	return fields
}

// SerializeFields renders fields as block 4 content, including the leading newline
// and the terminating "-".
func SerializeFields(fields []ParsedField) string {
	var sb strings.Builder
	sb.WriteString("\n")
	for _, f := range fields {
		sb.WriteString(":")
		sb.WriteString(f.Tag)
		sb.WriteString(":")
		sb.WriteString(f.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("-")
	return sb.String()
}

// ExtractMessageType returns the three-digit type carried by the application header.
func ExtractMessageType(b RawBlockSet) (string, error) {
	if len(b.Block2) < 4 {
		return "", &parsererror.BlockError{
			Block:   2,
			Snippet: b.Block2,
			Err:     parsererror.ErrInvalidBlockFormat,
		}
	}
	return b.Block2[1:4], nil
}

// letterTags lists the base tags whose option letter distinguishes fields of the
// same family. For every other base, the letter is folded away by NormalizeTag.
var letterTags = map[string]bool{
	"11": true, "13": true, "23": true, "26": true, "28": true, "32": true, "33": true,
	"50": true, "52": true, "53": true, "54": true, "55": true, "56": true, "57": true,
	"58": true, "59": true, "71": true, "77": true,
}

// NormalizeTag upper-cases tag and folds the option letter for bases where it does
// not select a distinct field family.
func NormalizeTag(tag string) string {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if len(tag) != 3 {
		return tag
	}
	base := tag[:2]
	if letterTags[base] {
		return tag
	}
	return base
}

// BaseTag returns the two-digit base of a tag ("50K" -> "50").
func BaseTag(tag string) string {
	if len(tag) > 2 {
		return tag[:2]
	}
	return tag
}

// OptionLetter returns the option letter of a tag, or "" for a bare base tag.
func OptionLetter(tag string) string {
	if len(tag) > 2 {
		return tag[2:]
	}
	return ""
}
