// Package headers decodes and re-encodes SWIFT header blocks: the basic header
// (block 1), the application header (block 2), the user header (block 3) and the
// trailer (block 5).
package headers

import (
	"fmt"

	"fjacquet/swift-mt/internal/parsererror"
)

// MinBasicHeaderLength is the shortest block 1 accepted by ParseBasicHeader.
const MinBasicHeaderLength = 21

// BasicHeader is block 1: F01DEUTDEFFAXXX0123456789.
type BasicHeader struct {
	ApplicationID   string `json:"application_id" yaml:"application_id"`
	ServiceID       string `json:"service_id" yaml:"service_id"`
	LogicalTerminal string `json:"logical_terminal" yaml:"logical_terminal"`
	SessionNumber   string `json:"session_number" yaml:"session_number"`
	SequenceNumber  string `json:"sequence_number" yaml:"sequence_number"`
}

// ParseBasicHeader decodes block 1 by fixed offsets.
func ParseBasicHeader(block1 string) (*BasicHeader, error) {
	if len(block1) < MinBasicHeaderLength {
		return nil, &parsererror.BlockError{
			Block:   1,
			Snippet: block1,
			Err: fmt.Errorf("%w: expected at least %d characters, got %d",
				parsererror.ErrInvalidBlockFormat, MinBasicHeaderLength, len(block1)),
		}
	}
	seqEnd := len(block1)
	if seqEnd > 25 {
		seqEnd = 25
	}
	return &BasicHeader{
		ApplicationID:   block1[0:1],
		ServiceID:       block1[1:3],
		LogicalTerminal: block1[3:15],
		SessionNumber:   block1[15:19],
		SequenceNumber:  block1[19:seqEnd],
	}, nil
}

// SenderBIC returns the 8 character BIC of the logical terminal.
func (h *BasicHeader) SenderBIC() string {
	return terminalBIC(h.LogicalTerminal)
}

// TerminalCode returns the 9th character of the logical terminal.
func (h *BasicHeader) TerminalCode() string {
	return h.LogicalTerminal[8:9]
}

// BranchCode returns the last 3 characters of the logical terminal.
func (h *BasicHeader) BranchCode() string {
	return h.LogicalTerminal[9:12]
}

func (h *BasicHeader) String() string {
	return h.ApplicationID + h.ServiceID + h.LogicalTerminal + h.SessionNumber + h.SequenceNumber
}

func terminalBIC(lt string) string {
	if len(lt) < 8 {
		return lt
	}
	return lt[:8]
}
