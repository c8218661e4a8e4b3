package headers

import (
	"fmt"

	"fjacquet/swift-mt/internal/parsererror"
)

// Message directions carried by the first character of block 2.
const (
	DirectionInput  = "I"
	DirectionOutput = "O"
)

const (
	minApplicationHeaderLength = 4
	inputDestinationEnd        = 16
	outputHeaderLength         = 46
)

// MessageInputReference identifies a message as sent: date, logical terminal,
// session and sequence number (28 characters).
type MessageInputReference struct {
	Date            string `json:"date" yaml:"date"`
	LogicalTerminal string `json:"logical_terminal" yaml:"logical_terminal"`
	SessionNumber   string `json:"session_number" yaml:"session_number"`
	SequenceNumber  string `json:"sequence_number" yaml:"sequence_number"`
}

func parseMIR(s string) (*MessageInputReference, bool) {
	if len(s) != 28 {
		return nil, false
	}
	return &MessageInputReference{
		Date:            s[0:6],
		LogicalTerminal: s[6:18],
		SessionNumber:   s[18:22],
		SequenceNumber:  s[22:28],
	}, true
}

// BIC returns the 8 character BIC of the reference's logical terminal.
func (m *MessageInputReference) BIC() string {
	return terminalBIC(m.LogicalTerminal)
}

func (m *MessageInputReference) String() string {
	return m.Date + m.LogicalTerminal + m.SessionNumber + m.SequenceNumber
}

// ApplicationHeader is block 2. Input headers carry the receiver and delivery
// options; output headers carry the MIR and the output date and time.
type ApplicationHeader struct {
	Direction   string `json:"direction" yaml:"direction"`
	MessageType string `json:"message_type" yaml:"message_type"`

	// Input direction.
	DestinationAddress string `json:"destination_address,omitempty" yaml:"destination_address,omitempty"`
	Priority           string `json:"priority,omitempty" yaml:"priority,omitempty"`
	DeliveryMonitoring string `json:"delivery_monitoring,omitempty" yaml:"delivery_monitoring,omitempty"`
	ObsolescencePeriod string `json:"obsolescence_period,omitempty" yaml:"obsolescence_period,omitempty"`

	// Output direction.
	InputTime  string                 `json:"input_time,omitempty" yaml:"input_time,omitempty"`
	MIR        *MessageInputReference `json:"mir,omitempty" yaml:"mir,omitempty"`
	OutputDate string                 `json:"output_date,omitempty" yaml:"output_date,omitempty"`
	OutputTime string                 `json:"output_time,omitempty" yaml:"output_time,omitempty"`
}

func blockTwoError(block2, format string, args ...any) error {
	return &parsererror.BlockError{
		Block:   2,
		Snippet: block2,
		Err:     fmt.Errorf("%w: "+format, append([]any{parsererror.ErrInvalidBlockFormat}, args...)...),
	}
}

// ParseApplicationHeader decodes block 2 in either direction.
func ParseApplicationHeader(block2 string) (*ApplicationHeader, error) {
	if len(block2) < minApplicationHeaderLength {
		return nil, blockTwoError(block2, "expected at least %d characters, got %d", minApplicationHeaderLength, len(block2))
	}
	h := &ApplicationHeader{
		Direction:   block2[0:1],
		MessageType: block2[1:4],
	}
	for i := 0; i < 3; i++ {
		if h.MessageType[i] < '0' || h.MessageType[i] > '9' {
			return nil, blockTwoError(block2, "message type must be 3 digits, got %q", h.MessageType)
		}
	}

	var err error
	switch h.Direction {
	case DirectionInput:
		err = h.decodeInput(block2)
	case DirectionOutput:
		err = h.decodeOutput(block2)
	default:
		err = blockTwoError(block2, "invalid direction indicator %q", h.Direction)
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (h *ApplicationHeader) decodeInput(block2 string) error {
	rest := block2[4:]
	if rest == "" {
		return nil
	}
	if len(block2) < inputDestinationEnd {
		return blockTwoError(block2, "destination address must be 12 characters")
	}
	h.DestinationAddress = block2[4:16]
	rest = block2[16:]
	if len(rest) > 0 {
		h.Priority = rest[0:1]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		h.DeliveryMonitoring = rest[0:1]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		if len(rest) != 3 {
			return blockTwoError(block2, "obsolescence period must be 3 digits, got %q", rest)
		}
		h.ObsolescencePeriod = rest
	}
	return nil
}

func (h *ApplicationHeader) decodeOutput(block2 string) error {
	if len(block2) < outputHeaderLength {
		return blockTwoError(block2, "output header expected at least %d characters, got %d", outputHeaderLength, len(block2))
	}
	h.InputTime = block2[4:8]
	h.MIR, _ = parseMIR(block2[8:36])
	h.OutputDate = block2[36:42]
	h.OutputTime = block2[42:46]
	if len(block2) > outputHeaderLength {
		h.Priority = block2[46:47]
	}
	return nil
}

// IsInput reports whether the header describes a message sent to SWIFT.
func (h *ApplicationHeader) IsInput() bool {
	return h.Direction == DirectionInput
}

// ReceiverBIC returns the 8 character BIC of the destination (input) or, for
// output messages, of the sender recorded in the MIR.
func (h *ApplicationHeader) ReceiverBIC() string {
	if h.IsInput() {
		return terminalBIC(h.DestinationAddress)
	}
	if h.MIR != nil {
		return h.MIR.BIC()
	}
	return ""
}

func (h *ApplicationHeader) String() string {
	s := h.Direction + h.MessageType
	if h.IsInput() {
		return s + h.DestinationAddress + h.Priority + h.DeliveryMonitoring + h.ObsolescencePeriod
	}
	mir := ""
	if h.MIR != nil {
		mir = h.MIR.String()
	}
	return s + h.InputTime + mir + h.OutputDate + h.OutputTime + h.Priority
}
