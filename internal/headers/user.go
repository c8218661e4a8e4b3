package headers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"fjacquet/swift-mt/internal/parsererror"
)

// Tag is one {tag:value} pair of block 3 or block 5, kept in source order.
// Bare tags such as {TNG} have an empty value and Bare set.
type Tag struct {
	Tag   string `json:"tag" yaml:"tag"`
	Value string `json:"value" yaml:"value"`
	Bare  bool   `json:"bare,omitempty" yaml:"bare,omitempty"`
}

func (t Tag) String() string {
	if t.Bare {
		return "{" + t.Tag + "}"
	}
	return "{" + t.Tag + ":" + t.Value + "}"
}

var tagPairRegex = regexp.MustCompile(`\{([0-9A-Z]{3})(?::([^{}]*))?\}`)

func parseTags(block string, n int) ([]Tag, error) {
	matches := tagPairRegex.FindAllStringSubmatchIndex(block, -1)
	var tags []Tag
	covered := 0
	for _, m := range matches {
		if strings.TrimSpace(block[covered:m[0]]) != "" {
			return nil, &parsererror.BlockError{Block: n, Snippet: block[covered:m[0]], Err: parsererror.ErrInvalidBlockFormat}
		}
		t := Tag{Tag: block[m[2]:m[3]]}
		if m[4] >= 0 {
			t.Value = block[m[4]:m[5]]
		} else {
			t.Bare = true
		}
		tags = append(tags, t)
		covered = m[1]
	}
	if strings.TrimSpace(block[covered:]) != "" {
		return nil, &parsererror.BlockError{Block: n, Snippet: block[covered:], Err: parsererror.ErrInvalidBlockFormat}
	}
	return tags, nil
}

func joinTags(tags []Tag) string {
	var sb strings.Builder
	for _, t := range tags {
		sb.WriteString(t.String())
	}
	return sb.String()
}

// User header tags.
const (
	TagServiceIdentifier      = "103"
	TagBankingPriority        = "113"
	TagMessageUserReference   = "108"
	TagValidationFlag         = "119"
	TagBalanceCheckpoint      = "423"
	TagMessageInputReference  = "106"
	TagRelatedReference       = "424"
	TagServiceTypeIdentifier  = "111"
	TagUETR                   = "121"
	TagAddresseeInformation   = "115"
	TagPaymentReleaseInfo     = "165"
	TagSanctionsScreeningInfo = "433"
	TagPaymentControlsInfo    = "434"
)

// BalanceCheckpoint is tag 423: YYMMDDHHMMSS[ss].
type BalanceCheckpoint struct {
	Date       string `json:"date" yaml:"date"`
	Time       string `json:"time" yaml:"time"`
	Hundredths string `json:"hundredths,omitempty" yaml:"hundredths,omitempty"`
}

// CodedInfo is the /CODE/info form of tags 165, 433 and 434.
type CodedInfo struct {
	Code           string `json:"code" yaml:"code"`
	AdditionalInfo string `json:"additional_info,omitempty" yaml:"additional_info,omitempty"`
}

// UserHeader is block 3. Tags keeps every pair in source order, unknown ones
// included; the typed fields decode the known tags.
type UserHeader struct {
	Tags []Tag `json:"tags" yaml:"tags"`

	ServiceIdentifier      string                 `json:"service_identifier,omitempty" yaml:"service_identifier,omitempty"`
	BankingPriority        string                 `json:"banking_priority,omitempty" yaml:"banking_priority,omitempty"`
	MessageUserReference   string                 `json:"message_user_reference,omitempty" yaml:"message_user_reference,omitempty"`
	ValidationFlag         string                 `json:"validation_flag,omitempty" yaml:"validation_flag,omitempty"`
	BalanceCheckpoint      *BalanceCheckpoint     `json:"balance_checkpoint,omitempty" yaml:"balance_checkpoint,omitempty"`
	MessageInputReference  *MessageInputReference `json:"message_input_reference,omitempty" yaml:"message_input_reference,omitempty"`
	RelatedReference       string                 `json:"related_reference,omitempty" yaml:"related_reference,omitempty"`
	ServiceTypeIdentifier  string                 `json:"service_type_identifier,omitempty" yaml:"service_type_identifier,omitempty"`
	UETR                   string                 `json:"uetr,omitempty" yaml:"uetr,omitempty"`
	AddresseeInformation   string                 `json:"addressee_information,omitempty" yaml:"addressee_information,omitempty"`
	PaymentReleaseInfo     *CodedInfo             `json:"payment_release_info,omitempty" yaml:"payment_release_info,omitempty"`
	SanctionsScreeningInfo *CodedInfo             `json:"sanctions_screening_info,omitempty" yaml:"sanctions_screening_info,omitempty"`
	PaymentControlsInfo    *CodedInfo             `json:"payment_controls_info,omitempty" yaml:"payment_controls_info,omitempty"`
}

// ParseUserHeader decodes block 3.
func ParseUserHeader(block3 string) (*UserHeader, error) {
	tags, err := parseTags(block3, 3)
	if err != nil {
		return nil, err
	}
	h := &UserHeader{Tags: tags}
	for _, t := range tags {
		if err := h.decode(t.Tag, t.Value); err != nil {
			return nil, &parsererror.BlockError{Block: 3, Snippet: t.String(), Err: err}
		}
	}
	return h, nil
}

// Get returns the raw value of a tag.
func (h *UserHeader) Get(tag string) (string, bool) {
	for _, t := range h.Tags {
		if t.Tag == tag {
			return t.Value, true
		}
	}
	return "", false
}

// Set decodes and stores a tag value, replacing an earlier occurrence of the same tag.
func (h *UserHeader) Set(tag, value string) error {
	if err := h.decode(tag, value); err != nil {
		return err
	}
	for i := range h.Tags {
		if h.Tags[i].Tag == tag {
			h.Tags[i].Value = value
			return nil
		}
	}
	h.Tags = append(h.Tags, Tag{Tag: tag, Value: value})
	return nil
}

func (h *UserHeader) decode(tag, value string) error {
	switch tag {
	case TagServiceIdentifier:
		h.ServiceIdentifier = value
	case TagBankingPriority:
		h.BankingPriority = value
	case TagMessageUserReference:
		h.MessageUserReference = value
	case TagValidationFlag:
		h.ValidationFlag = value
	case TagBalanceCheckpoint:
		if len(value) != 12 && len(value) != 14 {
			return tagError(tag, value, "YYMMDDHHMMSS[ss]")
		}
		h.BalanceCheckpoint = &BalanceCheckpoint{Date: value[0:6], Time: value[6:12], Hundredths: value[12:]}
	case TagMessageInputReference:
		mir, ok := parseMIR(value)
		if !ok {
			return tagError(tag, value, "28 character MIR")
		}
		h.MessageInputReference = mir
	case TagRelatedReference:
		h.RelatedReference = value
	case TagServiceTypeIdentifier:
		h.ServiceTypeIdentifier = value
	case TagUETR:
		if err := ValidateUETR(value); err != nil {
			return err
		}
		h.UETR = value
	case TagAddresseeInformation:
		h.AddresseeInformation = value
	case TagPaymentReleaseInfo, TagSanctionsScreeningInfo, TagPaymentControlsInfo:
		info, ok := parseCodedInfo(value)
		if !ok {
			return tagError(tag, value, "/CODE/[info]")
		}
		switch tag {
		case TagPaymentReleaseInfo:
			h.PaymentReleaseInfo = info
		case TagSanctionsScreeningInfo:
			h.SanctionsScreeningInfo = info
		default:
			h.PaymentControlsInfo = info
		}
	}
	return nil
}

// ValidateUETR checks that a tag 121 value is a version 4 UUID.
func ValidateUETR(value string) error {
	id, err := uuid.Parse(value)
	if err != nil || len(value) != 36 {
		return tagError(TagUETR, value, "UUID in 8-4-4-4-12 form")
	}
	if id.Version() != 4 {
		return tagError(TagUETR, value, "UUID version 4")
	}
	return nil
}

// NewUETR returns a fresh tag 121 value.
func NewUETR() string {
	return uuid.NewString()
}

func parseCodedInfo(value string) (*CodedInfo, bool) {
	v := strings.TrimPrefix(value, "/")
	if len(v) < 3 {
		return nil, false
	}
	info := &CodedInfo{Code: v[0:3]}
	rest := v[3:]
	switch {
	case rest == "" || rest == "/":
	case rest[0] == '/':
		info.AdditionalInfo = rest[1:]
	default:
		return nil, false
	}
	return info, true
}

func tagError(tag, value, expected string) error {
	return &parsererror.FormatError{
		Context:    fmt.Sprintf("tag %s", tag),
		Constraint: "malformed value",
		Expected:   expected,
		Actual:     value,
		Err:        parsererror.ErrInvalidBlockFormat,
	}
}

func (h *UserHeader) String() string {
	return joinTags(h.Tags)
}
