package rules

import (
	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/parsererror"
)

// Copies of the original message's fields are not part of the cancellation and
// answer schemas, so they surface as unknown fields.
func hasOriginalCopy(m *messages.SwiftMessage) bool {
	return len(m.Unknown) > 0
}

func narrativeOrCopy(m *messages.SwiftMessage) []*parsererror.ValidationError {
	if m.Body.Has("79") || hasOriginalCopy(m) {
		return nil
	}
	return single(violation("C25", "79", "",
		"Field 79 or a copy of at least the mandatory fields of the original message must be present"))
}

func narrativeNotWithCopy(m *messages.SwiftMessage) []*parsererror.ValidationError {
	if m.Body.Has("79") && hasOriginalCopy(m) {
		return single(violation("C31", "79", "",
			"Field 79 and a copy of the original message fields must not both be present"))
	}
	return nil
}

func init() {
	for _, typ := range []string{"192", "292"} {
		register(typ, Rule{ID: "C1", Code: "C25", Check: narrativeOrCopy})
	}
	for _, typ := range []string{"196", "296"} {
		register(typ, Rule{ID: "C1", Code: "C31", Check: narrativeNotWithCopy})
	}
}
