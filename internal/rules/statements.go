package rules

import (
	"fmt"
	"slices"

	"fjacquet/swift-mt/internal/fields"
	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/parsererror"
)

// RequestableTypes lists the statement types an MT920 may request in field 12.
var RequestableTypes = []string{"940", "941", "942", "950"}

func init() {
	register("920",
		Rule{ID: "T88", Code: "T88", Check: requestedTypes},
		Rule{ID: "C1", Code: "C22", Check: interimReportFloorLimit},
		Rule{ID: "C2", Code: "C23", Check: requestFloorLimitMarks},
		Rule{ID: "C3", Code: "C40", Check: requestFloorLimitCurrency},
	)
	register("940", Rule{ID: "C1", Code: "C27", Check: balanceCurrencies("60a", "62a", "64", "65")})
	register("941", Rule{ID: "C1", Code: "C27", Check: balanceCurrencies("60F", "62F", "64", "65", "90D", "90C")})
	register("942",
		Rule{ID: "C1", Code: "C27", Check: balanceCurrencies("34F", "90D", "90C")},
		Rule{ID: "C2", Code: "C23", Check: func(m *messages.SwiftMessage) []*parsererror.ValidationError {
			return floorLimitMarks(m.Body.All("34F"), "")
		}},
	)
	register("950", Rule{ID: "C1", Code: "C27", Check: balanceCurrencies("60a", "62a", "64")})
}

func balanceCurrencies(keys ...string) func(*messages.SwiftMessage) []*parsererror.ValidationError {
	return func(m *messages.SwiftMessage) []*parsererror.ValidationError {
		return sameCurrency("C27", m.Body, keys...)
	}
}

func requestedType(item *messages.Body) string {
	if f, ok := item.Get("12"); ok {
		return f.Value()
	}
	return ""
}

func requestedTypes(m *messages.SwiftMessage) []*parsererror.ValidationError {
	var out []*parsererror.ValidationError
	for i, item := range m.Body.Items("requests") {
		typ := requestedType(item)
		if !slices.Contains(RequestableTypes, typ) {
			out = append(out, violation("T88", "12", typ,
				fmt.Sprintf("Request %d: field 12 must be one of 940, 941, 942 or 950", i+1)))
		}
	}
	return out
}

func interimReportFloorLimit(m *messages.SwiftMessage) []*parsererror.ValidationError {
	var out []*parsererror.ValidationError
	for i, item := range m.Body.Items("requests") {
		if requestedType(item) == "942" && !item.Has("34F") {
			out = append(out, violation("C22", "34F", "",
				fmt.Sprintf("Request %d: field 34F is mandatory when field 12 is 942", i+1), "12"))
		}
	}
	return out
}

func requestFloorLimitMarks(m *messages.SwiftMessage) []*parsererror.ValidationError {
	var out []*parsererror.ValidationError
	for i, item := range m.Body.Items("requests") {
		out = append(out, floorLimitMarks(item.All("34F"), fmt.Sprintf("Request %d: ", i+1))...)
	}
	return out
}

// floorLimitMarks checks the D/C marks of one or two 34F: a single limit carries
// no mark, a pair is marked D then C.
func floorLimitMarks(limits []fields.Field, prefix string) []*parsererror.ValidationError {
	var marks []*fields.Field34F
	for _, f := range limits {
		if l, ok := f.(*fields.Field34F); ok {
			marks = append(marks, l)
		}
	}
	switch len(marks) {
	case 1:
		if marks[0].Mark != "" {
			return single(violation("C23", "34F", marks[0].Value(),
				prefix+"D/C mark must not be used when only one field 34F is present"))
		}
	case 2:
		var out []*parsererror.ValidationError
		if marks[0].Mark != "D" {
			out = append(out, violation("C23", "34F", marks[0].Value(),
				prefix+"First field 34F must carry D/C mark D when both floor limits are present"))
		}
		if marks[1].Mark != "C" {
			out = append(out, violation("C23", "34F", marks[1].Value(),
				prefix+"Second field 34F must carry D/C mark C when both floor limits are present"))
		}
		return out
	}
	return nil
}

func requestFloorLimitCurrency(m *messages.SwiftMessage) []*parsererror.ValidationError {
	var out []*parsererror.ValidationError
	for _, item := range m.Body.Items("requests") {
		for _, v := range sameCurrency("C40", item, "34F") {
			v.Message = "Currency code must be the same for each field 34F of a request: " + v.Message
			out = append(out, v)
		}
	}
	return out
}
