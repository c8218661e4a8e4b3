package rules

import (
	"slices"

	"fjacquet/swift-mt/internal/currencyutils"
	"fjacquet/swift-mt/internal/fields"
	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/parsererror"
)

func mt103Rules() []Rule {
	return []Rule{
		{ID: "C1", Code: "D75", Check: exchangeRateRequired},
		{ID: "C2", Code: "E13", Check: chargeCodes},
		{ID: "C3", Code: "E01", Check: instructionCodes},
		{ID: "C4", Code: "C81", Check: intermediaryRequiresAccountWith},
		{ID: "C5", Code: "E16", Check: spriForbidsIntermediary},
		{ID: "C6", Code: "C08", Check: commodityCurrency},
		{ID: "C7", Code: "D51", Check: chargesRequireInstructedAmount},
		{ID: "C8", Code: "E06", Check: reimbursementRequiresCorrespondents},
		{ID: "C9", Code: "E03", Check: stpForbidsCorrespondentLocation},
	}
}

func stpRules() []Rule {
	return []Rule{
		{ID: "C10", Code: "E04", Check: senderCorrespondentPartyIdentifier},
		{ID: "C11", Code: "E10", Check: beneficiaryAccountRequired},
		{ID: "C12", Code: "E18", Check: chequeForbidsBeneficiaryAccount},
	}
}

func init() {
	register("103", mt103Rules()...)
	register("103STP", mt103Rules()...)
	register("103STP", stpRules()...)

	c81 := Rule{ID: "C1", Code: "C81", Check: intermediaryRequiresAccountWith}
	register("202", c81)
	register("205", c81)
	register("202COV", c81,
		Rule{ID: "C2", Code: "C81", Check: underlyingIntermediaryRequiresAccountWith},
	)

	register("210",
		Rule{ID: "C1", Code: "C06", Check: mt210OrderingParty},
		Rule{ID: "C2", Code: "C02", Check: mt210Currency},
	)
	register("910", Rule{ID: "C1", Code: "C06", Check: orderingPartyRequired})
}

func bankOperationCode(m *messages.SwiftMessage) string {
	if f, ok := messages.FieldAs[*fields.Code](m, "23B"); ok {
		return f.Code
	}
	return ""
}

// exchangeRateRequired checks both directions: 36 is mandatory when 33B and 32A
// differ in currency, and not allowed otherwise.
func exchangeRateRequired(m *messages.SwiftMessage) []*parsererror.ValidationError {
	settled, ok := m.Body.Get("32A")
	if !ok {
		return nil
	}
	rate, hasRate := m.Body.Get("36")
	instructed, hasInstructed := m.Body.Get("33B")
	if !hasInstructed {
		if hasRate {
			return single(violation("D75", "36", rate.Value(),
				"Field 36 (Exchange Rate) is not allowed when field 33B is absent", "33B"))
		}
		return nil
	}
	from, _ := currency(instructed)
	to, _ := currency(settled)
	switch {
	case from != to && !hasRate:
		return single(violation("D75", "36", "",
			"Field 36 (Exchange Rate) must be present when the currency of 33B differs from the currency of 32A",
			"33B", "32A"))
	case from == to && hasRate:
		return single(violation("D75", "36", rate.Value(),
			"Field 36 (Exchange Rate) is not allowed when 33B and 32A have the same currency",
			"33B", "32A"))
	}
	return nil
}

func chargeCodes(m *messages.SwiftMessage) []*parsererror.ValidationError {
	code, ok := messages.FieldAs[*fields.Code](m, "71A")
	if !ok {
		return nil
	}
	senders := m.Body.Has("71F")
	receivers := m.Body.Has("71G")
	switch code.Code {
	case "OUR":
		if senders {
			return single(violation("E13", "71F", "", "Field 71F is not allowed when field 71A is OUR", "71A"))
		}
	case "SHA":
		if receivers {
			return single(violation("D50", "71G", "", "Field 71G is not allowed when field 71A is SHA", "71A"))
		}
	case "BEN":
		var out []*parsererror.ValidationError
		if !senders {
			out = append(out, violation("E15", "71F", "", "At least one field 71F must be present when field 71A is BEN", "71A"))
		}
		if receivers {
			out = append(out, violation("E15", "71G", "", "Field 71G is not allowed when field 71A is BEN", "71A"))
		}
		return out
	}
	return nil
}

func instructionCodes(m *messages.SwiftMessage) []*parsererror.ValidationError {
	var out []*parsererror.ValidationError
	operation := bankOperationCode(m)
	for _, f := range m.Body.All("23E") {
		e, ok := f.(*fields.Field23E)
		if !ok {
			continue
		}
		switch operation {
		case "SPRI":
			if !slices.Contains(messages.SPRIInstructionCodes, e.InstructionCode) {
				out = append(out, violation("E01", "23E", e.Value(),
					"Field 23E may only contain SDVA, TELB, PHOB or INTC when field 23B is SPRI", "23B"))
			}
		case "SSTD", "SPAY":
			out = append(out, violation("E01", "23E", e.Value(),
				"Field 23E is not allowed when field 23B is "+operation, "23B"))
		}
	}
	return out
}

func intermediaryRequiresAccountWith(m *messages.SwiftMessage) []*parsererror.ValidationError {
	return single(presentRequires("C81", m.Body, "56a", "57a"))
}

func underlyingIntermediaryRequiresAccountWith(m *messages.SwiftMessage) []*parsererror.ValidationError {
	var out []*parsererror.ValidationError
	for _, item := range m.Body.Items("underlying_customer_credit_transfer") {
		if v := presentRequires("C81", item, "56a", "57a"); v != nil {
			v.Message += " in the underlying customer credit transfer"
			out = append(out, v)
		}
	}
	return out
}

func spriForbidsIntermediary(m *messages.SwiftMessage) []*parsererror.ValidationError {
	f, ok := m.Body.Get("56a")
	if !ok || bankOperationCode(m) != "SPRI" {
		return nil
	}
	return single(violation("E16", f.Tag(), f.Value(), "Field 56a is not allowed when field 23B is SPRI", "23B"))
}

func commodityCurrency(m *messages.SwiftMessage) []*parsererror.ValidationError {
	var out []*parsererror.ValidationError
	for _, key := range []string{"32A", "33B"} {
		f, ok := m.Body.Get(key)
		if !ok {
			continue
		}
		if ccy, _ := currency(f); currencyutils.IsCommodity(ccy) {
			out = append(out, violation("C08", key, ccy, "Commodity currency "+ccy+" is not allowed in field "+key))
		}
	}
	return out
}

func chargesRequireInstructedAmount(m *messages.SwiftMessage) []*parsererror.ValidationError {
	if m.Body.Has("33B") {
		return nil
	}
	for _, key := range []string{"71F", "71G"} {
		if f, ok := m.Body.Get(key); ok {
			return single(violation("D51", "33B", "",
				"Field 33B must be present when field 71F or 71G is present", f.Tag()))
		}
	}
	return nil
}

func reimbursementRequiresCorrespondents(m *messages.SwiftMessage) []*parsererror.ValidationError {
	var out []*parsererror.ValidationError
	for _, required := range []string{"53a", "54a"} {
		if v := presentRequires("E06", m.Body, "55a", required); v != nil {
			out = append(out, v)
		}
	}
	return out
}

func stpForbidsCorrespondentLocation(m *messages.SwiftMessage) []*parsererror.ValidationError {
	f, ok := m.Body.Get("53a")
	if !ok || f.Tag() != "53D" || !stpOperation(m) {
		return nil
	}
	return single(violation("E03", f.Tag(), f.Value(),
		"Field 53a must not be used with option D when field 23B is SPRI, SSTD or SPAY", "23B"))
}

func stpOperation(m *messages.SwiftMessage) bool {
	switch bankOperationCode(m) {
	case "SPRI", "SSTD", "SPAY":
		return true
	}
	return false
}

func senderCorrespondentPartyIdentifier(m *messages.SwiftMessage) []*parsererror.ValidationError {
	f, ok := m.Body.Get("53a")
	if !ok || !stpOperation(m) {
		return nil
	}
	if b, ok := f.(*fields.InstitutionB); ok && b.PartyIdentifier == "" {
		return single(violation("E04", "53B", b.Value(),
			"Party identifier of field 53B is mandatory when field 23B is SPRI, SSTD or SPAY", "23B"))
	}
	return nil
}

func beneficiaryAccount(f fields.Field) string {
	switch v := f.(type) {
	case *fields.Field59:
		return v.Account
	case *fields.Field59A:
		return v.Account
	case *fields.Field59F:
		return v.Account
	}
	return ""
}

func beneficiaryAccountRequired(m *messages.SwiftMessage) []*parsererror.ValidationError {
	f, ok := m.Body.Get("59a")
	if !ok || !stpOperation(m) || beneficiaryAccount(f) != "" {
		return nil
	}
	return single(violation("E10", f.Tag(), f.Value(),
		"Account of field 59a is mandatory when field 23B is SPRI, SSTD or SPAY", "23B"))
}

func chequeForbidsBeneficiaryAccount(m *messages.SwiftMessage) []*parsererror.ValidationError {
	f, ok := m.Body.Get("59a")
	if !ok || beneficiaryAccount(f) == "" {
		return nil
	}
	for _, e := range m.Body.All("23E") {
		if code, ok := e.(*fields.Field23E); ok && code.InstructionCode == "CHQB" {
			return single(violation("E18", f.Tag(), f.Value(),
				"Account of field 59a is not allowed when field 23E contains CHQB", "23E"))
		}
	}
	return nil
}

func orderingPartyRequired(m *messages.SwiftMessage) []*parsererror.ValidationError {
	if m.Body.Has("50a") || m.Body.Has("52a") {
		return nil
	}
	return single(violation("C06", "50a/52a", "",
		"Either field 50a (Ordering Customer) or field 52a (Ordering Institution) must be present"))
}

func mt210OrderingParty(m *messages.SwiftMessage) []*parsererror.ValidationError {
	var out []*parsererror.ValidationError
	for _, item := range m.Body.Items("transactions") {
		customer, institution := item.Has("50a"), item.Has("52a")
		if customer == institution {
			ref := ""
			if f, ok := item.Get("21"); ok {
				ref = f.Value()
			}
			out = append(out, violation("C06", "50a/52a", ref,
				"Exactly one of field 50a (Ordering Customer) or field 52a (Ordering Institution) must be present", "21"))
		}
	}
	return out
}

func mt210Currency(m *messages.SwiftMessage) []*parsererror.ValidationError {
	var (
		out      []*parsererror.ValidationError
		expected string
	)
	for _, item := range m.Body.Items("transactions") {
		f, ok := item.Get("32B")
		if !ok {
			continue
		}
		ccy, _ := currency(f)
		if expected == "" {
			expected = ccy
			continue
		}
		if ccy != expected {
			out = append(out, violation("C02", "32B", f.Value(),
				"The currency code in field 32B must be the same for all occurrences, found "+ccy+" and "+expected))
		}
	}
	return out
}
