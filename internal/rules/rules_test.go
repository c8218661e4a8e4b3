package rules

import (
	"strings"
	"testing"

	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, typ, userHeader string, lines ...string) *messages.SwiftMessage {
	t.Helper()
	raw := "{1:F01DEUTDEFFAXXX0123456789}{2:I" + typ + "CHASUS33AXXXN}" + userHeader +
		"{4:\n" + strings.Join(lines, "\n") + "\n-}"
	msg, err := messages.Parse(raw)
	require.NoError(t, err)
	return msg
}

func codes(violations []*parsererror.ValidationError) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Code)
	}
	return out
}

func mt103(extra map[string]string) []string {
	order := []string{"20", "23B", "23E", "32A", "33B", "36", "50K", "53A", "53D", "54A", "55A", "56A", "57A", "59", "71A", "71F", "71G"}
	values := map[string]string{
		"20":  "REF123",
		"23B": "CRED",
		"32A": "210315EUR1000,00",
		"50K": "JOHN DOE",
		"59":  "/DE89370400440532013000\nJANE SMITH",
		"71A": "SHA",
	}
	for k, v := range extra {
		values[k] = v
	}
	var lines []string
	for _, tag := range order {
		if v, ok := values[tag]; ok && v != "" {
			lines = append(lines, ":"+tag+":"+v)
		}
	}
	return lines
}

func TestMT910OrderingParty(t *testing.T) {
	msg := parse(t, "910", "", ":20:REF", ":21:RELATED", ":25:12345678", ":32A:210315EUR100,00")

	violations := Validate(msg, false)
	require.Len(t, violations, 1)
	assert.Equal(t, "C06", violations[0].Code)
	assert.Equal(t, "C1", violations[0].Rule)
	assert.Equal(t, "Either field 50a (Ordering Customer) or field 52a (Ordering Institution) must be present", violations[0].Message)
	assert.ErrorIs(t, violations[0], parsererror.ErrRuleViolation)

	withInstitution := parse(t, "910", "", ":20:REF", ":21:RELATED", ":25:12345678", ":32A:210315EUR100,00", ":52A:DEUTDEFF")
	assert.Empty(t, Validate(withInstitution, false))
}

func TestMT103Rules(t *testing.T) {
	tests := []struct {
		name  string
		extra map[string]string
		want  []string
	}{
		{name: "valid", want: []string{}},
		{name: "currency differs without rate", extra: map[string]string{"33B": "USD1100,00"}, want: []string{"D75"}},
		{name: "currency differs with rate", extra: map[string]string{"33B": "USD1100,00", "36": "1,1"}, want: []string{}},
		{name: "rate without 33B", extra: map[string]string{"36": "1,1"}, want: []string{"D75"}},
		{name: "rate with same currency", extra: map[string]string{"33B": "EUR1000,00", "36": "1,1"}, want: []string{"D75"}},
		{name: "OUR with sender charges", extra: map[string]string{"71A": "OUR", "71F": "EUR10,00", "33B": "EUR1000,00"}, want: []string{"E13"}},
		{name: "SHA with receiver charges", extra: map[string]string{"71G": "EUR10,00", "33B": "EUR1000,00"}, want: []string{"D50"}},
		{name: "BEN without sender charges", extra: map[string]string{"71A": "BEN"}, want: []string{"E15"}},
		{name: "BEN with both charges", extra: map[string]string{"71A": "BEN", "71F": "EUR1,00", "71G": "EUR1,00", "33B": "EUR1000,00"}, want: []string{"E15"}},
		{name: "sender charges without 33B", extra: map[string]string{"71A": "BEN", "71F": "EUR1,00"}, want: []string{"D51"}},
		{name: "receiver charges without 33B", extra: map[string]string{"71A": "OUR", "71G": "EUR1,00"}, want: []string{"D51"}},
		{name: "reimbursement with both correspondents", extra: map[string]string{"53A": "DEUTDEFF", "54A": "CHASUS33", "55A": "BNPAFRPP"}, want: []string{}},
		{name: "reimbursement without receiver's correspondent", extra: map[string]string{"53A": "DEUTDEFF", "55A": "BNPAFRPP"}, want: []string{"E06"}},
		{name: "reimbursement alone", extra: map[string]string{"55A": "BNPAFRPP"}, want: []string{"E06", "E06"}},
		{name: "SPRI with correspondent location", extra: map[string]string{"23B": "SPRI", "53D": "LONDON"}, want: []string{"E03"}},
		{name: "CRED with correspondent location", extra: map[string]string{"53D": "LONDON"}, want: []string{}},
		{name: "SPRI with other instruction", extra: map[string]string{"23B": "SPRI", "23E": "CHQB"}, want: []string{"E01"}},
		{name: "SSTD with instruction", extra: map[string]string{"23B": "SSTD", "23E": "SDVA"}, want: []string{"E01"}},
		{name: "intermediary without account with institution", extra: map[string]string{"56A": "DEUTDEFF"}, want: []string{"C81"}},
		{name: "SPRI with intermediary", extra: map[string]string{"23B": "SPRI", "56A": "DEUTDEFF", "57A": "CHASUS33"}, want: []string{"E16"}},
		{name: "commodity currency", extra: map[string]string{"32A": "210315XAU100,00"}, want: []string{"C08"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := parse(t, "103", "", mt103(tt.extra)...)
			assert.Equal(t, tt.want, codes(Validate(msg, false)))
		})
	}
}

func TestStopOnFirst(t *testing.T) {
	msg := parse(t, "103", "", mt103(map[string]string{
		"33B": "USD1100,00",
		"71A": "BEN",
		"71G": "EUR1,00",
	})...)

	assert.Equal(t, []string{"D75", "E15", "E15"}, codes(Validate(msg, false)))
	assert.Equal(t, []string{"D75"}, codes(Validate(msg, true)))

	// A failing rule reports all of its violations before stopping.
	msg = parse(t, "103", "", mt103(map[string]string{"71A": "BEN", "71G": "EUR1,00"})...)
	assert.Equal(t, []string{"E15", "E15"}, codes(Validate(msg, true)))
}

func TestMT103STPRules(t *testing.T) {
	noAccount := parse(t, "103", "{3:{119:STP}}", mt103(map[string]string{"23B": "SSTD", "59": "JANE SMITH"})...)
	assert.Equal(t, []string{"E10"}, codes(Validate(noAccount, false)))

	cheque := parse(t, "103", "{3:{119:STP}}", mt103(map[string]string{"23E": "CHQB"})...)
	assert.Equal(t, []string{"E18"}, codes(Validate(cheque, false)))

	charges := parse(t, "103", "{3:{119:STP}}", mt103(map[string]string{"71A": "BEN", "71F": "EUR1,00"})...)
	assert.Equal(t, []string{"D51"}, codes(Validate(charges, false)))

	// The plain MT103 profile does not apply the STP rules.
	plain := parse(t, "103", "", mt103(map[string]string{"23E": "CHQB"})...)
	assert.Empty(t, Validate(plain, false))
}

func TestMT202Rules(t *testing.T) {
	msg := parse(t, "202", "", ":20:REF", ":21:RELATED", ":32A:210315USD1000,00", ":56A:DEUTDEFF", ":58A:CHASUS33")
	assert.Equal(t, []string{"C81"}, codes(Validate(msg, false)))
}

func TestMT202COVRules(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "valid",
			lines: []string{":50K:/12345\nJOHN DOE", ":56A:DEUTDEFF", ":57A:BNPAFRPP", ":59:/67890\nJANE SMITH"},
			want:  []string{},
		},
		{
			name:  "underlying intermediary without account with institution",
			lines: []string{":50K:/12345\nJOHN DOE", ":56A:DEUTDEFF", ":59:/67890\nJANE SMITH"},
			want:  []string{"C81"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := append([]string{":20:COVREF", ":21:RELREF", ":32A:210315USD1000,00", ":58A:CHASUS33"}, tt.lines...)
			msg := parse(t, "202", "{3:{119:COV}}", lines...)
			require.Equal(t, "202COV", msg.SchemaName())
			violations := Validate(msg, false)
			assert.Equal(t, tt.want, codes(violations))
			for _, v := range violations {
				assert.Equal(t, "C2", v.Rule)
				assert.Equal(t, "57a", v.Field)
			}
		})
	}
}

func TestMT210Rules(t *testing.T) {
	msg := parse(t, "210", "",
		":20:NOTICE", ":30:210315",
		":21:REF1", ":32B:EUR100,00", ":52A:DEUTDEFF",
		":21:REF2", ":32B:USD100,00",
	)
	assert.Equal(t, []string{"C06", "C02"}, codes(Validate(msg, false)))
}

func TestMT920Rules(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{name: "valid", lines: []string{":12:940", ":25:12345678"}, want: []string{}},
		{name: "unknown type", lines: []string{":12:999", ":25:12345678"}, want: []string{"T88"}},
		{name: "942 without floor limit", lines: []string{":12:942", ":25:12345678"}, want: []string{"C22"}},
		{name: "single limit with mark", lines: []string{":12:942", ":25:12345678", ":34F:EURD100,00"}, want: []string{"C23"}},
		{name: "pair of limits", lines: []string{":12:942", ":25:12345678", ":34F:EURD100,00", ":34F:EURC200,00"}, want: []string{}},
		{name: "pair with mixed currencies", lines: []string{":12:942", ":25:12345678", ":34F:EURD100,00", ":34F:USDC200,00"}, want: []string{"C40"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := parse(t, "920", "", append([]string{":20:REQUEST"}, tt.lines...)...)
			assert.Equal(t, tt.want, codes(Validate(msg, false)))
		})
	}
}

func TestStatementCurrencies(t *testing.T) {
	msg := parse(t, "940", "",
		":20:STMT", ":25:12345678", ":28C:1/1",
		":60F:C210315EUR1000,00",
		":61:210315C100,00NTRFREF1",
		":62F:C210315USD1100,00",
	)
	violations := Validate(msg, false)
	require.Len(t, violations, 1)
	assert.Equal(t, "C27", violations[0].Code)
	assert.Equal(t, "62F", violations[0].Field)
	assert.Equal(t, []string{"60F"}, violations[0].AffectedFields)
}

func TestCancellationNarrative(t *testing.T) {
	empty := parse(t, "292", "", ":20:CANCEL", ":21:ORIGINAL", ":11S:202\n210315")
	assert.Equal(t, []string{"C25"}, codes(Validate(empty, false)))

	withCopy := parse(t, "292", "", ":20:CANCEL", ":21:ORIGINAL", ":11S:202\n210315", ":32A:210315USD100,00")
	assert.Empty(t, Validate(withCopy, false))
}

func TestAnswerNarrative(t *testing.T) {
	both := parse(t, "196", "", ":20:ANSWER", ":21:QUERY", ":76:/1/PROCESSED", ":79:NARRATIVE", ":32A:210315USD100,00")
	assert.Equal(t, []string{"C31"}, codes(Validate(both, false)))
}

func TestTypesWithoutRules(t *testing.T) {
	msg := parse(t, "199", "", ":20:FREE", ":79:HELLO")
	assert.Empty(t, For("199"))
	assert.Empty(t, Validate(msg, false))
}

func TestValidatorLogs(t *testing.T) {
	logger := logging.NewMockLogger()
	v := NewValidator(logger)
	msg := parse(t, "910", "", ":20:REF", ":21:RELATED", ":25:12345678", ":32A:210315EUR100,00")

	assert.Len(t, v.Validate(msg, false), 1)
	assert.True(t, logger.HasEntry("INFO", "Network validation failed"))
}
