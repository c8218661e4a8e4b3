package messages

import "fjacquet/swift-mt/internal/fields"

// Sequence caps.
const (
	MaxStatementLines = 500
	MaxMT210Items     = 10
	MaxMT920Requests  = 100
)

var (
	optionsA    = fields.Letters("A")
	optionsAB   = fields.Letters("AB")
	optionsAD   = fields.Letters("AD")
	optionsABD  = fields.Letters("ABD")
	optionsACD  = fields.Letters("ACD")
	optionsABCD = fields.Letters("ABCD")
	optionsCD   = fields.Letters("CD")
	optionsFM   = fields.Letters("FM")
	optionsRS   = fields.Letters("RS")
)

func mt103Slots() []Slot {
	return []Slot{
		mandatory("20"),
		repeated("13C"),
		mandatory("23B"),
		repeated("23E"),
		optional("26T"),
		mandatory("32A"),
		optional("33B"),
		optional("36"),
		variant("50", fields.OrderingCustomerAFK...),
		optional("51A"),
		optionalVariant("52", optionsAD...),
		optionalVariant("53", optionsABD...),
		optionalVariant("54", optionsABD...),
		optionalVariant("55", optionsABD...),
		optionalVariant("56", optionsACD...),
		optionalVariant("57", optionsABCD...),
		variant("59", fields.Beneficiary...),
		optional("70"),
		mandatory("71A"),
		repeated("71F"),
		optional("71G"),
		optional("72"),
		optional("77B"),
		optional("77T"),
	}
}

// mt103STPSlots narrows the institution options to the ones straight-through
// processing can route without manual repair.
func mt103STPSlots() []Slot {
	return []Slot{
		mandatory("20"),
		repeated("13C"),
		mandatory("23B"),
		repeated("23E"),
		optional("26T"),
		mandatory("32A"),
		optional("33B"),
		optional("36"),
		variant("50", fields.OrderingCustomerAFK...),
		optionalVariant("52", optionsA...),
		optionalVariant("53", optionsAB...),
		optionalVariant("54", optionsA...),
		optionalVariant("55", optionsA...),
		optionalVariant("56", optionsA...),
		optionalVariant("57", optionsA...),
		variant("59", fields.Beneficiary...),
		optional("70"),
		mandatory("71A"),
		repeated("71F"),
		optional("71G"),
		optional("72"),
		optional("77B"),
	}
}

func mt202Slots() []Slot {
	return []Slot{
		mandatory("20"),
		mandatory("21"),
		repeated("13C"),
		mandatory("32A"),
		optionalVariant("52", optionsAD...),
		optionalVariant("53", optionsABD...),
		optionalVariant("54", optionsABD...),
		optionalVariant("56", optionsAD...),
		optionalVariant("57", optionsABD...),
		variant("58", optionsAD...),
		optional("72"),
	}
}

func statementLines(slots ...Slot) Slot {
	return sequence("statement_lines", 0, MaxStatementLines, slots...)
}

func freeFormat(typ string) *Schema {
	return &Schema{Type: typ, Slots: []Slot{
		mandatory("20"),
		optional("21"),
		mandatory("79"),
	}}
}

func balanceAdvice(typ string) *Schema {
	return &Schema{Type: typ, Slots: []Slot{
		mandatory("20"),
		mandatory("21"),
		mandatory("25"),
		variant("32", optionsCD...),
		optionalVariant("52", optionsAD...),
		mandatory("71B"),
		optional("72"),
	}}
}

func chargesRequest(typ string) *Schema {
	return &Schema{Type: typ, Slots: []Slot{
		mandatory("20"),
		mandatory("21"),
		mandatory("32B"),
		optionalVariant("52", optionsAD...),
		optionalVariant("57", optionsABD...),
		mandatory("71B"),
		optional("72"),
	}}
}

func cancellation(typ string) *Schema {
	return &Schema{Type: typ, Slots: []Slot{
		mandatory("20"),
		mandatory("21"),
		mandatory("11S"),
		optional("79"),
	}}
}

func queryOrAnswer(typ, narrative string) *Schema {
	return &Schema{Type: typ, Slots: []Slot{
		mandatory("20"),
		mandatory("21"),
		mandatory(narrative),
		optional("77A"),
		optionalVariant("11", optionsRS...),
		optional("79"),
	}}
}

func init() {
	register(&Schema{Type: "103", Slots: mt103Slots()})
	register(&Schema{Type: "103", Variant: "STP", Slots: mt103STPSlots()})

	register(&Schema{Type: "202", Slots: mt202Slots()})
	register(&Schema{Type: "205", Slots: mt202Slots()})
	register(&Schema{Type: "202", Variant: "COV", Slots: append(mt202Slots(),
		sequence("underlying_customer_credit_transfer", 1, 1,
			variant("50", fields.OrderingCustomerAFK...),
			optionalVariant("52", optionsAD...),
			optionalVariant("56", optionsACD...),
			optionalVariant("57", optionsABCD...),
			variant("59", fields.Beneficiary...),
			optional("70"),
			optional("72"),
			optional("33B"),
		),
	)})

	register(&Schema{Type: "210", Slots: []Slot{
		mandatory("20"),
		optional("25"),
		mandatory("30"),
		sequence("transactions", 1, MaxMT210Items,
			mandatory("21"),
			mandatory("32B"),
			optionalVariant("50", fields.OrderingCustomerNCF...),
			optionalVariant("52", optionsAD...),
			optionalVariant("56", optionsAD...),
		),
	}})

	register(&Schema{Type: "900", Slots: []Slot{
		mandatory("20"),
		mandatory("21"),
		mandatory("25"),
		optional("13D"),
		mandatory("32A"),
		optionalVariant("52", optionsAD...),
		optional("72"),
	}})

	register(&Schema{Type: "910", Slots: []Slot{
		mandatory("20"),
		mandatory("21"),
		mandatory("25"),
		optional("13D"),
		mandatory("32A"),
		optionalVariant("50", fields.OrderingCustomerAFK...),
		optionalVariant("52", optionsAD...),
		optionalVariant("56", optionsAD...),
		optional("72"),
	}})

	register(&Schema{Type: "920", Slots: []Slot{
		mandatory("20"),
		sequence("requests", 1, MaxMT920Requests,
			mandatory("12"),
			mandatory("25"),
			optional("34F"),
			optional("34F"),
		),
	}})

	register(&Schema{Type: "940", Slots: []Slot{
		mandatory("20"),
		optional("21"),
		mandatory("25"),
		mandatory("28C"),
		variant("60", optionsFM...),
		statementLines(mandatory("61"), optional("86")),
		variant("62", optionsFM...),
		optional("64"),
		repeated("65"),
		optional("86"),
	}})

	register(&Schema{Type: "941", Slots: []Slot{
		mandatory("20"),
		optional("21"),
		mandatory("25"),
		mandatory("28"),
		optional("13D"),
		optional("60F"),
		optional("90D"),
		optional("90C"),
		mandatory("62F"),
		optional("64"),
		repeated("65"),
		optional("86"),
	}})

	register(&Schema{Type: "942", Slots: []Slot{
		mandatory("20"),
		optional("21"),
		mandatory("25"),
		mandatory("28C"),
		mandatory("34F"),
		optional("34F"),
		mandatory("13D"),
		statementLines(mandatory("61"), optional("86")),
		optional("90D"),
		optional("90C"),
		optional("86"),
	}})

	register(&Schema{Type: "950", Slots: []Slot{
		mandatory("20"),
		mandatory("25"),
		mandatory("28C"),
		variant("60", optionsFM...),
		statementLines(mandatory("61")),
		variant("62", optionsFM...),
		optional("64"),
	}})

	for _, typ := range []string{"190", "290"} {
		register(balanceAdvice(typ))
	}
	for _, typ := range []string{"191", "291"} {
		register(chargesRequest(typ))
	}
	for _, typ := range []string{"192", "292"} {
		register(cancellation(typ))
	}
	for _, typ := range []string{"195", "295"} {
		register(queryOrAnswer(typ, "75"))
	}
	for _, typ := range []string{"196", "296"} {
		register(queryOrAnswer(typ, "76"))
	}
	for _, typ := range []string{"199", "299"} {
		register(freeFormat(typ))
	}
}
