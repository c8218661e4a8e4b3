package common

import (
	"strings"
	"testing"

	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/models"

	"github.com/stretchr/testify/require"
)

const mt940 = "{1:F01DEUTDEFFAXXX0123456789}{2:I940CHASUS33AXXXN}{4:\n" +
	":20:STMT0315\n" +
	":25:DE89370400440532013000\n" +
	":28C:42/1\n" +
	":60F:C210315EUR1000,00\n" +
	":61:2103150316C100,00NTRFREF1//BANK1\n" +
	":86:SALARY\nMARCH\n" +
	":61:210316D50,5NCHGREF2\n" +
	":62F:C210316EUR1049,50\n" +
	":64:C210316EUR1049,50\n" +
	"-}"

func parseStatement(t *testing.T, raw string) *models.Statement {
	t.Helper()
	msg, err := messages.Parse(raw)
	require.NoError(t, err)
	s, err := StatementFromMessage(msg, "2006-01-02")
	require.NoError(t, err)
	return s
}

func message(typ string, lines ...string) string {
	return "{1:F01DEUTDEFFAXXX0123456789}{2:I" + typ + "CHASUS33AXXXN}{4:\n" + strings.Join(lines, "\n") + "\n-}"
}
