// Package convert handles the convert command
package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"fjacquet/swift-mt/cmd/common"
	"fjacquet/swift-mt/cmd/root"
	csvutil "fjacquet/swift-mt/internal/common"
	"fjacquet/swift-mt/internal/jsonmap"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/models"
	"fjacquet/swift-mt/internal/parser"
	"fjacquet/swift-mt/internal/parsererror"

	"github.com/spf13/cobra"
)

// Target formats of the convert command.
const (
	ToCSV  = "csv"
	ToXLSX = "xlsx"
	ToMT   = "mt"
	ToJSON = "json"
)

var (
	// To is the target format.
	To = ToCSV
	// MessageType is the schema enforced while parsing.
	MessageType = string(parser.Auto)
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert SWIFT MT messages to CSV, Excel, JSON or back to MT",
	Long: `Convert SWIFT MT messages between formats.

  csv   statement messages (MT940, MT942, MT950) to one CSV line per entry
  xlsx  statement messages to an Excel workbook
  json  any message to its JSON document
  mt    a JSON document, or an array of documents, back to the wire format

Example:
  swift-mt convert -i statement.fin -o statement.csv
  swift-mt convert -i statement.fin -o statement.xlsx --to xlsx
  swift-mt convert -i payment.json -o payment.mt --to mt`,
	RunE: convertFunc,
}

func init() {
	Cmd.Flags().StringVar(&To, "to", ToCSV, "Target format (csv, xlsx, json, mt)")
	Cmd.Flags().StringVarP(&MessageType, "type", "t", string(parser.Auto), "Message type to enforce (auto, 103, 103STP, 940, ...)")
}

func convertFunc(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	log := root.GetLogger()
	flags := root.SharedFlags
	target := strings.ToLower(To)

	pt, err := parser.ParseParserType(MessageType)
	if err != nil {
		return err
	}
	p, err := c.GetParser(pt)
	if err != nil {
		return err
	}
	dateFormat := c.GetConfig().CSV.DateFormat

	// File to file CSV goes through the parser's own converter.
	if target == ToCSV && !common.IsStdio(flags.Input) && !common.IsStdio(flags.Output) {
		if conv, ok := p.(common.Converter); ok {
			return common.ProcessFile(conv, flags.Input, flags.Output, flags.Validate, dateFormat, c.CSVOptions(), log)
		}
	}

	raw, err := common.ReadInput(flags.Input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	var data []byte
	switch target {
	case ToMT:
		var out string
		out, err = documentsToMT([]byte(raw))
		data = []byte(out)
	case ToJSON, ToCSV, ToXLSX:
		var msgs []*messages.SwiftMessage
		msgs, err = common.ParseMessages(p, raw)
		if err != nil {
			return err
		}
		data, err = fromMessages(msgs, target, dateFormat, c.CSVOptions())
	default:
		return fmt.Errorf("unsupported target format: %s", To)
	}
	if err != nil {
		return err
	}

	if err := common.WriteOutput(flags.Output, data, cmd.OutOrStdout()); err != nil {
		return err
	}
	log.Info("Conversion completed successfully!",
		logging.Field{Key: logging.FieldFormat, Value: target},
		logging.Field{Key: logging.FieldInputFile, Value: flags.Input},
		logging.Field{Key: logging.FieldOutputFile, Value: flags.Output})
	return nil
}

func fromMessages(msgs []*messages.SwiftMessage, target, dateFormat string, opts csvutil.CSVOptions) ([]byte, error) {
	if target == ToJSON {
		var (
			data []byte
			err  error
		)
		if len(msgs) == 1 {
			data, err = jsonmap.Marshal(msgs[0])
		} else {
			data, err = jsonmap.MarshalMessages(msgs)
		}
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}

	rows, err := statementRows(msgs, dateFormat)
	if err != nil {
		return nil, err
	}
	if target == ToXLSX {
		return csvutil.StatementRowsXLSX(rows)
	}
	var buf bytes.Buffer
	if err := csvutil.MarshalStatementRows(rows, &buf, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func statementRows(msgs []*messages.SwiftMessage, dateFormat string) ([]models.StatementRow, error) {
	rows := []models.StatementRow{}
	for _, msg := range msgs {
		if !slices.Contains(csvutil.StatementTypes, msg.MessageType) {
			return nil, &parsererror.MessageError{MessageType: msg.MessageType, Err: fmt.Errorf("not a statement message")}
		}
		st, err := csvutil.StatementFromMessage(msg, dateFormat)
		if err != nil {
			return nil, err
		}
		rows = append(rows, st.Rows...)
	}
	return rows, nil
}

// documentsToMT converts a JSON document, or an array of documents, to wire
// messages separated by a newline.
func documentsToMT(data []byte) (string, error) {
	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte("[")) {
		return jsonmap.ToMT(trimmed)
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(trimmed, &docs); err != nil {
		return "", fmt.Errorf("%w: %v", parsererror.ErrInvalidJSON, err)
	}
	out := make([]string, 0, len(docs))
	for i, doc := range docs {
		mt, err := jsonmap.ToMT(doc)
		if err != nil {
			return "", fmt.Errorf("document %d: %w", i+1, err)
		}
		out = append(out, mt)
	}
	return strings.Join(out, "\n"), nil
}
