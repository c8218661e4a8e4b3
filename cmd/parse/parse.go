// Package parse handles the parse command
package parse

import (
	"fmt"

	"fjacquet/swift-mt/cmd/common"
	"fjacquet/swift-mt/cmd/root"
	"fjacquet/swift-mt/internal/jsonmap"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/parser"

	"github.com/spf13/cobra"
)

// MessageType is the schema enforced by the parse command.
var MessageType = string(parser.Auto)

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse SWIFT MT messages into JSON",
	Long: `Parse one or more SWIFT MT messages and print them as JSON documents.

Messages are read from the input file, or from stdin when no input is given.
With --validate every message is also checked against the network validated
rules and the command fails on the first invalid message.

Example:
  swift-mt parse -i payment.mt -o payment.json
  cat statement.fin | swift-mt parse --type 940`,
	RunE: parseFunc,
}

func init() {
	Cmd.Flags().StringVarP(&MessageType, "type", "t", string(parser.Auto), "Message type to enforce (auto, 103, 103STP, 940, ...)")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	log := root.GetLogger()

	pt, err := parser.ParseParserType(MessageType)
	if err != nil {
		return err
	}
	p, err := c.GetParser(pt)
	if err != nil {
		return err
	}

	raw, err := common.ReadInput(root.SharedFlags.Input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	msgs, err := common.ParseMessages(p, raw)
	if err != nil {
		return err
	}

	if root.SharedFlags.Validate {
		for _, msg := range msgs {
			if report := p.Validate(msg); !report.Valid() {
				return &parser.ValidationFailedError{Report: report}
			}
		}
	}

	var data []byte
	if len(msgs) == 1 {
		data, err = jsonmap.Marshal(msgs[0])
	} else {
		data, err = jsonmap.MarshalMessages(msgs)
	}
	if err != nil {
		return fmt.Errorf("failed to encode messages: %w", err)
	}

	if err := common.WriteOutput(root.SharedFlags.Output, append(data, '\n'), cmd.OutOrStdout()); err != nil {
		return err
	}
	log.Info("Parsed messages",
		logging.Field{Key: logging.FieldCount, Value: len(msgs)},
		logging.Field{Key: logging.FieldOutputFile, Value: root.SharedFlags.Output})
	return nil
}
