// Package validate handles the validate command
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/swift-mt/cmd/common"
	"fjacquet/swift-mt/cmd/root"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/parser"
	"fjacquet/swift-mt/internal/parsererror"
	"fjacquet/swift-mt/internal/report"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats of the validate command.
const (
	FormatText = "text"
	FormatJSON = report.FormatJSON
	FormatYAML = report.FormatYAML
)

var (
	// MessageType is the schema enforced while parsing.
	MessageType = string(parser.Auto)
	// StopOnFirst stops each message check at its first violation.
	StopOnFirst bool
	// Format is the output format: text, json or yaml.
	Format = FormatText
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate SWIFT MT messages against the network rules",
	Long: `Validate SWIFT MT messages against the SWIFT network validated rules and the
configured mandatory field and field rules.

Every message of the input is parsed and checked; the command prints one
report per message and fails when at least one message broke a rule.

Example:
  swift-mt validate -i payments.mt
  swift-mt validate -i statement.fin --format yaml --stop-on-first`,
	RunE: validateFunc,
}

// Result is the document printed in json and yaml formats.
type Result struct {
	Valid   bool                       `json:"valid" yaml:"valid"`
	Reports []*parser.ValidationReport `json:"reports" yaml:"reports"`
	Summary *report.ValidationSummary  `json:"summary" yaml:"summary"`
}

func init() {
	Cmd.Flags().StringVarP(&MessageType, "type", "t", string(parser.Auto), "Message type to enforce (auto, 103, 103STP, 940, ...)")
	Cmd.Flags().BoolVar(&StopOnFirst, "stop-on-first", false, "Stop checking a message at its first violation")
	Cmd.Flags().StringVarP(&Format, "format", "f", FormatText, "Output format (text, json, yaml)")
}

func validateFunc(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	log := root.GetLogger()

	format := strings.ToLower(Format)
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("unsupported output format: %s", Format)
	}

	pt, err := parser.ParseParserType(MessageType)
	if err != nil {
		return err
	}
	opts := c.ParserOptions()
	opts.StrictValidation = false
	opts.StopOnFirstError = opts.StopOnFirstError || StopOnFirst
	p, err := c.NewParser(pt, opts)
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

	result := Result{Valid: true, Reports: make([]*parser.ValidationReport, 0, len(msgs))}
	for _, msg := range msgs {
		r := p.Validate(msg)
		result.Valid = result.Valid && r.Valid()
		result.Reports = append(result.Reports, r)
	}
	result.Summary = c.GetReportGenerator().SummarizeValidation(result.Reports)

	data, err := render(result, format)
	if err != nil {
		return err
	}
	if err := common.WriteOutput(root.SharedFlags.Output, data, cmd.OutOrStdout()); err != nil {
		return err
	}

	log.Info("Validation completed",
		logging.Field{Key: logging.FieldCount, Value: result.Summary.Messages},
		logging.Field{Key: "invalid", Value: result.Summary.Invalid})
	if !result.Valid {
		return fmt.Errorf("%w: %d of %d messages failed validation",
			parsererror.ErrRuleViolation, result.Summary.Invalid, result.Summary.Messages)
	}
	return nil
}

func render(result Result, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(result)
	}

	var b strings.Builder
	for _, r := range result.Reports {
		name := "MT" + r.Schema
		if r.Reference != "" {
			name += " " + r.Reference
		}
		if r.Valid() {
			fmt.Fprintf(&b, "%s: valid\n", name)
		} else {
			fmt.Fprintf(&b, "%s: %d violation(s)\n", name, len(r.Violations))
			for _, v := range r.Violations {
				fmt.Fprintf(&b, "  %v\n", v)
			}
		}
		if len(r.Ambiguous) > 0 {
			fmt.Fprintf(&b, "  ambiguous options: %s\n", strings.Join(r.Ambiguous, ", "))
		}
	}
	return []byte(b.String()), nil
}
