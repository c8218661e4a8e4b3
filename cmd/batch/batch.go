// Package batch handles batch processing of files
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/swift-mt/cmd/root"
	"fjacquet/swift-mt/internal/fileutils"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/parser"

	"github.com/spf13/cobra"
)

// Output formats of the consolidated statements.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var (
	// Format is the output format of the consolidated statements.
	Format = FormatCSV
	// WriteJSON also writes the JSON documents of every parsed file.
	WriteJSON bool
	// Recursive walks sub-directories of the input directory.
	Recursive bool
	// ReportPath is where the run summary goes. Empty means
	// summary.<format> in the output directory.
	ReportPath string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process files from a directory",
	Long: `Batch process SWIFT MT files from an input directory and write the results
to another directory.

Every file with a configured extension is parsed by a pool of workers. The
statement lines of MT940, MT942 and MT950 messages are consolidated into one
CSV or Excel file per account, and a summary report of the run is written next
to them. A file that fails to parse is reported and does not stop the run.

Example:
  swift-mt batch -i input_dir/ -o output_dir/
  swift-mt batch -i input_dir/ -o output_dir/ --format xlsx --json --validate`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&Format, "format", "f", FormatCSV, "Statement output format (csv, xlsx)")
	Cmd.Flags().BoolVar(&WriteJSON, "json", false, "Also write the JSON documents of every file")
	Cmd.Flags().BoolVarP(&Recursive, "recursive", "r", false, "Walk sub-directories of the input directory")
	Cmd.Flags().StringVar(&ReportPath, "report", "", "Summary report path (default: <output>/summary.<report format>)")

	// Override the usage text for the input/output flags in batch context
	Cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags (for batch, -i/-o refer to directories):
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`)
}

func batchFunc(cmd *cobra.Command, args []string) error {
	inputDir := root.SharedFlags.Input
	outputDir := root.SharedFlags.Output
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("input and output directories must be specified")
	}
	format := strings.ToLower(Format)
	if format != FormatCSV && format != FormatXLSX {
		return fmt.Errorf("unsupported output format: %s", Format)
	}

	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	logger := root.GetLogger()
	logger.Info("Batch command called",
		logging.Field{Key: "input_dir", Value: inputDir},
		logging.Field{Key: "output_dir", Value: outputDir})

	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	p, err := c.GetParser(parser.Auto)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := c.NewBatchProcessor(p, root.SharedFlags.Validate, Recursive).ProcessDirectory(ctx, inputDir)
	if err != nil {
		return fmt.Errorf("error during batch processing: %w", err)
	}

	aggregator := c.GetAggregator()
	groups := aggregator.GroupByAccount(result.Files)
	var written []string
	if format == FormatXLSX {
		written, err = aggregator.WriteGroupsXLSX(groups, outputDir)
	} else {
		written, err = aggregator.WriteGroupsCSV(groups, outputDir, c.CSVOptions())
	}
	if err != nil {
		return fmt.Errorf("failed to write consolidated statements: %w", err)
	}

	if WriteJSON {
		docs, err := aggregator.WriteMessagesJSON(result, outputDir)
		if err != nil {
			return fmt.Errorf("failed to write JSON documents: %w", err)
		}
		written = append(written, docs...)
	}

	reportFormat := c.GetConfig().Report.Format
	reportPath := ReportPath
	if reportPath == "" {
		reportPath = filepath.Join(outputDir, "summary."+reportFormat)
	}
	reports := c.GetReportGenerator()
	summary := reports.Summarize(result.RunID, result.Statements(), result.Reports())
	summary.Files = len(result.Files)
	summary.Failed = result.Failed()
	if err := reports.WriteReport(summary, reportFormat, reportPath); err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("Batch processing completed. %d files written.", len(written)),
		logging.Field{Key: "run_id", Value: result.RunID},
		logging.Field{Key: "failed", Value: len(summary.Failed)})

	if n := len(result.Files); n > 0 && len(summary.Failed) == n {
		return fmt.Errorf("all %d input files failed to parse", n)
	}
	return nil
}
