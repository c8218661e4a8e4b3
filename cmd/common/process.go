// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"

	csvutil "fjacquet/swift-mt/internal/common"
	"fjacquet/swift-mt/internal/fileutils"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/models"
	"fjacquet/swift-mt/internal/parser"
)

// Stdio is the file name standing for stdin or stdout.
const Stdio = "-"

// Converter is the part of a parser the convert command needs.
type Converter interface {
	parser.FormatChecker
	ConvertToCSV(inputFile, outputFile, dateFormat string, opts csvutil.CSVOptions) error
}

// ProcessFile converts a statement file to CSV, checking its format first
// when validate is set.
func ProcessFile(p Converter, inputFile, outputFile string, validate bool, dateFormat string, opts csvutil.CSVOptions, log logging.Logger) error {
	if validate {
		log.Info("Validating format...")
		valid, err := p.ValidateFormat(inputFile)
		if err != nil {
			return fmt.Errorf("error validating file: %w", err)
		}
		if !valid {
			return fmt.Errorf("the file is not in a valid format: %s", inputFile)
		}
		log.Info("Validation successful.")
	}

	if err := p.ConvertToCSV(inputFile, outputFile, dateFormat, opts); err != nil {
		return fmt.Errorf("error converting to CSV: %w", err)
	}
	log.Info("Conversion completed successfully!",
		logging.Field{Key: logging.FieldInputFile, Value: inputFile},
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile})
	return nil
}

// ReadInput returns the content of path, or of stdin when path is empty or "-".
func ReadInput(path string, stdin io.Reader) (string, error) {
	if IsStdio(path) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := fileutils.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteOutput writes data to path, or to stdout when path is empty or "-".
func WriteOutput(path string, data []byte, stdout io.Writer) error {
	if IsStdio(path) {
		_, err := stdout.Write(data)
		return err
	}
	return fileutils.WriteFile(path, data, models.PermissionReportFile)
}

// ParseMessages parses every message of raw with p.
func ParseMessages(p parser.FullParser, raw string) ([]*messages.SwiftMessage, error) {
	parts := parser.SplitMessages(raw)
	if len(parts) == 0 {
		return nil, fmt.Errorf("no SWIFT MT message found in input")
	}
	msgs := make([]*messages.SwiftMessage, 0, len(parts))
	for i, part := range parts {
		msg, err := p.ParseString(part)
		if err != nil {
			if len(parts) == 1 {
				return nil, err
			}
			return nil, fmt.Errorf("message %d: %w", i+1, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// IsStdio tells whether path stands for stdin or stdout.
func IsStdio(path string) bool {
	return path == "" || path == Stdio
}
