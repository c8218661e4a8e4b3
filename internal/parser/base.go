// Package parser provides the SWIFT MT parser facade: file and stream input,
// type dispatch, strict validation and the parser registry.
package parser

import (
	"fjacquet/swift-mt/internal/common"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/models"
)

// BaseParser provides common functionality for all parser implementations.
// It implements the LoggerConfigurable interface.
//
// Parsers should embed BaseParser to inherit common functionality:
//
//	type MyParser struct {
//		BaseParser
//		// parser-specific fields
//	}
type BaseParser struct {
	logger logging.Logger
}

// NewBaseParser creates a new BaseParser instance with the provided logger.
// If logger is nil, a default logger will be used.
func NewBaseParser(logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return BaseParser{
		logger: logger,
	}
}

// SetLogger implements the LoggerConfigurable interface.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// WriteToCSV writes statement rows with the shared CSV writer.
func (b *BaseParser) WriteToCSV(rows []models.StatementRow, csvFile string, opts common.CSVOptions) error {
	b.logger.Info("Writing statement rows to CSV using common writer",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})

	return common.WriteStatementRowsToCSV(rows, csvFile, opts, b.logger)
}
