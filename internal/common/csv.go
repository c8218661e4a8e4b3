// Package common provides the export helpers shared by the CLI, the batch
// processor and the HTTP API: statement flattening, CSV and XLSX output.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"fjacquet/swift-mt/internal/fileutils"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/models"

	"github.com/gocarina/gocsv"
)

// CSVOptions controls the CSV layout.
type CSVOptions struct {
	Delimiter      rune
	IncludeHeaders bool
}

// DefaultCSVOptions returns comma separated output with a header row.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ',', IncludeHeaders: true}
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv
// TCSVRow is the struct type that maps to the CSV columns
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	logger.Debug("Reading CSV file", logging.Field{Key: logging.FieldFile, Value: filePath})

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []TCSVRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}
	logger.Debug("Successfully read CSV data", logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// MarshalStatementRows writes rows as CSV to w.
func MarshalStatementRows(rows []models.StatementRow, w io.Writer, opts CSVOptions) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil statement rows to CSV")
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = opts.Delimiter
	out := gocsv.NewSafeCSVWriter(csvWriter)

	var err error
	if opts.IncludeHeaders {
		err = gocsv.MarshalCSV(rows, out)
	} else {
		err = gocsv.MarshalCSVWithoutHeaders(rows, out)
	}
	if err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteStatementRowsToCSV writes rows to csvFile, creating its directory.
func WriteStatementRowsToCSV(rows []models.StatementRow, csvFile string, opts CSVOptions, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if rows == nil {
		return fmt.Errorf("cannot write nil statement rows to CSV")
	}
	logger.Info("Writing statement rows to CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})

	file, err := fileutils.CreateFile(csvFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	return MarshalStatementRows(rows, file, opts)
}
