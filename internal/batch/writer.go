package batch

import (
	"fmt"
	"path/filepath"

	"fjacquet/swift-mt/internal/common"
	"fjacquet/swift-mt/internal/fileutils"
	"fjacquet/swift-mt/internal/jsonmap"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/models"
)

// WriteMessagesJSON writes the messages of every parsed file to outDir as
// <name>.json, one JSON array per input file. It returns the files written.
func (ba *BatchAggregator) WriteMessagesJSON(result *Result, outDir string) ([]string, error) {
	var written []string
	for _, fr := range result.Files {
		if fr.Err != nil || len(fr.Messages) == 0 {
			continue
		}
		data, err := jsonmap.MarshalMessages(fr.Messages)
		if err != nil {
			return written, fmt.Errorf("%s: %w", fr.File, err)
		}
		out := fileutils.OutputPath(fr.File, outDir, ".json")
		if err := fileutils.WriteFile(out, data, models.PermissionReportFile); err != nil {
			return written, err
		}
		ba.logger.Debug("Wrote JSON output",
			logging.Field{Key: logging.FieldInputFile, Value: filepath.Base(fr.File)},
			logging.Field{Key: logging.FieldOutputFile, Value: out})
		written = append(written, out)
	}
	return written, nil
}

// WriteGroupsCSV writes one consolidated CSV per account group to outDir. Each
// file opens with a comment header naming its source files.
func (ba *BatchAggregator) WriteGroupsCSV(groups []FileGroup, outDir string, opts common.CSVOptions) ([]string, error) {
	var written []string
	for _, group := range groups {
		rows := ba.AggregateRows(group)
		if len(rows) == 0 {
			continue
		}
		out := filepath.Join(outDir, ba.GenerateOutputFilename(group.AccountID, group.DateRange, "csv"))
		if err := ba.writeGroupCSV(out, group, rows, opts); err != nil {
			return written, err
		}
		ba.logger.Info("Wrote consolidated CSV",
			logging.Field{Key: logging.FieldAccount, Value: group.AccountID},
			logging.Field{Key: logging.FieldOutputFile, Value: out},
			logging.Field{Key: logging.FieldCount, Value: len(rows)})
		written = append(written, out)
	}
	return written, nil
}

func (ba *BatchAggregator) writeGroupCSV(path string, group FileGroup, rows []models.StatementRow, opts common.CSVOptions) (err error) {
	file, err := fileutils.CreateFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if _, err := file.WriteString(ba.GenerateSourceFileHeader(group.Files)); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	return common.MarshalStatementRows(rows, file, opts)
}

// WriteGroupsXLSX writes one workbook per account group to outDir.
func (ba *BatchAggregator) WriteGroupsXLSX(groups []FileGroup, outDir string) ([]string, error) {
	var written []string
	for _, group := range groups {
		rows := ba.AggregateRows(group)
		if len(rows) == 0 {
			continue
		}
		out := filepath.Join(outDir, ba.GenerateOutputFilename(group.AccountID, group.DateRange, "xlsx"))
		if err := common.WriteStatementRowsToXLSX(rows, out, ba.logger); err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}
