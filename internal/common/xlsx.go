package common

import (
	"bytes"
	"fmt"

	"fjacquet/swift-mt/internal/fileutils"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/models"

	"github.com/xuri/excelize/v2"
)

const statementSheet = "Statement"

var xlsxColumns = []string{
	"Account", "StatementNumber", "MessageType", "Reference", "ValueDate", "EntryDate",
	"CreditDebit", "Amount", "Currency", "TransactionType", "CustomerReference",
	"BankReference", "Supplementary", "Information",
}

func xlsxValues(r models.StatementRow) []any {
	amount, _ := r.SignedAmount.Float64()
	return []any{
		r.Account, r.StatementNumber, r.MessageType, r.Reference, r.ValueDate, r.EntryDate,
		r.CreditDebit, amount, r.Currency, r.TransactionType, r.CustomerReference,
		r.BankReference, r.Supplementary, r.Information,
	}
}

// StatementRowsXLSX renders rows as a workbook with one sheet. Amounts are
// written signed, as numbers.
func StatementRowsXLSX(rows []models.StatementRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", statementSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, name := range xlsxColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(statementSheet, cell, name); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(statementSheet, cell, cell, style); err != nil {
			return nil, err
		}
	}
	for rowIdx, row := range rows {
		for colIdx, v := range xlsxValues(row) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(statementSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	for i, name := range xlsxColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(len(name) + 4)
		if width < 12 {
			width = 12
		}
		if err := f.SetColWidth(statementSheet, col, col, width); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteStatementRowsToXLSX writes rows to an .xlsx file.
func WriteStatementRowsToXLSX(rows []models.StatementRow, xlsxFile string, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}
	data, err := StatementRowsXLSX(rows)
	if err != nil {
		return err
	}
	if err := fileutils.WriteFile(xlsxFile, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("error writing Excel file: %w", err)
	}
	logger.Info("Wrote statement rows to XLSX file",
		logging.Field{Key: logging.FieldFile, Value: xlsxFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}

// ReadStatementRowsXLSX reads back the cells of a workbook written by
// StatementRowsXLSX, header row included.
func ReadStatementRowsXLSX(xlsxFile string) ([][]string, error) {
	data, err := fileutils.ReadFile(xlsxFile)
	if err != nil {
		return nil, fmt.Errorf("error reading Excel file: %w", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return f.GetRows(statementSheet)
}
