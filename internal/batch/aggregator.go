// Package batch parses directories of SWIFT MT files concurrently and
// aggregates the statements they hold by account.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fjacquet/swift-mt/internal/common"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/models"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// FileGroup holds the statements of one account and the files they came from.
type FileGroup struct {
	AccountID  string
	Source     string
	Files      []string
	DateRange  DateRange
	Statements []*models.Statement
}

// BatchAggregator handles the aggregation of statements by account
type BatchAggregator struct {
	logger logging.Logger
}

// NewBatchAggregator creates a new BatchAggregator instance
func NewBatchAggregator(logger logging.Logger) *BatchAggregator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &BatchAggregator{
		logger: logger,
	}
}

// GroupByAccount groups the statements of a run by the account of their
// field 25. Failed files are skipped. Groups are sorted by account.
func (ba *BatchAggregator) GroupByAccount(files []FileResult) []FileGroup {
	accountGroups := make(map[string]*FileGroup)
	total := 0

	for _, fr := range files {
		if fr.Err != nil {
			continue
		}
		for _, st := range fr.Statements {
			total++
			account := common.ExtractAccount(st, fr.File)

			ba.logger.Debug("Statement mapped to account",
				logging.Field{Key: logging.FieldFile, Value: filepath.Base(fr.File)},
				logging.Field{Key: logging.FieldAccount, Value: account.ID},
				logging.Field{Key: "source", Value: account.Source})

			group, exists := accountGroups[account.ID]
			if !exists {
				group = &FileGroup{AccountID: account.ID, Source: account.Source}
				accountGroups[account.ID] = group
			}
			if len(group.Files) == 0 || group.Files[len(group.Files)-1] != fr.File {
				group.Files = append(group.Files, fr.File)
			}
			group.Statements = append(group.Statements, st)

			start, end := st.DateRange()
			group.DateRange = group.DateRange.Merge(DateRange{Start: start, End: end})
		}
	}

	groups := make([]FileGroup, 0, len(accountGroups))
	for _, group := range accountGroups {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].AccountID < groups[j].AccountID
	})

	ba.logger.Info("Grouped statements into account groups",
		logging.Field{Key: "statements", Value: total},
		logging.Field{Key: "account_groups", Value: len(groups)})

	return groups
}

// AggregateRows returns every statement line of a group in chronological
// order. Potential duplicates are logged and kept.
func (ba *BatchAggregator) AggregateRows(group FileGroup) []models.StatementRow {
	rows := []models.StatementRow{}
	for _, st := range group.Statements {
		rows = append(rows, st.Rows...)
	}

	ba.sortRowsChronologically(rows)
	ba.detectAndLogDuplicates(rows, group.AccountID)

	ba.logger.Info("Aggregated statement lines for account",
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
		logging.Field{Key: logging.FieldAccount, Value: group.AccountID},
		logging.Field{Key: "source_files", Value: strings.Join(baseNames(group.Files), ", ")})

	return rows
}

// sortRowsChronologically sorts by value date, then by signed amount. The sort
// is stable so rows of the same day and amount keep their statement order.
func (ba *BatchAggregator) sortRowsChronologically(rows []models.StatementRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].SignedAmount.LessThan(rows[j].SignedAmount)
	})
}

// detectAndLogDuplicates logs rows sharing date, amount and customer
// reference. Rows stay in place.
func (ba *BatchAggregator) detectAndLogDuplicates(rows []models.StatementRow, accountID string) int {
	duplicateCount := 0

	for i := 0; i < len(rows)-1; i++ {
		for j := i + 1; j < len(rows); j++ {
			if ba.arePotentialDuplicates(rows[i], rows[j]) {
				duplicateCount++
				ba.logger.Warn("Potential duplicate statement line",
					logging.Field{Key: logging.FieldAccount, Value: accountID},
					logging.Field{Key: "date", Value: rows[i].Date.Format("2006-01-02")},
					logging.Field{Key: "amount", Value: rows[i].SignedAmount.String()},
					logging.Field{Key: logging.FieldReference, Value: rows[i].CustomerReference})
				break
			}
		}
	}

	if duplicateCount > 0 {
		ba.logger.Warn("Found potential duplicate statement lines",
			logging.Field{Key: logging.FieldCount, Value: duplicateCount},
			logging.Field{Key: logging.FieldAccount, Value: accountID})
	}
	return duplicateCount
}

func (ba *BatchAggregator) arePotentialDuplicates(a, b models.StatementRow) bool {
	if !a.Date.Equal(b.Date) {
		return false
	}
	if !a.SignedAmount.Equal(b.SignedAmount) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(a.CustomerReference), strings.TrimSpace(b.CustomerReference))
}

// GenerateOutputFilename creates a filename for the consolidated output
// Format: {account_id}_{start_date}_{end_date}.{ext}
func (ba *BatchAggregator) GenerateOutputFilename(accountID string, dateRange DateRange, ext string) string {
	sanitizedAccountID := common.SanitizeAccountID(accountID)
	ext = strings.TrimPrefix(ext, ".")

	if !dateRange.Start.IsZero() && !dateRange.End.IsZero() {
		return fmt.Sprintf("%s_%s.%s", sanitizedAccountID, dateRange.String(), ext)
	}
	return fmt.Sprintf("%s.%s", sanitizedAccountID, ext)
}

// GenerateSourceFileHeader creates a header comment listing source files
func (ba *BatchAggregator) GenerateSourceFileHeader(sourceFiles []string) string {
	if len(sourceFiles) == 0 {
		return ""
	}

	var header strings.Builder
	header.WriteString("# Consolidated from source files:\n")
	for _, file := range baseNames(sourceFiles) {
		header.WriteString(fmt.Sprintf("# - %s\n", file))
	}
	header.WriteString("# Generated on: ")
	header.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	header.WriteString("\n#\n")

	return header.String()
}

// CalculateDateRangeFromRows calculates the overall date range of rows
func (ba *BatchAggregator) CalculateDateRangeFromRows(rows []models.StatementRow) DateRange {
	var dr DateRange
	for _, row := range rows {
		dr = dr.Merge(DateRange{Start: row.Date, End: row.Date})
	}
	return dr
}

func baseNames(files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.Base(f)
	}
	return out
}
