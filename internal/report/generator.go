// Package report builds summaries of parsed statements and validation
// reports and renders them as YAML or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"fjacquet/swift-mt/internal/fileutils"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/models"
	"fjacquet/swift-mt/internal/parser"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// AccountSummary aggregates the statement lines of one account and currency.
type AccountSummary struct {
	Account     string          `json:"account" yaml:"account"`
	Currency    string          `json:"currency" yaml:"currency"`
	Statements  int             `json:"statements" yaml:"statements"`
	Lines       int             `json:"lines" yaml:"lines"`
	Credits     int             `json:"credits" yaml:"credits"`
	Debits      int             `json:"debits" yaml:"debits"`
	TotalCredit decimal.Decimal `json:"total_credit" yaml:"total_credit"`
	TotalDebit  decimal.Decimal `json:"total_debit" yaml:"total_debit"`
	Net         decimal.Decimal `json:"net" yaml:"net"`
	Mean        float64         `json:"mean" yaml:"mean"`
	StdDev      float64         `json:"std_dev" yaml:"std_dev"`
	Min         float64         `json:"min" yaml:"min"`
	Max         float64         `json:"max" yaml:"max"`
	From        string          `json:"from,omitempty" yaml:"from,omitempty"`
	To          string          `json:"to,omitempty" yaml:"to,omitempty"`
}

// ValidationSummary counts messages and violations.
type ValidationSummary struct {
	Messages  int            `json:"messages" yaml:"messages"`
	Valid     int            `json:"valid" yaml:"valid"`
	Invalid   int            `json:"invalid" yaml:"invalid"`
	Ambiguous int            `json:"ambiguous" yaml:"ambiguous"`
	ByType    map[string]int `json:"by_type" yaml:"by_type"`
	ByCode    map[string]int `json:"by_code,omitempty" yaml:"by_code,omitempty"`
}

// Summary is the full report of one run.
type Summary struct {
	RunID       string             `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	Files       int                `json:"files,omitempty" yaml:"files,omitempty"`
	Failed      []string           `json:"failed,omitempty" yaml:"failed,omitempty"`
	Accounts    []AccountSummary   `json:"accounts,omitempty" yaml:"accounts,omitempty"`
	Validation  *ValidationSummary `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// ReportGenerator builds and renders summaries.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &ReportGenerator{
		logger: logger.WithField("component", "ReportGenerator"),
	}
}

// Summarize builds a summary of the given statements and reports. Either may
// be empty.
func (g *ReportGenerator) Summarize(runID string, statements []*models.Statement, reports []*parser.ValidationReport) *Summary {
	s := &Summary{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Accounts:    g.SummarizeStatements(statements),
	}
	if len(reports) > 0 {
		s.Validation = g.SummarizeValidation(reports)
	}
	g.logger.Debug("Built summary",
		logging.Field{Key: "accounts", Value: len(s.Accounts)},
		logging.Field{Key: logging.FieldCount, Value: len(reports)})
	return s
}

// SummarizeStatements groups statements by account and currency, sorted by
// account then currency.
func (g *ReportGenerator) SummarizeStatements(statements []*models.Statement) []AccountSummary {
	type key struct{ account, currency string }
	groups := make(map[key][]*models.Statement)
	var keys []key
	for _, st := range statements {
		if st == nil {
			continue
		}
		k := key{st.Account, st.Currency}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], st)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].account != keys[j].account {
			return keys[i].account < keys[j].account
		}
		return keys[i].currency < keys[j].currency
	})

	out := make([]AccountSummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, summarizeAccount(k.account, k.currency, groups[k]))
	}
	return out
}

func summarizeAccount(account, currency string, statements []*models.Statement) AccountSummary {
	sum := AccountSummary{
		Account:     account,
		Currency:    currency,
		Statements:  len(statements),
		TotalCredit: decimal.Zero,
		TotalDebit:  decimal.Zero,
		Net:         decimal.Zero,
	}
	var values []float64
	var from, to time.Time
	for _, st := range statements {
		for _, row := range st.Rows {
			sum.Lines++
			if row.IsDebit() {
				sum.Debits++
				sum.TotalDebit = sum.TotalDebit.Add(row.SignedAmount.Abs())
			} else {
				sum.Credits++
				sum.TotalCredit = sum.TotalCredit.Add(row.SignedAmount)
			}
			sum.Net = sum.Net.Add(row.SignedAmount)
			values = append(values, row.SignedAmount.InexactFloat64())
		}
		start, end := st.DateRange()
		if !start.IsZero() && (from.IsZero() || start.Before(from)) {
			from = start
		}
		if !end.IsZero() && (to.IsZero() || end.After(to)) {
			to = end
		}
	}
	if len(values) > 0 {
		sum.Mean = stat.Mean(values, nil)
		sum.Min = floats.Min(values)
		sum.Max = floats.Max(values)
	}
	if len(values) > 1 {
		sum.StdDev = stat.StdDev(values, nil)
	}
	if !from.IsZero() {
		sum.From = from.Format("2006-01-02")
		sum.To = to.Format("2006-01-02")
	}
	return sum
}

// SummarizeValidation counts messages per type and violations per code.
func (g *ReportGenerator) SummarizeValidation(reports []*parser.ValidationReport) *ValidationSummary {
	v := &ValidationSummary{ByType: map[string]int{}, ByCode: map[string]int{}}
	for _, r := range reports {
		if r == nil {
			continue
		}
		v.Messages++
		v.ByType[r.Schema]++
		if r.Valid() {
			v.Valid++
		} else {
			v.Invalid++
		}
		if len(r.Ambiguous) > 0 {
			v.Ambiguous++
		}
		for _, code := range r.Codes() {
			v.ByCode[code]++
		}
	}
	return v
}

// GenerateReport renders the summary in the given format (yaml or json).
func (g *ReportGenerator) GenerateReport(summary *Summary, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatYAML:
		data, err := yaml.Marshal(summary)
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal YAML report")
			return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal JSON report")
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteReport renders the summary and writes it to path.
func (g *ReportGenerator) WriteReport(summary *Summary, format, path string) error {
	data, err := g.GenerateReport(summary, format)
	if err != nil {
		return err
	}
	if err := fileutils.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return err
	}
	g.logger.Info("Wrote report",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldFormat, Value: format})
	return nil
}
