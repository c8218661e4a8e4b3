package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"

	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/parsererror"
	"fjacquet/swift-mt/internal/textutils"

	"gopkg.in/yaml.v3"
)

//go:embed default_rules.json
var defaultRules []byte

// FieldRule is a configurable check on the raw content of one field.
type FieldRule struct {
	Description       string   `json:"description,omitempty" yaml:"description,omitempty"`
	MaxLength         int      `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	ExactLength       int      `json:"exact_length,omitempty" yaml:"exact_length,omitempty"`
	MinLength         int      `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	Pattern           string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	PatternRef        string   `json:"pattern_ref,omitempty" yaml:"pattern_ref,omitempty"`
	AllowEmpty        bool     `json:"allow_empty,omitempty" yaml:"allow_empty,omitempty"`
	MaxLines          int      `json:"max_lines,omitempty" yaml:"max_lines,omitempty"`
	MaxCharsPerLine   int      `json:"max_chars_per_line,omitempty" yaml:"max_chars_per_line,omitempty"`
	CaseNormalization string   `json:"case_normalization,omitempty" yaml:"case_normalization,omitempty"`
	ValidValues       []string `json:"valid_values,omitempty" yaml:"valid_values,omitempty"`

	compiled *regexp.Regexp
}

// Pattern is a named regular expression that field rules reference.
type Pattern struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Regex       string `json:"regex" yaml:"regex"`
}

// RuleSet is the content of one rule file.
type RuleSet struct {
	MandatoryFields map[string][]string  `json:"mandatory_fields,omitempty" yaml:"mandatory_fields,omitempty"`
	Patterns        map[string]Pattern   `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Fields          map[string]FieldRule `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// RuleStore holds the mandatory-field table and the field rules.
type RuleStore struct {
	rules  RuleSet
	logger logging.Logger
}

func newRuleStore(logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &RuleStore{
		rules: RuleSet{
			MandatoryFields: map[string][]string{},
			Patterns:        map[string]Pattern{},
			Fields:          map[string]FieldRule{},
		},
		logger: logger.WithField("component", "RuleStore"),
	}
}

// LoadDefaultRules returns a store holding the embedded default rules.
func LoadDefaultRules(logger logging.Logger) (*RuleStore, error) {
	s := newRuleStore(logger)
	var set RuleSet
	if err := json.Unmarshal(defaultRules, &set); err != nil {
		return nil, fmt.Errorf("failed to decode embedded rules: %w", err)
	}
	s.merge(set)
	if err := s.compile(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadRulesFromDirectory starts from the embedded defaults and merges every
// *.json, *.yaml and *.yml file of dir in name order. Later files replace the
// entries they redefine. An empty dir yields the defaults.
func LoadRulesFromDirectory(dir string, logger logging.Logger) (*RuleStore, error) {
	s, err := LoadDefaultRules(logger)
	if err != nil || dir == "" {
		return s, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	for _, path := range files {
		set, err := readRuleFile(path)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("Loaded rule file", logging.Field{Key: logging.FieldFile, Value: path})
		s.merge(set)
	}
	if err := s.compile(); err != nil {
		return nil, err
	}
	return s, nil
}

func readRuleFile(path string) (RuleSet, error) {
	var set RuleSet
	data, err := os.ReadFile(path)
	if err != nil {
		return set, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &set)
	} else {
		err = yaml.Unmarshal(data, &set)
	}
	if err != nil {
		return set, fmt.Errorf("failed to decode rule file %s: %w", path, err)
	}
	return set, nil
}

func (s *RuleStore) merge(set RuleSet) {
	for mt, tags := range set.MandatoryFields {
		s.rules.MandatoryFields[mt] = tags
	}
	for name, p := range set.Patterns {
		s.rules.Patterns[name] = p
	}
	for tag, r := range set.Fields {
		s.rules.Fields[tag] = r
	}
}

// compile resolves pattern references and compiles every field pattern.
func (s *RuleStore) compile() error {
	for tag, r := range s.rules.Fields {
		expr := r.Pattern
		if expr == "" && r.PatternRef != "" {
			p, ok := s.rules.Patterns[r.PatternRef]
			if !ok {
				return fmt.Errorf("field %s references unknown pattern %q", tag, r.PatternRef)
			}
			expr = p.Regex
		}
		r.compiled = nil
		if expr != "" {
			re, err := regexp.Compile(expr)
			if err != nil {
				return fmt.Errorf("field %s: invalid pattern %q: %w", tag, expr, err)
			}
			r.compiled = re
		}
		s.rules.Fields[tag] = r
	}
	return nil
}

// optionTag matches a two-digit base followed by one option letter.
var optionTag = regexp.MustCompile(`^[0-9]{2}[A-Z]$`)

// IsFieldMandatory reports whether tag is mandatory for message type mt. An
// option tag such as 50K also matches an entry for its base, 50.
func (s *RuleStore) IsFieldMandatory(tag, mt string) bool {
	mandatory, ok := s.rules.MandatoryFields[mt]
	if !ok {
		return false
	}
	if slices.Contains(mandatory, tag) {
		return true
	}
	if optionTag.MatchString(tag) {
		return slices.Contains(mandatory, tag[:2])
	}
	return false
}

// MandatoryFields returns the mandatory tags of mt.
func (s *RuleStore) MandatoryFields(mt string) []string {
	return slices.Clone(s.rules.MandatoryFields[mt])
}

// GetFieldValidation returns the rule for tag, falling back to the rule of its
// base tag for option tags.
func (s *RuleStore) GetFieldValidation(tag string) (FieldRule, bool) {
	if r, ok := s.rules.Fields[tag]; ok {
		return r, true
	}
	if optionTag.MatchString(tag) {
		r, ok := s.rules.Fields[tag[:2]]
		return r, ok
	}
	return FieldRule{}, false
}

// GetPattern returns a named pattern.
func (s *RuleStore) GetPattern(name string) (Pattern, bool) {
	p, ok := s.rules.Patterns[name]
	return p, ok
}

// CheckField applies the rule of tag to value. Tags without a rule pass.
func (s *RuleStore) CheckField(tag, value string) error {
	r, ok := s.GetFieldValidation(tag)
	if !ok {
		return nil
	}
	if err := r.Check(value); err != nil {
		return &parsererror.FieldError{Tag: tag, Value: value, Err: err}
	}
	return nil
}

// Normalize applies the case normalization of the rule.
func (r FieldRule) Normalize(value string) string {
	switch strings.ToLower(r.CaseNormalization) {
	case "upper":
		return strings.ToUpper(value)
	case "lower":
		return strings.ToLower(value)
	}
	return value
}

// Check validates value after case normalization.
func (r FieldRule) Check(value string) error {
	ctx := r.Description
	if ctx == "" {
		ctx = "field"
	}
	value = r.Normalize(value)
	if value == "" {
		if r.AllowEmpty {
			return nil
		}
		return lengthError(ctx, "empty value not allowed", "non-empty", "")
	}
	n := len(value)
	switch {
	case r.ExactLength > 0 && n != r.ExactLength:
		return lengthError(ctx, "wrong length", fmt.Sprintf("exactly %d", r.ExactLength), fmt.Sprint(n))
	case r.MaxLength > 0 && n > r.MaxLength:
		return lengthError(ctx, "too long", fmt.Sprintf("at most %d", r.MaxLength), fmt.Sprint(n))
	case r.MinLength > 0 && n < r.MinLength:
		return lengthError(ctx, "too short", fmt.Sprintf("at least %d", r.MinLength), fmt.Sprint(n))
	}
	if r.MaxLines > 0 || r.MaxCharsPerLine > 0 {
		lines := textutils.SplitLines(value)
		if r.MaxLines > 0 && len(lines) > r.MaxLines {
			return lengthError(ctx, "too many lines", fmt.Sprintf("at most %d", r.MaxLines), fmt.Sprint(len(lines)))
		}
		for i, line := range lines {
			if r.MaxCharsPerLine > 0 && len(line) > r.MaxCharsPerLine {
				return lengthError(fmt.Sprintf("%s line %d", ctx, i+1), "line too long",
					fmt.Sprintf("at most %d", r.MaxCharsPerLine), fmt.Sprint(len(line)))
			}
		}
	}
	re := r.compiled
	if re == nil && r.Pattern != "" {
		var err error
		if re, err = regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("%s: invalid pattern %q: %w", ctx, r.Pattern, err)
		}
	}
	if re != nil && !re.MatchString(value) {
		return &parsererror.FormatError{Context: ctx, Constraint: "pattern mismatch", Expected: re.String(), Actual: textutils.Snippet(value, 20), Err: parsererror.ErrInvalidFieldFormat}
	}
	if len(r.ValidValues) > 0 && !slices.Contains(r.ValidValues, value) {
		return &parsererror.FormatError{Context: ctx, Constraint: "invalid code", Expected: strings.Join(r.ValidValues, ", "), Actual: value, Err: parsererror.ErrInvalidFieldFormat}
	}
	return nil
}

func lengthError(ctx, constraint, expected, actual string) error {
	return &parsererror.FormatError{Context: ctx, Constraint: constraint, Expected: expected, Actual: actual, Err: parsererror.ErrInvalidFieldLength}
}
