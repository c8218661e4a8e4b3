// Package container provides dependency injection for the swift-mt application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"sync"

	"fjacquet/swift-mt/internal/api"
	"fjacquet/swift-mt/internal/batch"
	"fjacquet/swift-mt/internal/common"
	"fjacquet/swift-mt/internal/config"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/parser"
	"fjacquet/swift-mt/internal/report"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation apart from its parser cache: all
// fields are private and can only be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	rules      *config.RuleStore
	reports    *report.ReportGenerator
	aggregator *batch.BatchAggregator

	mu      sync.Mutex
	parsers map[parser.ParserType]parser.FullParser
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	rules, err := config.LoadRulesFromDirectory(cfg.Rules.Directory, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	c := &Container{
		logger:     logger,
		config:     cfg,
		rules:      rules,
		reports:    report.NewReportGenerator(logger),
		aggregator: batch.NewBatchAggregator(logger),
		parsers:    make(map[parser.ParserType]parser.FullParser),
	}

	if _, err := c.GetParser(parser.Auto); err != nil {
		return nil, err
	}

	logger.Info("Container initialized successfully",
		logging.Field{Key: "rules_directory", Value: cfg.Rules.Directory},
		logging.Field{Key: "strict_validation", Value: cfg.Parser.StrictValidation})

	return c, nil
}

// ParserOptions returns the parser options the configuration describes.
func (c *Container) ParserOptions() parser.Options {
	return parser.Options{
		StrictValidation: c.config.Parser.StrictValidation,
		StopOnFirstError: c.config.Parser.StopOnFirstError,
		Rules:            c.rules,
	}
}

// GetParser returns the shared parser for the given type, built from the
// configured options on first use.
func (c *Container) GetParser(pt parser.ParserType) (parser.FullParser, error) {
	if pt == "" {
		pt = parser.Auto
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.parsers[pt]; ok {
		return p, nil
	}
	p, err := parser.NewParser(pt, c.logger, c.ParserOptions())
	if err != nil {
		return nil, err
	}
	c.parsers[pt] = p
	return p, nil
}

// NewParser returns a fresh parser with opts. A nil opts.Rules uses the
// container's rule store.
func (c *Container) NewParser(pt parser.ParserType, opts parser.Options) (parser.FullParser, error) {
	if opts.Rules == nil {
		opts.Rules = c.rules
	}
	return parser.NewParser(pt, c.logger, opts)
}

// NewBatchProcessor returns a processor over p using the batch settings.
func (c *Container) NewBatchProcessor(p parser.FullParser, validate, recursive bool) *batch.Processor {
	return batch.NewProcessor(p, c.logger, batch.Options{
		Workers:    c.config.Batch.Workers,
		Extensions: c.config.Batch.Extensions,
		Recursive:  recursive,
		Validate:   validate,
		DateFormat: c.config.CSV.DateFormat,
	})
}

// NewAPIServer returns an HTTP server over p using the server settings.
func (c *Container) NewAPIServer(p parser.FullParser) *api.Server {
	return api.NewServer(p, c.reports, c.logger, api.Options{
		Address:      c.config.Server.Address,
		MaxBodyBytes: c.config.Server.MaxBodyBytes,
		ReleaseMode:  c.config.Server.ReleaseMode,
		DateFormat:   c.config.CSV.DateFormat,
		CSV:          c.CSVOptions(),
	})
}

// CSVOptions returns the CSV settings of the configuration.
func (c *Container) CSVOptions() common.CSVOptions {
	opts := common.DefaultCSVOptions()
	if d := c.config.CSV.Delimiter; len(d) == 1 {
		opts.Delimiter = rune(d[0])
	}
	opts.IncludeHeaders = c.config.CSV.IncludeHeaders
	return opts
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetRuleStore returns the loaded mandatory-field and field rules.
func (c *Container) GetRuleStore() *config.RuleStore {
	return c.rules
}

// GetReportGenerator returns the shared report generator.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reports
}

// GetAggregator returns the shared batch aggregator.
func (c *Container) GetAggregator() *batch.BatchAggregator {
	return c.aggregator
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Info("Container closed")
	return nil
}
