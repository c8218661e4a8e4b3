package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"fjacquet/swift-mt/internal/common"
	"fjacquet/swift-mt/internal/fileutils"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/models"
	"fjacquet/swift-mt/internal/parser"

	"github.com/google/uuid"
)

// Options controls a batch run. Validate runs the network and configured
// rules on every message.
type Options struct {
	Workers    int
	Extensions []string
	Recursive  bool
	Validate   bool
	DateFormat string
}

// FileResult is the outcome of one input file. Err is set when the file could
// not be read or one of its messages failed to parse.
type FileResult struct {
	File       string
	Messages   []*messages.SwiftMessage
	Reports    []*parser.ValidationReport
	Statements []*models.Statement
	Err        error
}

// Result is the outcome of a whole run. Files keeps the input order.
type Result struct {
	RunID    string
	Files    []FileResult
	Duration time.Duration
}

// Failed returns the files that did not parse.
func (r *Result) Failed() []string {
	var out []string
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f.File)
		}
	}
	return out
}

// Statements returns the statements of every file in input order.
func (r *Result) Statements() []*models.Statement {
	var out []*models.Statement
	for _, f := range r.Files {
		out = append(out, f.Statements...)
	}
	return out
}

// Reports returns the validation reports of every file in input order.
func (r *Result) Reports() []*parser.ValidationReport {
	var out []*parser.ValidationReport
	for _, f := range r.Files {
		out = append(out, f.Reports...)
	}
	return out
}

// MessageCount returns the number of parsed messages.
func (r *Result) MessageCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Messages)
	}
	return n
}

// Processor parses the files of a directory with a pool of workers.
type Processor struct {
	parser parser.FullParser
	logger logging.Logger
	opts   Options
}

// NewProcessor creates a processor. Workers below one means one worker.
func NewProcessor(p parser.FullParser, logger logging.Logger, opts Options) *Processor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.DateFormat == "" {
		opts.DateFormat = "2006-01-02"
	}
	return &Processor{
		parser: p,
		logger: logger.WithField("component", "BatchProcessor"),
		opts:   opts,
	}
}

// ProcessDirectory parses every matching file of dir.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) (*Result, error) {
	if !fileutils.DirectoryExists(dir) {
		return nil, fmt.Errorf("input directory does not exist: %s", dir)
	}
	files, err := fileutils.ListFiles(dir, p.opts.Extensions, p.opts.Recursive)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Found files to process",
		logging.Field{Key: "directory", Value: dir},
		logging.Field{Key: logging.FieldCount, Value: len(files)})
	return p.ProcessFiles(ctx, files)
}

type indexedResult struct {
	index  int
	result FileResult
}

// ProcessFiles parses files concurrently. A failing file is recorded in its
// FileResult and does not stop the run. The run stops early only when ctx is
// done, and then returns ctx.Err().
func (p *Processor) ProcessFiles(ctx context.Context, files []string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	runID := uuid.NewString()
	logger := p.logger.WithField("run_id", runID)

	jobs := make(chan int, p.opts.Workers)
	results := make(chan indexedResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < p.opts.Workers; i++ {
		wg.Add(1)
		go p.worker(ctx, &wg, files, jobs, results)
	}

	go func() {
		defer close(jobs)
		for i := range files {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := &Result{RunID: runID, Files: make([]FileResult, len(files))}
	done := 0
	for r := range results {
		out.Files[r.index] = r.result
		done++
	}
	if err := ctx.Err(); err != nil && done < len(files) {
		return nil, err
	}
	out.Duration = time.Since(start)

	logger.Info("Batch run completed",
		logging.Field{Key: logging.FieldCount, Value: len(files)},
		logging.Field{Key: "messages", Value: out.MessageCount()},
		logging.Field{Key: "failed", Value: len(out.Failed())},
		logging.Field{Key: "workers", Value: p.opts.Workers},
		logging.Field{Key: logging.FieldDuration, Value: out.Duration.Milliseconds()})
	return out, nil
}

func (p *Processor) worker(ctx context.Context, wg *sync.WaitGroup, files []string, jobs <-chan int, results chan<- indexedResult) {
	defer wg.Done()
	for {
		select {
		case i, ok := <-jobs:
			if !ok {
				return
			}
			results <- indexedResult{index: i, result: p.processFile(files[i])}
		case <-ctx.Done():
			return
		}
	}
}

func (p *Processor) processFile(file string) FileResult {
	res := FileResult{File: file}
	msgs, err := p.parser.ParseFile(file)
	if err != nil {
		p.logger.WithError(err).Error("Failed to parse file",
			logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)})
		res.Err = err
		return res
	}
	res.Messages = msgs
	for _, msg := range msgs {
		if p.opts.Validate {
			res.Reports = append(res.Reports, p.parser.Validate(msg))
		}
		if !slices.Contains(common.StatementTypes, msg.MessageType) {
			continue
		}
		st, err := common.StatementFromMessage(msg, p.opts.DateFormat)
		if err != nil {
			p.logger.WithError(err).Warn("Failed to read statement",
				logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)})
			continue
		}
		res.Statements = append(res.Statements, st)
	}
	return res
}
