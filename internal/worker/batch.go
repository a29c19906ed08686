package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/claimcheck/internal/dispatch"
	"github.com/ppiankov/claimcheck/internal/model"
)

// Caller defines the interface for running one tool operation
type Caller interface {
	Call(ctx context.Context, name string, args map[string]any) (*dispatch.Result, error)
}

// CallJob represents one text run through an operation
type CallJob struct {
	Index     int
	Operation string
	Framework model.Framework
	Text      string
	Caller    Caller
}

// Execute executes the call job
func (j *CallJob) Execute(ctx context.Context) Result {
	args := map[string]any{"text": j.Text}
	if j.Framework != "" {
		args["framework"] = string(j.Framework)
	}

	result, err := j.Caller.Call(ctx, j.Operation, args)
	return &CallResult{
		Index:  j.Index,
		Input:  j.Text,
		Result: result,
		Error:  err,
	}
}

// CallResult represents the result of a call job
type CallResult struct {
	Index  int
	Input  string
	Result *dispatch.Result
	Error  error
}

// GetError returns the error from the call result
func (r *CallResult) GetError() error {
	return r.Error
}

// BatchProcessor runs one operation over many texts concurrently
type BatchProcessor struct {
	caller      Caller
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(caller Caller, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		caller:      caller,
		concurrency: concurrency,
	}
}

// Process runs operation over texts. Results are returned in input order; an
// empty framework lets the dispatcher apply its default.
func (b *BatchProcessor) Process(ctx context.Context, operation string, framework model.Framework, texts []string) ([]*CallResult, error) {
	if len(texts) == 0 {
		return []*CallResult{}, nil
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, text := range texts {
		job := &CallJob{
			Index:     i,
			Operation: operation,
			Framework: framework,
			Text:      text,
			Caller:    b.caller,
		}
		if err := pool.Submit(job); err != nil {
			pool.Shutdown()
			return nil, fmt.Errorf("submit job %d: %w", i, err)
		}
	}

	results := pool.Wait()

	ordered := make([]*CallResult, len(texts))
	for _, result := range results {
		r := result.(*CallResult)
		ordered[r.Index] = r
	}

	// Jobs dropped by cancellation still get a slot
	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("job %d not processed", i)
			}
			ordered[i] = &CallResult{Index: i, Input: texts[i], Error: err}
		}
	}

	return ordered, nil
}

// ProcessFile reads texts from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, operation string, framework model.Framework, filePath string) ([]*CallResult, error) {
	texts, err := ReadLinesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read texts: %w", err)
	}

	return b.Process(ctx, operation, framework, texts)
}

// ReadLinesFromFile reads texts from a file (one per line). Duplicates are kept
// so output lines up with input.
func ReadLinesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return lines, nil
}
