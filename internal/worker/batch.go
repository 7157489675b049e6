package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/avolkov/traceplot/internal/pipeline"
)

// Parser parses one trace file into an export
type Parser interface {
	Run(path string) (*pipeline.Result, error)
}

// ParseResult is the outcome of parsing one trace file
type ParseResult struct {
	Path      string
	Export    *pipeline.Export
	FromCache bool
	Error     error
}

// BatchProcessor parses multiple trace files concurrently. Each file is an
// independent run; a malformed trace fails its own result and never affects
// the others.
type BatchProcessor struct {
	parser      Parser
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(parser Parser, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		parser:      parser,
		concurrency: concurrency,
	}
}

// ProcessFiles parses the given trace files concurrently, one result per
// path in input order.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*ParseResult {
	if len(paths) == 0 {
		return []*ParseResult{}
	}
	return NewPool(b.concurrency).Run(ctx, b.parser, paths)
}

// ProcessList reads trace file paths from a list file and parses them
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string) ([]*ParseResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read trace list: %w", err)
	}

	return b.ProcessFiles(ctx, paths), nil
}

// ReadPathsFromFile reads trace file paths from a list file, one per line.
// Blank lines and # comments are skipped; duplicate paths are dropped.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
