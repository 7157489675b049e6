// Package worker provides the concurrency layer for batch trace processing.
// The parsing core itself is synchronous and pure; only whole files are
// parsed in parallel.
package worker

import (
	"context"
	"sync"
)

// Pool fans trace files out to a fixed number of parser goroutines.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run parses every path and returns one result per path, in input order.
// Once the context is cancelled, remaining paths are marked with the
// context error instead of being parsed.
func (p *Pool) Run(ctx context.Context, parser Parser, paths []string) []*ParseResult {
	results := make([]*ParseResult, len(paths))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = parseOne(ctx, parser, paths[i])
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func parseOne(ctx context.Context, parser Parser, path string) *ParseResult {
	if err := ctx.Err(); err != nil {
		return &ParseResult{Path: path, Error: err}
	}

	result, err := parser.Run(path)
	if err != nil {
		return &ParseResult{Path: path, Error: err}
	}
	return &ParseResult{
		Path:      path,
		Export:    result.Export,
		FromCache: result.FromCache,
	}
}
