// Package pipeline turns a raw simulator trace into a viewer-ready export:
// read the blob, aggregate it into a phase-indexed dataset, convert units
// and attach summary statistics.
package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/avolkov/traceplot/internal/cache"
	"github.com/avolkov/traceplot/internal/model"
)

// Pipeline orchestrates the complete parse-and-export process
type Pipeline struct {
	reader     *Reader
	aggregator *Aggregator
	renderer   *Renderer
	cache      *cache.Store // nil when caching is disabled
	config     *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var c *cache.Store
	if cfg.Cache.Enabled {
		c = cache.NewStore(cfg.Cache)
	}

	return &Pipeline{
		reader:     NewReader(cfg.Input.MaxBytes),
		aggregator: NewAggregator(),
		renderer:   NewRenderer(cfg.Units),
		cache:      c,
		config:     cfg,
	}
}

// Result contains the outcome of one pipeline run
type Result struct {
	Export    *Export
	FromCache bool
}

// Run parses the trace at path ("" or "-" for STDIN) into an export
func (p *Pipeline) Run(path string) (*Result, error) {
	blob, err := p.reader.Read(path)
	if err != nil {
		return nil, err
	}
	return p.RunBlob(blob)
}

// RunBlob parses an already-acquired trace blob. An unchanged blob with
// unchanged render options is answered from the cache without re-parsing.
func (p *Pipeline) RunBlob(blob string) (*Result, error) {
	key := cache.Key(blob, p.config.Units.Scale)

	if p.cache != nil {
		if data, found := p.cache.Get(key); found {
			var exp Export
			if err := json.Unmarshal(data, &exp); err == nil {
				return &Result{Export: &exp, FromCache: true}, nil
			}
			// A corrupt entry is dropped and the trace parsed fresh
			p.cache.Drop(key)
		}
	}

	dataset, err := p.aggregator.Aggregate(blob)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	exp := p.renderer.Export(dataset)

	if p.cache != nil {
		if data, err := json.Marshal(exp); err == nil {
			_ = p.cache.Put(key, data)
		}
	}

	return &Result{Export: exp}, nil
}

// RenderExport writes the export to the configured outputs
func (p *Pipeline) RenderExport(exp *Export, out model.OutputConfig) error {
	if out.JSONPath != "" {
		if err := p.renderer.RenderJSON(exp, out.JSONPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if out.Verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", out.JSONPath)
		}
	}

	if out.CSVPath != "" {
		if err := p.renderer.RenderCSV(exp, out.CSVPath); err != nil {
			return fmt.Errorf("render CSV: %w", err)
		}
		if out.Verbose {
			fmt.Printf("✓ Wrote CSV: %s\n", out.CSVPath)
		}
	}

	if out.YAMLPath != "" {
		if err := p.renderer.RenderYAML(exp, out.YAMLPath); err != nil {
			return fmt.Errorf("render YAML: %w", err)
		}
		if out.Verbose {
			fmt.Printf("✓ Wrote YAML: %s\n", out.YAMLPath)
		}
	}

	return nil
}
