package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/avolkov/traceplot/internal/model"
	"github.com/avolkov/traceplot/internal/pipeline"
	"github.com/avolkov/traceplot/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchCSV     bool
	// units and noCache are defined in parse.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Parse multiple trace files from a list in parallel",
	Long: `Batch parses multiple simulator traces concurrently:
- Read trace file paths from the input file (one per line)
- Parse traces in parallel with a configurable worker count
- Write one dataset export per trace into the output directory
- A malformed trace fails on its own; the other traces are unaffected

Example:
  traceplot batch runs.txt
  traceplot batch runs.txt --concurrency 8 --output-dir ./datasets
  traceplot batch runs.txt --csv`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./traceplot-datasets", "output directory for exports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchCSV, "csv", false, "also write a CSV export per trace")
	batchCmd.Flags().StringVar(&units, "units", "km", "export units, m or km (trace source is meters)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable export cache (force fresh parse)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	list := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Traceplot Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input list:   %s\n", list)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	// Batch derives per-trace export paths; clear the single-run defaults
	cfg.Output = model.OutputConfig{}
	cfg.Concurrency.Workers = concurrency

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	b := worker.NewBatchProcessor(p, concurrency)

	results, err := b.ProcessList(ctx, list)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Path, r.Error)
			continue
		}

		out := exportPathsFor(r.Path)
		if err := p.RenderExport(r.Export, out); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Path, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s: %d phases, %d records → %s\n",
			r.Path, len(r.Export.Dataset.Phases), r.Export.Summary.TotalRecords, out.JSONPath)
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d succeeded, %d failed\n", len(results)-failed, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d traces failed", failed, len(results))
	}
	return nil
}

// exportPathsFor derives output paths in outputDir from the trace filename
func exportPathsFor(tracePath string) model.OutputConfig {
	base := strings.TrimSuffix(filepath.Base(tracePath), filepath.Ext(tracePath))

	out := model.OutputConfig{
		JSONPath: filepath.Join(outputDir, base+".json"),
	}
	if batchCSV {
		out.CSVPath = filepath.Join(outputDir, base+".csv")
	}
	return out
}
