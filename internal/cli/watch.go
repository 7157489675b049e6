package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avolkov/traceplot/internal/pipeline"
	"github.com/avolkov/traceplot/internal/watch"
	"github.com/spf13/cobra"
)

var debounce time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-export the dataset whenever the trace file changes",
	Long: `Watch monitors a trace file being written by a running simulation and
re-parses it whenever it settles, keeping the exported dataset current so
an external viewer can live-reload it.

A parse failure on a partially written trace is reported and skipped; the
previous export stays in place until the file parses cleanly again.

Example:
  traceplot watch run.log --json run.json
  traceplot watch run.log --debounce 1s`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "quiet period before re-parsing")
	watchCmd.Flags().StringVar(&outJSON, "json", "dataset.json", "output JSON path")
	watchCmd.Flags().StringVar(&outCSV, "csv", "", "output CSV path (optional)")
	watchCmd.Flags().StringVar(&units, "units", "km", "export units, m or km (trace source is meters)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	// The file changes between parses, so the content-keyed cache would
	// only miss; skip it.
	cfg.Cache.Enabled = false
	cfg.Output.YAMLPath = ""

	p := pipeline.NewPipeline(cfg)

	reparse := func(tracePath string) {
		result, err := p.Run(tracePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v (keeping previous export)\n", tracePath, err)
			return
		}
		if err := p.RenderExport(result.Export, cfg.Output); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", tracePath, err)
			return
		}
		fmt.Fprintf(os.Stderr, "✓ %s: %d phases, %d records\n",
			tracePath, len(result.Export.Dataset.Phases), result.Export.Summary.TotalRecords)
	}

	w, err := watch.NewWatcher(path, debounce, reparse, func(err error) {
		fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
	})
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	// Export whatever is already in the file before waiting for changes
	reparse(path)

	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", path)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	return nil
}
