package cli

import (
	"fmt"
	"os"

	"github.com/avolkov/traceplot/internal/model"
	"github.com/avolkov/traceplot/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON   string
	outCSV    string
	outYAML   string
	units     string
	maxBytes  int64
	noCache   bool
	noSummary bool
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a simulator trace into a structured dataset",
	Long: `Parse reads one simulation run's console trace and assembles the
phase-indexed dataset:
- Records are matched by their Time/Position/Velocity labels, tolerating
  the box-drawing table formatting around the numbers
- Each record is attributed to the "Starting Phase N" marker it falls under
- A trace without phase markers is treated as a single phase
- The assembled dataset is exported in kilometers for the viewer (the
  trace itself is in meters)

The trace is read from the given file, or from STDIN when no file is given.

Example:
  ascent-sim 2>&1 | traceplot parse
  traceplot parse run42.log --json run42.json --csv run42.csv
  traceplot parse run42.log --units m`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	// Output flags
	parseCmd.Flags().StringVar(&outJSON, "json", "dataset.json", "output JSON path")
	parseCmd.Flags().StringVar(&outCSV, "csv", "", "output CSV path (optional)")
	parseCmd.Flags().StringVar(&outYAML, "yaml", "", "output YAML path (optional)")
	parseCmd.Flags().StringVar(&units, "units", "km", "export units, m or km (trace source is meters)")

	// Input flags
	parseCmd.Flags().Int64Var(&maxBytes, "max-bytes", 64<<20, "max trace bytes to read")
	parseCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable export cache (force fresh parse)")
	parseCmd.Flags().BoolVar(&noSummary, "no-summary", false, "suppress the terminal summary")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		if path == "" || path == "-" {
			fmt.Fprintln(os.Stderr, "Reading from STDIN...")
		} else {
			fmt.Fprintf(os.Stderr, "Reading from file %s...\n", path)
		}
	}

	p := pipeline.NewPipeline(cfg)

	result, err := p.Run(path)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	if verbose {
		if result.FromCache {
			fmt.Fprintf(os.Stderr, "✓ Unchanged trace, using cached dataset\n")
		}
		fmt.Fprintf(os.Stderr, "✓ Extracted %d phases, %d records\n",
			len(result.Export.Dataset.Phases), result.Export.Summary.TotalRecords)
	}

	if err := p.RenderExport(result.Export, cfg.Output); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if !noSummary {
		pipeline.NewRenderer(cfg.Units).RenderSummary(result.Export, os.Stdout)
	}

	return nil
}

// buildConfig assembles the run configuration from defaults and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Input.MaxBytes = maxBytes
	cfg.Output.JSONPath = outJSON
	cfg.Output.CSVPath = outCSV
	cfg.Output.YAMLPath = outYAML
	cfg.Output.Verbose = verbose
	cfg.Cache.Enabled = !noCache

	switch units {
	case "km":
		cfg.Units = model.UnitsConfig{Scale: 1e-3, Label: "km"}
	case "m":
		cfg.Units = model.UnitsConfig{Scale: 1, Label: "m"}
	default:
		return nil, fmt.Errorf("unknown units %q (use m or km)", units)
	}

	return cfg, nil
}
