package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/avolkov/traceplot/internal/model"
	"github.com/avolkov/traceplot/internal/stats"
)

// Export is the dataset as handed to a viewer: unit-converted, with summary
// statistics attached. The parsing core's output stays in raw source units;
// conversion happens here and only here.
type Export struct {
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
	Units       string        `json:"units" yaml:"units"`
	Summary     stats.Summary `json:"summary" yaml:"summary"`
	Dataset     model.Dataset `json:"dataset" yaml:"dataset"`
}

// Renderer converts a parsed dataset into viewer-facing exports
type Renderer struct {
	units model.UnitsConfig
}

// NewRenderer creates a new renderer with the given unit contract
func NewRenderer(units model.UnitsConfig) *Renderer {
	return &Renderer{units: units}
}

// Export applies the unit conversion and computes summary statistics
func (r *Renderer) Export(d model.Dataset) *Export {
	scaled := d.Scaled(r.units.Scale)
	return &Export{
		GeneratedAt: time.Now().UTC(),
		Units:       r.units.Label,
		Summary:     stats.Summarize(scaled),
		Dataset:     scaled,
	}
}

// RenderJSON writes the export as indented JSON
func (r *Renderer) RenderJSON(exp *Export, path string) error {
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderYAML writes the export as YAML
func (r *Renderer) RenderYAML(exp *Export, path string) error {
	data, err := yaml.Marshal(exp)
	if err != nil {
		return fmt.Errorf("marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write YAML: %w", err)
	}
	return nil
}

// RenderCSV writes one row per record, flattened for gnuplot or pandas
func (r *Renderer) RenderCSV(exp *Export, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close CSV: %w", closeErr)
		}
	}()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"phase", "time",
		"position_x", "position_y", "position_z",
		"velocity_x", "velocity_y", "velocity_z"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, p := range exp.Dataset.Phases {
		for _, rec := range p.Records {
			row := []string{
				strconv.Itoa(p.ID), ff(rec.Time),
				ff(rec.Position.X), ff(rec.Position.Y), ff(rec.Position.Z),
				ff(rec.Velocity.X), ff(rec.Velocity.Y), ff(rec.Velocity.Z),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write CSV row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	return nil
}

// RenderSummary prints a human-readable run summary
func (r *Renderer) RenderSummary(exp *Export, w io.Writer) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w, "  Trajectory Dataset")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Phases:       %d\n", len(exp.Dataset.Phases))
	fmt.Fprintf(w, "  Records:      %d\n", exp.Summary.TotalRecords)
	fmt.Fprintf(w, "  Duration:     %.1f s\n", exp.Summary.Duration)
	fmt.Fprintf(w, "  Max speed:    %.2f %s/s\n", exp.Summary.MaxSpeed, exp.Units)
	fmt.Fprintf(w, "  Path length:  %.1f %s\n", exp.Summary.PathLength, exp.Units)
	fmt.Fprintln(w)

	for _, ps := range exp.Summary.Phases {
		fmt.Fprintf(w, "  Phase %-3d  %4d samples   t = %.1f .. %.1f s\n",
			ps.ID, ps.Records, ps.StartTime, ps.EndTime)
	}
	fmt.Fprintln(w)
}
