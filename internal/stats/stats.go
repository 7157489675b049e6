// Package stats computes summary diagnostics over a parsed dataset for the
// terminal summary and the export header.
package stats

import (
	"github.com/avolkov/traceplot/internal/model"
)

// Summary describes one parsed run
type Summary struct {
	Phases       []PhaseSummary `json:"phases" yaml:"phases"`
	TotalRecords int            `json:"total_records" yaml:"total_records"`
	Duration     float64        `json:"duration" yaml:"duration"`         // End time minus start time across the run
	MaxSpeed     float64        `json:"max_speed" yaml:"max_speed"`       // Largest velocity magnitude observed
	PathLength   float64        `json:"path_length" yaml:"path_length"`   // Polyline length over all samples in order
}

// PhaseSummary describes one phase
type PhaseSummary struct {
	ID        int     `json:"id" yaml:"id"`
	Records   int     `json:"records" yaml:"records"`
	StartTime float64 `json:"start_time" yaml:"start_time"`
	EndTime   float64 `json:"end_time" yaml:"end_time"`
	MaxSpeed  float64 `json:"max_speed" yaml:"max_speed"`
}

// Summarize computes summary statistics in the dataset's units
func Summarize(d model.Dataset) Summary {
	s := Summary{TotalRecords: d.TotalRecords()}

	first := true
	var prev model.Record
	for _, p := range d.Phases {
		ps := PhaseSummary{
			ID:        p.ID,
			Records:   len(p.Records),
			StartTime: p.Records[0].Time,
			EndTime:   p.Records[len(p.Records)-1].Time,
		}

		for _, r := range p.Records {
			speed := r.Velocity.Norm()
			if speed > ps.MaxSpeed {
				ps.MaxSpeed = speed
			}
			if speed > s.MaxSpeed {
				s.MaxSpeed = speed
			}

			if !first {
				s.PathLength += r.Position.Sub(prev.Position).Norm()
			}
			first = false
			prev = r
		}

		s.Phases = append(s.Phases, ps)
	}

	if len(s.Phases) > 0 {
		s.Duration = s.Phases[len(s.Phases)-1].EndTime - s.Phases[0].StartTime
	}

	return s
}
