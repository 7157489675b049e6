package model

import "github.com/avolkov/traceplot/internal/geometry/vector"

// Record represents one sampled instant of the simulated trajectory
type Record struct {
	Time     float64     `json:"time" yaml:"time"`         // Simulation time in seconds
	Position vector.Vec3 `json:"position" yaml:"position"` // Position vector in source units
	Velocity vector.Vec3 `json:"velocity" yaml:"velocity"` // Velocity vector in source units
}

// Phase is an ordered, non-empty sequence of records belonging to one
// simulation phase. ID is the integer asserted by the "Starting Phase N"
// marker in the trace, preserved verbatim; it is not required to be
// contiguous or to start at 1.
type Phase struct {
	ID      int      `json:"id" yaml:"id"`
	Records []Record `json:"records" yaml:"records"`
}

// First returns the first record of the phase. Phases built by the
// aggregator are never empty.
func (p Phase) First() Record {
	return p.Records[0]
}

// Duration returns the time span covered by the phase's samples.
func (p Phase) Duration() float64 {
	if len(p.Records) == 0 {
		return 0
	}
	return p.Records[len(p.Records)-1].Time - p.Records[0].Time
}

// Dataset is the full result of one parse: phases in the order they were
// encountered in the trace (insertion order, not phase id order). It is
// built once per run and never mutated afterwards.
type Dataset struct {
	Phases []Phase `json:"phases" yaml:"phases"`
}

// TotalRecords returns the number of records across all phases
func (d Dataset) TotalRecords() int {
	n := 0
	for _, p := range d.Phases {
		n += len(p.Records)
	}
	return n
}

// Lookup finds the first record with the given (phase id, time) composite
// key. The key is not required to be unique; well-formed input makes it so.
func (d Dataset) Lookup(phaseID int, time float64) (Record, bool) {
	for _, p := range d.Phases {
		if p.ID != phaseID {
			continue
		}
		for _, r := range p.Records {
			if r.Time == time {
				return r, true
			}
		}
	}
	return Record{}, false
}

// Scaled returns a deep copy of the dataset with all position and velocity
// components multiplied by factor. Times are left untouched. Used by the
// presentation layer for unit conversion (e.g. meters to kilometers); the
// parsing core always produces raw source units.
func (d Dataset) Scaled(factor float64) Dataset {
	out := Dataset{Phases: make([]Phase, len(d.Phases))}
	for i, p := range d.Phases {
		records := make([]Record, len(p.Records))
		for j, r := range p.Records {
			records[j] = Record{
				Time:     r.Time,
				Position: r.Position.Scale(factor),
				Velocity: r.Velocity.Scale(factor),
			}
		}
		out.Phases[i] = Phase{ID: p.ID, Records: records}
	}
	return out
}
