package pipeline

import (
	"regexp"
	"strconv"

	"github.com/avolkov/traceplot/internal/extract"
	"github.com/avolkov/traceplot/internal/model"
)

// Aggregator splits a raw trace into phase segments and assembles the
// extracted records into an ordered dataset.
type Aggregator struct {
	phaseMarker *regexp.Regexp
	extractor   *extract.RecordExtractor
}

// NewAggregator creates a new aggregator with its matchers compiled once
func NewAggregator() *Aggregator {
	return &Aggregator{
		phaseMarker: regexp.MustCompile(`Starting Phase (\d+)`),
		extractor:   extract.NewRecordExtractor(),
	}
}

// segment is one phase's worth of trace text
type segment struct {
	id   int
	text string
}

// Aggregate parses the full raw trace into a dataset. Phases appear in the
// order their markers appear in the trace; phase ids are preserved verbatim
// and never deduplicated or re-sorted. Text before the first marker is
// preamble and is discarded. A trace without any marker is treated as a
// single implicit phase (id 0), matching older single-phase simulator runs.
//
// A malformed phase aborts the whole parse with a *model.ParseError; the
// aggregator never returns a partial dataset, since silently missing samples
// would go unnoticed in a rendered trajectory.
func (a *Aggregator) Aggregate(content string) (model.Dataset, error) {
	segments, err := a.split(content)
	if err != nil {
		return model.Dataset{}, err
	}

	var dataset model.Dataset
	for _, seg := range segments {
		recs, err := a.extractor.Extract(seg.text)
		if err != nil {
			if perr, ok := err.(*model.ParseError); ok {
				perr.PhaseID = seg.id
			}
			return model.Dataset{}, err
		}

		// Explicit alignment check before zipping. The three sequences are
		// matched independently, so a dropped position or velocity block
		// must surface here instead of silently truncating the phase.
		if len(recs.Times) != len(recs.Positions) || len(recs.Times) != len(recs.Velocities) {
			return model.Dataset{}, model.NewMisalignedError(
				seg.id, len(recs.Times), len(recs.Positions), len(recs.Velocities))
		}

		// A segment with no samples at all contributes no phase
		if recs.Empty() {
			continue
		}

		phase := model.Phase{ID: seg.id, Records: make([]model.Record, len(recs.Times))}
		for i := range recs.Times {
			phase.Records[i] = model.Record{
				Time:     recs.Times[i],
				Position: recs.Positions[i],
				Velocity: recs.Velocities[i],
			}
		}
		dataset.Phases = append(dataset.Phases, phase)
	}

	if dataset.TotalRecords() == 0 {
		return model.Dataset{}, model.NewEmptyInputError()
	}

	return dataset, nil
}

// split cuts the trace into phase segments on "Starting Phase N" markers
func (a *Aggregator) split(content string) ([]segment, error) {
	markers := a.phaseMarker.FindAllStringSubmatchIndex(content, -1)
	if len(markers) == 0 {
		return []segment{{id: 0, text: content}}, nil
	}

	segments := make([]segment, 0, len(markers))
	for i, m := range markers {
		id, err := strconv.Atoi(content[m[2]:m[3]])
		if err != nil {
			return nil, model.NewMalformedNumberError(-1, "phase", content[m[2]:m[3]])
		}

		end := len(content)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}

		segments = append(segments, segment{id: id, text: content[m[1]:end]})
	}

	return segments, nil
}
