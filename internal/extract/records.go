// Package extract recognizes trajectory records inside free-form simulator
// console output. The simulator prints one "Time:" line per integration step
// followed by a box-drawing table holding the state vector, so the text has
// no schema beyond repeating label patterns.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/avolkov/traceplot/internal/geometry/vector"
	"github.com/avolkov/traceplot/internal/model"
)

// Record labels emitted by the simulator
const (
	labelTime     = "Time:"
	labelPosition = "Position:"
	labelVelocity = "Velocity:"
)

// Records holds the three independently extracted sequences for one phase
// segment. They align by index: the Nth time corresponds to the Nth position
// triple and the Nth velocity triple. The extractor does not verify the
// lengths match; the aggregator must check before zipping.
type Records struct {
	Times      []float64
	Positions  []vector.Vec3
	Velocities []vector.Vec3
}

// Empty reports whether no records of any kind were extracted
func (r Records) Empty() bool {
	return len(r.Times) == 0 && len(r.Positions) == 0 && len(r.Velocities) == 0
}

// RecordExtractor extracts time, position and velocity sequences from a
// phase segment. The numeric token matcher is compiled once at construction.
type RecordExtractor struct {
	token *regexp.Regexp
}

// NewRecordExtractor creates a new record extractor
func NewRecordExtractor() *RecordExtractor {
	return &RecordExtractor{
		// Signed real token: digits, optional fraction, optional exponent
		token: regexp.MustCompile(`-?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`),
	}
}

// Extract scans one phase segment and returns the three aligned sequences.
// Matching is bounded per block: a block spans from its label to the next
// label (or end of segment), so values can never be picked up across block
// boundaries no matter what decorative filler surrounds them. A segment with
// no matches yields empty sequences and no error.
func (e *RecordExtractor) Extract(segment string) (Records, error) {
	var out Records

	offset := 0
	for {
		label, span, next := nextBlock(segment, offset)
		if label == "" {
			break
		}
		offset = next

		switch label {
		case labelTime:
			t, ok, err := e.firstNumber(span)
			if err != nil {
				return Records{}, err
			}
			if ok {
				out.Times = append(out.Times, t)
			}
		case labelPosition:
			v, ok, err := e.triple(span, "position")
			if err != nil {
				return Records{}, err
			}
			if ok {
				out.Positions = append(out.Positions, v)
			}
		case labelVelocity:
			v, ok, err := e.triple(span, "velocity")
			if err != nil {
				return Records{}, err
			}
			if ok {
				out.Velocities = append(out.Velocities, v)
			}
		}
	}

	return out, nil
}

// nextBlock finds the next record label at or after offset and returns the
// label, the text between it and the following label, and the offset to
// resume scanning from. An empty label means no further blocks exist.
func nextBlock(segment string, offset int) (label string, span string, next int) {
	rest := segment[offset:]

	start := -1
	for _, l := range []string{labelTime, labelPosition, labelVelocity} {
		if i := strings.Index(rest, l); i >= 0 && (start < 0 || i < start) {
			start = i
			label = l
		}
	}
	if start < 0 {
		return "", "", len(segment)
	}

	contentFrom := start + len(label)
	end := len(rest)
	for _, l := range []string{labelTime, labelPosition, labelVelocity} {
		if i := strings.Index(rest[contentFrom:], l); i >= 0 && contentFrom+i < end {
			end = contentFrom + i
		}
	}

	return label, rest[contentFrom:end], offset + end
}

// firstNumber parses the first numeric token within a block span. A block
// without any numeric token is simply not a match.
func (e *RecordExtractor) firstNumber(span string) (float64, bool, error) {
	tok := e.token.FindString(span)
	if tok == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false, model.NewMalformedNumberError(-1, "time", tok)
	}
	return v, true, nil
}

// triple parses the first three numeric tokens (X, Y, Z) within a block
// span, skipping any non-numeric filler between them. Fewer than three
// tokens means the block is not a match and contributes nothing.
func (e *RecordExtractor) triple(span string, kind string) (vector.Vec3, bool, error) {
	toks := e.token.FindAllString(span, 3)
	if len(toks) < 3 {
		return vector.Vec3{}, false, nil
	}

	var comps [3]float64
	for i, tok := range toks {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return vector.Vec3{}, false, model.NewMalformedNumberError(-1, kind, tok)
		}
		comps[i] = v
	}

	return vector.NewVec3(comps[0], comps[1], comps[2]), true, nil
}
