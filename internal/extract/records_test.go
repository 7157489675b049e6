package extract

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/avolkov/traceplot/internal/geometry/vector"
	"github.com/avolkov/traceplot/internal/model"
)

func TestRecordExtractor_BasicBlock(t *testing.T) {
	e := NewRecordExtractor()

	segment := "Time: 10\nPosition:\n│ 100\n│ 200\n│ 300\nVelocity:\n│ 1\n│ 2\n│ 3\n"

	recs, err := e.Extract(segment)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(recs.Times) != 1 || recs.Times[0] != 10 {
		t.Errorf("Expected times [10], got %v", recs.Times)
	}
	if len(recs.Positions) != 1 || recs.Positions[0] != vector.NewVec3(100, 200, 300) {
		t.Errorf("Expected position (100, 200, 300), got %v", recs.Positions)
	}
	if len(recs.Velocities) != 1 || recs.Velocities[0] != vector.NewVec3(1, 2, 3) {
		t.Errorf("Expected velocity (1, 2, 3), got %v", recs.Velocities)
	}
}

func TestRecordExtractor_BoxDrawingTable(t *testing.T) {
	e := NewRecordExtractor()

	// State vectors are rendered as vertical bordered matrices
	segment := `Time: 20.5
Position:
  ┌          ┐
  │ -6378166 │
  │        0 │
  │   1234.5 │
  └          ┘

Velocity:
  ┌        ┐
  │      0 │
  │ -407.8 │
  │   9.81 │
  └        ┘

`

	recs, err := e.Extract(segment)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(recs.Times) != 1 || recs.Times[0] != 20.5 {
		t.Errorf("Expected times [20.5], got %v", recs.Times)
	}
	if len(recs.Positions) != 1 || recs.Positions[0] != vector.NewVec3(-6378166, 0, 1234.5) {
		t.Errorf("Expected position (-6378166, 0, 1234.5), got %v", recs.Positions)
	}
	if len(recs.Velocities) != 1 || recs.Velocities[0] != vector.NewVec3(0, -407.8, 9.81) {
		t.Errorf("Expected velocity (0, -407.8, 9.81), got %v", recs.Velocities)
	}
}

func TestRecordExtractor_PositionNeverStealsVelocityValues(t *testing.T) {
	e := NewRecordExtractor()

	// Position block holds only two values; the third must NOT be taken
	// from the following Velocity block.
	segment := "Time: 5\nPosition:\n│ 100\n│ 200\nVelocity:\n│ 1\n│ 2\n│ 3\n"

	recs, err := e.Extract(segment)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(recs.Positions) != 0 {
		t.Errorf("Expected incomplete position block to be dropped, got %v", recs.Positions)
	}
	if len(recs.Velocities) != 1 || recs.Velocities[0] != vector.NewVec3(1, 2, 3) {
		t.Errorf("Expected velocity (1, 2, 3) untouched, got %v", recs.Velocities)
	}
}

func TestRecordExtractor_IndexAlignment(t *testing.T) {
	e := NewRecordExtractor()

	// Sentinel values equal to the sample index prove the Nth time lines
	// up with the Nth position and velocity triples.
	var b strings.Builder
	const n = 5
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "Time: %d\n", i)
		fmt.Fprintf(&b, "Position:\n│ %d\n│ %d\n│ %d\n", i, i, i)
		fmt.Fprintf(&b, "Velocity:\n│ %d\n│ %d\n│ %d\n", i, i, i)
	}

	recs, err := e.Extract(b.String())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(recs.Times) != n || len(recs.Positions) != n || len(recs.Velocities) != n {
		t.Fatalf("Expected %d of each kind, got %d/%d/%d",
			n, len(recs.Times), len(recs.Positions), len(recs.Velocities))
	}

	for i := 0; i < n; i++ {
		want := vector.NewVec3(float64(i), float64(i), float64(i))
		if recs.Times[i] != float64(i) {
			t.Errorf("Time at index %d: expected %d, got %v", i, i, recs.Times[i])
		}
		if recs.Positions[i] != want {
			t.Errorf("Position at index %d: expected %v, got %v", i, want, recs.Positions[i])
		}
		if recs.Velocities[i] != want {
			t.Errorf("Velocity at index %d: expected %v, got %v", i, want, recs.Velocities[i])
		}
	}
}

func TestRecordExtractor_ArbitraryFiller(t *testing.T) {
	e := NewRecordExtractor()

	segment := "Time:\t42\nPosition: (inertial frame, meters)\n >> x = 7\n >> y = 8\n >> z = 9\nVelocity: *** │ 0.1 │ │ 0.2 │ │ 0.3 │"

	recs, err := e.Extract(segment)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(recs.Positions) != 1 || recs.Positions[0] != vector.NewVec3(7, 8, 9) {
		t.Errorf("Expected position (7, 8, 9) despite filler, got %v", recs.Positions)
	}
	if len(recs.Velocities) != 1 || recs.Velocities[0] != vector.NewVec3(0.1, 0.2, 0.3) {
		t.Errorf("Expected velocity (0.1, 0.2, 0.3), got %v", recs.Velocities)
	}
}

func TestRecordExtractor_NegativeAndExponentTokens(t *testing.T) {
	e := NewRecordExtractor()

	segment := "Time: 1\nPosition:\n│ -1.5e3\n│ 2E-2\n│ -0.5\nVelocity:\n│ -1\n│ -2\n│ -3\n"

	recs, err := e.Extract(segment)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if recs.Positions[0] != vector.NewVec3(-1500, 0.02, -0.5) {
		t.Errorf("Expected position (-1500, 0.02, -0.5), got %v", recs.Positions[0])
	}
}

func TestRecordExtractor_EmptySegment(t *testing.T) {
	e := NewRecordExtractor()

	recs, err := e.Extract("Phase wound down without emitting any samples.\n")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !recs.Empty() {
		t.Errorf("Expected empty records, got %+v", recs)
	}
}

func TestRecordExtractor_MalformedNumber(t *testing.T) {
	e := NewRecordExtractor()

	// An exponent beyond float64 range fails strconv.ParseFloat, which is
	// the one way a matched token can still be malformed.
	segment := "Time: 1e400\n"

	_, err := e.Extract(segment)
	if err == nil {
		t.Fatal("Expected malformed number error, got nil")
	}

	var perr *model.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *model.ParseError, got %T", err)
	}
	if perr.Kind != model.KindMalformedNumber {
		t.Errorf("Expected kind %q, got %q", model.KindMalformedNumber, perr.Kind)
	}
	if perr.Record != "time" {
		t.Errorf("Expected record kind 'time', got %q", perr.Record)
	}
	if perr.Token != "1e400" {
		t.Errorf("Expected token '1e400', got %q", perr.Token)
	}
}

func TestRecordExtractor_TimeLabelWithoutValue(t *testing.T) {
	e := NewRecordExtractor()

	// A label with no numeric token before the next block is not a match
	segment := "Time: pending\nTime: 3\nPosition:\n│ 1\n│ 2\n│ 3\nVelocity:\n│ 4\n│ 5\n│ 6\n"

	recs, err := e.Extract(segment)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(recs.Times) != 1 || recs.Times[0] != 3 {
		t.Errorf("Expected times [3], got %v", recs.Times)
	}
}
