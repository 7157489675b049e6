package model

import "fmt"

// ErrorKind classifies parse failures
type ErrorKind string

const (
	// KindEmptyInput means the blob is empty or contains no recognizable
	// time markers anywhere.
	KindEmptyInput ErrorKind = "empty_input"

	// KindMisalignedRecords means the time/position/velocity sequence
	// lengths differ within one phase segment.
	KindMisalignedRecords ErrorKind = "misaligned_records"

	// KindMalformedNumber means a matched numeric token failed to parse
	// as a real number.
	KindMalformedNumber ErrorKind = "malformed_number"
)

// ParseError is the structured failure surface of the parsing core. It is
// raised at the point of detection and propagated unmodified; the core never
// recovers silently (no zero-defaulting, no truncation to the shortest
// sequence).
type ParseError struct {
	Kind    ErrorKind
	PhaseID int    // Phase the failure occurred in (-1 if not phase-scoped)
	Record  string // Record kind involved ("time", "position", "velocity")
	Token   string // Offending token for malformed numbers

	// Sequence lengths observed in the segment, set for misalignment
	Times      int
	Positions  int
	Velocities int
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindEmptyInput:
		return "empty input: no trace records found"
	case KindMisalignedRecords:
		return fmt.Sprintf("phase %d: misaligned records: %d times, %d positions, %d velocities",
			e.PhaseID, e.Times, e.Positions, e.Velocities)
	case KindMalformedNumber:
		return fmt.Sprintf("phase %d: malformed %s number %q", e.PhaseID, e.Record, e.Token)
	default:
		return fmt.Sprintf("parse error (%s)", e.Kind)
	}
}

// NewEmptyInputError reports a blob with no extractable records
func NewEmptyInputError() *ParseError {
	return &ParseError{Kind: KindEmptyInput, PhaseID: -1}
}

// NewMisalignedError reports unequal record sequence lengths within a phase
func NewMisalignedError(phaseID, times, positions, velocities int) *ParseError {
	return &ParseError{
		Kind:       KindMisalignedRecords,
		PhaseID:    phaseID,
		Times:      times,
		Positions:  positions,
		Velocities: velocities,
	}
}

// NewMalformedNumberError reports a numeric token that failed to parse
func NewMalformedNumberError(phaseID int, record, token string) *ParseError {
	return &ParseError{
		Kind:    KindMalformedNumber,
		PhaseID: phaseID,
		Record:  record,
		Token:   token,
	}
}
