package sequence

import (
	"errors"
	"fmt"

	"github.com/chazu/reboot/pkg/volume"
)

// MaxCoordinate bounds every instruction coordinate. Within it the volume of
// any cuboid, and of any disjoint union of such cuboids, fits in an int64.
const MaxCoordinate = 1_000_000

// ErrCoordinateRange is reported for coordinates beyond MaxCoordinate.
var ErrCoordinateRange = errors.New("coordinate out of range")

// Severity indicates whether a finding blocks evaluation or is advisory.
type Severity int

const (
	SeverityError   Severity = iota // blocks evaluation
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes one validation result for a single instruction.
type Finding struct {
	Index    int      // position in the instruction list
	Line     int      // source line, 0 when unknown
	Message  string
	Severity Severity
	Err      error // sentinel for errors.Is, nil for warnings
}

func (f Finding) Error() string {
	if f.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s", f.Severity, f.Line, f.Message)
	}
	return fmt.Sprintf("[%s] step %d: %s", f.Severity, f.Index+1, f.Message)
}

func (f Finding) Unwrap() error { return f.Err }

// Result separates blocking errors from advisory warnings.
type Result struct {
	Errors   []Finding
	Warnings []Finding
}

// OK reports whether no blocking errors were found.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Validate checks an instruction list before it reaches the reactor. It is
// read-only and never mutates steps.
func Validate(steps []Instruction) Result {
	var res Result
	anyOn := false
	for i, s := range steps {
		res.Errors = append(res.Errors, validateGeometry(i, s)...)
		if !s.On && !anyOn {
			res.Warnings = append(res.Warnings, Finding{
				Index:    i,
				Line:     s.Line,
				Message:  "off instruction before any on instruction has no effect",
				Severity: SeverityWarning,
			})
		}
		anyOn = anyOn || s.On
	}
	return res
}

func validateGeometry(i int, s Instruction) []Finding {
	var out []Finding
	for _, a := range []volume.Axis{volume.AxisX, volume.AxisY, volume.AxisZ} {
		iv := s.Cuboid.Axis(a)
		if !iv.Valid() {
			out = append(out, Finding{
				Index:    i,
				Line:     s.Line,
				Message:  fmt.Sprintf("axis %s: start %d > end %d", a, iv.Start, iv.End),
				Severity: SeverityError,
				Err:      volume.ErrMalformedInterval,
			})
		}
		if outOfRange(iv.Start) || outOfRange(iv.End) {
			out = append(out, Finding{
				Index:    i,
				Line:     s.Line,
				Message:  fmt.Sprintf("axis %s: %s exceeds ±%d", a, iv, MaxCoordinate),
				Severity: SeverityError,
				Err:      ErrCoordinateRange,
			})
		}
	}
	return out
}

func outOfRange(v int64) bool {
	return v < -MaxCoordinate || v > MaxCoordinate
}
