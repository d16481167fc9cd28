// Package parse reads reboot instructions in their text form:
//
//	on x=10..12,y=10..12,z=10..12
//	off x=9..11,y=9..11,z=9..11
//
// Blank lines and lines starting with '#' are ignored.
package parse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/chazu/reboot/pkg/sequence"
	"github.com/chazu/reboot/pkg/volume"
)

// ErrSyntax is wrapped by every error for a line that does not match the
// instruction grammar.
var ErrSyntax = errors.New("syntax error")

// ParseError reports the line an instruction failed to parse on.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

var instructionPattern = regexp.MustCompile(
	`^(on|off)\s+x=(-?\d+)\.\.(-?\d+),y=(-?\d+)\.\.(-?\d+),z=(-?\d+)\.\.(-?\d+)$`)

var cuboidPattern = regexp.MustCompile(
	`^x=(-?\d+)\.\.(-?\d+),y=(-?\d+)\.\.(-?\d+),z=(-?\d+)\.\.(-?\d+)$`)

// Line parses a single instruction. The returned instruction has Line 0.
func Line(text string) (sequence.Instruction, error) {
	m := instructionPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return sequence.Instruction{}, fmt.Errorf("%w: expected \"on|off x=a..b,y=c..d,z=e..f\"", ErrSyntax)
	}
	c, err := cuboidFromBounds(m[2:])
	if err != nil {
		return sequence.Instruction{}, err
	}
	return sequence.Instruction{On: m[1] == "on", Cuboid: c}, nil
}

// Cuboid parses the bounds part of an instruction, e.g. "x=1..2,y=3..4,z=5..6".
func Cuboid(text string) (volume.Cuboid, error) {
	m := cuboidPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return volume.Cuboid{}, fmt.Errorf("%w: expected \"x=a..b,y=c..d,z=e..f\"", ErrSyntax)
	}
	return cuboidFromBounds(m[1:])
}

func cuboidFromBounds(bounds []string) (volume.Cuboid, error) {
	var v [6]int64
	for i, b := range bounds {
		n, err := strconv.ParseInt(b, 10, 64)
		if err != nil {
			return volume.Cuboid{}, fmt.Errorf("%w: bound %q: %v", ErrSyntax, b, err)
		}
		v[i] = n
	}
	var axes [3]volume.Interval
	for i := range axes {
		iv, err := volume.NewInterval(v[2*i], v[2*i+1])
		if err != nil {
			return volume.Cuboid{}, fmt.Errorf("axis %s: %w", volume.Axis(i), err)
		}
		axes[i] = iv
	}
	return volume.NewCuboid(axes[0], axes[1], axes[2])
}

// Reader parses every instruction in r. Parsing stops at the first bad line.
func Reader(r io.Reader) ([]sequence.Instruction, error) {
	var steps []sequence.Instruction
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		in, err := Line(text)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: text, Err: err}
		}
		in.Line = lineNo
		steps = append(steps, in)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse: reading input: %w", err)
	}
	return steps, nil
}

// String parses every instruction in s.
func String(s string) ([]sequence.Instruction, error) {
	return Reader(strings.NewReader(s))
}
