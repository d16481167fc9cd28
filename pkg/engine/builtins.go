package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/reboot/pkg/sequence"
	"github.com/chazu/reboot/pkg/volume"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSpan wraps a volume.Interval so it can be returned from `span`.
type sexpSpan struct {
	iv volume.Interval
}

func (s *sexpSpan) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(span %d %d)", s.iv.Start, s.iv.End)
}
func (s *sexpSpan) Type() *zygo.RegisteredType { return nil }

// sexpCuboid wraps a volume.Cuboid so it can be returned from `cuboid`
// and consumed by `on` and `off`.
type sexpCuboid struct {
	c volume.Cuboid
}

func (c *sexpCuboid) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(cuboid %s)", c.c)
}
func (c *sexpCuboid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		switch {
		case ok && i+1 < len(args):
			result.kw[name] = args[i+1]
			i++
		case ok:
			// Keyword at end with no value.
			result.kw[name] = zygo.SexpNull
		default:
			result.positional = append(result.positional, args[i])
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toInt64 extracts a coordinate from a Sexp. Floats are accepted only when
// they hold an integral value.
func toInt64(s zygo.Sexp) (int64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val, nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) && math.Abs(v.Val) < 1<<53 {
			return int64(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %v", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toSpan extracts an interval from a sexpSpan.
func toSpan(s zygo.Sexp) (volume.Interval, error) {
	if sp, ok := s.(*sexpSpan); ok {
		return sp.iv, nil
	}
	return volume.Interval{}, fmt.Errorf("expected span, got %T (%s)", s, s.SexpString(nil))
}

// cuboidFromArgs builds a cuboid from either a single cuboid value, the
// keyword form :x (span ..) :y (span ..) :z (span ..), or six integers
// x0 x1 y0 y1 z0 z1.
func cuboidFromArgs(args []zygo.Sexp) (volume.Cuboid, error) {
	if len(args) == 1 {
		if c, ok := args[0].(*sexpCuboid); ok {
			return c.c, nil
		}
	}

	pa := parseArgs(args)
	if len(pa.kw) > 0 {
		if len(pa.positional) > 0 {
			return volume.Cuboid{}, fmt.Errorf("cannot mix keyword and positional bounds")
		}
		var axes [3]volume.Interval
		for i, a := range []volume.Axis{volume.AxisX, volume.AxisY, volume.AxisZ} {
			v, ok := pa.kw[a.String()]
			if !ok {
				return volume.Cuboid{}, fmt.Errorf("missing :%s", a)
			}
			iv, err := toSpan(v)
			if err != nil {
				return volume.Cuboid{}, fmt.Errorf("%s: %w", a, err)
			}
			axes[i] = iv
		}
		return volume.NewCuboid(axes[0], axes[1], axes[2])
	}

	if len(pa.positional) != 6 {
		return volume.Cuboid{}, fmt.Errorf("expected a cuboid, :x :y :z spans or 6 bounds, got %d arguments", len(args))
	}
	var v [6]int64
	for i, s := range pa.positional {
		n, err := toInt64(s)
		if err != nil {
			return volume.Cuboid{}, fmt.Errorf("bound %d: %w", i+1, err)
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

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the reboot builtins into a zygomys environment.
// Every call to on or off appends an instruction to steps.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, steps *[]sequence.Instruction) {

	// -----------------------------------------------------------------------
	// (span -5 5)
	// -----------------------------------------------------------------------
	env.AddFunction("span", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("span requires exactly 2 arguments, got %d", len(args))
		}
		lo, err := toInt64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("span: lo: %w", err)
		}
		hi, err := toInt64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("span: hi: %w", err)
		}
		iv, err := volume.NewInterval(lo, hi)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("span: %w", err)
		}
		return &sexpSpan{iv: iv}, nil
	})

	// -----------------------------------------------------------------------
	// (cuboid :x (span 0 4) :y (span 0 4) :z (span 0 4))
	// (cuboid 0 4 0 4 0 4)
	// -----------------------------------------------------------------------
	env.AddFunction("cuboid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		c, err := cuboidFromArgs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cuboid: %w", err)
		}
		return &sexpCuboid{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// (on <cuboid>) (off <cuboid>)
	// Both also accept the argument forms of `cuboid` directly.
	// -----------------------------------------------------------------------
	toggle := func(on bool) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			c, err := cuboidFromArgs(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			*steps = append(*steps, sequence.Instruction{On: on, Cuboid: c})
			return &sexpCuboid{c: c}, nil
		}
	}
	env.AddFunction("on", toggle(true))
	env.AddFunction("off", toggle(false))

	// -----------------------------------------------------------------------
	// (cells <cuboid>) number of cells
	// -----------------------------------------------------------------------
	env.AddFunction("cells", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		c, err := cuboidFromArgs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cells: %w", err)
		}
		return &zygo.SexpInt{Val: c.Size()}, nil
	})
}
