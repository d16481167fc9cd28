package parse

import (
	"errors"
	"testing"

	"github.com/chazu/reboot/pkg/volume"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		text string
		on   bool
		want volume.Cuboid
	}{
		{"on", "on x=10..12,y=10..12,z=10..12", true, volume.Box(10, 12, 10, 12, 10, 12)},
		{"off", "off x=9..11,y=9..11,z=9..11", false, volume.Box(9, 11, 9, 11, 9, 11)},
		{"negative", "on x=-20..26,y=-36..17,z=-47..7", true, volume.Box(-20, 26, -36, 17, -47, 7)},
		{"padded", "  off x=-5..-5,y=0..0,z=99999..100000\t", false, volume.Box(-5, -5, 0, 0, 99999, 100000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Line(tt.text)
			if err != nil {
				t.Fatalf("Line(%q) error: %v", tt.text, err)
			}
			if in.On != tt.on || in.Cuboid != tt.want {
				t.Errorf("Line(%q) = %+v, want on=%v %s", tt.text, in, tt.on, tt.want)
			}
		})
	}
}

func TestLineErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"unknown verb", "toggle x=1..2,y=1..2,z=1..2", ErrSyntax},
		{"missing axis", "on x=1..2,y=1..2", ErrSyntax},
		{"not a number", "on x=a..2,y=1..2,z=1..2", ErrSyntax},
		{"overflow", "on x=1..99999999999999999999,y=1..2,z=1..2", ErrSyntax},
		{"reversed bounds", "on x=1..2,y=5..4,z=1..2", volume.ErrMalformedInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Line(tt.text)
			if !errors.Is(err, tt.want) {
				t.Errorf("Line(%q) error = %v, want %v", tt.text, err, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	src := `# small example
on x=10..12,y=10..12,z=10..12
on x=11..13,y=11..13,z=11..13

off x=9..11,y=9..11,z=9..11
on x=10..10,y=10..10,z=10..10
`
	steps, err := String(src)
	if err != nil {
		t.Fatalf("String error: %v", err)
	}
	if len(steps) != 4 {
		t.Fatalf("got %d steps, want 4", len(steps))
	}
	for i, line := range []int{2, 3, 5, 6} {
		if steps[i].Line != line {
			t.Errorf("steps[%d].Line = %d, want %d", i, steps[i].Line, line)
		}
	}
	if steps[2].On {
		t.Error("third step should be off")
	}
}

func TestStringReportsLine(t *testing.T) {
	_, err := String("on x=1..2,y=1..2,z=1..2\non x=3..1,y=1..2,z=1..2\n")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("ParseError.Line = %d, want 2", pe.Line)
	}
	if !errors.Is(err, volume.ErrMalformedInterval) {
		t.Errorf("error %v should wrap ErrMalformedInterval", err)
	}
}

func TestCuboid(t *testing.T) {
	c, err := Cuboid("x=-1..1,y=0..4,z=7..7")
	if err != nil {
		t.Fatalf("Cuboid error: %v", err)
	}
	if c != volume.Box(-1, 1, 0, 4, 7, 7) {
		t.Errorf("Cuboid = %s", c)
	}
	if _, err := Cuboid("x=1..2"); !errors.Is(err, ErrSyntax) {
		t.Errorf("Cuboid error = %v, want ErrSyntax", err)
	}
}

func TestRoundTripThroughString(t *testing.T) {
	text := "off x=-3..4,y=0..0,z=-100000..100000"
	in, err := Line(text)
	if err != nil {
		t.Fatalf("Line error: %v", err)
	}
	if in.String() != text {
		t.Errorf("String() = %q, want %q", in.String(), text)
	}
}
