// Package sequence applies ordered toggle instructions to a reactor core.
// Instructions are applied strictly in input order: where two instructions
// cover the same cell the later one decides its state.
package sequence

import (
	"github.com/chazu/reboot/pkg/volume"
	"github.com/sirupsen/logrus"
)

// Instruction turns every cell of a cuboid on or off.
type Instruction struct {
	On     bool          `json:"on"`
	Cuboid volume.Cuboid `json:"cuboid"`
	Line   int           `json:"line,omitempty"` // source line, 0 when generated
}

// String renders the instruction in its text form.
func (in Instruction) String() string {
	if in.On {
		return "on " + in.Cuboid.String()
	}
	return "off " + in.Cuboid.String()
}

// Target is anything that can hold the on-region of a reactor.
type Target interface {
	TurnOn(c volume.Cuboid)
	TurnOff(c volume.Cuboid)
	CountActive() int64
}

// sized is implemented by targets that can report their representation size.
type sized interface {
	Len() int
}

// Sequencer drives a Target through an instruction list.
type Sequencer struct {
	log           logrus.FieldLogger
	progressEvery int
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithLogger sets the logger used for progress reports.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Sequencer) { s.log = l }
}

// WithProgressEvery logs progress once every n steps. Zero disables it.
func WithProgressEvery(n int) Option {
	return func(s *Sequencer) { s.progressEvery = n }
}

// New returns a Sequencer. Without options it is silent.
func New(opts ...Option) *Sequencer {
	s := &Sequencer{}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run applies steps to t in order and returns the resulting on count.
func (s *Sequencer) Run(t Target, steps []Instruction) int64 {
	for i, step := range steps {
		if s.log != nil && s.progressEvery > 0 && i%s.progressEvery == 0 {
			s.report(t, i, len(steps))
		}
		Apply(t, step)
	}
	if s.log != nil {
		s.report(t, len(steps), len(steps))
	}
	return t.CountActive()
}

func (s *Sequencer) report(t Target, done, total int) {
	entry := s.log.WithField("step", done).WithField("total", total)
	if sz, ok := t.(sized); ok {
		entry = entry.WithField("segments", sz.Len())
	}
	entry.Debugf("step %d/%d", done, total)
}

// Apply applies a single instruction to t.
func Apply(t Target, in Instruction) {
	if in.On {
		t.TurnOn(in.Cuboid)
	} else {
		t.TurnOff(in.Cuboid)
	}
}

// Run applies steps to t with a silent Sequencer.
func Run(t Target, steps []Instruction) int64 {
	return New().Run(t, steps)
}

// Filter returns the instructions for which keep is true, in their original order.
func Filter(steps []Instruction, keep func(Instruction) bool) []Instruction {
	out := make([]Instruction, 0, len(steps))
	for _, s := range steps {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}
