// Package logging builds the logrus loggers used across reboot.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// ComponentKey is the field Named stores the component name under.
const ComponentKey = "component"

// New returns a logger writing to out at the given level. Colours are
// enabled only when out is a terminal.
func New(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return &logrus.Logger{
		Out: out,
		Formatter: &ComponentFormatter{
			TextFormatter: logrus.TextFormatter{
				ForceColors:   isTerminal(out),
				DisableColors: !isTerminal(out),
				FullTimestamp: true,
			},
		},
		Hooks: make(logrus.LevelHooks),
		Level: lvl,
	}, nil
}

// Named returns an entry tagged with the component name.
func Named(l logrus.FieldLogger, name string) *logrus.Entry {
	return l.WithField(ComponentKey, name)
}

// ComponentFormatter prefixes each message with its component, e.g.
// "[reactor] segments=12", and leaves the remaining fields to the text
// formatter.
type ComponentFormatter struct {
	logrus.TextFormatter
}

// Format renders a single log entry.
func (f *ComponentFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	name, ok := entry.Data[ComponentKey]
	if !ok {
		return f.TextFormatter.Format(entry)
	}
	// Copy so the prefix does not leak into other formatters or hooks.
	e := entry.Dup()
	e.Level = entry.Level
	e.Message = fmt.Sprintf("[%s] %s", name, entry.Message)
	delete(e.Data, ComponentKey)
	return f.TextFormatter.Format(e)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
