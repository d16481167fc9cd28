package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("chatty", &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewSetsLevel(t *testing.T) {
	l, err := New("warn", &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if l.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %v, want warn", l.GetLevel())
	}
}

func TestNamedPrefixesMessage(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("info", &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	Named(l, "reactor").WithField("segments", 3).Info("applied")

	out := buf.String()
	if !strings.Contains(out, `msg="[reactor] applied"`) {
		t.Errorf("output %q missing component prefix", out)
	}
	if !strings.Contains(out, "segments=3") {
		t.Errorf("output %q missing fields", out)
	}
	if strings.Contains(out, "component=") {
		t.Errorf("output %q should not repeat the component field", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("output %q should not be coloured for a buffer", out)
	}
}

func TestUnnamedEntryUnchanged(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("info", &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Info("plain")
	if !strings.Contains(buf.String(), "msg=plain") {
		t.Errorf("output %q, want msg=plain", buf.String())
	}
}
