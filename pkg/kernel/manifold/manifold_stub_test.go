//go:build !manifold

package manifold

import (
	"errors"
	"testing"
)

func TestNewReturnsError(t *testing.T) {
	k, err := New()
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("New() error = %v, want ErrUnavailable", err)
	}
	if k != nil {
		t.Fatal("New() returned non-nil kernel, want nil when manifold tag is not set")
	}
	want := "manifold kernel not available: build with -tags=manifold"
	if err.Error() != want {
		t.Errorf("New() error = %q, want %q", err.Error(), want)
	}
}
