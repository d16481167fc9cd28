package reactor

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/chazu/reboot/pkg/volume"
)

func assertDisjoint(t *testing.T, r *Reactor) {
	t.Helper()
	members := r.Cuboids()
	for i := range members {
		for j := i + 1; j < len(members); j++ {
			if members[i].OverlapsWith(members[j]) {
				t.Fatalf("members %s and %s overlap", members[i], members[j])
			}
		}
	}
}

func TestNewReactorIsEmpty(t *testing.T) {
	r := New()
	if r.CountActive() != 0 {
		t.Errorf("CountActive() = %d, want 0", r.CountActive())
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if _, ok := r.Bounds(); ok {
		t.Error("Bounds() on empty reactor should report false")
	}
}

func TestSmallExample(t *testing.T) {
	r := New()

	r.TurnOn(volume.Box(10, 12, 10, 12, 10, 12))
	if got := r.CountActive(); got != 27 {
		t.Fatalf("after step 1: %d cells on, want 27", got)
	}
	r.TurnOn(volume.Box(11, 13, 11, 13, 11, 13))
	if got := r.CountActive(); got != 46 {
		t.Fatalf("after step 2: %d cells on, want 46", got)
	}
	r.TurnOff(volume.Box(9, 11, 9, 11, 9, 11))
	if got := r.CountActive(); got != 38 {
		t.Fatalf("after step 3: %d cells on, want 38", got)
	}
	r.TurnOn(volume.Box(10, 10, 10, 10, 10, 10))
	if got := r.CountActive(); got != 39 {
		t.Fatalf("after step 4: %d cells on, want 39", got)
	}
	assertDisjoint(t, r)
}

func TestTurnOnTwiceIsIdempotent(t *testing.T) {
	c := volume.Box(-5, 5, 0, 3, 7, 7)

	once := New()
	once.TurnOn(volume.Box(0, 10, 0, 10, 0, 10))
	once.TurnOn(c)

	twice := New()
	twice.TurnOn(volume.Box(0, 10, 0, 10, 0, 10))
	twice.TurnOn(c)
	twice.TurnOn(c)

	if once.CountActive() != twice.CountActive() {
		t.Fatalf("CountActive once=%d twice=%d", once.CountActive(), twice.CountActive())
	}
	if !reflect.DeepEqual(once.Cuboids(), twice.Cuboids()) {
		t.Errorf("state differs:\nonce:  %v\ntwice: %v", once.Cuboids(), twice.Cuboids())
	}
}

func TestTurnOnThenOffIsEmpty(t *testing.T) {
	c := volume.Box(-100000, 100000, -3, 3, 42, 99)
	r := New()
	r.TurnOn(c)
	if r.CountActive() != c.Size() {
		t.Fatalf("CountActive() = %d, want %d", r.CountActive(), c.Size())
	}
	r.TurnOff(c)
	if r.CountActive() != 0 {
		t.Errorf("CountActive() = %d after toggling off, want 0", r.CountActive())
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d after toggling off, want 0", r.Len())
	}
}

func TestInstructionOrderMatters(t *testing.T) {
	a := volume.Box(0, 9, 0, 9, 0, 9)
	b := volume.Box(5, 14, 5, 14, 5, 14)

	onThenOff := New()
	onThenOff.TurnOn(a)
	onThenOff.TurnOff(b)

	offThenOn := New()
	offThenOn.TurnOff(b)
	offThenOn.TurnOn(a)

	if onThenOff.CountActive() != 1000-125 {
		t.Errorf("on then off = %d, want 875", onThenOff.CountActive())
	}
	if offThenOn.CountActive() != 1000 {
		t.Errorf("off then on = %d, want 1000", offThenOn.CountActive())
	}
}

func TestTurnOffMissIsNoop(t *testing.T) {
	r := New()
	r.TurnOn(volume.Box(0, 1, 0, 1, 0, 1))
	r.TurnOff(volume.Box(5, 6, 5, 6, 5, 6))
	if r.Len() != 1 || r.CountActive() != 8 {
		t.Errorf("Len()=%d CountActive()=%d, want 1 and 8", r.Len(), r.CountActive())
	}
}

func TestRandomSequenceKeepsMembersDisjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(2021))
	r := New()
	for i := 0; i < 200; i++ {
		x0, y0, z0 := rng.Int63n(60)-30, rng.Int63n(60)-30, rng.Int63n(60)-30
		c := volume.Box(x0, x0+rng.Int63n(20), y0, y0+rng.Int63n(20), z0, z0+rng.Int63n(20))
		if rng.Intn(3) == 0 {
			r.TurnOff(c)
		} else {
			r.TurnOn(c)
		}
	}
	assertDisjoint(t, r)
}

func TestBoundsAndCuboids(t *testing.T) {
	r := New()
	r.TurnOn(volume.Box(5, 6, 0, 0, 0, 0))
	r.TurnOn(volume.Box(-3, -1, 2, 4, -8, -8))

	b, ok := r.Bounds()
	if !ok {
		t.Fatal("Bounds() reported empty reactor")
	}
	if want := volume.Box(-3, 6, 0, 4, -8, 0); b != want {
		t.Errorf("Bounds() = %s, want %s", b, want)
	}

	got := r.Cuboids()
	want := []volume.Cuboid{volume.Box(-3, -1, 2, 4, -8, -8), volume.Box(5, 6, 0, 0, 0, 0)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Cuboids() = %v, want %v", got, want)
	}
}
