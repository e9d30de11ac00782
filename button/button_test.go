package button

import (
	"testing"
	"time"

	"publicradio-go/types"
)

// simPin models the active-low button on a simulated clock: pressed (low)
// from pressAt until releaseAt. Time only advances through the injected sleep.
type simPin struct {
	now       time.Duration
	pressAt   time.Duration
	releaseAt time.Duration
}

var _ types.DigitalIn = (*simPin)(nil)

func (p *simPin) Get() bool {
	pressed := p.now >= p.pressAt && p.now < p.releaseAt
	return !pressed // active-low
}

func (p *simPin) sleep(d time.Duration) { p.now += d }

// held is the duration the pin stays low after the down-edge debounce has
// been consumed, which is the window WaitPress classifies over.
func classify(t *testing.T, held time.Duration) Press {
	t.Helper()
	pin := &simPin{pressAt: 0, releaseAt: Debounce + held}
	d := New(pin, pin.sleep)
	done := make(chan Press, 1)
	go func() { done <- d.WaitPress() }()
	select {
	case p := <-done:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("WaitPress did not return")
		return 0
	}
}

func TestClassificationBoundary(t *testing.T) {
	if got := classify(t, 1999*time.Millisecond); got != PressShort {
		t.Fatalf("1999 ms hold classified as %v, want PressShort", got)
	}
	if got := classify(t, 2000*time.Millisecond); got != PressLong {
		t.Fatalf("2000 ms hold classified as %v, want PressLong", got)
	}
	if got := classify(t, 10*time.Millisecond); got != PressShort {
		t.Fatalf("10 ms hold classified as %v, want PressShort", got)
	}
	if got := classify(t, time.Hour); got != PressLong {
		t.Fatalf("1 h hold classified as %v, want PressLong", got)
	}
}

func TestWaitPressWaitsForRelease(t *testing.T) {
	pin := &simPin{pressAt: 0, releaseAt: Debounce + 300*time.Millisecond}
	d := New(pin, pin.sleep)
	_ = d.WaitPress()
	// Control returns only after the release plus its debounce.
	if pin.now < pin.releaseAt+Debounce {
		t.Fatalf("returned at %v, before release debounce completed (%v)",
			pin.now, pin.releaseAt+Debounce)
	}
	if !pin.Get() {
		t.Fatal("pin still reads pressed after WaitPress returned")
	}
}

func TestWaitPressBlocksUntilPress(t *testing.T) {
	pin := &simPin{pressAt: 700 * time.Millisecond, releaseAt: 800 * time.Millisecond}
	d := New(pin, pin.sleep)
	if got := d.WaitPress(); got != PressShort {
		t.Fatalf("press = %v, want PressShort", got)
	}
	if pin.now < pin.pressAt {
		t.Fatalf("returned at %v, before the press even happened", pin.now)
	}
}

func TestDownIsActiveLow(t *testing.T) {
	pin := &simPin{pressAt: 0, releaseAt: time.Millisecond}
	d := New(pin, pin.sleep)
	if !d.Down() {
		t.Fatal("low level should read as down")
	}
	pin.now = 2 * time.Millisecond
	if d.Down() {
		t.Fatal("high level should read as up")
	}
}
