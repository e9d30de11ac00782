// Package button debounces the single push-button and classifies presses by
// held duration. The contract is synchronous and blocking: there is one
// foreground task and nothing else to run while we wait.
package button

import (
	"time"

	"publicradio-go/types"
)

// Press is a duration-classified button event.
type Press uint8

const (
	// PressShort is a release before the long-press ceiling.
	PressShort Press = iota
	// PressLong is a hold of at least LongPress.
	PressLong
	// PressVeryLong (>= VeryLongPress) is only meaningful inside a
	// confirmation context; WaitPress never produces it.
	PressVeryLong
)

const (
	// Debounce is applied after each observed edge before the level is
	// trusted again.
	Debounce = 50 * time.Millisecond
	// LongPress is the hold ceiling separating short from long.
	LongPress = 2000 * time.Millisecond
	// VeryLongPress is the confirmation-context hold tier.
	VeryLongPress = 4000 * time.Millisecond

	pollInterval = time.Millisecond
)

// Device samples one active-low input pin.
type Device struct {
	pin   types.DigitalIn
	sleep func(time.Duration)
}

// New wraps pin. sleep may be nil, in which case time.Sleep is used.
func New(pin types.DigitalIn, sleep func(time.Duration)) *Device {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Device{pin: pin, sleep: sleep}
}

// Down reports the instantaneous debounce-free level. The button is pulled
// high and shorts to ground when pressed.
func (d *Device) Down() bool {
	return !d.pin.Get()
}

// WaitPress blocks until the button is pressed, classifies the press, and
// only returns once the button has been released and the release has
// debounced, so the caller can never re-enter while the physical button is
// still down. A stuck-down input blocks forever; acceptable for a
// human-operated control.
func (d *Device) WaitPress() Press {
	for !d.Down() {
		d.sleep(pollInterval)
	}
	d.sleep(Debounce)

	// Spin until either the long-press ceiling or a release.
	countdown := int(LongPress / time.Millisecond)
	for countdown > 0 && d.Down() {
		d.sleep(pollInterval)
		countdown--
	}
	press := PressLong
	if countdown > 0 {
		press = PressShort
	}

	for d.Down() {
		d.sleep(pollInterval)
	}
	d.sleep(Debounce)
	return press
}
