package types

// TuningParams is a decoded tuning parameter block: everything the radio
// needs at bring-up. The persisted wire layout lives in the params package;
// this is the in-memory view handed to the driver.
type TuningParams struct {
	Band       uint8  // 2 significant bits, receiver band select
	Deemphasis uint8  // non-zero => 50 µs de-emphasis
	Spacing    uint8  // 2 significant bits, channel spacing select
	Channel    uint16 // 0..320, offset from the bottom of the band
	Volume     uint8  // 4 significant bits
}

// TopChannel is the top-of-band channel index. Incrementing past it wraps to
// zero (76–108 MHz span at 100 kHz spacing).
const TopChannel uint16 = 1080 - 760
