// Package types holds the narrow hardware capability interfaces the control
// core depends on, plus the shared tuning value types. The core never touches
// pins, timers or memory-mapped registers directly; platform code under cmd/
// (or a test fake) provides these.
package types

// PWM drives the indicator LED brightness. Duty is logical 0..255; the
// provider owns any active-low inversion and voltage compensation.
type PWM interface {
	SetDuty(level uint8)
	// Enable connects the output to the timer. Disable stops the timer and
	// releases the pin low so a sleeping device spends nothing on it.
	Enable()
	Disable()
}

// DigitalIn samples one input pin. Get returns the raw electrical level;
// callers own the logical interpretation (the button is active-low).
type DigitalIn interface {
	Get() bool
}

// VoltageSense answers the two supply-rail threshold questions the boot
// sequence asks. ADC setup and the thresholds themselves live with the
// provider.
type VoltageSense interface {
	// BatteryGood reports whether Vcc is above the minimum operating voltage.
	BatteryGood() bool
	// ProgrammerPresent reports the elevated supply level that only an
	// attached programmer, never a battery, can produce.
	ProgrammerPresent() bool
}

// Sleeper parks the foreground task in the lowest power state. DeepSleep
// returns when a wake condition fires (button pin change or watchdog tick).
// The wake signal carries no data and runs no logic; all work happens after
// DeepSleep returns.
type Sleeper interface {
	DeepSleep()
}

// NVM is byte-addressed non-volatile storage. Writes block until the
// underlying write cycle completes; there is no erase/page abstraction at
// this level.
type NVM interface {
	ReadByte(addr uint16) byte
	WriteByte(addr uint16, b byte)
}

// ReadWord reads a big-endian 16-bit word from nvm at addr.
func ReadWord(nvm NVM, addr uint16) uint16 {
	return uint16(nvm.ReadByte(addr))<<8 | uint16(nvm.ReadByte(addr+1))
}

// WriteWord writes a big-endian 16-bit word to nvm at addr.
func WriteWord(nvm NVM, addr uint16, v uint16) {
	nvm.WriteByte(addr, byte(v>>8))
	nvm.WriteByte(addr+1, byte(v))
}
