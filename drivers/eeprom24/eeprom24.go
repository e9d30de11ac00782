// Package eeprom24 drives a 24Cxx-family serial EEPROM with single-byte
// addressing (up to 2 Kbit). Both parameter blocks fit in the first page of
// the smallest part, so the driver stays byte-at-a-time and skips page
// writes entirely.
package eeprom24

import (
	"time"

	"tinygo.org/x/drivers"

	"publicradio-go/types"
)

// AddressDefault is the device address with all address pins strapped low.
const AddressDefault = 0x50

// Self-timed write cycle, Twr max for the parts we populate.
const delayWriteCycle = 5 * time.Millisecond

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to AddressDefault if zero.
	Address uint16
	// Sleep replaces time.Sleep for the post-write cycle wait.
	Sleep func(time.Duration)
}

// Device wraps an I2C connection to a serial EEPROM.
type Device struct {
	bus   drivers.I2C
	addr  uint16
	sleep func(time.Duration)
}

var _ types.NVM = (*Device)(nil)

// New creates an EEPROM connection. It does not touch the device.
func New(bus drivers.I2C, cfg Config) *Device {
	addr := cfg.Address
	if addr == 0 {
		addr = AddressDefault
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Device{bus: bus, addr: addr, sleep: sleep}
}

// ReadByte performs a random read: address write, repeated-start read.
// Bus errors surface as 0xFF, the erased-cell value, so a dead bus looks
// like an unprogrammed part and fails the block checksum upstream.
func (d *Device) ReadByte(addr uint16) byte {
	w := [1]byte{byte(addr)}
	var r [1]byte
	if err := d.bus.Tx(d.addr, w[:], r[:]); err != nil {
		return 0xFF
	}
	return r[0]
}

// WriteByte issues a byte write and waits out the self-timed write cycle, so
// back-to-back writes never hit a busy part.
func (d *Device) WriteByte(addr uint16, b byte) {
	w := [2]byte{byte(addr), b}
	if err := d.bus.Tx(d.addr, w[:], nil); err != nil {
		return
	}
	d.sleep(delayWriteCycle)
}
