// Package si4702 drives the Si4702 FM receiver over two-wire mode.
//
// Register access works against a local shadow of all 16 chip registers:
//
//   - Bulk reads always start at the status register (0x0A) and wrap, so
//     ReadAll refreshes the whole bank in one transfer.
//   - Bulk writes always start at POWERCFG (0x02); WriteThrough writes the
//     contiguous shadow run from there up to a caller-chosen register, so
//     registers we have never initialised this boot are left alone.
//   - To change a register, modify the shadow and write the run back.
//
// The I2C bus must already be configured; the driver only issues transfers.
// Fixed-duration waits go through an injectable sleep so the timing protocol
// can be exercised without real waiting.
package si4702

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"

	"publicradio-go/errcode"
	"publicradio-go/types"
)

var errWriteRange = errors.New("si4702: register outside the writable run")

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to AddressDefault if zero.
	Address uint16
	// Sleep replaces time.Sleep for the chip's timing guards.
	Sleep func(time.Duration)
	// ReleaseReset de-asserts the chip reset line. Pin control is the
	// platform's business; the driver only owes the chip the ordering and
	// the post-release bus-timing guard.
	ReleaseReset func()
}

// Device wraps an I2C connection to a Si4702 device.
type Device struct {
	bus  drivers.I2C
	addr uint16

	// shadow mirrors the chip's 16 registers in wire (read-wrap) order.
	// Unknown on boot; trustworthy only after ReadAll or a write this boot.
	shadow [32]byte

	sleep        func(time.Duration)
	releaseReset func()
}

// New creates a Si4702 connection. It does not touch the device.
func New(bus drivers.I2C, cfg Config) *Device {
	addr := cfg.Address
	if addr == 0 {
		addr = AddressDefault
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	rr := cfg.ReleaseReset
	if rr == nil {
		rr = func() {}
	}
	return &Device{bus: bus, addr: addr, sleep: sleep, releaseReset: rr}
}

func (d *Device) shadowReg(reg uint8) uint16 {
	off := shadowOffset[reg&0x0F]
	return uint16(d.shadow[off])<<8 | uint16(d.shadow[off+1])
}

func (d *Device) setShadowReg(reg uint8, v uint16) {
	off := shadowOffset[reg&0x0F]
	d.shadow[off] = byte(v >> 8)
	d.shadow[off+1] = byte(v)
}

// ReadAll refreshes the whole shadow bank from the chip (16 registers,
// 32 bytes, starting at the chip's fixed read-start register).
func (d *Device) ReadAll() error {
	return d.bus.Tx(d.addr, nil, d.shadow[:])
}

// WriteThrough writes the shadow bank from POWERCFG through upto inclusive.
// upto must be in 0x02..0x09; past 0x09 the shadow wraps and the run is no
// longer contiguous.
func (d *Device) WriteThrough(upto uint8) error {
	if upto < RegPowerCfg || upto > RegBootConfig {
		return errWriteRange
	}
	lo := shadowOffset[RegPowerCfg]
	hi := shadowOffset[upto] + 2
	return d.bus.Tx(d.addr, d.shadow[lo:hi], nil)
}

// Chip timing guards. Minimums from the datasheet except the tune settles,
// which are what the hardware actually needs to avoid audible artifacts.
const (
	delayResetGuard = 1 * time.Millisecond   // bus-timing guard after reset release
	delayCrystal    = 600 * time.Millisecond // crystal stabilisation (min 500)
	delayPowerup    = 110 * time.Millisecond // powerup latency from ENABLE
	delayFirstTune  = 100 * time.Millisecond // nominal 60 ms; shorter unmutes mid-tune
	delayTuneSettle = 160 * time.Millisecond
)

// PowerUp brings the chip from reset to playing audio, seeded from p.
// The sequence and its ordering are load-bearing: config registers must be
// written before the tune or no audio is produced, and unmuting must follow
// the tune or the output clicks.
func (d *Device) PowerUp(p types.TuningParams) error {
	d.releaseReset()
	d.sleep(delayResetGuard)

	// Crystal oscillator on. TEST1's reserved bits carry the powerdown
	// image the datasheet requires; do not read-modify-write during powerup.
	d.setShadowReg(RegTest1, test1XOscEn)
	if err := d.WriteThrough(RegTest1); err != nil {
		return err
	}
	d.sleep(delayCrystal)

	// Power up with the output still muted; unmuting now clicks.
	d.setShadowReg(RegPowerCfg, pwrEnable)
	if err := d.WriteThrough(RegPowerCfg); err != nil {
		return err
	}
	d.sleep(delayPowerup)

	// Receiver configuration. This write must land before the tune write.
	d.setShadowReg(RegSysConfig1, d.shadowReg(RegSysConfig1)|deemphasisBits(p.Deemphasis))
	d.setShadowReg(RegSysConfig2,
		uint16(p.Band&0x03)<<cfg2BandShift|
			uint16(p.Spacing&0x03)<<cfg2SpaceShift|
			uint16(p.Volume&cfg2VolumeMask))
	if err := d.WriteThrough(RegSysConfig2); err != nil {
		return err
	}

	// Start the first tune.
	d.setShadowReg(RegChannel, chanTune|p.Channel&ChannelMask)
	if err := d.WriteThrough(RegChannel); err != nil {
		return err
	}
	d.sleep(delayFirstTune)

	// Tuned; unmute, force mono, keep the chip enabled.
	d.setShadowReg(RegPowerCfg, pwrDMute|pwrMono|pwrEnable)
	if err := d.WriteThrough(RegPowerCfg); err != nil {
		return err
	}

	// Clear the tune-start flag so the next tune can begin.
	d.setShadowReg(RegChannel, p.Channel&ChannelMask)
	return d.WriteThrough(RegChannel)
}

// TuneDirect tunes straight to channel and leaves the chip ready for the
// next tune. Completion is not polled against the chip's STC flag; the
// settle delay is trusted instead (known design gap, kept deliberately).
func (d *Device) TuneDirect(channel uint16) error {
	if channel > ChannelMask {
		return errcode.InvalidChannel
	}
	d.setShadowReg(RegChannel, chanTune|channel)
	if err := d.WriteThrough(RegChannel); err != nil {
		return err
	}
	d.sleep(delayTuneSettle)

	// The STC flag stays set until the tune bit is dropped; clear it now so
	// the chip is ready if the user presses the button again.
	d.setShadowReg(RegChannel, channel)
	return d.WriteThrough(RegChannel)
}

// CurrentChannel returns the channel field from the shadow bank. It is the
// last channel written, not a fresh chip read.
func (d *Device) CurrentChannel() uint16 {
	return d.shadowReg(RegChannel) & ChannelMask
}

// DeviceID returns the mask-programmed device ID register from the shadow
// bank; call ReadAll first. Useful as a presence check during board
// bring-up.
func (d *Device) DeviceID() uint16 {
	return d.shadowReg(RegDeviceID)
}

func deemphasisBits(de uint8) uint16 {
	if de != 0 {
		return cfg1Deemphasis
	}
	return 0
}
