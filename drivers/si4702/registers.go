// Package si4702 provides constants for register addresses and bitfields used
// in the operation of the Si4702 FM receiver.
package si4702

const (
	// 7-bit I2C address, fixed in silicon ("a seven bit device address
	// equal to 0010000").
	AddressDefault = 0x10

	// --- Logical register numbers (chip numbering) ---

	RegDeviceID   = 0x00
	RegChipID     = 0x01
	RegPowerCfg   = 0x02 // bulk writes always start here
	RegChannel    = 0x03
	RegSysConfig1 = 0x04
	RegSysConfig2 = 0x05
	RegSysConfig3 = 0x06
	RegTest1      = 0x07
	RegTest2      = 0x08
	RegBootConfig = 0x09 // last register reachable by a contiguous write
	RegStatusRSSI = 0x0A // bulk reads always start here and wrap
	RegReadChan   = 0x0B
	RegRDSA       = 0x0C
	RegRDSB       = 0x0D
	RegRDSC       = 0x0E
	RegRDSD       = 0x0F

	// --- POWERCFG (0x02) ---
	pwrDSMute = 1 << 15 // softmute disable
	pwrDMute  = 1 << 14 // mute disable
	pwrMono   = 1 << 13 // mono select
	pwrEnable = 1 << 1  // powerup enable

	// --- CHANNEL (0x03) ---
	chanTune = 1 << 15 // tune-start flag; must be cleared before the next tune
	// ChannelMask covers the 9-bit channel field.
	ChannelMask = 0x01FF

	// --- SYSCONFIG1 (0x04) ---
	cfg1Deemphasis = 1 << 11 // 50 µs de-emphasis

	// --- SYSCONFIG2 (0x05): band[7:6], spacing[5:4], volume[3:0] ---
	cfg2BandShift  = 6
	cfg2SpaceShift = 4
	cfg2VolumeMask = 0x0F

	// --- TEST1 (0x07) ---
	// Crystal oscillator enable plus the reserved-bit image the datasheet
	// requires while in powerdown.
	test1XOscEn = 0x8100
)

// shadowOffset maps a logical register number to its byte offset in the
// 32-byte shadow bank. Reads start at RegStatusRSSI and wrap from 0x0F back
// to 0x00, so wire order differs from register numbering; the table keeps
// that asymmetry explicit. Registers 0x02..0x09 land contiguously, which is
// what makes a single contiguous write-back of the config registers possible.
var shadowOffset = [16]uint8{
	0x00: 12,
	0x01: 14,
	0x02: 16,
	0x03: 18,
	0x04: 20,
	0x05: 22,
	0x06: 24,
	0x07: 26,
	0x08: 28,
	0x09: 30,
	0x0A: 0,
	0x0B: 2,
	0x0C: 4,
	0x0D: 6,
	0x0E: 8,
	0x0F: 10,
}
