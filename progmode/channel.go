// Package progmode receives programming packets while an external
// programmer's elevated supply voltage is powering the device. Packets
// bypass the button path entirely and write straight into the working
// parameter block; the radio stays held in reset for the whole session.
//
// Packet format, no framing or addressing:
//
//	byte 0  channel high
//	byte 1  channel low
//	byte 2  checksum high
//	byte 3  checksum low
//
// The checksum is the same CRC-16 used for the parameter blocks, computed
// over the two channel bytes only.
package progmode

import (
	"time"

	"publicradio-go/errcode"
	"publicradio-go/params"
	"publicradio-go/x/crc16"
)

// ByteSource delivers programmer link bytes one at a time. ReadByte blocks
// until a byte arrives or the link faults.
type ByteSource interface {
	ReadByte() (byte, error)
}

// Feedback codes shown to the operator, matching the boot-time diagnostic
// blink codes.
const (
	FeedbackAccepted = 2
	FeedbackRejected = 1
)

// Channel validates packets from a programmer link and applies them to the
// parameter store.
type Channel struct {
	src   ByteSource
	store *params.Store

	// feedback blinks the indicator LED n times; nil is allowed.
	feedback func(n uint8)
	sleep    func(time.Duration)
}

func New(src ByteSource, store *params.Store, feedback func(n uint8), sleep func(time.Duration)) *Channel {
	if feedback == nil {
		feedback = func(uint8) {}
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Channel{src: src, store: store, feedback: feedback, sleep: sleep}
}

// HandlePacket reads one packet and acts on it. A checksum mismatch discards
// the packet, produces the rejection indicator and returns errcode.BadPacket;
// the store is untouched. A short read aborts without feedback: the link
// dropped, there is no operator decision to report.
func (c *Channel) HandlePacket() error {
	var crc uint16

	hi, err := c.src.ReadByte()
	if err != nil {
		return errcode.ShortRead
	}
	crc = crc16.Update(crc, hi)

	lo, err := c.src.ReadByte()
	if err != nil {
		return errcode.ShortRead
	}
	crc = crc16.Update(crc, lo)

	channel := uint16(hi)<<8 | uint16(lo)

	rxHi, err := c.src.ReadByte()
	if err != nil {
		return errcode.ShortRead
	}
	rxLo, err := c.src.ReadByte()
	if err != nil {
		return errcode.ShortRead
	}
	received := uint16(rxHi)<<8 | uint16(rxLo)

	if crc != received {
		c.feedback(FeedbackRejected)
		return errcode.BadPacket
	}

	// Let the supply capacitor recover before the EEPROM write burst; the
	// programmer contact can't deliver much current.
	c.sleep(50 * time.Millisecond)

	c.store.UpdateChannel(channel)
	c.feedback(FeedbackAccepted)
	return nil
}
