//go:build rp2040

// Command boardtest is the manufacturing bring-up check: probe both I2C
// parts, read back the radio's device ID, dump the parameter blocks and
// pulse the indicator. Run it once on a fresh board before flashing the
// real firmware.
package main

import (
	"machine"
	"time"

	"publicradio-go/drivers/eeprom24"
	"publicradio-go/drivers/si4702"
	"publicradio-go/params"
)

const (
	pinSDA        = machine.GP4
	pinSCL        = machine.GP5
	pinRadioReset = machine.GP6
	pinLED        = machine.GP16
)

func hexWord(v uint16) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{
		digits[v>>12&0xF], digits[v>>8&0xF], digits[v>>4&0xF], digits[v&0xF],
	})
}

func dumpBlock(name string, store *params.Store, slot params.Slot) {
	p := store.Decode(slot)
	ok := "BAD CHECKSUM"
	if store.Validate(slot) {
		ok = "ok"
	}
	println("[nvm]", name, "band", p.Band, "deemph", p.Deemphasis,
		"spacing", p.Spacing, "channel", p.Channel, "volume", p.Volume, "--", ok)
}

func main() {
	time.Sleep(3 * time.Second) // let USB CDC enumerate
	println("[boardtest] start")

	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		SDA:       pinSDA,
		SCL:       pinSCL,
		Frequency: 100_000,
	}); err != nil {
		println("[boardtest] FAIL: i2c configure")
		return
	}

	pinRadioReset.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinRadioReset.High()
	time.Sleep(10 * time.Millisecond)

	// Radio: a full register read works even before power-up, and the
	// device ID register is mask-programmed.
	radio := si4702.New(i2c, si4702.Config{})
	if err := radio.ReadAll(); err != nil {
		println("[boardtest] FAIL: radio not responding")
	} else {
		println("[boardtest] radio device id", hexWord(radio.DeviceID()))
	}

	// EEPROM: scratch write outside the parameter blocks, then read back.
	ee := eeprom24.New(i2c, eeprom24.Config{})
	const scratch = 2 * params.BlockSize
	ee.WriteByte(scratch, 0xA5)
	if got := ee.ReadByte(scratch); got != 0xA5 {
		println("[boardtest] FAIL: eeprom read back", got)
	} else {
		println("[boardtest] eeprom ok")
	}

	store := params.NewStore(ee)
	dumpBlock("working", store, params.Working)
	dumpBlock("factory", store, params.Factory)

	// Indicator: slow blink forever so the operator can see the board is
	// alive after the serial console is unplugged.
	pinLED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	println("[boardtest] done, blinking")
	for {
		pinLED.High()
		time.Sleep(200 * time.Millisecond)
		pinLED.Low()
		time.Sleep(800 * time.Millisecond)
	}
}
