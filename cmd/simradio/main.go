// Command simradio runs the full control flow against simulated hardware on
// the host: in-memory NVM seeded with the factory image, a register-less fake
// tuner, a scripted button and a virtual clock. Useful for eyeballing the
// boot narrative and the indicator behaviour without a board.
package main

import (
	"os"
	"time"

	"publicradio-go/button"
	"publicradio-go/errcode"
	"publicradio-go/params"
	"publicradio-go/sequencer"
	"publicradio-go/types"
	"publicradio-go/x/mathx"
)

type memNVM struct{ mem [64]byte }

func (m *memNVM) ReadByte(addr uint16) byte     { return m.mem[addr] }
func (m *memNVM) WriteByte(addr uint16, b byte) { m.mem[addr] = b }

// clock is the virtual timeline; every sequencer wait advances it.
var clock time.Duration

func advance(d time.Duration) { clock += d }

func stamp() string {
	ms := int(clock / time.Millisecond)
	return "t+" + itoa(ms) + "ms"
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [12]byte
	b := len(buf)
	for i > 0 {
		b--
		buf[b] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[b:])
}

type simRadio struct{ channel uint16 }

func mhz(channel uint16) string {
	// 76.0 MHz base, 100 kHz spacing.
	k := 7600 + int(channel)*10
	return itoa(k/100) + "." + itoa(k%100/10) + " MHz"
}

func (r *simRadio) PowerUp(p types.TuningParams) error {
	r.channel = p.Channel
	println(stamp(), "[radio] power-up, tuned", mhz(r.channel), "volume", p.Volume)
	return nil
}

func (r *simRadio) TuneDirect(channel uint16) error {
	r.channel = channel
	println(stamp(), "[radio] tuned", mhz(channel))
	return nil
}

func (r *simRadio) CurrentChannel() uint16 { return r.channel }

// simLED prints a brightness bar, throttled to visible changes so the
// breathing curve doesn't flood the terminal.
type simLED struct{ last uint8 }

func (l *simLED) SetDuty(level uint8) {
	delta := int(level) - int(l.last)
	if mathx.Max(delta, -delta) < 48 && level != 0 && level != 255 {
		return
	}
	l.last = level
	bar := "################################"
	n := mathx.Clamp(int(level)/8, 0, len(bar))
	println(stamp(), "[led]", bar[:n])
}

func (l *simLED) Enable()  { println(stamp(), "[led] on") }
func (l *simLED) Disable() { println(stamp(), "[led] off") }

// simButton injects a scripted press at every Nth idle poll.
type simButton struct {
	presses []button.Press
	every   int
	polls   int
}

func (b *simButton) Down() bool {
	if len(b.presses) == 0 {
		return false
	}
	b.polls++
	return b.polls%b.every == 0
}

func (b *simButton) WaitPress() button.Press {
	p := b.presses[0]
	b.presses = b.presses[1:]
	if p == button.PressShort {
		println(stamp(), "[button] short press")
	} else {
		println(stamp(), "[button] long press")
	}
	return p
}

type simPower struct{}

func (simPower) BatteryGood() bool       { return true }
func (simPower) ProgrammerPresent() bool { return false }

// simSleeper ends the run after a few deep-sleep cycles.
type simSleeper struct{ wakes int }

func (s *simSleeper) DeepSleep() {
	s.wakes++
	println(stamp(), "[power] deep sleep, wake", s.wakes)
	advance(8 * time.Second)
	if s.wakes >= 3 {
		println(stamp(), "[sim] done")
		os.Exit(0)
	}
}

func main() {
	nvm := &memNVM{}
	img, err := params.FactoryImage()
	if err != nil {
		println("[sim] factory image:", err.Error())
		os.Exit(1)
	}
	copy(nvm.mem[int(params.Working):], img[:])
	copy(nvm.mem[int(params.Factory):], img[:])

	seq := sequencer.New(sequencer.Config{
		Store: params.NewStore(nvm),
		Radio: &simRadio{},
		// Two station steps, then save, spread across the idle phase.
		Button: &simButton{
			presses: []button.Press{button.PressShort, button.PressShort, button.PressLong},
			every:   400,
		},
		LED:           &simLED{},
		Power:         simPower{},
		Sleep:         &simSleeper{},
		ArmButtonWake: func() { println(stamp(), "[power] button wake armed") },
		Delay:         advance,
	})
	if err := seq.Run(); err != nil {
		println(stamp(), "[sim] halted:", string(errcode.Of(err)))
	}
}
