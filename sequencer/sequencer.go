// Package sequencer owns the top-level control flow: one linear boot
// sequence with early-exit branches, then an idle loop. There is no
// scheduler underneath; every wait blocks the single foreground task, and
// the only thing that can interrupt a deep sleep is the wake condition the
// platform arms.
//
// Boot order matters and is fixed:
//
//	battery check -> programmer detection -> boot-button factory reset ->
//	working-block corruption check -> radio bring-up -> idle breathing ->
//	deep-sleep/wake loop
//
// The factory-reset check runs before the corruption check on purpose: a
// held button must be able to rescue a device whose working block is bad.
package sequencer

import (
	"time"

	"publicradio-go/button"
	"publicradio-go/errcode"
	"publicradio-go/params"
	"publicradio-go/types"
	"publicradio-go/x/breath"
)

// Diagnostic blink codes: repetitions per display window.
const (
	BlinkNone       = 0
	BlinkLowBattery = 1
	BlinkSaved      = 2
	BlinkBadStore   = 3
)

const (
	// Breathing: 20 ms per curve step, 60 full breaths before deep sleep.
	breathStep   = 20 * time.Millisecond
	breathCycles = 60

	// Low battery: 10% duty-cycle 1 Hz blink for two minutes, then dark.
	lowBatteryBlinks = 120

	// Diagnostic codes stay visible at least this long before sleeping.
	// Long enough to be seen, short enough not to finish off a crusty
	// battery.
	diagnosticDwell = 120 * time.Second

	// Per-blink cadence within a diagnostic window.
	blinkOn  = 10 * time.Millisecond
	blinkOff = 200 * time.Millisecond
	blinkGap = 1000 * time.Millisecond

	// Solid-on confirmation after a long-press save.
	saveFlash = 500 * time.Millisecond
)

// Radio is the tuner driver surface the sequencer drives.
type Radio interface {
	PowerUp(types.TuningParams) error
	TuneDirect(channel uint16) error
	CurrentChannel() uint16
}

// Button is the debounced input surface.
type Button interface {
	Down() bool
	WaitPress() button.Press
}

// PacketHandler consumes one programming packet per call.
type PacketHandler interface {
	HandlePacket() error
}

// Config wires the sequencer's collaborators. Store, Radio, Button, LED,
// Power and Sleep are required; Prog may be nil on hardware without a
// programmer link, and ArmButtonWake/Delay default to no-op/time.Sleep.
type Config struct {
	Store  *params.Store
	Radio  Radio
	Button Button
	LED    types.PWM
	Power  types.VoltageSense
	Sleep  types.Sleeper
	Prog   PacketHandler

	// ArmButtonWake enables the button pin-change wake source. It is
	// called during normal boot only: a device that dies on low battery
	// must stay asleep no matter what the button does.
	ArmButtonWake func()
	// Delay replaces time.Sleep for every fixed wait.
	Delay func(time.Duration)
}

type Sequencer struct {
	store *params.Store
	radio Radio
	btn   Button
	led   types.PWM
	power types.VoltageSense
	sloop types.Sleeper
	prog  PacketHandler
	arm   func()
	sleep func(time.Duration)
}

func New(cfg Config) *Sequencer {
	arm := cfg.ArmButtonWake
	if arm == nil {
		arm = func() {}
	}
	sleep := cfg.Delay
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Sequencer{
		store: cfg.Store,
		radio: cfg.Radio,
		btn:   cfg.Button,
		led:   cfg.LED,
		power: cfg.Power,
		sloop: cfg.Sleep,
		prog:  cfg.Prog,
		arm:   arm,
		sleep: sleep,
	}
}

// Run executes one boot. On hardware it returns only from terminal branches
// whose deep sleep has no wake source armed, i.e. never; the returned code
// names the condition that halted the device, for the entry point's last
// words and for tests with a sleeper that unblocks.
func (s *Sequencer) Run() error {
	if !s.power.BatteryGood() {
		s.lowBatteryShutdown()
		return errcode.LowBattery
	}

	if s.power.ProgrammerPresent() {
		// Powered by the jig, not a battery. Consume packets until the
		// programmer is lifted and power disappears; the radio stays down
		// for the whole session.
		for {
			if s.prog == nil {
				// Sense trips but this board has no link wired; stay down.
				s.sleep(time.Second)
				continue
			}
			_ = s.prog.HandlePacket()
		}
	}

	// Normal operation: PWM for the indicator from here on, and the button
	// edge may now wake us from deep sleep.
	s.led.Enable()
	s.arm()

	if s.btn.Down() {
		s.factoryResetOnBoot()
	}

	if !s.store.Validate(params.Working) {
		// Corrupt settings. Tell the user and go dark; no auto-repair, the
		// explicit boot-button reset is the recovery path.
		s.shutDown(BlinkBadStore)
		return errcode.StoreCorrupt
	}

	if err := s.radio.PowerUp(s.store.Decode(params.Working)); err != nil {
		// The bus never answered; there is nothing to play and no blink
		// code reserved for a dead chip. Bounded dark dwell, then sleep.
		s.shutDown(BlinkNone)
		return &errcode.E{C: errcode.Error, Op: "radio powerup", Err: err}
	}

	s.idleBreathing()
	s.deepSleepLoop()
	return nil
}

// lowBatteryShutdown blinks the low-battery code at full drive for two
// minutes, then sleeps without any wake source armed. Terminal. This branch
// runs before the normal-boot LED enable, so the output must be connected
// here or the warning is dark.
func (s *Sequencer) lowBatteryShutdown() {
	s.led.Enable()
	for i := 0; i < lowBatteryBlinks; i++ {
		s.led.SetDuty(255)
		s.sleep(100 * time.Millisecond)
		s.led.SetDuty(0)
		s.sleep(900 * time.Millisecond)
	}
	s.led.Disable()
	s.sloop.DeepSleep()
}

// factoryResetOnBoot double-blinks while the boot-held button stays down,
// then unconditionally reverts the working block to factory. The blink runs
// for the whole hold so the user knows what releasing will do.
func (s *Sequencer) factoryResetOnBoot() {
	for s.btn.Down() {
		s.led.SetDuty(255)
		s.sleep(100 * time.Millisecond)
		s.led.SetDuty(0)
		s.sleep(100 * time.Millisecond)
		s.led.SetDuty(255)
		s.sleep(100 * time.Millisecond)
		s.led.SetDuty(0)
		s.sleep(900 * time.Millisecond)
	}
	s.store.CopyFactoryToWorking()
}

// shutDown shows a diagnostic blink code for the minimum dwell, then goes to
// sleep for good. Every terminal condition passes through here so nothing
// ever halts silently.
func (s *Sequencer) shutDown(code int) {
	var elapsed time.Duration
	for elapsed < diagnosticDwell {
		for i := 0; i < code; i++ {
			s.led.SetDuty(255)
			s.sleep(blinkOn)
			s.led.SetDuty(0)
			s.sleep(blinkOff)
			elapsed += blinkOn + blinkOff
		}
		s.sleep(blinkGap)
		elapsed += blinkGap
	}
	s.led.Disable()
	s.sloop.DeepSleep()
}

// idleBreathing plays the breathing curve for a bounded number of cycles so
// the user knows the device is alive even if the station is silent. The
// button is sampled at every step; a press runs the handler and restarts the
// curve from its first step.
func (s *Sequencer) idleBreathing() {
	for cycle := 0; cycle < breathCycles; cycle++ {
		for step := 0; step < breath.Len; step++ {
			s.led.SetDuty(breath.At(step))
			s.sleep(breathStep)
			if s.btn.Down() {
				s.handleButton()
				step = -1
			}
		}
	}
}

// deepSleepLoop is the steady state: dark, asleep, waiting for the button
// edge or the watchdog tick. Wakes that don't find the button down go
// straight back to sleep.
func (s *Sequencer) deepSleepLoop() {
	for {
		s.led.Disable()
		s.sloop.DeepSleep()
		if s.btn.Down() {
			s.led.Enable()
			s.handleButton()
		}
	}
}

// handleButton services one press from either the breathing loop or a deep
// sleep wake. Short: next channel, wrapping at the top of the band. Long:
// persist the currently tuned channel with a solid-on confirmation.
func (s *Sequencer) handleButton() {
	s.led.SetDuty(0) // acknowledge the press

	switch s.btn.WaitPress() {
	case button.PressShort:
		ch := s.radio.CurrentChannel() + 1
		if ch > types.TopChannel {
			ch = 0
		}
		_ = s.radio.TuneDirect(ch)
	case button.PressLong:
		s.led.SetDuty(255)
		s.store.UpdateChannel(s.radio.CurrentChannel())
		s.sleep(saveFlash)
		s.led.SetDuty(0)
	}
}
