//go:build rp2040

package main

import (
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"publicradio-go/button"
	"publicradio-go/drivers/eeprom24"
	"publicradio-go/drivers/si4702"
	"publicradio-go/errcode"
	"publicradio-go/params"
	"publicradio-go/progmode"
	"publicradio-go/sequencer"
	"publicradio-go/x/mathx"
)

// Board wiring (Pico-based prototype).
const (
	pinSDA        = machine.GP4
	pinSCL        = machine.GP5
	pinRadioReset = machine.GP6
	pinButton     = machine.GP7
	pinLED        = machine.GP16 // PWM slice 0, channel A
	pinVsys       = machine.GP29 // ADC3, VSYS/3 divider on the Pico
)

// VSYS/3 thresholds against the 3.3 V ADC reference, in raw 16-bit counts.
// 3.1 V is the radio's minimum operating supply; 4.4 V only appears when the
// programming jig back-powers the board.
const (
	vsysBatteryMin = 20500
	vsysProgrammer = 29100
)

// ledPWM maps the logical 0..255 indicator level onto the PWM slice.
// Disable parks the pin as a driven low output so the sleeping board does
// not leak through the LED.
type ledPWM struct {
	ctrl interface {
		Configure(cfg machine.PWMConfig) error
		Top() uint32
		Set(channel uint8, value uint32)
	}
	ch    uint8
	hwTop uint32
}

func (l *ledPWM) SetDuty(level uint8) {
	v := uint32(level) * l.hwTop / 255
	l.ctrl.Set(l.ch, mathx.Min(v, l.hwTop))
}

func (l *ledPWM) Enable() {
	pinLED.Configure(machine.PinConfig{Mode: machine.PinPWM})
	l.ctrl.Set(l.ch, 0)
}

func (l *ledPWM) Disable() {
	pinLED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinLED.Low()
}

type buttonPin struct{}

func (buttonPin) Get() bool { return pinButton.Get() }

// vsysSense reads the Pico's VSYS/3 divider.
type vsysSense struct{ adc machine.ADC }

func (v *vsysSense) BatteryGood() bool       { return v.adc.Get() >= vsysBatteryMin }
func (v *vsysSense) ProgrammerPresent() bool { return v.adc.Get() >= vsysProgrammer }

// parkSleeper is the closest thing to a deep sleep the runtime offers: park
// in long timer waits, returning early on a button press so wake latency
// stays human. The RP2040's dormant mode would cut this further but the
// runtime does not expose it.
type parkSleeper struct{}

func (parkSleeper) DeepSleep() {
	deadline := time.Now().Add(8 * time.Second) // watchdog-tick cadence
	for time.Now().Before(deadline) {
		if !pinButton.Get() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func main() {
	// Shared two-wire bus: radio and EEPROM.
	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		SDA:       pinSDA,
		SCL:       pinSCL,
		Frequency: 100_000,
	}); err != nil {
		println("[boot] i2c configure failed")
		return
	}

	pinRadioReset.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinRadioReset.Low() // hold the radio in reset until PowerUp releases it
	pinButton.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	led := &ledPWM{ctrl: machine.PWM0}
	if err := led.ctrl.Configure(machine.PWMConfig{Period: 1e9 / 25_000}); err != nil {
		println("[boot] pwm configure failed")
		return
	}
	ch, err := machine.PWM0.Channel(pinLED)
	if err != nil {
		println("[boot] pwm channel failed")
		return
	}
	led.ch = ch
	led.hwTop = led.ctrl.Top()

	machine.InitADC()
	sense := &vsysSense{adc: machine.ADC{Pin: pinVsys}}
	sense.adc.Configure(machine.ADCConfig{})

	store := params.NewStore(eeprom24.New(i2c, eeprom24.Config{}))

	radio := si4702.New(i2c, si4702.Config{
		ReleaseReset: func() { pinRadioReset.High() },
	})

	// Programmer link on UART0 default pins.
	_ = uartx.UART0.Configure(uartx.UARTConfig{BaudRate: 9600})
	prog := progmode.New(progmode.NewUARTSource(uartx.UART0), store, func(blinks uint8) {
		for i := uint8(0); i < blinks; i++ {
			led.SetDuty(255)
			time.Sleep(100 * time.Millisecond)
			led.SetDuty(0)
			time.Sleep(200 * time.Millisecond)
		}
	}, nil)

	seq := sequencer.New(sequencer.Config{
		Store:  store,
		Radio:  radio,
		Button: button.New(buttonPin{}, nil),
		LED:    led,
		Power:  sense,
		Sleep:  parkSleeper{},
		Prog:   prog,
		ArmButtonWake: func() {
			_ = pinButton.SetInterrupt(machine.PinFalling, func(machine.Pin) {})
		},
	})
	if err := seq.Run(); err != nil {
		println("[boot] halted:", string(errcode.Of(err)))
	}
}
