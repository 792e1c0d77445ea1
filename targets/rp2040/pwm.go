//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"

	"gobuggy/core"
)

// PWM_MAX is the duty resolution exposed to the motor code
const PWM_MAX = 255

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
	SetPeriod(period uint64) error
}

// RP2040PWMDriver implements the PWMDriver interface for RP2040
// Leverages RP2040's 8 hardware PWM slices with 2 channels each
type RP2040PWMDriver struct {
	// Key: slice number (0-7), Value: configured period in nanoseconds
	slices map[uint8]uint64

	// Key: pin number, Value: PWM channel
	channels map[uint32]uint8

	// Key: slice number (0-7), Value: PWM peripheral
	peripherals map[uint8]pwmPeripheral
}

// NewRP2040PWMDriver creates a new RP2040 PWM driver
func NewRP2040PWMDriver() *RP2040PWMDriver {
	return &RP2040PWMDriver{
		slices:      make(map[uint8]uint64),
		channels:    make(map[uint32]uint8),
		peripherals: make(map[uint8]pwmPeripheral),
	}
}

// GetMaxValue returns the maximum PWM value (255)
func (d *RP2040PWMDriver) GetMaxValue() uint32 {
	return PWM_MAX
}

// sliceOf maps GPIO N to slice (N >> 1) & 0x7; even pins are channel A,
// odd pins channel B
func sliceOf(pinNum uint32) uint8 {
	return uint8((pinNum >> 1) & 0x7)
}

// ConfigureHardwarePWM configures a pin for hardware PWM output. Both pins
// of a slice share one period; the second caller must ask for the same one.
func (d *RP2040PWMDriver) ConfigureHardwarePWM(pin core.PWMPin, periodNS uint32) (uint32, error) {
	pinNum := uint32(pin)
	sliceNum := sliceOf(pinNum)
	period := uint64(periodNS)

	if existing, ok := d.slices[sliceNum]; ok && existing != period {
		return 0, errors.New("PWM slice already running at a different period")
	}

	pwm, err := d.Slice(pin)
	if err != nil {
		return 0, err
	}
	if _, ok := d.slices[sliceNum]; !ok {
		if err := pwm.Configure(machine.PWMConfig{Period: period}); err != nil {
			return 0, err
		}
	}

	channel, err := pwm.Channel(machine.Pin(pinNum))
	if err != nil {
		return 0, err
	}

	d.slices[sliceNum] = period
	d.channels[pinNum] = channel
	return periodNS, nil
}

// SetDutyCycle sets the PWM duty cycle for a pin
// value: 0 (fully off) to 255 (fully on)
func (d *RP2040PWMDriver) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error {
	pinNum := uint32(pin)

	channel, exists := d.channels[pinNum]
	if !exists {
		return errors.New("PWM pin not configured")
	}
	pwm := d.peripherals[sliceOf(pinNum)]

	// Scale 0-255 onto the slice's counter top
	dutyCycle := (uint32(value) * pwm.Top()) / PWM_MAX
	pwm.Set(channel, dutyCycle)
	return nil
}

// DisablePWM drives the pin low and stops tracking it
func (d *RP2040PWMDriver) DisablePWM(pin core.PWMPin) error {
	pinNum := uint32(pin)
	channel, exists := d.channels[pinNum]
	if !exists {
		return nil
	}
	d.peripherals[sliceOf(pinNum)].Set(channel, 0)
	delete(d.channels, pinNum)
	return nil
}

// Channel returns the slice channel a configured pin drives
func (d *RP2040PWMDriver) Channel(pin core.PWMPin) (uint8, bool) {
	ch, ok := d.channels[uint32(pin)]
	return ch, ok
}

// Slice returns the PWM peripheral serving a pin
func (d *RP2040PWMDriver) Slice(pin core.PWMPin) (pwmPeripheral, error) {
	sliceNum := sliceOf(uint32(pin))
	if pwm, ok := d.peripherals[sliceNum]; ok {
		return pwm, nil
	}

	var pwm pwmPeripheral
	switch sliceNum {
	case 0:
		pwm = machine.PWM0
	case 1:
		pwm = machine.PWM1
	case 2:
		pwm = machine.PWM2
	case 3:
		pwm = machine.PWM3
	case 4:
		pwm = machine.PWM4
	case 5:
		pwm = machine.PWM5
	case 6:
		pwm = machine.PWM6
	case 7:
		pwm = machine.PWM7
	default:
		return nil, errors.New("no such PWM slice")
	}
	d.peripherals[sliceNum] = pwm
	return pwm, nil
}
