//go:build rp2040 || rp2350

package main

import (
	"errors"

	"tinygo.org/x/drivers/l9110x"

	"gobuggy/core"
	"gobuggy/motor"
)

// l9110Wheel drives one motor through an L9110 bridge. Both inputs must be
// the A and B pins of one PWM slice.
type l9110Wheel struct {
	dev l9110x.PWMDevice
}

func newL9110Wheel(pwm *RP2040PWMDriver, ia, ib core.PWMPin, periodNS uint32) (*l9110Wheel, error) {
	if uint32(ia)>>1 != uint32(ib)>>1 {
		return nil, errors.New("l9110 inputs must share a PWM slice")
	}
	for _, pin := range []core.PWMPin{ia, ib} {
		if _, err := pwm.ConfigureHardwarePWM(pin, periodNS); err != nil {
			return nil, err
		}
	}
	slice, err := pwm.Slice(ia)
	if err != nil {
		return nil, err
	}
	ca, _ := pwm.Channel(ia)
	cb, _ := pwm.Channel(ib)

	w := &l9110Wheel{dev: l9110x.NewWithSpeed(ca, cb, slice)}
	return w, w.dev.Configure()
}

// Set drives the bridge. Power and the driver's speed are both percentages.
func (w *l9110Wheel) Set(dir motor.Direction, power uint8) {
	speed := motor.Percent(power)
	switch {
	case speed == 0:
		w.dev.Stop()
	case dir == motor.Reverse:
		w.dev.Backward(speed)
	default:
		w.dev.Forward(speed)
	}
}
