package motor

import (
	"fmt"

	"gobuggy/core"
)

// DefaultPWMPeriodNS is a 10 kHz motor PWM
const DefaultPWMPeriodNS = 100000

// PWMWheel drives a sign-magnitude H-bridge input pair: one PWM pin and one
// direction pin. With the direction pin high the bridge inverts, so the duty
// is measured from the top of the period.
type PWMWheel struct {
	pwm    core.PWMDriver
	gpio   core.GPIODriver
	pwmPin core.PWMPin
	dirPin core.GPIOPin

	lastErr error
}

// NewPWMWheel configures the pins and leaves the wheel stopped
func NewPWMWheel(pwm core.PWMDriver, gpio core.GPIODriver, pwmPin core.PWMPin, dirPin core.GPIOPin, periodNS uint32) (*PWMWheel, error) {
	if periodNS == 0 {
		periodNS = DefaultPWMPeriodNS
	}
	if _, err := pwm.ConfigureHardwarePWM(pwmPin, periodNS); err != nil {
		return nil, fmt.Errorf("configure pwm pin %d: %w", pwmPin, err)
	}
	if err := gpio.ConfigureOutput(dirPin); err != nil {
		return nil, fmt.Errorf("configure dir pin %d: %w", dirPin, err)
	}

	w := &PWMWheel{pwm: pwm, gpio: gpio, pwmPin: pwmPin, dirPin: dirPin}
	w.Set(Forward, 0)
	return w, w.lastErr
}

// Duty maps a command onto a duty value for a PWM with the given maximum
func Duty(dir Direction, power uint8, max uint32) core.PWMValue {
	on := Percent(power) * max / MaxPower
	if dir == Reverse {
		return core.PWMValue(max - on)
	}
	return core.PWMValue(on)
}

// Percent returns power as a duty percentage, capped at MaxPower
func Percent(power uint8) uint32 {
	if power > MaxPower {
		power = MaxPower
	}
	return uint32(power)
}

// Set writes the duty and direction pin. Hardware errors are kept for Err.
func (w *PWMWheel) Set(dir Direction, power uint8) {
	duty := Duty(dir, power, w.pwm.GetMaxValue())
	if err := w.pwm.SetDutyCycle(w.pwmPin, duty); err != nil {
		w.lastErr = err
	}
	if err := w.gpio.SetPin(w.dirPin, dir == Reverse); err != nil {
		w.lastErr = err
	}
}

// Err returns the last hardware error seen by Set, if any
func (w *PWMWheel) Err() error {
	return w.lastErr
}

// Disable stops PWM output on the wheel
func (w *PWMWheel) Disable() error {
	return w.pwm.DisablePWM(w.pwmPin)
}
