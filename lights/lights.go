// Package lights drives the buggy's indicator LEDs through the GPIO HAL.
package lights

import (
	"fmt"
	"time"

	"gobuggy/core"
)

// CueStep is how long each colour of the RGB cue is shown
const CueStep = 200 * time.Millisecond

// Pins assigns the indicator outputs
type Pins struct {
	Heartbeat core.GPIOPin
	Retrace   core.GPIOPin
	Red       core.GPIOPin
	Green     core.GPIOPin
	Blue      core.GPIOPin
}

// Panel is the LED set of one vehicle. It satisfies the navigator's Lights
// collaborator.
type Panel struct {
	gpio  core.GPIODriver
	pins  Pins
	clock core.Clock

	lastErr error
}

// NewPanel configures every pin as an output and switches it off
func NewPanel(gpio core.GPIODriver, pins Pins, clock core.Clock) (*Panel, error) {
	p := &Panel{gpio: gpio, pins: pins, clock: clock}
	for _, pin := range p.all() {
		if err := gpio.ConfigureOutput(pin); err != nil {
			return nil, fmt.Errorf("configure led pin %d: %w", pin, err)
		}
		if err := gpio.SetPin(pin, false); err != nil {
			return nil, fmt.Errorf("clear led pin %d: %w", pin, err)
		}
	}
	return p, nil
}

func (p *Panel) all() []core.GPIOPin {
	return []core.GPIOPin{p.pins.Heartbeat, p.pins.Retrace, p.pins.Red, p.pins.Green, p.pins.Blue}
}

// Heartbeat toggles the driving indicator
func (p *Panel) Heartbeat(on bool) {
	p.set(p.pins.Heartbeat, on)
}

// Retrace switches the return-journey lamp
func (p *Panel) Retrace(on bool) {
	p.set(p.pins.Retrace, on)
}

// Cue flashes red, green and blue in turn, then holds all three off for one
// more step. It blocks for 4 * CueStep.
func (p *Panel) Cue() {
	for i := 0; i < 4; i++ {
		p.rgb(i)
		p.clock.Sleep(CueStep)
	}
}

// rgb lights red, green or blue for 0, 1 or 2; anything else is all off
func (p *Panel) rgb(which int) {
	p.set(p.pins.Red, which == 0)
	p.set(p.pins.Green, which == 1)
	p.set(p.pins.Blue, which == 2)
}

func (p *Panel) set(pin core.GPIOPin, on bool) {
	if err := p.gpio.SetPin(pin, on); err != nil {
		p.lastErr = err
	}
}

// Err returns the last GPIO error, if any
func (p *Panel) Err() error {
	return p.lastErr
}
