//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"
	"sync"

	"tinygo.org/x/drivers"

	"gobuggy/core"
)

// RPI2CDriver implements core.I2CDriver using TinyGo's machine.I2C for RP2040/RP2350.
type RPI2CDriver struct {
	mu sync.Mutex

	// RP2040/RP2350 have I2C0 and I2C1
	buses map[core.I2CBusID]*machine.I2C

	// Pin overrides per bus, applied at configure time
	pins map[core.I2CBusID][2]machine.Pin
}

// NewRPI2CDriver constructs the driver
func NewRPI2CDriver() *RPI2CDriver {
	return &RPI2CDriver{
		buses: make(map[core.I2CBusID]*machine.I2C),
		pins:  make(map[core.I2CBusID][2]machine.Pin),
	}
}

// SetPins selects SDA and SCL for a bus before it is configured
func (d *RPI2CDriver) SetPins(bus core.I2CBusID, sda, scl machine.Pin) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pins[bus] = [2]machine.Pin{sda, scl}
}

// ConfigureBus initializes a specific I2C bus with the given frequency.
func (d *RPI2CDriver) ConfigureBus(bus core.I2CBusID, frequencyHz uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i2c, ok := d.buses[bus]; ok {
		return i2c.SetBaudRate(frequencyHz)
	}

	var i2c *machine.I2C
	switch bus {
	case 0:
		// I2C0 - Default pins: SDA=GP4, SCL=GP5
		i2c = machine.I2C0
	case 1:
		// I2C1 - Default pins: SDA=GP6, SCL=GP7
		i2c = machine.I2C1
	default:
		return errors.New("unsupported I2C bus ID")
	}

	cfg := machine.I2CConfig{Frequency: frequencyHz}
	if p, ok := d.pins[bus]; ok {
		cfg.SDA, cfg.SCL = p[0], p[1]
	}
	if err := i2c.Configure(cfg); err != nil {
		return err
	}

	d.buses[bus] = i2c
	return nil
}

// Bus returns a configured bus for a device driver to use
func (d *RPI2CDriver) Bus(bus core.I2CBusID) (drivers.I2C, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i2c, ok := d.buses[bus]
	if !ok {
		return nil, errors.New("I2C bus not configured")
	}
	return i2c, nil
}
