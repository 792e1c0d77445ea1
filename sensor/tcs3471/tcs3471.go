// Package tcs3471 provides a driver for the TCS3471 RGBC light-to-digital
// converter found on the MikroElektronika Color Click.
//
// The driver enables the clear-channel interrupt so that the INT pin falls
// when the clear count leaves the configured window, which the vehicle uses
// as its obstacle signal.
package tcs3471 // import "gobuggy/sensor/tcs3471"

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"

	"gobuggy/color"
)

// ErrNotConnected is returned when the ID register does not match a TCS3471
var ErrNotConnected = errors.New("tcs3471: device not found")

// Config holds the acquisition and interrupt settings
type Config struct {
	// IntegrationTime is written to ATIME; 0xD5 is 43 cycles, about 103ms
	IntegrationTime uint8

	// Clear-channel interrupt window. The interrupt asserts when the clear
	// count falls outside [ClearLow, ClearHigh].
	ClearLow  uint16
	ClearHigh uint16

	// Persistence is the PERS filter value (consecutive out-of-window cycles)
	Persistence uint8

	// Interrupt enables the RGBC interrupt (AIEN)
	Interrupt bool

	// Sleep is used for the power-on delay. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// DefaultConfig returns the settings used on the reference buggy
func DefaultConfig() Config {
	return Config{
		IntegrationTime: 0xD5,
		ClearLow:        0,
		ClearHigh:       1500,
		Persistence:     3,
		Interrupt:       true,
	}
}

// Device wraps an I2C connection to a TCS3471 device.
type Device struct {
	bus     drivers.I2C
	Address uint16
	cfg     Config

	buf  [8]byte
	last color.Sample
}

// New creates a new TCS3471 connection. The I2C bus must already be
// configured.
//
// This function only creates the Device object, it does not touch the device.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus:     bus,
		Address: Address,
		cfg:     DefaultConfig(),
	}
}

// Connected returns whether a TCS3471 has been found
func (d *Device) Connected() bool {
	id, err := d.readRegister(REG_ID)
	if err != nil {
		return false
	}
	return id == ID_TCS34711 || id == ID_TCS34713
}

// Probe returns ErrNotConnected unless the ID register matches
func (d *Device) Probe() error {
	if !d.Connected() {
		return ErrNotConnected
	}
	return nil
}

// Configure powers the device up, starts the RGBC ADC and programs the
// interrupt window.
func (d *Device) Configure(cfg Config) error {
	if cfg.IntegrationTime == 0 {
		cfg.IntegrationTime = DefaultConfig().IntegrationTime
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	d.cfg = cfg

	if err := d.writeRegister(REG_ENABLE, ENABLE_PON); err != nil {
		return err
	}
	cfg.Sleep(3 * time.Millisecond)

	if err := d.writeRegister(REG_ENABLE, ENABLE_PON|ENABLE_AEN); err != nil {
		return err
	}
	if err := d.writeRegister(REG_ATIME, cfg.IntegrationTime); err != nil {
		return err
	}
	if !cfg.Interrupt {
		return nil
	}

	if err := d.writeRegister(REG_ENABLE, ENABLE_PON|ENABLE_AEN|ENABLE_AIEN); err != nil {
		return err
	}
	if err := d.writeRegister(REG_PERS, cfg.Persistence&0x0F); err != nil {
		return err
	}
	if err := d.ClearInterrupt(); err != nil {
		return err
	}
	thresholds := [...]struct {
		reg uint8
		val uint8
	}{
		{REG_AILTL, uint8(cfg.ClearLow)},
		{REG_AILTH, uint8(cfg.ClearLow >> 8)},
		{REG_AIHTL, uint8(cfg.ClearHigh)},
		{REG_AIHTH, uint8(cfg.ClearHigh >> 8)},
	}
	for _, th := range thresholds {
		if err := d.writeRegister(th.reg, th.val); err != nil {
			return err
		}
	}
	return nil
}

// ReadColor reads the four channels in one auto-increment transaction
func (d *Device) ReadColor() (color.Sample, error) {
	if err := d.bus.Tx(d.Address, []byte{CMD_BIT | CMD_AUTO_INC | REG_CDATAL}, d.buf[:]); err != nil {
		return color.Sample{}, err
	}
	d.last = color.Sample{
		Clear: uint16(d.buf[0]) | uint16(d.buf[1])<<8,
		Red:   uint16(d.buf[2]) | uint16(d.buf[3])<<8,
		Green: uint16(d.buf[4]) | uint16(d.buf[5])<<8,
		Blue:  uint16(d.buf[6]) | uint16(d.buf[7])<<8,
	}
	return d.last, nil
}

// Update implements drivers.Sensor. Only Luminosity is measured.
func (d *Device) Update(which drivers.Measurement) error {
	if which&drivers.Luminosity == 0 {
		return nil
	}
	_, err := d.ReadColor()
	return err
}

// Last returns the sample from the most recent read
func (d *Device) Last() color.Sample {
	return d.last
}

// ClearInterrupt acknowledges a pending RGBC interrupt, releasing INT
func (d *Device) ClearInterrupt() error {
	return d.bus.Tx(d.Address, []byte{CMD_BIT | CMD_SPECIAL | CLEAR_INT_SPF}, nil)
}

func (d *Device) writeRegister(reg, value uint8) error {
	return d.bus.Tx(d.Address, []byte{CMD_BIT | reg, value}, nil)
}

func (d *Device) readRegister(reg uint8) (uint8, error) {
	var b [1]byte
	err := d.bus.Tx(d.Address, []byte{CMD_BIT | reg}, b[:])
	return b[0], err
}
