// Package config loads the vehicle description: calibration, pin map,
// sensor setup and telemetry options.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gobuggy/color"
	"gobuggy/pathmem"
)

// ErrInvalidConfig is returned for structurally valid JSON that describes an
// unusable vehicle.
var ErrInvalidConfig = errors.New("invalid vehicle config")

// Motor driver kinds
const (
	DriverDirPWM = "dir_pwm" // one PWM and one direction pin per wheel
	DriverL9110  = "l9110"   // two PWM inputs per wheel
)

// VehicleConfig is the complete vehicle configuration
type VehicleConfig struct {
	Calibration  color.Profile   `json:"calibration"`
	PathCapacity int             `json:"path_capacity"`
	MotorDriver  string          `json:"motor_driver"`
	Pins         PinConfig       `json:"pins"`
	Sensor       SensorConfig    `json:"sensor"`
	Telemetry    TelemetryConfig `json:"telemetry"`
	Debug        bool            `json:"debug"`
}

// PinConfig names the GPIOs, e.g. "gpio15". For the l9110 driver the
// *_dir pins carry the second PWM input.
type PinConfig struct {
	LeftPWM   string `json:"left_pwm"`
	LeftDir   string `json:"left_dir"`
	RightPWM  string `json:"right_pwm"`
	RightDir  string `json:"right_dir"`
	Obstacle  string `json:"obstacle"`
	Heartbeat string `json:"heartbeat"`
	Retrace   string `json:"retrace"`
	Red       string `json:"red"`
	Green     string `json:"green"`
	Blue      string `json:"blue"`
	SDA       string `json:"sda"`
	SCL       string `json:"scl"`
}

// SensorConfig sets up the colour sensor and its obstacle interrupt
type SensorConfig struct {
	Frequency       uint32 `json:"i2c_frequency"`
	IntegrationTime uint8  `json:"integration_time"`
	ClearLow        uint16 `json:"clear_low"`
	ClearHigh       uint16 `json:"clear_high"`
	Persistence     uint8  `json:"persistence"`
}

// TelemetryConfig sets up the diagnostic UART stream
type TelemetryConfig struct {
	Baud   uint32 `json:"baud"`
	Buffer int    `json:"buffer"`
}

// LoadConfig parses a JSON configuration, fills defaults and validates it
func LoadConfig(jsonData []byte) (*VehicleConfig, error) {
	var config VehicleConfig

	if err := json.Unmarshal(jsonData, &config); err != nil {
		return nil, fmt.Errorf("parse vehicle config: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills in missing configuration values from the reference buggy
func applyDefaults(config *VehicleConfig) {
	def := DefaultConfig()

	if config.Calibration == (color.Profile{}) {
		config.Calibration = def.Calibration
	}
	if config.PathCapacity == 0 {
		config.PathCapacity = def.PathCapacity
	}
	if config.MotorDriver == "" {
		config.MotorDriver = def.MotorDriver
	}

	pins := []struct {
		dst *string
		src string
	}{
		{&config.Pins.LeftPWM, def.Pins.LeftPWM},
		{&config.Pins.LeftDir, def.Pins.LeftDir},
		{&config.Pins.RightPWM, def.Pins.RightPWM},
		{&config.Pins.RightDir, def.Pins.RightDir},
		{&config.Pins.Obstacle, def.Pins.Obstacle},
		{&config.Pins.Heartbeat, def.Pins.Heartbeat},
		{&config.Pins.Retrace, def.Pins.Retrace},
		{&config.Pins.Red, def.Pins.Red},
		{&config.Pins.Green, def.Pins.Green},
		{&config.Pins.Blue, def.Pins.Blue},
		{&config.Pins.SDA, def.Pins.SDA},
		{&config.Pins.SCL, def.Pins.SCL},
	}
	for _, p := range pins {
		if *p.dst == "" {
			*p.dst = p.src
		}
	}

	// A zero low threshold is meaningful, so only the others default
	if config.Sensor.Frequency == 0 {
		config.Sensor.Frequency = def.Sensor.Frequency
	}
	if config.Sensor.IntegrationTime == 0 {
		config.Sensor.IntegrationTime = def.Sensor.IntegrationTime
	}
	if config.Sensor.ClearHigh == 0 {
		config.Sensor.ClearHigh = def.Sensor.ClearHigh
	}
	if config.Sensor.Persistence == 0 {
		config.Sensor.Persistence = def.Sensor.Persistence
	}

	if config.Telemetry.Baud == 0 {
		config.Telemetry.Baud = def.Telemetry.Baud
	}
	if config.Telemetry.Buffer == 0 {
		config.Telemetry.Buffer = def.Telemetry.Buffer
	}
}

// Validate rejects a configuration the vehicle cannot run with
func (c *VehicleConfig) Validate() error {
	if err := c.Calibration.Validate(); err != nil {
		return fmt.Errorf("calibration: %w", err)
	}
	if c.PathCapacity < 1 || c.PathCapacity > pathmem.MaxCapacity {
		return fmt.Errorf("%w: path_capacity %d outside [1, %d]", ErrInvalidConfig, c.PathCapacity, pathmem.MaxCapacity)
	}
	if c.MotorDriver != DriverDirPWM && c.MotorDriver != DriverL9110 {
		return fmt.Errorf("%w: unknown motor_driver %q", ErrInvalidConfig, c.MotorDriver)
	}
	if c.Sensor.ClearLow >= c.Sensor.ClearHigh {
		return fmt.Errorf("%w: clear_low %d >= clear_high %d", ErrInvalidConfig, c.Sensor.ClearLow, c.Sensor.ClearHigh)
	}
	if c.Telemetry.Buffer < 2 {
		return fmt.Errorf("%w: telemetry buffer %d < 2", ErrInvalidConfig, c.Telemetry.Buffer)
	}

	seen := make(map[uint8]string)
	for name, pin := range c.Pins.byName() {
		n, err := ParsePin(pin)
		if err != nil {
			return fmt.Errorf("pin %s: %w", name, err)
		}
		if other, dup := seen[n]; dup {
			return fmt.Errorf("%w: pins %s and %s both use %s", ErrInvalidConfig, other, name, pin)
		}
		seen[n] = name
	}
	return nil
}

func (p PinConfig) byName() map[string]string {
	return map[string]string{
		"left_pwm":  p.LeftPWM,
		"left_dir":  p.LeftDir,
		"right_pwm": p.RightPWM,
		"right_dir": p.RightDir,
		"obstacle":  p.Obstacle,
		"heartbeat": p.Heartbeat,
		"retrace":   p.Retrace,
		"red":       p.Red,
		"green":     p.Green,
		"blue":      p.Blue,
		"sda":       p.SDA,
		"scl":       p.SCL,
	}
}

// ParsePin converts a pin name such as "gpio15" or "GP15" to its number
func ParsePin(name string) (uint8, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.HasPrefix(s, "gpio"):
		s = s[4:]
	case strings.HasPrefix(s, "gp"):
		s = s[2:]
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n > 47 {
		return 0, fmt.Errorf("%w: bad pin name %q", ErrInvalidConfig, name)
	}
	return uint8(n), nil
}

// DefaultConfig returns the reference buggy on a Pico carrier
func DefaultConfig() *VehicleConfig {
	return &VehicleConfig{
		Calibration:  color.DefaultProfile,
		PathCapacity: pathmem.DefaultCapacity,
		MotorDriver:  DriverDirPWM,
		Pins: PinConfig{
			LeftPWM:   "gpio2",
			LeftDir:   "gpio3",
			RightPWM:  "gpio6",
			RightDir:  "gpio7",
			Obstacle:  "gpio10",
			Heartbeat: "gpio25",
			Retrace:   "gpio15",
			Red:       "gpio16",
			Green:     "gpio17",
			Blue:      "gpio18",
			SDA:       "gpio4",
			SCL:       "gpio5",
		},
		Sensor: SensorConfig{
			Frequency:       100000,
			IntegrationTime: 0xD5,
			ClearLow:        0,
			ClearHigh:       1500,
			Persistence:     3,
		},
		Telemetry: TelemetryConfig{
			Baud:   9600,
			Buffer: 1024,
		},
	}
}
