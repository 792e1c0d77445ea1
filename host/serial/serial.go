package serial

import (
	"io"
)

// Port is the telemetry link to the buggy. Implementations:
// - Native serial (github.com/tarm/serial)
// - Mock serial (tests)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate; the buggy's UART runs at 9600
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud matches the firmware's telemetry UART
const DefaultBaud = 9600

// DefaultConfig returns the configuration for a buggy telemetry cable
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 0,
	}
}
