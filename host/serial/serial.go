// Package serial opens the link to the I2S firmware.
package serial

import (
	"io"
)

// Port is the byte stream to the firmware. Tests substitute an in-memory
// pipe for the native port.
type Port interface {
	io.ReadWriteCloser

	// Flush discards data not yet read or written
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate. The discovery board's ST-LINK VCP runs at 115200; USB CDC
	// ignores it.
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the settings the firmware's UART expects
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}
