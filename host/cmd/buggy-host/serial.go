package main

import (
	"fmt"

	"gobuggy/host/serial"
)

// PortOptions are shared by the commands that read from the buggy
type PortOptions struct {
	Device string `short:"d" long:"device" description:"Serial device (auto-detected when omitted)"`
	Baud   int    `short:"b" long:"baud" default:"9600" description:"Baud rate"`
}

func (o PortOptions) open() (serial.Port, string, error) {
	device := o.Device
	if device == "" {
		var err error
		if device, err = serial.Detect(); err != nil {
			return nil, "", err
		}
	}

	cfg := serial.DefaultConfig(device)
	cfg.Baud = o.Baud
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, "", err
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, "", fmt.Errorf("flush %s: %w", device, err)
	}
	return port, device, nil
}
