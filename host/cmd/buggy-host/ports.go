package main

import (
	"fmt"

	"gobuggy/host/serial"
)

type PortsCommand struct{}

func (c *PortsCommand) Execute(args []string) error {
	ports, err := serial.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		return nil
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}
