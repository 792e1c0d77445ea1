package main

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"gobuggy/host/monitor"
)

type MonitorCommand struct {
	PortOptions
}

func (c *MonitorCommand) Execute(args []string) error {
	port, device, err := c.open()
	if err != nil {
		return err
	}
	defer port.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mon := monitor.New(64)
	go func() {
		if err := mon.Run(ctx, port); err != nil && err != context.Canceled {
			log.Printf("Monitor error: %v", err)
		}
	}()

	p := tea.NewProgram(monitor.NewModel(device, mon.Readings()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
	return nil
}
