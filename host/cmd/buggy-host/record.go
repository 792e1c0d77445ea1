package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"gobuggy/host/monitor"
	"gobuggy/host/recorder"
)

type RecordCommand struct {
	PortOptions
	DB string `long:"db" default:"buggy.db" description:"SQLite database path"`
}

func (c *RecordCommand) Execute(args []string) error {
	store, err := recorder.Open(c.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	port, device, err := c.open()
	if err != nil {
		return err
	}
	defer port.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mon := monitor.New(256)
	rec := recorder.New(store, device)

	go func() {
		if err := mon.Run(ctx, port); err != nil && err != context.Canceled {
			log.Printf("Monitor error: %v", err)
		}
	}()

	fmt.Printf("Recording %s to %s, Ctrl-C to stop\n", device, c.DB)
	if err := rec.Consume(ctx, mon.Readings()); err != nil && err != context.Canceled {
		return err
	}
	fmt.Printf("Recorded %d run(s), %d malformed line(s)\n", rec.Runs(), mon.Malformed())
	return nil
}
