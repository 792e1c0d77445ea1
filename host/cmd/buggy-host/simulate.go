package main

import (
	"context"
	"fmt"
	"os"

	"gobuggy/core"
	"gobuggy/sim"
)

type SimulateCommand struct {
	Script    string `short:"s" long:"script" required:"true" description:"Course script (JSON)"`
	Telemetry bool   `short:"t" long:"telemetry" description:"Print every telemetry line"`
	Events    bool   `short:"e" long:"events" description:"Dump the navigation event ring at the end"`
}

type printSink struct{}

func (printSink) SendLine(line string) { fmt.Print(line) }

func (c *SimulateCommand) Execute(args []string) error {
	data, err := os.ReadFile(c.Script)
	if err != nil {
		return err
	}
	script, err := sim.LoadScript(data)
	if err != nil {
		return err
	}

	core.ClearEventRing()
	var w *sim.World
	if c.Telemetry {
		w, err = sim.NewWorld(script, printSink{}, nil)
	} else {
		w, err = sim.NewWorld(script, nil, nil)
	}
	if err != nil {
		return err
	}

	res, err := w.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Println("Maneuvers:")
	for _, p := range res.Phases {
		if p.Length == 0 {
			continue
		}
		fmt.Printf("  %9s  %-10s %s\n", p.Start, p.Motion, p.Length)
	}
	fmt.Printf("\nSteps %d, markers met %d/%d, turns %q, retraces %d, elapsed %s\n",
		res.Steps, res.Markers, len(script.Markers), res.Turns, res.Retraces, res.Elapsed)

	if c.Events {
		core.SetDebugWriter(func(s string) { fmt.Println(s) })
		core.DumpEventRing()
	}
	return nil
}
