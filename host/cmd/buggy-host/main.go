package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Ports    PortsCommand    `command:"ports" description:"List serial ports"`
	Monitor  MonitorCommand  `command:"monitor" description:"Show live telemetry from the buggy"`
	Record   RecordCommand   `command:"record" description:"Store telemetry runs in a SQLite database"`
	Stats    StatsCommand    `command:"stats" description:"Summarize recorded runs"`
	Simulate SimulateCommand `command:"simulate" alias:"sim" description:"Run the navigator against a scripted course"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "Buggy Host - telemetry and simulation tools for the colour-marker buggy"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
