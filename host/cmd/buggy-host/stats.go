package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gobuggy/host/recorder"
)

type StatsCommand struct {
	DB string `long:"db" default:"buggy.db" description:"SQLite database path"`
}

func (c *StatsCommand) Execute(args []string) error {
	store, err := recorder.Open(c.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	sums, err := store.Summaries(context.Background())
	if err != nil {
		return err
	}
	if len(sums) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-36s  %-19s  %7s  %8s  %7s  %s\n", "RUN", "STARTED", "FRAMES", "HUE", "STDDEV", "TURNS")
	for _, s := range sums {
		turns := s.Turns
		if turns == "" {
			turns = "-"
		}
		fmt.Printf("%-36s  %-19s  %7d  %8.2f  %7.2f  %s\n",
			s.Run.ID, s.Run.StartedAt.Format("2006-01-02 15:04:05"), s.Frames, s.HueMean, s.HueStdDev, turns)
		if len(s.Categories) > 0 {
			fmt.Printf("    markers: %s\n", formatCounts(s.Categories))
		}
	}
	return nil
}

func formatCounts(m map[string]int) string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s x%d", name, m[name])
	}
	return strings.Join(parts, ", ")
}
