package core

import (
	"strings"
	"testing"
	"time"
)

func TestEventRingOrderAndWrap(t *testing.T) {
	ClearEventRing()
	defer ClearEventRing()

	for i := 0; i < EventRingSize+3; i++ {
		RecordEvent(EvtObstacle, i, uint32(i), int32(i), 0)
	}

	events := Events()
	if len(events) != EventRingSize {
		t.Fatalf("Expected %d events, got %d", EventRingSize, len(events))
	}
	if events[0].Value1 != 3 {
		t.Errorf("Expected oldest surviving event v1=3, got %d", events[0].Value1)
	}
	if events[len(events)-1].Value1 != EventRingSize+2 {
		t.Errorf("Expected newest event v1=%d, got %d", EventRingSize+2, events[len(events)-1].Value1)
	}
}

func TestDumpEventRing(t *testing.T) {
	ClearEventRing()
	defer ClearEventRing()

	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(func(string) {})

	RecordEvent(EvtTurn, 2, 1500, 'G', 0)
	RecordEvent(EvtPathFull, 49, 9000, -3, 0)
	DumpEventRing()

	if len(lines) != 4 {
		t.Fatalf("Expected header, 2 events and footer, got %d lines: %v", len(lines), lines)
	}
	if lines[1] != "[NAV] TURN step=2 ms=1500 v1=71 v2=0" {
		t.Errorf("Unexpected event line: %q", lines[1])
	}
	if !strings.Contains(lines[2], "PATH_FULL!") || !strings.Contains(lines[2], "v1=-3") {
		t.Errorf("Unexpected event line: %q", lines[2])
	}
}

func TestDebugPrintlnGated(t *testing.T) {
	var got []string
	SetDebugWriter(func(s string) { got = append(got, s) })
	defer SetDebugWriter(func(string) {})

	SetDebugEnabled(false)
	DebugPrintln("hidden")
	SetDebugEnabled(true)
	DebugPrintln("shown")
	SetDebugEnabled(false)

	if len(got) != 1 || got[0] != "shown" {
		t.Errorf("Expected only the enabled message, got %v", got)
	}
}

func TestManualClock(t *testing.T) {
	c := NewManualClock()
	c.Sleep(5 * time.Millisecond)
	c.Sleep(-time.Second)
	c.Advance(time.Second)

	if c.Now() != time.Second+5*time.Millisecond {
		t.Errorf("Expected 1.005s, got %v", c.Now())
	}
	if c.Sleeps() != 2 {
		t.Errorf("Expected 2 sleeps, got %d", c.Sleeps())
	}
	if Millis(c.Now()) != 1005 {
		t.Errorf("Expected 1005ms, got %d", Millis(c.Now()))
	}
}

func TestItoa(t *testing.T) {
	for n, want := range map[int]string{0: "0", 7: "7", -42: "-42", 1234567: "1234567"} {
		if got := Itoa(n); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}
