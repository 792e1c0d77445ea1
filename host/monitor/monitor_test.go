package monitor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobuggy/color"
	"gobuggy/protocol"
)

const stream = "0.00 255.00 84.66 2000.00 139.92 0 \n" +
	"garbage line\n" +
	"0.00 255.00 84.66 2000.00 139.92 -150 G\n" +
	"255.00 255.00 255.00 3000.00 0.00 -150 G\n"

func collect(ch <-chan Reading) []Reading {
	var out []Reading
	for r := range ch {
		out = append(out, r)
	}
	return out
}

func TestRunParsesStream(t *testing.T) {
	m := New(8)
	err := m.Run(context.Background(), strings.NewReader(stream))
	require.NoError(t, err)

	got := collect(m.Readings())
	require.Len(t, got, 3)
	assert.Equal(t, uint32(1), m.Malformed())
	assert.Equal(t, color.Green, got[0].Category)
	assert.Equal(t, "G", got[1].Frame.Turns)
	assert.Equal(t, int32(-150), got[1].Frame.PrevTicks)
	assert.Equal(t, color.White, got[2].Category)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device unplugged") }

func TestRunReadError(t *testing.T) {
	m := New(1)
	err := m.Run(context.Background(), failingReader{})
	assert.EqualError(t, err, "device unplugged")
}

func TestRunCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	m := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, pr) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestModelTracksReadings(t *testing.T) {
	ch := make(chan Reading)
	var model tea.Model = NewModel("/dev/ttyUSB0", ch)

	green := NewReading(protocol.Frame{G: 255, B: 84.66, Clear: 2000, Hue: 139.92}, time.Now())
	white := NewReading(protocol.Frame{R: 255, G: 255, B: 255, Clear: 3000, PrevTicks: -150, Turns: "G"}, time.Now())

	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model, _ = model.Update(readingMsg(green))
	model, _ = model.Update(readingMsg(green))
	model, _ = model.Update(readingMsg(white))

	m := model.(Model)
	assert.Equal(t, 3, m.count)
	assert.Equal(t, 1, m.seen[color.Green])
	assert.Equal(t, 1, m.seen[color.White])

	view := m.View()
	assert.Contains(t, view, "Buggy Monitor")
	assert.Contains(t, view, "white")
	assert.Contains(t, view, "previous leg -150 ticks")

	model, _ = model.Update(doneMsg{})
	assert.Contains(t, model.View(), "stream ended")

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, "Monitor stopped.\n", model.View())
}
