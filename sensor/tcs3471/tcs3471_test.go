package tcs3471

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/drivers"

	"gobuggy/color"
)

type tx struct {
	addr uint16
	w    []byte
}

type fakeBus struct {
	txs    []tx
	regs   map[byte][]byte // reply keyed by first written byte
	failOn byte
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	b.txs = append(b.txs, tx{addr: addr, w: append([]byte(nil), w...)})
	if len(w) > 0 && w[0] == b.failOn {
		return errors.New("nack")
	}
	if len(r) > 0 && len(w) > 0 {
		copy(r, b.regs[w[0]])
	}
	return nil
}

var _ drivers.I2C = (*fakeBus)(nil)
var _ drivers.Sensor = (*Device)(nil)

func TestConfigureWritesInitSequence(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus)

	var slept []time.Duration
	cfg := DefaultConfig()
	cfg.Sleep = func(d time.Duration) { slept = append(slept, d) }
	require.NoError(t, d.Configure(cfg))

	want := [][]byte{
		{0x80, 0x01},       // PON
		{0x80, 0x03},       // PON | AEN
		{0x81, 0xD5},       // ATIME
		{0x80, 0x13},       // PON | AEN | AIEN
		{0x8C, 0x03},       // persistence
		{0xE6},             // clear interrupt
		{0x84, 0x00},       // low threshold
		{0x85, 0x00},
		{0x86, 0xDC},       // high threshold 1500
		{0x87, 0x05},
	}
	require.Len(t, bus.txs, len(want))
	for i, w := range want {
		assert.Equal(t, uint16(Address), bus.txs[i].addr)
		assert.Equal(t, w, bus.txs[i].w, "transaction %d", i)
	}
	assert.Equal(t, []time.Duration{3 * time.Millisecond}, slept)
}

func TestConfigureWithoutInterrupt(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus)
	require.NoError(t, d.Configure(Config{Sleep: func(time.Duration) {}}))

	require.Len(t, bus.txs, 3)
	assert.Equal(t, []byte{0x81, 0xD5}, bus.txs[2].w)
}

func TestConfigureStopsOnError(t *testing.T) {
	bus := &fakeBus{failOn: 0x81}
	d := New(bus)
	cfg := DefaultConfig()
	cfg.Sleep = func(time.Duration) {}

	assert.Error(t, d.Configure(cfg))
	assert.Len(t, bus.txs, 3)
}

func TestReadColor(t *testing.T) {
	bus := &fakeBus{regs: map[byte][]byte{
		0xB4: {0xB8, 0x0B, 0xB6, 0x03, 0x6C, 0x02, 0xD1, 0x01},
	}}
	d := New(bus)

	s, err := d.ReadColor()
	require.NoError(t, err)
	assert.Equal(t, color.Sample{Clear: 3000, Red: 950, Green: 620, Blue: 465}, s)
	assert.Equal(t, s, d.Last())
	assert.Equal(t, []byte{0xB4}, bus.txs[0].w)
}

func TestReadColorError(t *testing.T) {
	d := New(&fakeBus{failOn: 0xB4})
	_, err := d.ReadColor()
	assert.Error(t, err)
}

func TestUpdate(t *testing.T) {
	bus := &fakeBus{regs: map[byte][]byte{0xB4: {1, 0, 2, 0, 3, 0, 4, 0}}}
	d := New(bus)

	require.NoError(t, d.Update(drivers.Temperature))
	assert.Empty(t, bus.txs)

	require.NoError(t, d.Update(drivers.AllMeasurements))
	assert.Equal(t, color.Sample{Clear: 1, Red: 2, Green: 3, Blue: 4}, d.Last())
}

func TestProbe(t *testing.T) {
	bus := &fakeBus{regs: map[byte][]byte{0x92: {ID_TCS34713}}}
	d := New(bus)
	assert.NoError(t, d.Probe())
	assert.True(t, d.Connected())

	bus.regs[0x92] = []byte{0x44}
	assert.ErrorIs(t, d.Probe(), ErrNotConnected)
}
