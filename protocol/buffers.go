package protocol

// FifoBuffer is a circular byte buffer used for the telemetry UART.
// One slot is kept free to tell full from empty.
type FifoBuffer struct {
	buf   []byte
	read  int
	write int
	size  int
}

// NewFifoBuffer creates a new FifoBuffer with the specified capacity
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// Write appends data to the FIFO buffer, stopping when full.
// Returns the number of bytes accepted.
func (f *FifoBuffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		nextWrite := (f.write + 1) % f.size
		if nextWrite == f.read {
			break
		}
		f.buf[f.write] = b
		f.write = nextWrite
		written++
	}
	return written
}

// Available returns the number of bytes available for reading
func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Free returns the number of bytes available for writing
func (f *FifoBuffer) Free() int {
	return f.size - f.Available() - 1
}

// Peek returns the oldest queued bytes without consuming them. When the
// data wraps, only the part up to the end of the ring is returned; Pop it
// and Peek again for the rest. The slice aliases the ring and stays valid
// until the bytes are popped.
func (f *FifoBuffer) Peek() []byte {
	if f.read <= f.write {
		return f.buf[f.read:f.write]
	}
	return f.buf[f.read:]
}

// Pop discards n bytes from the front
func (f *FifoBuffer) Pop(n int) {
	if avail := f.Available(); n > avail {
		n = avail
	}
	f.read = (f.read + n) % f.size
}

// IsEmpty reports whether nothing is queued
func (f *FifoBuffer) IsEmpty() bool {
	return f.read == f.write
}
