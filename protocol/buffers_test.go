package protocol

import "testing"

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if !fifo.IsEmpty() {
		t.Error("New FIFO should be empty")
	}

	if fifo.Available() != 0 {
		t.Errorf("Empty FIFO should have 0 available, got %d", fifo.Available())
	}

	written := fifo.Write([]byte{1, 2, 3, 4, 5})
	if written != 5 {
		t.Errorf("Expected to write 5 bytes, wrote %d", written)
	}
	if fifo.Available() != 5 {
		t.Errorf("Expected 5 bytes available, got %d", fifo.Available())
	}

	got := fifo.Peek()
	if len(got) != 5 || got[0] != 1 || got[4] != 5 {
		t.Errorf("Peek mismatch: got %v", got)
	}
	if fifo.Available() != 5 {
		t.Errorf("Peek consumed data, %d available", fifo.Available())
	}

	fifo.Pop(3)
	if fifo.Available() != 2 {
		t.Errorf("After popping 3, expected 2 available, got %d", fifo.Available())
	}
	if got := fifo.Peek(); got[0] != 4 {
		t.Errorf("Expected front byte 4, got %v", got)
	}

	fifo.Pop(10)
	if !fifo.IsEmpty() {
		t.Errorf("Popping more than queued should empty the FIFO, %d left", fifo.Available())
	}

	// Buffer size is 10, can only store 9 (one slot reserved)
	if written := fifo.Write(make([]byte, 12)); written != 9 {
		t.Errorf("Expected to write 9 bytes to size-10 FIFO, wrote %d", written)
	}
}

func TestFifoBufferPeekWrapped(t *testing.T) {
	fifo := NewFifoBuffer(6)
	fifo.Write([]byte("abcd"))
	fifo.Pop(3)
	fifo.Write([]byte("efg"))

	if fifo.Free() != 1 {
		t.Errorf("Expected 1 byte free, got %d", fifo.Free())
	}

	// d e f sit at the end of the ring, g wrapped to the start
	var out []byte
	for segments := 0; !fifo.IsEmpty(); segments++ {
		if segments == 2 {
			t.Fatal("Expected wrapped data in two segments")
		}
		seg := fifo.Peek()
		out = append(out, seg...)
		fifo.Pop(len(seg))
	}
	if string(out) != "defg" {
		t.Errorf("Expected %q, got %q", "defg", out)
	}
}

func TestFifoBufferRejectsWhenFull(t *testing.T) {
	fifo := NewFifoBuffer(4)
	if n := fifo.Write([]byte("xyz")); n != 3 {
		t.Fatalf("Expected to write 3 bytes, wrote %d", n)
	}
	if n := fifo.Write([]byte("!")); n != 0 {
		t.Errorf("Expected full FIFO to accept 0 bytes, accepted %d", n)
	}
	if string(fifo.Peek()) != "xyz" {
		t.Errorf("Existing data changed after rejected write: %q", fifo.Peek())
	}
}
