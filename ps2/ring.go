package ps2

import "sync/atomic"

// BufferSize is the capacity of the received-byte ring.
const BufferSize = 32

// Ring is a single-producer/single-consumer byte FIFO between the clock-edge
// listener and the foreground loop. The port runs both sides under the bus
// lock (the listener already holds it), which also makes Snapshot safe to
// call from a debug console while the firmware loop drains the ring. count
// stays atomic so Len works from any goroutine without the lock.
type Ring struct {
	buf   [BufferSize]byte
	in    int
	out   int
	count atomic.Int32
}

// TryEnqueue adds b if there is room. Producer side only.
func (r *Ring) TryEnqueue(b byte) bool {
	if r.count.Load() == BufferSize {
		return false
	}
	r.buf[r.in] = b
	r.in++
	if r.in == BufferSize {
		r.in = 0
	}
	r.count.Add(1)
	return true
}

// TryDequeue removes the oldest byte. Consumer side only.
func (r *Ring) TryDequeue() (byte, bool) {
	if r.count.Load() == 0 {
		return 0, false
	}
	b := r.buf[r.out]
	r.out++
	if r.out == BufferSize {
		r.out = 0
	}
	r.count.Add(-1)
	return b, true
}

func (r *Ring) Len() int {
	return int(r.count.Load())
}

// Snapshot copies the buffered bytes in arrival order without consuming
// them. Must run under the same lock as the consumer.
func (r *Ring) Snapshot() []byte {
	n := r.Len()
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = r.buf[(r.out+i)%BufferSize]
	}
	return out
}
