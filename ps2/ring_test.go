package ps2

import "testing"

func TestRingOrdering(t *testing.T) {
	var r Ring
	for i := 0; i < 10; i++ {
		if !r.TryEnqueue(byte(i)) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	for i := 0; i < 10; i++ {
		b, ok := r.TryDequeue()
		if !ok {
			t.Fatalf("dequeue %d failed", i)
		}
		if b != byte(i) {
			t.Errorf("dequeue %d: got %d", i, b)
		}
	}
	if _, ok := r.TryDequeue(); ok {
		t.Errorf("dequeue from empty ring succeeded")
	}
}

func TestRingFull(t *testing.T) {
	var r Ring
	for i := 0; i < BufferSize; i++ {
		if !r.TryEnqueue(byte(i)) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	if r.TryEnqueue(0xFF) {
		t.Errorf("enqueue into a full ring succeeded")
	}

	// The buffered bytes survive the refused write.
	for i := 0; i < BufferSize; i++ {
		b, ok := r.TryDequeue()
		if !ok || b != byte(i) {
			t.Fatalf("dequeue %d: got %d, ok=%v", i, b, ok)
		}
	}
}

func TestRingWraparound(t *testing.T) {
	var r Ring
	// Drive the indices around the end of the array a few times.
	for round := 0; round < 5; round++ {
		for i := 0; i < 20; i++ {
			v := byte(round*20 + i)
			if !r.TryEnqueue(v) {
				t.Fatalf("round %d enqueue %d failed", round, i)
			}
		}
		for i := 0; i < 20; i++ {
			want := byte(round*20 + i)
			b, ok := r.TryDequeue()
			if !ok || b != want {
				t.Fatalf("round %d dequeue %d: got %d want %d", round, i, b, want)
			}
		}
	}
}

func TestRingSnapshot(t *testing.T) {
	var r Ring
	r.TryEnqueue(0x1E)
	r.TryEnqueue(0x9E)
	r.TryEnqueue(0xFA)

	snap := r.Snapshot()
	want := []byte{0x1E, 0x9E, 0xFA}
	if len(snap) != len(want) {
		t.Fatalf("snapshot length %d, want %d", len(snap), len(want))
	}
	for i := range want {
		if snap[i] != want[i] {
			t.Errorf("snapshot[%d] = %02x, want %02x", i, snap[i], want[i])
		}
	}
	if r.Len() != 3 {
		t.Errorf("snapshot consumed bytes: Len = %d", r.Len())
	}
}
