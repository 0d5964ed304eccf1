package policy

import "github.com/trace-sim/trace-sim/sim/trace"

// FIFO evicts the page that was inserted earliest. Hits do not reorder.
//
// Slots are refilled in place, so the oldest slot advances round-robin: the
// head of the insertion queue is always slot head.
type FIFO struct {
	frames frameSet
	head   int
}

// NewFIFO creates a FIFO policy with capacity frames.
func NewFIFO(capacity int) (*FIFO, error) {
	if err := checkPositive(NameFIFO, capacity); err != nil {
		return nil, err
	}
	return &FIFO{frames: newFrameSet(capacity)}, nil
}

func (f *FIFO) Name() string   { return NameFIFO }
func (f *FIFO) Capacity() int  { return len(f.frames.slots) }
func (f *FIFO) Frames() []byte { return f.frames.snapshot() }

func (f *FIFO) Reset() {
	f.frames.reset()
	f.head = 0
}

// Reference services events[i].
func (f *FIFO) Reference(events []trace.Event, i int) Outcome {
	ev := events[i]
	if slot := f.frames.lookup(ev.Symbol); slot >= 0 {
		return hitAt(ev, slot)
	}
	if !f.frames.full() {
		return missAt(ev, f.frames.fill(ev.Symbol))
	}
	slot := f.head
	f.head = (f.head + 1) % len(f.frames.slots)
	return evictAt(ev, slot, f.frames.replace(slot, ev.Symbol))
}

// Queue returns the resident pages from oldest to newest insertion.
func (f *FIFO) Queue() []byte {
	if !f.frames.full() {
		return f.frames.snapshot()
	}
	out := make([]byte, 0, len(f.frames.slots))
	out = append(out, f.frames.slots[f.head:]...)
	return append(out, f.frames.slots[:f.head]...)
}
