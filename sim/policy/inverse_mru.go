package policy

import "github.com/trace-sim/trace-sim/sim/trace"

// InverseMRU tracks the most recently hit slot and, when full, evicts the
// slot mirrored across the frame array: capacity-1-lastHit. The refilled
// slot becomes the new reference point.
type InverseMRU struct {
	frames  frameSet
	lastHit int
}

// NewInverseMRU creates an Inverse-MRU policy with capacity frames.
func NewInverseMRU(capacity int) (*InverseMRU, error) {
	if err := checkPositive(NameInverseMRU, capacity); err != nil {
		return nil, err
	}
	return &InverseMRU{frames: newFrameSet(capacity)}, nil
}

func (m *InverseMRU) Name() string   { return NameInverseMRU }
func (m *InverseMRU) Capacity() int  { return len(m.frames.slots) }
func (m *InverseMRU) Frames() []byte { return m.frames.snapshot() }

// LastHit returns the slot index the next eviction is mirrored from.
func (m *InverseMRU) LastHit() int { return m.lastHit }

func (m *InverseMRU) Reset() {
	m.frames.reset()
	m.lastHit = 0
}

// Reference services events[i]. Filling an empty slot leaves lastHit alone.
func (m *InverseMRU) Reference(events []trace.Event, i int) Outcome {
	ev := events[i]
	if slot := m.frames.lookup(ev.Symbol); slot >= 0 {
		m.lastHit = slot
		return hitAt(ev, slot)
	}
	if !m.frames.full() {
		return missAt(ev, m.frames.fill(ev.Symbol))
	}
	slot := len(m.frames.slots) - 1 - m.lastHit
	m.lastHit = slot
	return evictAt(ev, slot, m.frames.replace(slot, ev.Symbol))
}
