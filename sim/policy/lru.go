package policy

import "github.com/trace-sim/trace-sim/sim/trace"

// LRU evicts the least recently used page exactly, using a per-slot stamp
// from a logical clock that advances on every hit and every placement.
type LRU struct {
	frames frameSet
	stamps []uint64
	clock  uint64
}

// NewLRU creates an exact LRU policy with capacity frames.
func NewLRU(capacity int) (*LRU, error) {
	if err := checkPositive(NameLRU, capacity); err != nil {
		return nil, err
	}
	return &LRU{
		frames: newFrameSet(capacity),
		stamps: make([]uint64, capacity),
	}, nil
}

func (l *LRU) Name() string   { return NameLRU }
func (l *LRU) Capacity() int  { return len(l.frames.slots) }
func (l *LRU) Frames() []byte { return l.frames.snapshot() }

// Stamps returns a copy of the stamps of the occupied slots.
func (l *LRU) Stamps() []uint64 {
	out := make([]uint64, l.frames.used)
	copy(out, l.stamps[:l.frames.used])
	return out
}

func (l *LRU) Reset() {
	l.frames.reset()
	clear(l.stamps)
	l.clock = 0
}

// Reference services events[i].
func (l *LRU) Reference(events []trace.Event, i int) Outcome {
	ev := events[i]
	if slot := l.frames.lookup(ev.Symbol); slot >= 0 {
		l.stamp(slot)
		return hitAt(ev, slot)
	}
	if !l.frames.full() {
		slot := l.frames.fill(ev.Symbol)
		l.stamp(slot)
		return missAt(ev, slot)
	}
	slot := l.victim()
	victim := l.frames.replace(slot, ev.Symbol)
	l.stamp(slot)
	return evictAt(ev, slot, victim)
}

func (l *LRU) stamp(slot int) {
	l.stamps[slot] = l.clock
	l.clock++
}

// victim returns the slot with the smallest stamp; ties go to the lowest slot.
func (l *LRU) victim() int {
	victim := 0
	for slot := 1; slot < l.frames.used; slot++ {
		if l.stamps[slot] < l.stamps[victim] {
			victim = slot
		}
	}
	return victim
}
