package policy

import "github.com/trace-sim/trace-sim/sim/trace"

// Optimal evicts the resident page whose next reference lies farthest in the
// future. A page that is never referenced again is evicted first; among
// several such pages the lowest slot wins.
type Optimal struct {
	frames frameSet
}

// NewOptimal creates an Optimal policy with capacity frames.
func NewOptimal(capacity int) (*Optimal, error) {
	if err := checkPositive(NameOptimal, capacity); err != nil {
		return nil, err
	}
	return &Optimal{frames: newFrameSet(capacity)}, nil
}

func (o *Optimal) Name() string   { return NameOptimal }
func (o *Optimal) Capacity() int  { return len(o.frames.slots) }
func (o *Optimal) Frames() []byte { return o.frames.snapshot() }
func (o *Optimal) Reset()         { o.frames.reset() }

// Reference services events[i], looking ahead through events[i+1:] on an
// eviction.
func (o *Optimal) Reference(events []trace.Event, i int) Outcome {
	ev := events[i]
	if slot := o.frames.lookup(ev.Symbol); slot >= 0 {
		return hitAt(ev, slot)
	}
	if !o.frames.full() {
		return missAt(ev, o.frames.fill(ev.Symbol))
	}
	slot := o.victim(events[i+1:])
	return evictAt(ev, slot, o.frames.replace(slot, ev.Symbol))
}

func (o *Optimal) victim(future []trace.Event) int {
	victim, farthest := 0, -1
	for slot, page := range o.frames.resident() {
		next := nextReference(future, page)
		if next < 0 {
			return slot
		}
		if next > farthest {
			victim, farthest = slot, next
		}
	}
	return victim
}

// nextReference returns the position of page's first occurrence in future,
// or -1 if it is never referenced again.
func nextReference(future []trace.Event, page byte) int {
	for j, ev := range future {
		if ev.Symbol == page {
			return j
		}
	}
	return -1
}
