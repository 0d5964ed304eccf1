package policy

import "github.com/trace-sim/trace-sim/sim/trace"

// frameSet is a fixed-capacity array of slots filled in slot order. Slots are
// never freed once filled; a replacement overwrites in place, so a page
// identifier occupies at most one slot.
type frameSet struct {
	slots []byte
	used  int
}

func newFrameSet(capacity int) frameSet {
	return frameSet{slots: make([]byte, capacity)}
}

// lookup returns the slot holding page, or -1.
func (f *frameSet) lookup(page byte) int {
	for i := 0; i < f.used; i++ {
		if f.slots[i] == page {
			return i
		}
	}
	return -1
}

func (f *frameSet) full() bool {
	return f.used == len(f.slots)
}

// fill places page into the next empty slot and returns that slot.
// Callers MUST check full() first.
func (f *frameSet) fill(page byte) int {
	slot := f.used
	f.slots[slot] = page
	f.used++
	return slot
}

// replace overwrites slot with page and returns the previous occupant.
func (f *frameSet) replace(slot int, page byte) byte {
	victim := f.slots[slot]
	f.slots[slot] = page
	return victim
}

func (f *frameSet) resident() []byte {
	return f.slots[:f.used]
}

func (f *frameSet) snapshot() []byte {
	out := make([]byte, f.used)
	copy(out, f.slots[:f.used])
	return out
}

func (f *frameSet) reset() {
	clear(f.slots)
	f.used = 0
}

func hitAt(ev trace.Event, slot int) Outcome {
	return Outcome{Event: ev, Kind: Hit, Slot: slot}
}

func missAt(ev trace.Event, slot int) Outcome {
	return Outcome{Event: ev, Kind: Miss, Slot: slot}
}

func evictAt(ev trace.Event, slot int, victim byte) Outcome {
	return Outcome{Event: ev, Kind: Evict, Slot: slot, Evicted: victim}
}
