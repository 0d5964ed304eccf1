package policy

import (
	"math/bits"

	"github.com/trace-sim/trace-sim/sim/trace"
)

// PseudoLRU approximates LRU with a binary tree of capacity-1 bits stored in
// heap order: node 0 is the root, node k has children 2k+1 and 2k+2, and the
// leaves are the slots. Each bit points toward the more recently used child
// (0 = left, 1 = right); the victim walk goes the other way at every node.
//
// With 4 frames the tree is the classroom b0 (root), b1 (slots 0-1) and
// b2 (slots 2-3), all initially 0, so the first eviction takes slot 3.
type PseudoLRU struct {
	frames frameSet
	tree   []uint8
	depth  int
}

// NewPseudoLRU creates a tree Pseudo-LRU policy. capacity must be a power of
// two of at least 2.
func NewPseudoLRU(capacity int) (*PseudoLRU, error) {
	if err := checkPositive(NamePseudoLRU, capacity); err != nil {
		return nil, err
	}
	if capacity < 2 || capacity&(capacity-1) != 0 {
		return nil, &CapacityError{Policy: NamePseudoLRU, Capacity: capacity, Reason: "must be a power of two >= 2"}
	}
	return &PseudoLRU{
		frames: newFrameSet(capacity),
		tree:   make([]uint8, capacity-1),
		depth:  bits.TrailingZeros(uint(capacity)),
	}, nil
}

func (p *PseudoLRU) Name() string   { return NamePseudoLRU }
func (p *PseudoLRU) Capacity() int  { return len(p.frames.slots) }
func (p *PseudoLRU) Frames() []byte { return p.frames.snapshot() }

// Bits returns a copy of the tree bits in heap order.
func (p *PseudoLRU) Bits() []uint8 {
	out := make([]uint8, len(p.tree))
	copy(out, p.tree)
	return out
}

func (p *PseudoLRU) Reset() {
	p.frames.reset()
	clear(p.tree)
}

// Reference services events[i]. Filling an empty slot does not touch the tree.
func (p *PseudoLRU) Reference(events []trace.Event, i int) Outcome {
	ev := events[i]
	if slot := p.frames.lookup(ev.Symbol); slot >= 0 {
		p.touch(slot)
		return hitAt(ev, slot)
	}
	if !p.frames.full() {
		return missAt(ev, p.frames.fill(ev.Symbol))
	}
	slot := p.victim()
	p.touch(slot)
	return evictAt(ev, slot, p.frames.replace(slot, ev.Symbol))
}

// touch points every bit on the root-to-slot path at slot.
func (p *PseudoLRU) touch(slot int) {
	node := 0
	for level := p.depth - 1; level >= 0; level-- {
		dir := (slot >> level) & 1
		p.tree[node] = uint8(dir)
		node = 2*node + 1 + dir
	}
}

// victim walks from the root away from each bit.
func (p *PseudoLRU) victim() int {
	node, slot := 0, 0
	for level := 0; level < p.depth; level++ {
		dir := 1 - int(p.tree[node])
		slot = slot<<1 | dir
		node = 2*node + 1 + dir
	}
	return slot
}
