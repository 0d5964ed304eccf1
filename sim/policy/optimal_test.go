package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trace-sim/trace-sim/sim/trace"
)

func TestOptimal_NeverReferencedAgain_EvictedFirst(t *testing.T) {
	// GIVEN resident ABCD where only B has no future reference
	o, err := NewOptimal(4)
	require.NoError(t, err)

	// WHEN E misses
	outcomes, err := Collect(o, "ABCD E ACD")
	require.NoError(t, err)

	// THEN B is the victim
	assert.Equal(t, byte('B'), outcomes[4].Evicted)
	assert.Equal(t, 1, outcomes[4].Slot)
}

func TestOptimal_SeveralNeverReferenced_LowestSlotWins(t *testing.T) {
	o, err := NewOptimal(4)
	require.NoError(t, err)

	// B and D are never referenced again; B sits in the lower slot
	outcomes, err := Collect(o, "ABCD E AC")
	require.NoError(t, err)
	assert.Equal(t, byte('B'), outcomes[4].Evicted)
}

func TestOptimal_NoResidentReferencedAgain_EvictsSlotZero(t *testing.T) {
	o, err := NewOptimal(4)
	require.NoError(t, err)

	outcomes, err := Collect(o, "ABCD E")
	require.NoError(t, err)
	assert.Equal(t, byte('A'), outcomes[4].Evicted)
	assert.Equal(t, 0, outcomes[4].Slot)
}

func TestOptimal_AllReferencedAgain_FarthestEvicted(t *testing.T) {
	o, err := NewOptimal(4)
	require.NoError(t, err)

	// next uses after E: D(0) B(1) A(2) C(3), so C is farthest
	outcomes, err := Collect(o, "ABCD E DBAC")
	require.NoError(t, err)
	assert.Equal(t, byte('C'), outcomes[4].Evicted)
}

func TestOptimal_UsesSuppliedFrameCount(t *testing.T) {
	o, err := NewOptimal(2)
	require.NoError(t, err)

	outcomes, err := Collect(o, "AB C A")
	require.NoError(t, err)
	assert.Equal(t, "mmBh", chars(outcomes))
}

// nextUse returns the distance to page's next reference, or len(future) if none.
func nextUse(future []trace.Event, page byte) int {
	if j := nextReference(future, page); j >= 0 {
		return j
	}
	return len(future)
}

// Optimal never evicts a page that is referenced sooner than another resident page.
func TestOptimal_SyntheticTraces_VictimIsFarthest(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		s, err := trace.Synthesize(seed, "ABCDEFG", 60)
		require.NoError(t, err)
		events, err := trace.Collect(s, trace.PageAlphabet)
		require.NoError(t, err)

		o, err := NewOptimal(4)
		require.NoError(t, err)
		for i := range events {
			before := o.Frames()
			out := o.Reference(events, i)
			if out.Kind != Evict {
				continue
			}
			future := events[i+1:]
			victimDist := nextUse(future, out.Evicted)
			for _, page := range before {
				assert.GreaterOrEqual(t, victimDist, nextUse(future, page),
					"seed=%d event=%d: evicted %c but %c is used later", seed, i, out.Evicted, page)
			}
		}
	}
}

// Belady's policy never takes more faults than any other policy.
func TestOptimal_SyntheticTraces_FewestFaults(t *testing.T) {
	faults := func(p Policy, s string) int {
		outcomes, err := Collect(p, s)
		require.NoError(t, err)
		n := 0
		for _, o := range outcomes {
			if o.Kind != Hit {
				n++
			}
		}
		return n
	}
	for seed := int64(1); seed <= 30; seed++ {
		s, err := trace.Synthesize(seed, "ABCDEFGH", 100)
		require.NoError(t, err)
		best := faults(mustNew(t, NameOptimal, 4), s)
		for _, name := range Names() {
			assert.LessOrEqual(t, best, faults(mustNew(t, name, 4), s), "seed=%d vs %s", seed, name)
		}
	}
}
