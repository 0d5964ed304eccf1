package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFO_FillsWithoutEviction(t *testing.T) {
	// GIVEN a 4-frame FIFO
	f, err := NewFIFO(4)
	require.NoError(t, err)

	// WHEN four distinct pages are referenced
	outcomes, err := Collect(f, "ABCD")

	// THEN each is a miss into an empty slot
	require.NoError(t, err)
	assert.Equal(t, "mmmm", chars(outcomes))

	// AND a repeat is a hit
	outcomes, err = Collect(f, "ABCDA")
	require.NoError(t, err)
	assert.Equal(t, Hit, outcomes[4].Kind)
}

func TestFIFO_FifthDistinctPage_EvictsOldest(t *testing.T) {
	f, err := NewFIFO(4)
	require.NoError(t, err)

	outcomes, err := Collect(f, "ABCDE")
	require.NoError(t, err)

	require.Len(t, outcomes, 5)
	assert.Equal(t, Evict, outcomes[4].Kind)
	assert.Equal(t, byte('A'), outcomes[4].Evicted)
	assert.Equal(t, []byte("BCDE"), f.Queue(), "new page joins the tail")
}

func TestFIFO_HitDoesNotReorder(t *testing.T) {
	// GIVEN A is hit repeatedly after insertion
	f, err := NewFIFO(4)
	require.NoError(t, err)
	outcomes, err := Collect(f, "ABCD AAAA E")
	require.NoError(t, err)

	// THEN A is still the oldest and is evicted first
	assert.Equal(t, byte('A'), outcomes[len(outcomes)-1].Evicted)
}

func TestFIFO_EvictionOrderWrapsRoundRobin(t *testing.T) {
	f, err := NewFIFO(3)
	require.NoError(t, err)

	outcomes, err := Collect(f, "ABC DEF GH")
	require.NoError(t, err)

	assert.Equal(t, "mmmABCDE", chars(outcomes))
	assert.Equal(t, []byte("FGH"), f.Queue())
}

func TestFIFO_CapacityOne(t *testing.T) {
	f, err := NewFIFO(1)
	require.NoError(t, err)

	outcomes, err := Collect(f, "AABA")
	require.NoError(t, err)
	assert.Equal(t, "mhAB", chars(outcomes))
}
