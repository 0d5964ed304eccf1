package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trace-sim/trace-sim/sim/internal/testutil"
)

// TestPolicies_GoldenDataset verifies every policy against the reference
// console strings in testdata/goldendataset.json.
func TestPolicies_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)

	for _, tc := range dataset.Pages {
		for name, want := range tc.Outcomes {
			t.Run(tc.Name+"/"+name, func(t *testing.T) {
				// GIVEN a policy sized for the case
				p := mustNew(t, name, tc.Frames)

				// WHEN the trace is simulated
				outcomes, err := Collect(p, tc.Trace)

				// THEN the console string matches exactly
				require.NoError(t, err)
				assert.Equal(t, want, chars(outcomes))
			})
		}
	}
}

// TestPolicies_GoldenDataset_CoversEveryPolicy keeps the dataset from silently
// dropping a policy.
func TestPolicies_GoldenDataset_CoversEveryPolicy(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	covered := map[string]bool{}
	for _, tc := range dataset.Pages {
		for name := range tc.Outcomes {
			require.True(t, ValidPolicyNames[name], "golden case %s names unknown policy %q", tc.Name, name)
			covered[name] = true
		}
	}
	for _, name := range Names() {
		assert.True(t, covered[name], "no golden case for %s", name)
	}
}
