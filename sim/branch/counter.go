// Package branch implements branch predictors over saturating counters: a
// two-level adaptive predictor (a global history register XOR-mixed with a
// branch-site tag indexes the counter table), a site-indexed bimodal
// predictor, and a hybrid that chooses between them per site.
package branch

// Counter is an n-bit saturating counter clamped to [0, 2^n - 1].
// Values at or above 2^(n-1) predict taken.
type Counter struct {
	value int
	max   int
}

// NewCounter returns an n-bit counter holding initial, clamped into range.
func NewCounter(bits, initial int) Counter {
	c := Counter{max: 1<<bits - 1}
	c.value = min(max(initial, 0), c.max)
	return c
}

// Value returns the current count.
func (c Counter) Value() int { return c.value }

// Taken reports whether the counter currently predicts taken.
func (c Counter) Taken() bool {
	return c.value >= (c.max+1)/2
}

// Update moves the counter one step toward the outcome, saturating at the bounds.
func (c *Counter) Update(taken bool) {
	if taken {
		if c.value != c.max {
			c.value++
		}
	} else if c.value != 0 {
		c.value--
	}
}
