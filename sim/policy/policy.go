// Package policy implements the page-replacement simulators: Optimal, FIFO,
// Inverse-MRU, Pseudo-LRU and exact LRU over a fixed-capacity frame set.
package policy

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/trace-sim/trace-sim/sim/trace"
)

// DefaultCapacity is the frame count of the classroom exercises.
const DefaultCapacity = 4

// Kind classifies the outcome of a single page reference.
type Kind int

const (
	// Hit means the page was already resident.
	Hit Kind = iota
	// Miss means the page was placed into an empty slot.
	Miss
	// Evict means a resident page was replaced to make room.
	Evict
)

func (k Kind) String() string {
	switch k {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case Evict:
		return "evict"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the decision a policy made for one page reference.
type Outcome struct {
	Event   trace.Event
	Kind    Kind
	Slot    int  // slot that holds the referenced page afterwards
	Evicted byte // evicted page identifier; zero unless Kind == Evict
}

// Char maps the outcome to its console symbol: 'h' for a hit, 'm' for a miss
// into an empty slot, otherwise the evicted page identifier.
func (o Outcome) Char() byte {
	switch o.Kind {
	case Hit:
		return 'h'
	case Miss:
		return 'm'
	default:
		return o.Evicted
	}
}

// Policy is a page-replacement simulator over a fixed set of frames.
type Policy interface {
	Name() string
	Capacity() int
	// Frames returns a copy of the occupied slots in slot order.
	Frames() []byte
	// Reset empties every frame and clears auxiliary state.
	Reset()
	// Reference services events[i]. The full event slice is passed so that
	// look-ahead policies may inspect events[i+1:].
	Reference(events []trace.Event, i int) Outcome
}

// CapacityError reports a frame count a policy cannot be built with.
type CapacityError struct {
	Policy   string
	Capacity int
	Reason   string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: invalid capacity %d: %s", e.Policy, e.Capacity, e.Reason)
}

func checkPositive(name string, capacity int) error {
	if capacity <= 0 {
		return &CapacityError{Policy: name, Capacity: capacity, Reason: "must be positive"}
	}
	return nil
}

// Run lazily simulates p over the page trace s. p is reset before the first
// reference, so a Policy may be reused across runs. Whitespace produces no
// outcome; an invalid token yields a *trace.InvalidTokenError after the
// outcomes of every event that precedes it.
func Run(p Policy, s string) iter.Seq2[Outcome, error] {
	return func(yield func(Outcome, error) bool) {
		events, scanErr := trace.Collect(s, trace.PageAlphabet)
		p.Reset()
		for i := range events {
			out := p.Reference(events, i)
			logrus.Debugf("[%s] %v -> %s slot=%d frames=%q", p.Name(), out.Event, out.Kind, out.Slot, p.Frames())
			if !yield(out, nil) {
				return
			}
		}
		if scanErr != nil {
			yield(Outcome{}, scanErr)
		}
	}
}

// Collect drains Run into a slice, stopping at the first error.
func Collect(p Policy, s string) ([]Outcome, error) {
	var outcomes []Outcome
	for out, err := range Run(p, s) {
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// Registry names of the replacement policies.
const (
	NameOptimal    = "optimal"
	NameFIFO       = "fifo"
	NameInverseMRU = "inverse-mru"
	NamePseudoLRU  = "pseudo-lru"
	NameLRU        = "lru"
)

// ValidPolicyNames is the set of recognized replacement policy names.
// Shared by sim.SimConfig.Validate() and New() to avoid duplication.
var ValidPolicyNames = map[string]bool{
	NameOptimal:    true,
	NameFIFO:       true,
	NameInverseMRU: true,
	NamePseudoLRU:  true,
	NameLRU:        true,
}

// Names returns the recognized policy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(ValidPolicyNames))
	for name := range ValidPolicyNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a replacement policy by name with the given frame count.
func New(name string, capacity int) (Policy, error) {
	switch name {
	case NameOptimal:
		return asPolicy(NewOptimal(capacity))
	case NameFIFO:
		return asPolicy(NewFIFO(capacity))
	case NameInverseMRU:
		return asPolicy(NewInverseMRU(capacity))
	case NamePseudoLRU:
		return asPolicy(NewPseudoLRU(capacity))
	case NameLRU:
		return asPolicy(NewLRU(capacity))
	default:
		return nil, fmt.Errorf("unknown replacement policy %q; valid policies: [%s]", name, strings.Join(Names(), ", "))
	}
}

// asPolicy keeps a failed constructor from producing a non-nil Policy that
// wraps a nil pointer.
func asPolicy[P Policy](p P, err error) (Policy, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}
