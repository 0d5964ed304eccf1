package branch

import (
	"fmt"
	"iter"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/trace-sim/trace-sim/sim/trace"
)

const (
	// DefaultHistoryBits is m in the classroom exercise.
	DefaultHistoryBits = 3
	// DefaultCounterBits is n in the classroom exercise.
	DefaultCounterBits = 2
	// DefaultChooserBits sizes the hybrid chooser so sites A and B get
	// separate entries.
	DefaultChooserBits = 2

	// MaxHistoryBits bounds the counter table at 2^24 entries.
	MaxHistoryBits = 24
	// MaxCounterBits bounds counter values to what an int comfortably holds.
	MaxCounterBits = 16
	// MaxChooserBits bounds the chooser table like the counter table.
	MaxChooserBits = 24

	// initialCount is the starting value of every counter, independent of n.
	initialCount = 1
	// chooserBits is the width of each hybrid chooser counter.
	chooserBits = 2
)

// siteTags maps branch-site markers to the tag mixed into the table index.
var siteTags = map[byte]uint32{
	'A': 0xA,
	'B': 0xB,
}

// Registry names of the predictors.
const (
	NameTwoLevel = "two-level"
	NameBimodal  = "bimodal"
	NameHybrid   = "hybrid"
)

// ValidPredictorNames is the set of recognized predictor names.
// Shared by sim.SimConfig.Validate() and New() to avoid duplication.
var ValidPredictorNames = map[string]bool{
	NameTwoLevel: true,
	NameBimodal:  true,
	NameHybrid:   true,
}

// Names returns the recognized predictor names in sorted order.
func Names() []string {
	names := make([]string, 0, len(ValidPredictorNames))
	for name := range ValidPredictorNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Widths sizes a predictor. Bimodal reads HistoryBits as its table index
// width; only Hybrid reads ChooserBits.
type Widths struct {
	HistoryBits int // m
	CounterBits int // n
	ChooserBits int // k
}

// DefaultWidths returns the classroom m=3, n=2 sizing with a k=2 chooser.
func DefaultWidths() Widths {
	return Widths{HistoryBits: DefaultHistoryBits, CounterBits: DefaultCounterBits, ChooserBits: DefaultChooserBits}
}

// WidthError reports a predictor width outside its accepted range.
type WidthError struct {
	Predictor string
	Param     string
	Value     int
	Min, Max  int
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("%s: %s must be in [%d, %d], got %d", e.Predictor, e.Param, e.Min, e.Max, e.Value)
}

func checkWidth(predictor, param string, value, maxValue int) error {
	if value < 1 || value > maxValue {
		return &WidthError{Predictor: predictor, Param: param, Value: value, Min: 1, Max: maxValue}
	}
	return nil
}

// Prediction is the result of one outcome event.
type Prediction struct {
	Event        trace.Event
	Site         byte   // branch site in effect: 'A' or 'B'
	Source       string // predictor whose counter made the prediction
	Index        int    // counter table index used
	Predicted    bool   // predicted taken
	Taken        bool   // actual outcome
	Counter      int    // counter value after the update
	History      uint32 // history register after the update
	HistoryBits  int    // zero for predictors without a history register
	Chooser      int    // hybrid only: chooser counter after the update
	Mispredicted bool
}

// HistoryString renders the history register as HistoryBits binary digits,
// or the empty string when the predictor keeps no history.
func (p Prediction) HistoryString() string {
	if p.HistoryBits == 0 {
		return ""
	}
	s := strconv.FormatUint(uint64(p.History), 2)
	if len(s) < p.HistoryBits {
		s = strings.Repeat("0", p.HistoryBits-len(s)) + s
	}
	return s
}

// Predictor is a branch predictor driven by branch-alphabet events.
type Predictor interface {
	Name() string
	// Reset restores every counter and register to its initial state.
	Reset()
	// Step consumes one event. A site marker switches the current site and
	// returns false; an outcome returns its prediction and true.
	Step(ev trace.Event) (Prediction, bool)
}

// New creates a predictor by name.
func New(name string, w Widths) (Predictor, error) {
	switch name {
	case NameTwoLevel:
		return asPredictor(NewTwoLevel(w.HistoryBits, w.CounterBits))
	case NameBimodal:
		return asPredictor(NewBimodal(w.HistoryBits, w.CounterBits))
	case NameHybrid:
		return asPredictor(NewHybrid(w.ChooserBits, w.HistoryBits, w.CounterBits))
	default:
		return nil, fmt.Errorf("unknown predictor %q; valid predictors: [%s]", name, strings.Join(Names(), ", "))
	}
}

// asPredictor keeps a failed constructor from producing a non-nil Predictor
// that wraps a nil pointer.
func asPredictor[P Predictor](p P, err error) (Predictor, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Run lazily simulates p over the branch trace s after resetting it. Site
// markers and whitespace yield nothing; an invalid token yields a
// *trace.InvalidTokenError and ends the sequence.
func Run(p Predictor, s string) iter.Seq2[Prediction, error] {
	return func(yield func(Prediction, error) bool) {
		p.Reset()
		for ev, err := range trace.Scan(s, trace.BranchAlphabet) {
			if err != nil {
				yield(Prediction{}, err)
				return
			}
			pred, ok := p.Step(ev)
			if !ok {
				continue
			}
			logrus.Debugf("[%s] site=%c %v source=%s index=%d predicted=%t counter=%d history=%s",
				p.Name(), pred.Site, pred.Event, pred.Source, pred.Index, pred.Predicted, pred.Counter, pred.HistoryString())
			if !yield(pred, nil) {
				return
			}
		}
	}
}

// Collect drains Run into a slice, stopping at the first error.
func Collect(p Predictor, s string) ([]Prediction, error) {
	var preds []Prediction
	for pred, err := range Run(p, s) {
		if err != nil {
			return preds, err
		}
		preds = append(preds, pred)
	}
	return preds, nil
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
