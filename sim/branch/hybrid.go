package branch

import "github.com/trace-sim/trace-sim/sim/trace"

// Hybrid runs a TwoLevel and a Bimodal predictor side by side and lets a
// table of 2^k 2-bit chooser counters, indexed by site tag, pick one per
// outcome. A chooser at 2 or above selects TwoLevel.
//
// Only the selected component trains its counter, but the TwoLevel history
// always shifts. A chooser moves only when the components disagree: toward
// TwoLevel when it was right, toward Bimodal otherwise.
type Hybrid struct {
	twoLevel *TwoLevel
	bimodal  *Bimodal
	mask     uint32
	chooser  []Counter
}

// NewHybrid creates a hybrid of an (m, n) TwoLevel and an (m, n) Bimodal
// with a 2^k chooser table.
func NewHybrid(k, m, n int) (*Hybrid, error) {
	if err := checkWidth(NameHybrid, "chooser bits", k, MaxChooserBits); err != nil {
		return nil, err
	}
	twoLevel, err := NewTwoLevel(m, n)
	if err != nil {
		return nil, err
	}
	bimodal, err := NewBimodal(m, n)
	if err != nil {
		return nil, err
	}
	h := &Hybrid{
		twoLevel: twoLevel,
		bimodal:  bimodal,
		mask:     1<<uint(k) - 1,
		chooser:  make([]Counter, 1<<uint(k)),
	}
	h.Reset()
	return h, nil
}

func (h *Hybrid) Name() string { return NameHybrid }

// ChooserAt returns the value of chooser counter i.
func (h *Hybrid) ChooserAt(i int) int { return h.chooser[i].Value() }

// Components returns the history-based and site-only predictors.
func (h *Hybrid) Components() (*TwoLevel, *Bimodal) { return h.twoLevel, h.bimodal }

func (h *Hybrid) Reset() {
	h.twoLevel.Reset()
	h.bimodal.Reset()
	for i := range h.chooser {
		h.chooser[i] = NewCounter(chooserBits, initialCount)
	}
}

// Step consumes one branch-alphabet event.
func (h *Hybrid) Step(ev trace.Event) (Prediction, bool) {
	if _, ok := siteTags[ev.Symbol]; ok {
		h.twoLevel.Step(ev)
		h.bimodal.Step(ev)
		return Prediction{}, false
	}
	taken := ev.Symbol == 'T'
	site := h.twoLevel.site
	tIndex, tPredicted := h.twoLevel.lookup()
	bIndex, bPredicted := h.bimodal.lookup()
	choice := &h.chooser[siteTags[site]&h.mask]

	pred := Prediction{Event: ev, Site: site, Taken: taken}
	if choice.Taken() {
		h.twoLevel.counters[tIndex].Update(taken)
		pred.Source, pred.Index, pred.Predicted = NameTwoLevel, tIndex, tPredicted
		pred.Counter = h.twoLevel.counters[tIndex].Value()
	} else {
		h.bimodal.counters[bIndex].Update(taken)
		pred.Source, pred.Index, pred.Predicted = NameBimodal, bIndex, bPredicted
		pred.Counter = h.bimodal.counters[bIndex].Value()
	}
	h.twoLevel.shift(taken)

	if tPredicted != bPredicted {
		choice.Update(tPredicted == taken)
	}

	pred.History = h.twoLevel.history
	pred.HistoryBits = h.twoLevel.historyBits
	pred.Chooser = choice.Value()
	pred.Mispredicted = pred.Predicted != taken
	return pred, true
}
