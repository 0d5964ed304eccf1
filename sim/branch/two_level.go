package branch

import "github.com/trace-sim/trace-sim/sim/trace"

// TwoLevel is a global-history two-level predictor with per-site history
// mixing. The table holds 2^m counters of n bits each.
type TwoLevel struct {
	historyBits int
	counterBits int
	mask        uint32
	history     uint32
	counters    []Counter
	site        byte
}

// NewTwoLevel creates a predictor with an m-bit history register and n-bit counters.
func NewTwoLevel(historyBits, counterBits int) (*TwoLevel, error) {
	if err := checkWidth(NameTwoLevel, "history bits", historyBits, MaxHistoryBits); err != nil {
		return nil, err
	}
	if err := checkWidth(NameTwoLevel, "counter bits", counterBits, MaxCounterBits); err != nil {
		return nil, err
	}
	p := &TwoLevel{
		historyBits: historyBits,
		counterBits: counterBits,
		mask:        1<<uint(historyBits) - 1,
		counters:    make([]Counter, 1<<uint(historyBits)),
	}
	p.Reset()
	return p, nil
}

func (p *TwoLevel) Name() string { return NameTwoLevel }

// HistoryBits returns m.
func (p *TwoLevel) HistoryBits() int { return p.historyBits }

// CounterBits returns n.
func (p *TwoLevel) CounterBits() int { return p.counterBits }

// History returns the global history register.
func (p *TwoLevel) History() uint32 { return p.history }

// Site returns the branch site currently in effect.
func (p *TwoLevel) Site() byte { return p.site }

// CounterAt returns the value of counter i.
func (p *TwoLevel) CounterAt(i int) int { return p.counters[i].Value() }

// Reset clears the history, sets every counter to its initial count and
// selects site A.
func (p *TwoLevel) Reset() {
	p.history = 0
	p.site = 'A'
	for i := range p.counters {
		p.counters[i] = NewCounter(p.counterBits, initialCount)
	}
}

// Step consumes one branch-alphabet event.
func (p *TwoLevel) Step(ev trace.Event) (Prediction, bool) {
	if _, ok := siteTags[ev.Symbol]; ok {
		p.site = ev.Symbol
		return Prediction{}, false
	}
	taken := ev.Symbol == 'T'
	index, predicted := p.lookup()
	p.counters[index].Update(taken)
	p.shift(taken)

	return Prediction{
		Event:        ev,
		Site:         p.site,
		Source:       NameTwoLevel,
		Index:        index,
		Predicted:    predicted,
		Taken:        taken,
		Counter:      p.counters[index].Value(),
		History:      p.history,
		HistoryBits:  p.historyBits,
		Mispredicted: predicted != taken,
	}, true
}

// lookup returns the table index for the current history and site, and the
// prediction of the counter there.
func (p *TwoLevel) lookup() (int, bool) {
	index := int((p.history ^ siteTags[p.site]) & p.mask)
	return index, p.counters[index].Taken()
}

// shift moves outcome taken into the history register.
func (p *TwoLevel) shift(taken bool) {
	p.history = (p.history<<1 | boolBit(taken)) & p.mask
}
