package branch

import "github.com/trace-sim/trace-sim/sim/trace"

// Bimodal predicts from a table of 2^m saturating counters indexed by the
// site tag alone. It keeps no history.
type Bimodal struct {
	indexBits   int
	counterBits int
	mask        uint32
	counters    []Counter
	site        byte
}

// NewBimodal creates a bimodal predictor with a 2^indexBits table of
// counterBits-wide counters.
func NewBimodal(indexBits, counterBits int) (*Bimodal, error) {
	if err := checkWidth(NameBimodal, "index bits", indexBits, MaxHistoryBits); err != nil {
		return nil, err
	}
	if err := checkWidth(NameBimodal, "counter bits", counterBits, MaxCounterBits); err != nil {
		return nil, err
	}
	p := &Bimodal{
		indexBits:   indexBits,
		counterBits: counterBits,
		mask:        1<<uint(indexBits) - 1,
		counters:    make([]Counter, 1<<uint(indexBits)),
	}
	p.Reset()
	return p, nil
}

func (p *Bimodal) Name() string { return NameBimodal }

// CounterAt returns the value of counter i.
func (p *Bimodal) CounterAt(i int) int { return p.counters[i].Value() }

func (p *Bimodal) Reset() {
	p.site = 'A'
	for i := range p.counters {
		p.counters[i] = NewCounter(p.counterBits, initialCount)
	}
}

// Step consumes one branch-alphabet event.
func (p *Bimodal) Step(ev trace.Event) (Prediction, bool) {
	if _, ok := siteTags[ev.Symbol]; ok {
		p.site = ev.Symbol
		return Prediction{}, false
	}
	taken := ev.Symbol == 'T'
	index, predicted := p.lookup()
	p.counters[index].Update(taken)

	return Prediction{
		Event:        ev,
		Site:         p.site,
		Source:       NameBimodal,
		Index:        index,
		Predicted:    predicted,
		Taken:        taken,
		Counter:      p.counters[index].Value(),
		Mispredicted: predicted != taken,
	}, true
}

func (p *Bimodal) lookup() (int, bool) {
	index := int(siteTags[p.site] & p.mask)
	return index, p.counters[index].Taken()
}
