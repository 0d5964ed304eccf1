package cmd

import (
	"bufio"
	"fmt"
	"io"
	"iter"

	"github.com/trace-sim/trace-sim/sim/branch"
	"github.com/trace-sim/trace-sim/sim/policy"
)

// WritePageOutcomes writes one symbol per outcome followed by a newline:
// 'h' for a hit, 'm' for a compulsory miss, otherwise the evicted page.
// Outcomes consumed before an error are still written.
func WritePageOutcomes(w io.Writer, outcomes iter.Seq2[policy.Outcome, error]) error {
	bw := bufio.NewWriter(w)
	var runErr error
	for out, err := range outcomes {
		if err != nil {
			runErr = err
			break
		}
		bw.WriteByte(out.Char())
	}
	bw.WriteByte('\n')
	if err := bw.Flush(); err != nil {
		return err
	}
	return runErr
}

// WritePredictions writes one line per prediction in the form
// "T, 1, 001, mispredicted: n". The history column is omitted for
// predictors without a history register.
func WritePredictions(w io.Writer, preds iter.Seq2[branch.Prediction, error]) error {
	bw := bufio.NewWriter(w)
	var runErr error
	for pred, err := range preds {
		if err != nil {
			runErr = err
			break
		}
		if pred.HistoryBits == 0 {
			fmt.Fprintf(bw, "%c, %d, mispredicted: %c\n",
				takenChar(pred.Predicted), pred.Counter, yesNo(pred.Mispredicted))
			continue
		}
		fmt.Fprintf(bw, "%c, %d, %s, mispredicted: %c\n",
			takenChar(pred.Predicted), pred.Counter, pred.HistoryString(), yesNo(pred.Mispredicted))
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return runErr
}

func takenChar(taken bool) byte {
	if taken {
		return 'T'
	}
	return 'N'
}

func yesNo(b bool) byte {
	if b {
		return 'y'
	}
	return 'n'
}
