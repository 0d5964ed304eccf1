package branch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trace-sim/trace-sim/sim/trace"
)

// classroomTrace is the branch trace of the predictor exercise sheet.
const classroomTrace = "ANNT BT AT BNN ATT BT AN"

func newClassroom(t *testing.T) *TwoLevel {
	t.Helper()
	p, err := NewTwoLevel(DefaultHistoryBits, DefaultCounterBits)
	require.NoError(t, err)
	return p
}

func TestTwoLevel_FirstNotTaken_ExactState(t *testing.T) {
	// GIVEN m=3, n=2, site A, history 000 and every counter at 1
	p := newClassroom(t)

	// WHEN the first outcome is N
	preds, err := Collect(p, "N")
	require.NoError(t, err)
	require.Len(t, preds, 1)
	got := preds[0]

	// THEN 1 >= 2 is false so N is predicted, counter 1 -> 0, history stays 000
	assert.False(t, got.Predicted)
	assert.False(t, got.Taken)
	assert.Equal(t, 0, got.Counter)
	assert.Equal(t, "000", got.HistoryString())
	assert.False(t, got.Mispredicted)
	assert.Equal(t, 0xA&7, got.Index)
	assert.Equal(t, byte('A'), got.Site)
}

func TestTwoLevel_ClassroomTrace_MatchesHandTrace(t *testing.T) {
	p := newClassroom(t)

	preds, err := Collect(p, classroomTrace)
	require.NoError(t, err)

	want := []string{
		"N 0 000 n", "N 0 000 n", "N 1 001 y", "N 2 011 y",
		"N 2 111 y", "N 0 110 n", "N 0 100 n", "N 2 001 y",
		"N 2 011 y", "N 2 111 y", "N 0 110 n",
	}
	wantIndex := []int{2, 2, 2, 2, 1, 4, 5, 6, 3, 0, 5}
	require.Len(t, preds, len(want))
	for i, pred := range preds {
		predicted, mis := "N", "n"
		if pred.Predicted {
			predicted = "T"
		}
		if pred.Mispredicted {
			mis = "y"
		}
		assert.Equal(t, want[i], fmt.Sprintf("%s %d %s %s", predicted, pred.Counter, pred.HistoryString(), mis), "prediction %d", i)
		assert.Equal(t, wantIndex[i], pred.Index, "prediction %d", i)
	}
	assert.Equal(t, uint32(0b110), p.History())
	assert.Equal(t, byte('A'), p.Site())
}

func TestTwoLevel_SiteMarker_SwitchesTagWithoutOutput(t *testing.T) {
	p := newClassroom(t)

	preds, err := Collect(p, "B T")
	require.NoError(t, err)
	require.Len(t, preds, 1, "markers produce no prediction")
	assert.Equal(t, byte('B'), preds[0].Site)
	assert.Equal(t, 0xB&7, preds[0].Index)
	assert.Equal(t, 2, p.CounterAt(3))
}

func TestTwoLevel_CounterSaturatesAndHistoryWraps(t *testing.T) {
	// GIVEN a 1-bit history so the index is just the last outcome
	p, err := NewTwoLevel(1, 2)
	require.NoError(t, err)

	preds, err := Collect(p, "TTTTT")
	require.NoError(t, err)

	counters := make([]int, len(preds))
	predicted := make([]bool, len(preds))
	for i, pred := range preds {
		counters[i] = pred.Counter
		predicted[i] = pred.Predicted
		assert.Equal(t, "1", pred.HistoryString())
	}
	assert.Equal(t, []int{2, 2, 3, 3, 3}, counters)
	assert.Equal(t, []bool{false, false, true, true, true}, predicted)
}

func TestTwoLevel_CountersStartAtOneForAnyWidth(t *testing.T) {
	for _, n := range []int{1, 2, 3, 8} {
		p, err := NewTwoLevel(3, n)
		require.NoError(t, err)
		for i := 0; i < 8; i++ {
			assert.Equal(t, 1, p.CounterAt(i), "n=%d counter %d", n, i)
		}
	}
}

func TestTwoLevel_InvalidWidths_ReturnWidthError(t *testing.T) {
	tests := []struct {
		m, n  int
		param string
	}{
		{0, 2, "history bits"},
		{-1, 2, "history bits"},
		{MaxHistoryBits + 1, 2, "history bits"},
		{3, 0, "counter bits"},
		{3, MaxCounterBits + 1, "counter bits"},
	}
	for _, tt := range tests {
		p, err := NewTwoLevel(tt.m, tt.n)
		assert.Nil(t, p)
		var widthErr *WidthError
		require.True(t, errors.As(err, &widthErr), "m=%d n=%d", tt.m, tt.n)
		assert.Equal(t, NameTwoLevel, widthErr.Predictor)
		assert.Equal(t, tt.param, widthErr.Param)
	}
}

func TestWidthError_Message(t *testing.T) {
	err := &WidthError{Predictor: NameHybrid, Param: "chooser bits", Value: 0, Min: 1, Max: MaxChooserBits}
	assert.Equal(t, "hybrid: chooser bits must be in [1, 24], got 0", err.Error())
}

func TestNew_AllNames_ReturnMatchingPredictor(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			p, err := New(name, DefaultWidths())
			require.NoError(t, err)
			assert.Equal(t, name, p.Name())
		})
	}
}

func TestNew_UnknownName_ListsValidPredictors(t *testing.T) {
	p, err := New("gshare", DefaultWidths())
	assert.Nil(t, p)
	require.Error(t, err)
	for _, name := range Names() {
		assert.Contains(t, err.Error(), name)
	}
}

func TestNew_InvalidWidth_ReturnsNilInterface(t *testing.T) {
	// GIVEN a hybrid with a zero-width chooser
	w := DefaultWidths()
	w.ChooserBits = 0

	p, err := New(NameHybrid, w)

	// THEN no predictor wraps a nil pointer and the error is typed
	assert.True(t, p == nil)
	var widthErr *WidthError
	assert.ErrorAs(t, err, &widthErr)
}

func TestNames_Sorted(t *testing.T) {
	assert.Equal(t, []string{NameBimodal, NameHybrid, NameTwoLevel}, Names())
}

func TestRun_InvalidToken_ReturnsTypedError(t *testing.T) {
	p := newClassroom(t)

	preds, err := Collect(p, "AN X T")
	assert.Len(t, preds, 1)
	var tokenErr *trace.InvalidTokenError
	require.True(t, errors.As(err, &tokenErr))
	assert.Equal(t, 'X', tokenErr.Token)
	assert.Equal(t, trace.BranchAlphabet, tokenErr.Alphabet)
}

func TestRun_ResetsBetweenRuns(t *testing.T) {
	p := newClassroom(t)

	first, err := Collect(p, classroomTrace)
	require.NoError(t, err)
	second, err := Collect(p, classroomTrace)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPrediction_HistoryString_PadsToWidth(t *testing.T) {
	assert.Equal(t, "00101", Prediction{History: 5, HistoryBits: 5}.HistoryString())
	assert.Equal(t, "0", Prediction{History: 0, HistoryBits: 1}.HistoryString())
}
