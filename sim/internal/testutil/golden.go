// Package testutil provides shared test infrastructure for the trace simulators.
// It holds the golden dataset types used by the sim/policy and sim/branch test
// packages.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Pages  []GoldenPageCase   `json:"pages"`
	Branch []GoldenBranchCase `json:"branch"`
}

// GoldenPageCase is a page trace with the expected console string of every
// replacement policy that accepts Frames.
type GoldenPageCase struct {
	Name     string            `json:"name"`
	Trace    string            `json:"trace"`
	Frames   int               `json:"frames"`
	Outcomes map[string]string `json:"outcomes"` // policy name -> "mmmmhB..."
}

// GoldenBranchCase is a branch trace with the expected prediction for every
// outcome event of the named predictor.
type GoldenBranchCase struct {
	Name        string             `json:"name"`
	Predictor   string             `json:"predictor"`
	Trace       string             `json:"trace"`
	HistoryBits int                `json:"history_bits"`
	CounterBits int                `json:"counter_bits"`
	ChooserBits int                `json:"chooser_bits"`
	Predictions []GoldenPrediction `json:"predictions"`
}

// GoldenPrediction is one expected predictor step.
type GoldenPrediction struct {
	Source       string `json:"source"` // component whose counter predicted
	Index        int    `json:"index"`
	Predicted    string `json:"predicted"` // "T" or "N"
	Counter      int    `json:"counter"`
	History      string `json:"history"` // binary, history_bits wide; empty for bimodal
	Chooser      int    `json:"chooser"` // hybrid only
	Mispredicted bool   `json:"mispredicted"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Pages) == 0 || len(dataset.Branch) == 0 {
		t.Fatal("Golden dataset has no page or branch cases")
	}

	return &dataset
}
