// Package sim holds the run configuration for the trace simulators.
//
// # Reading Guide
//
// Start with these files to understand the simulators:
//   - trace/trace.go: tokenizing a trace into events, skipping whitespace
//   - policy/policy.go: the Policy interface, Outcome, and the lazy Run loop
//   - branch/predictor.go: the Predictor interface, registry and lazy Run loop
//   - branch/two_level.go: the two-level adaptive predictor and its Step
//
// # Architecture
//
// Every simulator is a struct that owns all of its state, built per run and
// consumed through an iter.Seq2 of structured results. No package keeps
// process-wide mutable state, and none writes to the console; cmd/ formats
// the results.
//   - sim/trace/: events, alphabets, InvalidTokenError, synthetic traces
//   - sim/policy/: Optimal, FIFO, Inverse-MRU, Pseudo-LRU, LRU over a shared frame set
//   - sim/branch/: saturating counters; two-level, bimodal and hybrid predictors
//
// # Configuration
//
// SimConfig is decoded from YAML (strict KnownFields) or TOML (undecoded keys
// rejected). Unset fields are nil so that layered configs only override what
// they name.
package sim
