// Package trace records what the checker is doing: driver and pass
// boundaries, per-file work and per-closure analysis.
//
// Enable tracing via command-line flags:
//
//	disjoint check --trace=- --trace-level=detail testdata/
//
// Tracers are goroutine-safe; spans are started with Begin and finished
// with End. When tracing is off every call goes to Nop.
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: plus per-file events
//   - LevelDebug: plus per-closure events
//
// # Formats
//
// Text is one indented line per event; NDJSON is one JSON object per line.
// A trace path ending in .ndjson selects NDJSON automatically.
package trace
