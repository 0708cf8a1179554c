// Package sim provides the development-phase time-stepping engine for
// staged reservoir field simulation.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - well.go: well definitions and the monotonic activation schedule
//   - state.go: per-region reservoir state (pressure, three-phase saturations)
//   - simulator.go: the monthly step loop, run states, and abort handling
//
// # Architecture
//
// The engine advances in fixed monthly steps. Each step resolves the well
// schedule, invokes a FlowSolver for per-well rates, applies material-balance
// pressure depletion (pressure.go), liberates solution gas below bubble point
// (liberation.go), applies rate-driven saturation changes and renormalizes
// (saturation.go), then accumulates cumulative volumes and derived metrics
// (ledger.go). Step snapshots are append-only; an aborted run keeps every
// snapshot produced before the failure.
//
// # Key Interfaces
//
//   - FlowSolver: per-step rate allocation for the active wells. The engine
//     treats it as an opaque, synchronous call; WellModelSolver is the
//     built-in implementation.
//   - HistorySink: optional persistence of step snapshots (see sim/store).
//
// Component results follow the Outcome taxonomy in outcome.go: expected
// physical clamps are recorded as warnings on the step they affected, while
// negative saturations and exhausted solver retries abort the run.
package sim
