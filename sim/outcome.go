package sim

import "fmt"

// OutcomeKind classifies a component result. Components never panic or log
// their own aborts; they return an Outcome and the orchestrator decides
// propagation.
type OutcomeKind int

const (
	// OutcomeOK means the value was computed without intervention.
	OutcomeOK OutcomeKind = iota
	// OutcomeClamped means the value was forced back inside a physical
	// bound. Expected and recoverable; recorded as a step warning.
	OutcomeClamped
	// OutcomeFatal means the inputs indicate an upstream defect. The run
	// must abort rather than mask it.
	OutcomeFatal
)

// Outcome is the tagged result of a per-step physical computation.
type Outcome struct {
	Kind   OutcomeKind
	Value  float64
	Reason string
}

// OK wraps a value computed without intervention.
func OK(v float64) Outcome {
	return Outcome{Kind: OutcomeOK, Value: v}
}

// ClampedTo wraps a value that was clamped to a physical bound.
func ClampedTo(v float64, reason string) Outcome {
	return Outcome{Kind: OutcomeClamped, Value: v, Reason: reason}
}

// FatalOutcome flags an input combination that signals an upstream bug.
func FatalOutcome(reason string) Outcome {
	return Outcome{Kind: OutcomeFatal, Reason: reason}
}

// Warning codes attached to StepResults. Non-fatal conditions are always
// recorded alongside the step they affected so they are auditable after
// the run.
const (
	WarnScheduleBeyondHorizon = "schedule_beyond_horizon"
	WarnSaturationBound       = "saturation_bound_violation"
	WarnPressureFloor         = "pressure_at_abandonment_floor"
	WarnSolverRetry           = "solver_retry"
	WarnProductionClamped     = "production_clamped_to_mobile_volume"
)

// Warning records a non-fatal condition raised during a step.
type Warning struct {
	Step   int    `json:"step"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func (w Warning) String() string {
	return fmt.Sprintf("step %d: %s: %s", w.Step, w.Code, w.Detail)
}
