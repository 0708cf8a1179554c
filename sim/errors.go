package sim

import "errors"

var (
	// ErrBadScenario marks configuration errors caught before the run
	// enters the Running state.
	ErrBadScenario = errors.New("invalid scenario configuration")

	// ErrNotConverged is returned by a FlowSolver when the step's
	// pressure/rate distribution failed to converge. The orchestrator
	// retries with a reduced step duration up to the retry budget.
	ErrNotConverged = errors.New("flow solve did not converge")

	// ErrNegativeSaturation marks a phase saturation computed negative
	// beyond tolerance before normalization. Always fatal.
	ErrNegativeSaturation = errors.New("negative phase saturation before normalization")
)
