package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Well roles.
const (
	RoleProducer = "producer"
	RoleInjector = "injector"
)

// WellDefinition describes a single well in the development program.
// Immutable once loaded from the scenario.
type WellDefinition struct {
	ID            string  // unique well identifier
	Role          string  // "producer" or "injector"
	ActivationDay float64 // calendar day the well comes online
	TargetRate    float64 // surface rate target, stb/d liquid (producer) or bwpd (injector)
	TargetBHP     float64 // bottom-hole pressure target, psi (0 = rate-controlled)
	MinBHP        float64 // minimum flowing BHP, psi
	MaxBHP        float64 // maximum injection BHP, psi
}

// Validate checks a single well definition.
func (w WellDefinition) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("%w: well with empty ID", ErrBadScenario)
	}
	if w.Role != RoleProducer && w.Role != RoleInjector {
		return fmt.Errorf("%w: well %q has unknown role %q", ErrBadScenario, w.ID, w.Role)
	}
	if w.ActivationDay < 0 {
		return fmt.Errorf("%w: well %q activation day must be >= 0", ErrBadScenario, w.ID)
	}
	if w.TargetRate < 0 {
		return fmt.Errorf("%w: well %q target rate must be >= 0", ErrBadScenario, w.ID)
	}
	if w.MinBHP < 0 || (w.MaxBHP != 0 && w.MaxBHP < w.MinBHP) {
		return fmt.Errorf("%w: well %q BHP limits out of order", ErrBadScenario, w.ID)
	}
	return nil
}

// WellActivationState tracks which wells are open. Activation is monotonic:
// once a well is marked active it stays active for the remainder of the run.
type WellActivationState struct {
	active       map[string]bool
	activatedDay map[string]float64
	warned       map[string]bool // beyond-horizon warning emitted once per well
}

// NewWellActivationState returns an activation state with every well closed.
func NewWellActivationState() *WellActivationState {
	return &WellActivationState{
		active:       make(map[string]bool),
		activatedDay: make(map[string]float64),
		warned:       make(map[string]bool),
	}
}

// Active reports whether the well is open.
func (s *WellActivationState) Active(id string) bool {
	return s.active[id]
}

// ActivatedDay returns the day the well came online and whether it has.
func (s *WellActivationState) ActivatedDay(id string) (float64, bool) {
	d, ok := s.activatedDay[id]
	return d, ok
}

// Resolve marks every well whose activation day has arrived as active and
// returns the active wells in definition order. A well scheduled beyond the
// horizon raises a one-time schedule warning and is simply never activated;
// the run continues. Resolve mutates activation flags only, never physical
// state, and never deactivates a well.
func (s *WellActivationState) Resolve(day float64, wells []WellDefinition, horizonDays float64, step int) ([]WellDefinition, []Warning) {
	var warnings []Warning
	active := make([]WellDefinition, 0, len(wells))
	for _, w := range wells {
		if !s.active[w.ID] && w.ActivationDay > horizonDays && !s.warned[w.ID] {
			s.warned[w.ID] = true
			warn := Warning{
				Step: step,
				Code: WarnScheduleBeyondHorizon,
				Detail: fmt.Sprintf("well %s activation day %.0f exceeds horizon %.0f; well stays inactive",
					w.ID, w.ActivationDay, horizonDays),
			}
			logrus.Warnf("%s", warn)
			warnings = append(warnings, warn)
		}
		if !s.active[w.ID] && w.ActivationDay <= day && w.ActivationDay <= horizonDays {
			s.active[w.ID] = true
			s.activatedDay[w.ID] = day
			logrus.Infof("[day %07.1f] well %s activated (%s)", day, w.ID, w.Role)
		}
		if s.active[w.ID] {
			active = append(active, w)
		}
	}
	return active, warnings
}
