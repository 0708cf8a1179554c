package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func monthlyDays(step int) float64 {
	return float64(step-1) * 30.4375
}

func TestResolve_ActivationBoundary(t *testing.T) {
	wells := []WellDefinition{
		{ID: "P-01", Role: RoleProducer, ActivationDay: 200, TargetRate: 1000},
	}
	st := NewWellActivationState()

	// first step whose day >= 200 is step 8 (day 213.06)
	for step := 1; step <= 12; step++ {
		active, _ := st.Resolve(monthlyDays(step), wells, 3650, step)
		if monthlyDays(step) >= 200 {
			assert.Len(t, active, 1, "step %d", step)
		} else {
			assert.Empty(t, active, "step %d", step)
		}
	}
}

func TestResolve_MonotonicActivation(t *testing.T) {
	wells := []WellDefinition{
		{ID: "P-01", Role: RoleProducer, ActivationDay: 100, TargetRate: 1000},
	}
	st := NewWellActivationState()

	active, _ := st.Resolve(150, wells, 3650, 1)
	assert.Len(t, active, 1)
	day, ok := st.ActivatedDay("P-01")
	assert.True(t, ok)
	assert.Equal(t, 150.0, day)

	// resolving an earlier day never deactivates
	active, _ = st.Resolve(50, wells, 3650, 2)
	assert.Len(t, active, 1)
	assert.True(t, st.Active("P-01"))
}

func TestResolve_BeyondHorizonWarnsOnceAndStaysInactive(t *testing.T) {
	wells := []WellDefinition{
		{ID: "P-01", Role: RoleProducer, ActivationDay: 0, TargetRate: 1000},
		{ID: "P-99", Role: RoleProducer, ActivationDay: 99999, TargetRate: 1000},
	}
	st := NewWellActivationState()

	active, warns := st.Resolve(0, wells, 3650, 1)
	assert.Len(t, active, 1)
	assert.Equal(t, "P-01", active[0].ID)
	if assert.Len(t, warns, 1) {
		assert.Equal(t, WarnScheduleBeyondHorizon, warns[0].Code)
	}

	// warning is one-time, well stays out for the rest of the run
	active, warns = st.Resolve(3650, wells, 3650, 120)
	assert.Len(t, active, 1)
	assert.Empty(t, warns)
	assert.False(t, st.Active("P-99"))
}

func TestWellDefinition_Validate(t *testing.T) {
	cases := []struct {
		name string
		well WellDefinition
		ok   bool
	}{
		{"valid producer", WellDefinition{ID: "P-01", Role: RoleProducer, TargetRate: 500}, true},
		{"valid injector", WellDefinition{ID: "I-01", Role: RoleInjector, TargetRate: 800}, true},
		{"empty id", WellDefinition{Role: RoleProducer}, false},
		{"bad role", WellDefinition{ID: "X", Role: "observer"}, false},
		{"negative activation day", WellDefinition{ID: "X", Role: RoleProducer, ActivationDay: -1}, false},
		{"negative rate", WellDefinition{ID: "X", Role: RoleProducer, TargetRate: -5}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.well.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrBadScenario)
			}
		})
	}
}
