package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/fieldsim/fieldsim/sim"
)

// ScenarioSpec is the top-level scenario configuration.
// Loaded from YAML via LoadScenario(path). The engine itself never parses
// raw configuration; everything arrives here as validated structured data.
type ScenarioSpec struct {
	Name               string         `yaml:"name"`
	Constants          ConstantsSpec  `yaml:"constants"`
	Step               StepSpec       `yaml:"step"`
	Solver             SolverSpec     `yaml:"solver"`
	InitialSaturations SaturationSpec `yaml:"initial_saturations"`
	Regions            []RegionSpec   `yaml:"regions"`
	PVT                *PVTSpec       `yaml:"pvt,omitempty"` // omitted = built-in default table
	Wells              []WellSpec     `yaml:"wells"`
}

// ConstantsSpec mirrors sim.PhysicalConstants.
type ConstantsSpec struct {
	OilCompressibility   float64 `yaml:"oil_compressibility"`
	WaterCompressibility float64 `yaml:"water_compressibility"`
	BubblePointPressure  float64 `yaml:"bubble_point_pressure"`
	GasLiberationRate    float64 `yaml:"gas_liberation_rate"`
	LiberationOnsetStep  int     `yaml:"liberation_onset_step"`
	AbandonmentPressure  float64 `yaml:"abandonment_pressure"`
	InitialPressure      float64 `yaml:"initial_pressure"`
	OOIP                 float64 `yaml:"ooip,omitempty"` // 0 = derive from grid
	WaterFVF             float64 `yaml:"water_fvf,omitempty"`
}

// StepSpec configures the time discretization.
type StepSpec struct {
	HorizonMonths int     `yaml:"horizon_months"`
	DaysPerStep   float64 `yaml:"days_per_step,omitempty"` // default 30.4375
}

// SolverSpec configures flow-solve retry behaviour.
type SolverSpec struct {
	RetryBudget       int     `yaml:"retry_budget,omitempty"` // default 3
	ProductivityIndex float64 `yaml:"productivity_index,omitempty"`
}

// SaturationSpec is a three-phase saturation triple.
type SaturationSpec struct {
	Water float64 `yaml:"water"`
	Oil   float64 `yaml:"oil"`
	Gas   float64 `yaml:"gas"`
}

// RegionSpec defines one rock region.
type RegionSpec struct {
	Name                string  `yaml:"name"`
	PoreVolume          float64 `yaml:"pore_volume"`
	ConnateWater        float64 `yaml:"connate_water"`
	ResidualOil         float64 `yaml:"residual_oil"`
	RockCompressibility float64 `yaml:"rock_compressibility"`
}

// PVTSpec carries the black-oil property columns.
type PVTSpec struct {
	Pressures   []float64 `yaml:"pressures"`
	OilFVF      []float64 `yaml:"oil_fvf"`
	GasFVF      []float64 `yaml:"gas_fvf"`
	SolutionGOR []float64 `yaml:"solution_gor"`
}

// WellSpec defines one well in the development program.
type WellSpec struct {
	ID            string  `yaml:"id"`
	Role          string  `yaml:"role"`
	ActivationDay float64 `yaml:"activation_day"`
	TargetRate    float64 `yaml:"target_rate"`
	TargetBHP     float64 `yaml:"target_bhp,omitempty"`
	MinBHP        float64 `yaml:"min_bhp,omitempty"`
	MaxBHP        float64 `yaml:"max_bhp,omitempty"`
}

// LoadScenario reads and decodes a scenario file and builds the simulation
// context. Structural validation happens in sim.NewSimulator before the run
// enters the Running state.
func LoadScenario(path string) (*sim.SimulationContext, *ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read scenario: %w", err)
	}
	var spec ScenarioSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	ctx, err := spec.Context()
	if err != nil {
		return nil, nil, err
	}
	return ctx, &spec, nil
}

// Context converts the spec into a sim.SimulationContext, applying the
// scenario-level defaults.
func (spec *ScenarioSpec) Context() (*sim.SimulationContext, error) {
	pvt := sim.DefaultPVTTable()
	if spec.PVT != nil {
		var err error
		pvt, err = sim.NewPVTTable(spec.PVT.Pressures, spec.PVT.OilFVF, spec.PVT.GasFVF, spec.PVT.SolutionGOR)
		if err != nil {
			return nil, err
		}
	}

	grid := &sim.Grid{Regions: make([]sim.RockRegion, len(spec.Regions))}
	for i, r := range spec.Regions {
		grid.Regions[i] = sim.RockRegion{
			Name:                r.Name,
			PoreVolume:          r.PoreVolume,
			ConnateWater:        r.ConnateWater,
			ResidualOil:         r.ResidualOil,
			RockCompressibility: r.RockCompressibility,
		}
	}

	wells := make([]sim.WellDefinition, len(spec.Wells))
	for i, w := range spec.Wells {
		wells[i] = sim.WellDefinition{
			ID:            w.ID,
			Role:          w.Role,
			ActivationDay: w.ActivationDay,
			TargetRate:    w.TargetRate,
			TargetBHP:     w.TargetBHP,
			MinBHP:        w.MinBHP,
			MaxBHP:        w.MaxBHP,
		}
	}

	step := sim.StepConfig{HorizonMonths: spec.Step.HorizonMonths, DaysPerStep: spec.Step.DaysPerStep}
	if step.DaysPerStep == 0 {
		step.DaysPerStep = 30.4375
	}
	solver := sim.SolverConfig{RetryBudget: spec.Solver.RetryBudget}
	if solver.RetryBudget == 0 {
		solver.RetryBudget = 3
	}

	return &sim.SimulationContext{
		Constants: sim.PhysicalConstants{
			OilCompressibility:   spec.Constants.OilCompressibility,
			WaterCompressibility: spec.Constants.WaterCompressibility,
			BubblePointPressure:  spec.Constants.BubblePointPressure,
			GasLiberationRate:    spec.Constants.GasLiberationRate,
			LiberationOnsetStep:  spec.Constants.LiberationOnsetStep,
			AbandonmentPressure:  spec.Constants.AbandonmentPressure,
			InitialPressure:      spec.Constants.InitialPressure,
			OOIP:                 spec.Constants.OOIP,
			WaterFVF:             spec.Constants.WaterFVF,
		},
		Grid:  grid,
		PVT:   pvt,
		Wells: wells,
		Step:  step,
		Solver: solver,
		InitialSaturations: sim.Saturations{
			Water: spec.InitialSaturations.Water,
			Oil:   spec.InitialSaturations.Oil,
			Gas:   spec.InitialSaturations.Gas,
		},
	}, nil
}
