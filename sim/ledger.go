package sim

// WellRates holds one well's instantaneous surface rates for a step.
// Rates are magnitudes (>= 0); role determines direction.
type WellRates struct {
	WellID        string  `json:"well_id"`
	Oil           float64 `json:"oil"`            // stb/d
	Water         float64 `json:"water"`          // stb/d produced
	Gas           float64 `json:"gas"`            // scf/d (solution + free)
	WaterInjected float64 `json:"water_injected"` // stb/d
}

// StepVolumes are one step's integrated surface and reservoir volumes.
type StepVolumes struct {
	Oil      float64 // stb
	Water    float64 // stb
	Gas      float64 // scf
	Injected float64 // stb

	OilRV      float64 // reservoir barrels
	WaterRV    float64
	FreeGasRV  float64
	InjectedRV float64
}

// NetWithdrawalRV is the reservoir-volume withdrawal net of injection.
func (v StepVolumes) NetWithdrawalRV() float64 {
	return v.OilRV + v.WaterRV + v.FreeGasRV - v.InjectedRV
}

// IntegrateStep converts instantaneous well rates into step volumes using
// the rectangular rule (rate × step duration), applied uniformly to every
// stream. Reservoir-volume conversion uses the PVT formation volume factors
// at the current field pressure; only gas in excess of solution gas counts
// as free-gas reservoir volume.
func IntegrateStep(rates []WellRates, stepDays float64, pvt *PVTTable, pressure, waterFVF float64) StepVolumes {
	var v StepVolumes
	for _, r := range rates {
		v.Oil += r.Oil * stepDays
		v.Water += r.Water * stepDays
		v.Gas += r.Gas * stepDays
		v.Injected += r.WaterInjected * stepDays
	}

	bo := pvt.OilFVF(pressure)
	bg := pvt.GasFVF(pressure)
	rs := pvt.SolutionGOR(pressure)

	v.OilRV = v.Oil * bo
	v.WaterRV = v.Water * waterFVF
	if free := v.Gas - v.Oil*rs; free > 0 {
		v.FreeGasRV = free * bg
	}
	v.InjectedRV = v.Injected * waterFVF
	return v
}

// ProductionLedger carries the run's cumulative volumes. Every field is
// monotonically non-decreasing; Accumulate only ever adds non-negative
// increments.
type ProductionLedger struct {
	OilProduced   float64 `json:"oil_produced"`   // stb
	WaterProduced float64 `json:"water_produced"` // stb
	GasProduced   float64 `json:"gas_produced"`   // scf
	WaterInjected float64 `json:"water_injected"` // stb

	ReservoirVolumeProduced float64 `json:"rv_produced"` // rb
	ReservoirVolumeInjected float64 `json:"rv_injected"` // rb
}

// DerivedMetrics are the per-step headline numbers.
type DerivedMetrics struct {
	RecoveryFactor float64 `json:"recovery_factor"` // cum oil / OOIP
	VoidageRatio   float64 `json:"voidage_ratio"`   // cum rv injected / cum rv produced
	GOR            float64 `json:"gor"`             // step gas / step oil, scf/stb
}

// Accumulate folds one step's volumes into the ledger and derives the step
// metrics. The step GOR uses the incremental volumes only and reports zero
// when the step produced no oil; the voidage ratio reports zero until
// something has been produced. Never divides by zero.
func Accumulate(ledger ProductionLedger, v StepVolumes, ooip float64) (ProductionLedger, DerivedMetrics) {
	ledger.OilProduced += v.Oil
	ledger.WaterProduced += v.Water
	ledger.GasProduced += v.Gas
	ledger.WaterInjected += v.Injected
	ledger.ReservoirVolumeProduced += v.OilRV + v.WaterRV + v.FreeGasRV
	ledger.ReservoirVolumeInjected += v.InjectedRV

	var m DerivedMetrics
	if ooip > 0 {
		m.RecoveryFactor = ledger.OilProduced / ooip
	}
	if ledger.ReservoirVolumeProduced > 0 {
		m.VoidageRatio = ledger.ReservoirVolumeInjected / ledger.ReservoirVolumeProduced
	}
	if v.Oil > 0 {
		m.GOR = v.Gas / v.Oil
	}
	return ledger, m
}
