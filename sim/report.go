package sim

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// RunSummary is the end-of-run rollup: terminal status, final ledger, and
// headline metrics.
type RunSummary struct {
	Status         RunState         `json:"status"`
	AbortReason    string           `json:"abort_reason,omitempty"`
	Steps          int              `json:"steps"`
	FinalPressure  float64          `json:"final_pressure"`
	Ledger         ProductionLedger `json:"ledger"`
	RecoveryFactor float64          `json:"recovery_factor"`
	FinalGOR       float64          `json:"final_gor"`
	VoidageRatio   float64          `json:"voidage_ratio"`
	WarningCount   int              `json:"warning_count"`
}

// Summary builds the final rollup from the run's history.
func (s *Simulator) Summary() RunSummary {
	m := s.finalMetrics()
	warnings := 0
	for _, sr := range s.History {
		warnings += len(sr.Warnings)
	}
	return RunSummary{
		Status:         s.State,
		AbortReason:    s.AbortReason,
		Steps:          s.StepCount,
		FinalPressure:  s.Reservoir.FieldPressure(s.ctx.Grid),
		Ledger:         s.Ledger,
		RecoveryFactor: m.RecoveryFactor,
		FinalGOR:       m.GOR,
		VoidageRatio:   m.VoidageRatio,
		WarningCount:   warnings,
	}
}

// Print displays the summary at the end of a run.
func (r RunSummary) Print() {
	fmt.Println("=== Field Development Summary ===")
	fmt.Printf("Status               : %s\n", r.Status)
	if r.AbortReason != "" {
		fmt.Printf("Abort reason         : %s\n", r.AbortReason)
	}
	fmt.Printf("Steps simulated      : %d\n", r.Steps)
	fmt.Printf("Final field pressure : %.1f psi\n", r.FinalPressure)
	fmt.Printf("Cumulative oil       : %s stb\n", humanize.CommafWithDigits(r.Ledger.OilProduced, 0))
	fmt.Printf("Cumulative water     : %s stb\n", humanize.CommafWithDigits(r.Ledger.WaterProduced, 0))
	fmt.Printf("Cumulative gas       : %s scf\n", humanize.CommafWithDigits(r.Ledger.GasProduced, 0))
	fmt.Printf("Water injected       : %s stb\n", humanize.CommafWithDigits(r.Ledger.WaterInjected, 0))
	fmt.Printf("Recovery factor      : %.2f%%\n", r.RecoveryFactor*100)
	fmt.Printf("Final GOR            : %.1f scf/stb\n", r.FinalGOR)
	fmt.Printf("Voidage ratio        : %.3f\n", r.VoidageRatio)
	fmt.Printf("Warnings recorded    : %d\n", r.WarningCount)
}
