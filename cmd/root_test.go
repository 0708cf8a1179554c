package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	sim "github.com/fieldsim/fieldsim/sim"
)

func TestSummaryPrint_WritesToStdout(t *testing.T) {
	summary := sim.RunSummary{
		Status:        sim.StateCompleted,
		Steps:         240,
		FinalPressure: 1845.2,
		Ledger: sim.ProductionLedger{
			OilProduced:   12345678,
			WaterProduced: 2345678,
			GasProduced:   4.5e9,
			WaterInjected: 9876543,
		},
		RecoveryFactor: 0.23,
		FinalGOR:       512.3,
		VoidageRatio:   0.97,
	}

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	summary.Print()

	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	assert.Contains(t, output, "Field Development Summary")
	assert.Contains(t, output, "completed")
	assert.Contains(t, output, "12,345,678")
	assert.Contains(t, output, "23.00%")
}

func TestRunCommand_FlagsRegistered(t *testing.T) {
	assert.NotNil(t, runCmd.Flags().Lookup("scenario"))
	assert.NotNil(t, runCmd.Flags().Lookup("db"))
	assert.NotNil(t, runCmd.Flags().Lookup("horizon-months"))
	assert.NotNil(t, runCmd.Flags().Lookup("wall-clock-budget"))
	assert.NotNil(t, summarizeCmd.Flags().Lookup("run"))
}
