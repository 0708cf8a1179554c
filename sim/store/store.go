// Package store provides SQLite-based persistence of run histories, so a
// completed or aborted run stays inspectable after the process exits.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/fieldsim/fieldsim/sim"
)

// DB wraps a SQLite connection for run-history persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
// ":memory:" gives an ephemeral database for tests.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		started_at TEXT NOT NULL,
		status TEXT NOT NULL,
		abort_reason TEXT NOT NULL DEFAULT '',
		steps INTEGER NOT NULL DEFAULT 0,
		summary_json TEXT NOT NULL DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS steps (
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		day REAL NOT NULL,
		state_json TEXT NOT NULL,
		active_json TEXT NOT NULL,
		rates_json TEXT NOT NULL,
		ledger_json TEXT NOT NULL,
		metrics_json TEXT NOT NULL,
		warnings_json TEXT NOT NULL,
		PRIMARY KEY (run_id, step)
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RunMeta is one row of the runs table.
type RunMeta struct {
	ID          string `db:"id"`
	Scenario    string `db:"scenario"`
	StartedAt   string `db:"started_at"`
	Status      string `db:"status"`
	AbortReason string `db:"abort_reason"`
	Steps       int    `db:"steps"`
	SummaryJSON string `db:"summary_json"`
}

// RunWriter persists one run's snapshots. Implements sim.HistorySink.
type RunWriter struct {
	db    *DB
	RunID string
}

// BeginRun registers a new run and returns its writer.
func (db *DB) BeginRun(scenario string) (*RunWriter, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(
		`INSERT INTO runs (id, scenario, started_at, status) VALUES (?, ?, ?, ?)`,
		id, scenario, time.Now().UTC().Format(time.RFC3339), string(sim.StateRunning))
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	return &RunWriter{db: db, RunID: id}, nil
}

// AppendStep persists one step snapshot.
func (w *RunWriter) AppendStep(sr *sim.StepResult) error {
	var encErr error
	enc := func(name string, v any) string {
		b, err := json.Marshal(v)
		if err != nil && encErr == nil {
			encErr = fmt.Errorf("marshal %s: %w", name, err)
		}
		return string(b)
	}
	stateJSON := enc("state", sr.State)
	activeJSON := enc("active wells", sr.ActiveWells)
	ratesJSON := enc("rates", sr.Rates)
	ledgerJSON := enc("ledger", sr.Ledger)
	metricsJSON := enc("metrics", sr.Metrics)
	warningsJSON := enc("warnings", sr.Warnings)
	if encErr != nil {
		return encErr
	}

	_, err := w.db.conn.Exec(
		`INSERT INTO steps (run_id, step, day, state_json, active_json, rates_json, ledger_json, metrics_json, warnings_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.RunID, sr.Step, sr.Day, stateJSON, activeJSON,
		ratesJSON, ledgerJSON, metricsJSON, warningsJSON)
	if err != nil {
		return fmt.Errorf("append step %d: %w", sr.Step, err)
	}
	return nil
}

// Finish records the terminal status and summary for the run.
func (w *RunWriter) Finish(summary sim.RunSummary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = w.db.conn.Exec(
		`UPDATE runs SET status = ?, abort_reason = ?, steps = ?, summary_json = ? WHERE id = ?`,
		string(summary.Status), summary.AbortReason, summary.Steps, string(summaryJSON), w.RunID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// ListRuns returns run metadata, newest first.
func (db *DB) ListRuns() ([]RunMeta, error) {
	var runs []RunMeta
	err := db.conn.Select(&runs, `SELECT * FROM runs ORDER BY started_at DESC`)
	return runs, err
}

// LatestRun returns the most recently started run.
func (db *DB) LatestRun() (RunMeta, error) {
	var run RunMeta
	err := db.conn.Get(&run, `SELECT * FROM runs ORDER BY started_at DESC LIMIT 1`)
	if err != nil {
		return RunMeta{}, fmt.Errorf("no runs recorded: %w", err)
	}
	return run, nil
}

// Summary decodes the persisted run summary.
func (m RunMeta) Summary() (sim.RunSummary, error) {
	var s sim.RunSummary
	if err := json.Unmarshal([]byte(m.SummaryJSON), &s); err != nil {
		return sim.RunSummary{}, fmt.Errorf("decode summary for run %s: %w", m.ID, err)
	}
	return s, nil
}

// LoadSteps reloads the ordered step history for a run.
func (db *DB) LoadSteps(runID string) ([]sim.StepResult, error) {
	type row struct {
		Step         int     `db:"step"`
		Day          float64 `db:"day"`
		StateJSON    string  `db:"state_json"`
		ActiveJSON   string  `db:"active_json"`
		RatesJSON    string  `db:"rates_json"`
		LedgerJSON   string  `db:"ledger_json"`
		MetricsJSON  string  `db:"metrics_json"`
		WarningsJSON string  `db:"warnings_json"`
	}
	var rows []row
	err := db.conn.Select(&rows,
		`SELECT step, day, state_json, active_json, rates_json, ledger_json, metrics_json, warnings_json
		 FROM steps WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("load steps for run %s: %w", runID, err)
	}

	out := make([]sim.StepResult, 0, len(rows))
	for _, r := range rows {
		sr := sim.StepResult{Step: r.Step, Day: r.Day}
		if err := json.Unmarshal([]byte(r.StateJSON), &sr.State); err != nil {
			return nil, fmt.Errorf("decode step %d state: %w", r.Step, err)
		}
		json.Unmarshal([]byte(r.ActiveJSON), &sr.ActiveWells)
		json.Unmarshal([]byte(r.RatesJSON), &sr.Rates)
		json.Unmarshal([]byte(r.LedgerJSON), &sr.Ledger)
		json.Unmarshal([]byte(r.MetricsJSON), &sr.Metrics)
		json.Unmarshal([]byte(r.WarningsJSON), &sr.Warnings)
		out = append(out, sr)
	}
	return out, nil
}
