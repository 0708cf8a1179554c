package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/fieldsim/fieldsim/sim"
	"github.com/fieldsim/fieldsim/sim/store"
)

var (
	scenarioPath    string        // Path to the YAML scenario file
	logLevel        string        // Log verbosity level
	dbPath          string        // SQLite history database (empty = in-memory only)
	horizonOverride int           // Override scenario horizon (months)
	wallClockBudget time.Duration // Abort at the next step boundary once exceeded

	runID string // Run to summarize ("latest" = most recent)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "fieldsim",
	Short: "Staged-development reservoir field simulator",
}

// runCmd executes a scenario using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a development scenario",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if scenarioPath == "" {
			logrus.Fatalf("Scenario file not provided. Exiting simulation.")
		}

		ctx, spec, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("unable to load scenario: %v", err)
		}
		if horizonOverride > 0 {
			ctx.Step.HorizonMonths = horizonOverride
		}
		ctx.WallClockBudget = wallClockBudget

		var sink sim.HistorySink
		var writer *store.RunWriter
		if dbPath != "" {
			db, err := store.Open(dbPath)
			if err != nil {
				logrus.Fatalf("unable to open history database: %v", err)
			}
			defer db.Close()
			writer, err = db.BeginRun(spec.Name)
			if err != nil {
				logrus.Fatalf("unable to register run: %v", err)
			}
			logrus.Infof("persisting history as run %s", writer.RunID)
			sink = writer
		}

		solver := sim.NewWellModelSolver()
		solver.ProductivityIndex = spec.Solver.ProductivityIndex

		s, err := sim.NewSimulator(ctx, solver, sink)
		if err != nil {
			logrus.Fatalf("scenario rejected: %v", err)
		}

		logrus.Infof("Starting scenario %q: %d wells over %d months",
			spec.Name, len(ctx.Wells), ctx.Step.HorizonMonths)

		runErr := s.Run()
		summary := s.Summary()
		summary.Print()

		if writer != nil {
			if err := writer.Finish(summary); err != nil {
				logrus.Warnf("unable to record run summary: %v", err)
			}
		}
		if runErr != nil {
			// partial history is preserved and, with --db, persisted
			logrus.Fatalf("%v", runErr)
		}
	},
}

// summarizeCmd reloads a persisted run and prints its summary
var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Print the summary of a persisted run",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if dbPath == "" {
			logrus.Fatalf("--db is required for summarize")
		}
		db, err := store.Open(dbPath)
		if err != nil {
			logrus.Fatalf("unable to open history database: %v", err)
		}
		defer db.Close()

		var meta store.RunMeta
		if runID == "latest" {
			meta, err = db.LatestRun()
		} else {
			metas, lerr := db.ListRuns()
			err = lerr
			for _, m := range metas {
				if m.ID == runID {
					meta = m
					break
				}
			}
			if err == nil && meta.ID == "" {
				logrus.Fatalf("run %s not found", runID)
			}
		}
		if err != nil {
			logrus.Fatalf("unable to load run: %v", err)
		}

		summary, err := meta.Summary()
		if err != nil {
			logrus.Fatalf("unable to decode summary: %v", err)
		}
		logrus.Infof("run %s (scenario %q, started %s)", meta.ID, meta.Scenario, meta.StartedAt)
		summary.Print()
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to YAML scenario file")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&dbPath, "db", "", "SQLite file for persisted run history")
	runCmd.Flags().IntVar(&horizonOverride, "horizon-months", 0, "Override scenario horizon (months)")
	runCmd.Flags().DurationVar(&wallClockBudget, "wall-clock-budget", 0, "Abort at next step boundary after this duration (0 = unlimited)")

	summarizeCmd.Flags().StringVar(&dbPath, "db", "", "SQLite file with persisted run history")
	summarizeCmd.Flags().StringVar(&runID, "run", "latest", "Run ID to summarize")
	summarizeCmd.Flags().StringVar(&logLevel, "log", "info", "Log level")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(summarizeCmd)
}
