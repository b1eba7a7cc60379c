package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/go-tackle-metrics/internal/assembler"
	"github.com/pable/go-tackle-metrics/internal/config"
	"github.com/pable/go-tackle-metrics/internal/featurecsv"
	"github.com/pable/go-tackle-metrics/internal/loader"
	"github.com/pable/go-tackle-metrics/internal/model"
	"github.com/pable/go-tackle-metrics/internal/report"
	"github.com/pable/go-tackle-metrics/internal/storage"
)

var (
	processWorkers       int
	processOut           string
	processStoreFeatures bool
	processShowIssues    int
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Build the defender feature table from raw tracking data",
	Long: `Loads games, players, plays, tackles and the weekly tracking tables, picks
the decisive frame of every play (the last handoff, run or pass_arrived),
joins it with play and roster data and writes one feature row per defender.

Plays that cannot be resolved are excluded and counted; the run and its
diagnostics are recorded in the run ledger.

Example:
  tacklemetrics process --data ./data --weeks 1-9 --out processed_data.csv`,
	Args: cobra.NoArgs,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().IntVar(&processWorkers, "workers", 0, "parallel play workers (0 = one per CPU)")
	processCmd.Flags().StringVar(&processOut, "out", "", "output CSV path (default $TACKLE_OUT or processed_data.csv)")
	processCmd.Flags().BoolVar(&processStoreFeatures, "store-features", false, "also store the feature rows in the run ledger")
	processCmd.Flags().IntVar(&processShowIssues, "show-issues", 10, "excluded plays to list (0 = none, -1 = all)")
}

func runProcess(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	started := time.Now().UTC()
	fmt.Fprintf(os.Stderr, "Loading %s (weeks %s)...\n", cfg.DataDir, config.WeeksString(cfg.Weeks))
	ds, err := loader.Load(cmd.Context(), cfg.DataDir, cfg.Weeks)
	if err != nil {
		return fmt.Errorf("load inputs: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Loaded %d plays, %d tackle records, %d tracking rows\n",
		len(ds.Plays), len(ds.Tackles), len(ds.Tracking))

	res, err := assembler.Run(cmd.Context(), ds, cfg.Workers)
	if err != nil {
		return err
	}
	if res.Diagnostics.UnresolvedBallCarrier > 0 {
		cWarn.Fprintf(os.Stderr, "warn: %d play(s) dropped: ball carrier not found in decisive frame\n",
			res.Diagnostics.UnresolvedBallCarrier)
	}

	if err := writeFeatures(cfg.OutPath, res.Rows); err != nil {
		return err
	}

	run := model.RunSummary{
		RunID:       uuid.NewString(),
		Kind:        "process",
		StartedAt:   started.Format(time.RFC3339),
		DataDir:     cfg.DataDir,
		Weeks:       config.WeeksString(cfg.Weeks),
		OutPath:     cfg.OutPath,
		Diagnostics: res.Diagnostics,
	}
	if err := recordRun(cfg.DBPath, run, res); err != nil {
		cWarn.Fprintf(os.Stderr, "warn: run ledger not updated: %v\n", err)
	}

	report.PrintRunSummary(os.Stdout, run)
	report.PrintDiagnostics(os.Stdout, res.Diagnostics)
	if processShowIssues != 0 {
		fmt.Fprintln(os.Stdout)
		report.PrintPlayIssues(os.Stdout, res.Issues, processShowIssues)
	}
	return nil
}

func writeFeatures(path string, rows []model.DefenderFeatureRow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := featurecsv.Write(bw, rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d row(s) to %s\n", len(rows), path)
	return nil
}

func recordRun(path string, run model.RunSummary, res *assembler.Result) error {
	db, err := openLedger(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InsertRun(run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if err := db.InsertPlayIssues(run.RunID, res.Issues); err != nil {
		return fmt.Errorf("insert play issues: %w", err)
	}
	if processStoreFeatures {
		if err := db.InsertFeatureRows(run.RunID, res.Rows); err != nil {
			return fmt.Errorf("insert feature rows: %w", err)
		}
	}
	return nil
}

func openLedger(path string) (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
