package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/go-tackle-metrics/internal/aggregator"
	"github.com/pable/go-tackle-metrics/internal/classifier"
	"github.com/pable/go-tackle-metrics/internal/featurecsv"
	"github.com/pable/go-tackle-metrics/internal/loader"
	"github.com/pable/go-tackle-metrics/internal/model"
	"github.com/pable/go-tackle-metrics/internal/report"
)

var (
	trainIn        string
	trainTestWeek  int
	trainSplitGame int64
	trainMaxIter   int
	trainL2        float64
	trainTop       int
	trainMinPlays  int
	trainCoefs     bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit a tackle-probability model and rank defenders against it",
	Long: `Reads the feature table written by 'process', holds out one week (or every
game from --split-game on) as the test set, fits a logistic regression on the
rest and reports accuracy, Brier score and log loss on both splits.

Test-set probabilities are summed per defender into expected tackles and
compared with the tackles actually credited.

Example:
  tacklemetrics train --in processed_data.csv --test-week 9 --top 10`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

func init() {
	def := classifier.DefaultOptions()
	trainCmd.Flags().StringVar(&trainIn, "in", "", "feature CSV to read (default $TACKLE_OUT or processed_data.csv)")
	trainCmd.Flags().IntVar(&trainTestWeek, "test-week", 9, "week held out as the test set")
	trainCmd.Flags().Int64Var(&trainSplitGame, "split-game", 0, "hold out games with gameId >= this instead of a week (e.g. 2022110300)")
	trainCmd.Flags().IntVar(&trainMaxIter, "max-iter", def.MaxIterations, "L-BFGS iteration limit")
	trainCmd.Flags().Float64Var(&trainL2, "l2", def.L2, "L2 penalty")
	trainCmd.Flags().IntVar(&trainTop, "top", 10, "defenders to list at each end of the ranking")
	trainCmd.Flags().IntVar(&trainMinPlays, "min-plays", 20, "minimum test-set plays for a defender to be ranked")
	trainCmd.Flags().BoolVar(&trainCoefs, "coefs", true, "print standardized feature weights")
}

func runTrain(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	in := cfg.OutPath
	if cmd.Flags().Changed("in") {
		in = trainIn
	}

	started := time.Now().UTC()
	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("open feature table: %w", err)
	}
	rows, err := featurecsv.Read(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	fmt.Fprintf(os.Stderr, "Read %d feature row(s) from %s\n", len(rows), in)

	var trainRows, testRows []model.DefenderFeatureRow
	splitDesc := fmt.Sprintf("week %d", trainTestWeek)
	if trainSplitGame > 0 {
		trainRows, testRows = classifier.SplitByGame(rows, trainSplitGame)
		splitDesc = fmt.Sprintf("gameId >= %d", trainSplitGame)
	} else {
		trainRows, testRows = classifier.SplitByWeek(rows, trainTestWeek)
	}
	if len(trainRows) == 0 || len(testRows) == 0 {
		return fmt.Errorf("split on %s leaves %d train / %d test rows", splitDesc, len(trainRows), len(testRows))
	}
	fmt.Fprintf(os.Stderr, "Training on %d row(s), testing on %d (%s)\n", len(trainRows), len(testRows), splitDesc)

	m, err := classifier.Train(trainRows, classifier.Options{
		MaxIterations: trainMaxIter,
		L2:            trainL2,
	})
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	testProbs := m.PredictAll(testRows)
	evals := []model.Evaluation{
		classifier.Evaluate("train", m.PredictAll(trainRows), trainRows),
		classifier.Evaluate("test", testProbs, testRows),
	}

	ranked, err := rankTestSet(testRows, testProbs, loadPlayerNames(cfg.DataDir), trainMinPlays)
	if err != nil {
		return err
	}
	top, bottom := aggregator.TopBottom(ranked, trainTop)

	run := model.RunSummary{
		RunID:     uuid.NewString(),
		Kind:      "train",
		StartedAt: started.Format(time.RFC3339),
		DataDir:   cfg.DataDir,
		Weeks:     splitDesc,
		OutPath:   in,
	}
	if err := recordTraining(cfg.DBPath, run, evals, ranked); err != nil {
		cWarn.Fprintf(os.Stderr, "warn: run ledger not updated: %v\n", err)
	}

	report.PrintRunSummary(os.Stdout, run)
	report.PrintEvaluation(os.Stdout, evals)
	if trainCoefs {
		fmt.Fprintln(os.Stdout)
		report.PrintCoefficients(os.Stdout, m.Coefficients())
	}
	if len(ranked) == 0 {
		cMuted.Fprintf(os.Stdout, "\nNo defender reached %d test-set plays.\n", trainMinPlays)
		return nil
	}
	report.PrintPerformanceTable(os.Stdout, "Most tackles over expected", top)
	report.PrintPerformanceTable(os.Stdout, "Fewest tackles over expected", bottom)
	return nil
}

// rankTestSet aggregates scored test rows per defender and keeps those with
// at least minPlays rows. The ledger stores this same ranking so 'show'
// reproduces what 'train' printed.
func rankTestSet(rows []model.DefenderFeatureRow, probs []float64, players map[int64]model.Player, minPlays int) ([]model.PlayerPerformance, error) {
	perf, err := aggregator.Aggregate(rows, probs, players)
	if err != nil {
		return nil, err
	}
	return aggregator.Filter(perf, minPlays), nil
}

// loadPlayerNames reads the roster for display names. A missing roster is
// not fatal: names then come from the feature rows.
func loadPlayerNames(dir string) map[int64]model.Player {
	path := filepath.Join(dir, loader.PlayersFile)
	f, err := os.Open(path)
	if err != nil {
		cMuted.Fprintf(os.Stderr, "roster %s not available, using names from feature rows\n", path)
		return nil
	}
	defer f.Close()
	players, err := loader.ReadPlayers(f, path)
	if err != nil {
		cWarn.Fprintf(os.Stderr, "warn: %v\n", err)
		return nil
	}
	return players
}

func recordTraining(path string, run model.RunSummary, evals []model.Evaluation, perf []model.PlayerPerformance) error {
	db, err := openLedger(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InsertRun(run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for _, ev := range evals {
		if err := db.InsertEvaluation(run.RunID, ev); err != nil {
			return fmt.Errorf("insert evaluation: %w", err)
		}
	}
	if err := db.InsertPlayerPerformance(run.RunID, perf); err != nil {
		return fmt.Errorf("insert player performance: %w", err)
	}
	return nil
}
