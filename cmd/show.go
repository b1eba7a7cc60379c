package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tackle-metrics/internal/aggregator"
	"github.com/pable/go-tackle-metrics/internal/report"
)

var (
	showIssueKind string
	showIssues    int
	showTop       int
)

var showCmd = &cobra.Command{
	Use:   "show <run-prefix>",
	Short: "Show a recorded run by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showIssueKind, "kind", "", "only list excluded plays of this kind (e.g. unresolved_ball_carrier)")
	showCmd.Flags().IntVar(&showIssues, "issues", 20, "excluded plays to list (0 = all)")
	showCmd.Flags().IntVar(&showTop, "top", 10, "defenders to list at each end of the ranking")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := openLedger(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRunByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "No run found with id prefix %q\n", prefix)
		return nil
	}

	report.PrintRunSummary(os.Stdout, *run)
	switch run.Kind {
	case "process":
		report.PrintDiagnostics(os.Stdout, run.Diagnostics)
		stored, err := db.CountFeatureRows(run.RunID)
		if err != nil {
			return fmt.Errorf("count feature rows: %w", err)
		}
		if stored > 0 {
			cMuted.Fprintf(os.Stdout, "%d feature row(s) stored in defender_features\n", stored)
		}
		issues, err := db.GetPlayIssues(run.RunID, showIssueKind)
		if err != nil {
			return fmt.Errorf("get play issues: %w", err)
		}
		if len(issues) > 0 {
			cHeader.Fprintf(os.Stdout, "\nExcluded plays\n\n")
			report.PrintPlayIssues(os.Stdout, issues, showIssues)
		}
	case "train":
		evals, err := db.GetEvaluations(run.RunID)
		if err != nil {
			return fmt.Errorf("get evaluations: %w", err)
		}
		report.PrintEvaluation(os.Stdout, evals)
		perf, err := db.GetPlayerPerformance(run.RunID)
		if err != nil {
			return fmt.Errorf("get player performance: %w", err)
		}
		top, bottom := aggregator.TopBottom(perf, showTop)
		if len(top) > 0 {
			report.PrintPerformanceTable(os.Stdout, "Most tackles over expected", top)
			report.PrintPerformanceTable(os.Stdout, "Fewest tackles over expected", bottom)
		}
	}
	return nil
}
