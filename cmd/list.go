package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tackle-metrics/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded process and train runs",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := openLedger(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No runs recorded yet. Run 'tacklemetrics process' to add one.")
		return nil
	}
	report.PrintRunList(os.Stdout, runs)
	return nil
}
