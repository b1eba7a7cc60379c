package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes one run, or the whole ledger when no run is given.
var dropCmd = &cobra.Command{
	Use:   "drop [run-prefix]",
	Short: "Delete a recorded run, or the whole run ledger",
	Long: `With a run id prefix, delete that run together with its excluded plays,
stored features, evaluations and player rankings.

Without arguments, permanently delete the SQLite run ledger. Feature CSVs
written by 'process' are left untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		return dropRun(cfg.DBPath, args[0])
	}

	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", cfg.DBPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(cfg.DBPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	// WAL side files; absent after a clean close.
	os.Remove(cfg.DBPath + "-wal")
	os.Remove(cfg.DBPath + "-shm")
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", cfg.DBPath)
	return nil
}

func dropRun(path, prefix string) error {
	db, err := openLedger(path)
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
	if err := db.DeleteRun(run.RunID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted run %s (%s, %s)\n", run.RunID, run.Kind, run.StartedAt)
	return nil
}
