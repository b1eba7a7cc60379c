package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-tackle-metrics/internal/config"
)

var (
	dbPath   string
	dataDir  string
	weeksArg string
)

var (
	cWarn   = color.New(color.FgYellow)
	cError  = color.New(color.FgRed, color.Bold)
	cHeader = color.New(color.FgCyan, color.Bold)
	cMuted  = color.New(color.Faint)
)

var rootCmd = &cobra.Command{
	Use:   "tacklemetrics",
	Short: "NFL tackle-participation feature pipeline",
	Long: `Build a per-defender feature table from Big Data Bowl tracking, play and
tackle data, train a tackle-probability model on it, and report which
defenders make more or fewer tackles than expected.

Settings come from TACKLE_DATA_DIR, TACKLE_WEEKS, TACKLE_WORKERS, TACKLE_OUT
and TACKLE_DB; flags override them.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cError.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite run ledger (default $TACKLE_DB or ~/.tacklemetrics/runs.db)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "input directory with games/players/plays/tackles/tracking CSVs (default $TACKLE_DATA_DIR or ./data)")
	rootCmd.PersistentFlags().StringVar(&weeksArg, "weeks", "", `tracking weeks, e.g. "1-9" or "1,2,5" (default $TACKLE_WEEKS or 1-9)`)

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadConfig reads the environment and applies any flags set on cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = dbPath
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("weeks") {
		weeks, err := config.ParseWeeks(weeksArg)
		if err != nil {
			return config.Config{}, fmt.Errorf("--weeks: %w", err)
		}
		cfg.Weeks = weeks
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		cfg.Workers = processWorkers
	}
	if flags.Lookup("out") != nil && flags.Changed("out") {
		cfg.OutPath = processOut
	}
	return cfg, nil
}
