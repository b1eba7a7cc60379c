package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the run ledger",
	Long: `Run an arbitrary SQL query against the run ledger and print results as a table.

Schema overview:
  runs(run_id, kind, started_at, data_dir, weeks, out_path, plays_seen,
    plays_emitted, rows_emitted, nullified, unknown_play, missing_decisive,
    unresolved_bc, no_defenders, incomplete_rows, join_gap_rows, missing_labels)
  play_issues(run_id, game_id, play_id, kind, detail)
  defender_features(run_id, game_id, play_id, nfl_id, frame_id, club, position,
    week, tackle_participant, bc_nfl_id, dist_to_bc, dist_rank, rel_angle,
    rel_speed, is_dlineman, ...)   -- only filled by 'process --store-features'
  evaluations(run_id, split, n, positives, accuracy, brier, log_loss)
  player_performance(run_id, nfl_id, name, position, plays, tackles, expected, diff)

Example:
  tacklemetrics sql "SELECT kind, COUNT(*) FROM play_issues GROUP BY kind"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := openLedger(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
