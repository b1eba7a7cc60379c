package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-tackle-metrics/internal/classifier"
	"github.com/pable/go-tackle-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func count(n int) string { return humanize.Comma(int64(n)) }

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// PrintRunSummary prints a one-line header for a run.
func PrintRunSummary(w io.Writer, r model.RunSummary) {
	fmt.Fprintf(w, "\nRun: %s  |  Kind: %s  |  Started: %s  |  Data: %s  |  Weeks: %s\n",
		shortID(r.RunID), r.Kind, r.StartedAt, r.DataDir, r.Weeks)
	if r.OutPath != "" {
		fmt.Fprintf(w, "Output: %s\n", r.OutPath)
	}
	fmt.Fprintln(w)
}

// PrintDiagnostics prints emitted and excluded counts of a pipeline run.
func PrintDiagnostics(w io.Writer, d model.Diagnostics) {
	table := newTable(w)
	table.Header("METRIC", "COUNT")
	rows := []struct {
		name string
		n    int
	}{
		{"plays seen", d.PlaysSeen},
		{"plays emitted", d.PlaysEmitted},
		{"defender rows emitted", d.RowsEmitted},
		{"excluded: nullified by penalty", d.Nullified},
		{"excluded: not in plays table", d.UnknownPlay},
		{"excluded: no decisive frame", d.MissingDecisiveFrame},
		{"excluded: unresolved ball carrier", d.UnresolvedBallCarrier},
		{"excluded: no defenders", d.NoDefenders},
		{"rows dropped: incomplete kinematics", d.IncompleteRows},
		{"rows dropped: no team/side match", d.JoinGapRows},
		{"labels defaulted to 0", d.MissingLabels},
	}
	for _, r := range rows {
		table.Append(r.name, count(r.n))
	}
	table.Render()
}

// PrintPlayIssues prints up to limit excluded plays; limit <= 0 prints all.
func PrintPlayIssues(w io.Writer, issues []model.PlayIssue, limit int) {
	if len(issues) == 0 {
		return
	}
	shown := issues
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	table := newTable(w)
	table.Header("GAME", "PLAY", "KIND", "DETAIL")
	for _, is := range shown {
		detail := is.Detail
		if detail == "" {
			detail = "-"
		}
		table.Append(strconv.FormatInt(is.GameID, 10), strconv.FormatInt(is.PlayID, 10), is.Kind, detail)
	}
	table.Render()
	if len(shown) < len(issues) {
		fmt.Fprintf(w, "(%s more)\n", count(len(issues)-len(shown)))
	}
}

// PrintRunList prints one line per recorded run.
func PrintRunList(w io.Writer, runs []model.RunSummary) {
	table := newTable(w)
	table.Header("RUN", "KIND", "STARTED", "WEEKS", "PLAYS", "ROWS", "EXCLUDED")
	for _, r := range runs {
		table.Append(
			shortID(r.RunID),
			r.Kind,
			r.StartedAt,
			r.Weeks,
			count(r.PlaysSeen),
			count(r.RowsEmitted),
			count(r.Excluded()),
		)
	}
	table.Render()
}

// PrintEvaluation prints classifier metrics per split.
func PrintEvaluation(w io.Writer, evals []model.Evaluation) {
	table := newTable(w)
	table.Header("SPLIT", "ROWS", "TACKLE%", "ACCURACY", "BRIER", "LOG_LOSS")
	for _, ev := range evals {
		base := 0.0
		if ev.N > 0 {
			base = 100 * float64(ev.Positives) / float64(ev.N)
		}
		table.Append(
			ev.Split,
			count(ev.N),
			fmt.Sprintf("%.1f%%", base),
			fmt.Sprintf("%.3f", ev.Accuracy),
			fmt.Sprintf("%.4f", ev.Brier),
			fmt.Sprintf("%.4f", ev.LogLoss),
		)
	}
	table.Render()
}

// PrintCoefficients prints standardized model weights, largest first.
func PrintCoefficients(w io.Writer, coefs []classifier.Coefficient) {
	table := newTable(w)
	table.Header("FEATURE", "WEIGHT")
	for _, c := range coefs {
		table.Append(c.Feature, fmt.Sprintf("%+.3f", c.Weight))
	}
	table.Render()
}

// PrintPerformanceTable prints actual vs expected tackles per player.
func PrintPerformanceTable(w io.Writer, title string, perf []model.PlayerPerformance) {
	if title != "" {
		fmt.Fprintf(w, "\n--- %s ---\n\n", title)
	}
	table := newTable(w)
	table.Header("NAME", "NFL ID", "POS", "PLAYS", "TACKLES", "EXPECTED", "DIFF")
	for _, p := range perf {
		table.Append(
			p.Name,
			strconv.FormatInt(p.NflID, 10),
			p.Position,
			strconv.Itoa(p.Plays),
			strconv.Itoa(p.Tackles),
			fmt.Sprintf("%.2f", p.Expected),
			fmt.Sprintf("%+.2f", p.Diff()),
		)
	}
	table.Render()
}
