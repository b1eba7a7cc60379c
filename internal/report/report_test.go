package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pable/go-tackle-metrics/internal/model"
)

func TestPrintDiagnosticsHumanizesCounts(t *testing.T) {
	var buf bytes.Buffer
	PrintDiagnostics(&buf, model.Diagnostics{PlaysSeen: 12486, RowsEmitted: 123456, Nullified: 3})
	out := buf.String()
	for _, want := range []string{"12,486", "123,456", "nullified by penalty"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintPlayIssuesLimit(t *testing.T) {
	issues := []model.PlayIssue{
		{GameID: 1, PlayID: 1, Kind: "nullified"},
		{GameID: 1, PlayID: 2, Kind: "no_defenders"},
		{GameID: 1, PlayID: 3, Kind: "unresolved_ball_carrier", Detail: "ball carrier row has missing position, speed or direction"},
	}
	var buf bytes.Buffer
	PrintPlayIssues(&buf, issues, 2)
	out := buf.String()
	if !strings.Contains(out, "no_defenders") || strings.Contains(out, "unresolved_ball_carrier") {
		t.Errorf("limit not applied:\n%s", out)
	}
	if !strings.Contains(out, "(1 more)") {
		t.Errorf("expected remainder note:\n%s", out)
	}

	buf.Reset()
	PrintPlayIssues(&buf, nil, 10)
	if buf.Len() != 0 {
		t.Errorf("expected no output for no issues, got %q", buf.String())
	}
}

func TestPrintRunSummaryShortensID(t *testing.T) {
	var buf bytes.Buffer
	PrintRunSummary(&buf, model.RunSummary{RunID: "0123456789abcdef", Kind: "process", Weeks: "1-9"})
	out := buf.String()
	if !strings.Contains(out, "Run: 01234567 ") || strings.Contains(out, "89abcdef") {
		t.Errorf("run id not shortened: %q", out)
	}
}

func TestPrintPerformanceTable(t *testing.T) {
	var buf bytes.Buffer
	PrintPerformanceTable(&buf, "Most tackles over expected", []model.PlayerPerformance{
		{NflID: 43290, Name: "Leonard Floyd", Position: "OLB", Plays: 40, Tackles: 9, Expected: 5.5},
	})
	out := buf.String()
	for _, want := range []string{"Most tackles over expected", "Leonard Floyd", "5.50", "+3.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
