package featurecsv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pable/go-tackle-metrics/internal/model"
)

func sampleRows() []model.DefenderFeatureRow {
	return []model.DefenderFeatureRow{
		{
			GameID: 2022090800, PlayID: 56, FrameID: 31, NflID: 43290,
			DisplayName: "Leonard Floyd", Club: "LA", Position: "OLB",
			Season: 2022, Week: 1, PlayDirection: model.DirectionLeft, Event: model.EventHandoff,
			X: 85.1, Y: 25, S: 3.25, Dir: 180,
			TackleParticipant: true,
			BC:                model.BallCarrier{NflID: 47857, Position: "RB", X: 88.37, Y: 27.27, S: 0.34, Dir: 56.03},
			DistToBC:          3.9, DistToBCAvg: 7.125, DistRank: 1, DefenderInFront: true,
			SidelineDist: 26.03, EndzoneDist: 78.37, RelAngle: 123.97, RelSpeed: 3.5,
			IsLinebacker: true, IsRush: true, IsBCRB: true,
		},
		{
			GameID: 2022090800, PlayID: 56, FrameID: 31, NflID: 52500,
			DisplayName: "Name, With Comma", Club: "LA", Position: "CB",
			PlayDirection: model.DirectionLeft, Event: model.EventHandoff,
			DistRank: 2, IsSecondary: true, IsRush: true, IsBCRB: true,
			BC: model.BallCarrier{NflID: 47857, Position: "RB"},
		},
	}
}

func TestWriteHeaderAndFlags(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleRows()[:1]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if lines[0] != strings.Join(Columns, ",") {
		t.Errorf("header = %s", lines[0])
	}
	fields := strings.Split(lines[1], ",")
	if len(fields) != len(Columns) {
		t.Fatalf("row has %d fields, want %d", len(fields), len(Columns))
	}
	get := func(col string) string {
		for i, c := range Columns {
			if c == col {
				return fields[i]
			}
		}
		t.Fatalf("no column %s", col)
		return ""
	}
	if get("tackle_participant") != "1" || get("is_dlineman") != "0" || get("is_linebacker") != "1" {
		t.Errorf("flags should be 0/1, got tackle=%s dl=%s lb=%s",
			get("tackle_participant"), get("is_dlineman"), get("is_linebacker"))
	}
	if get("playDirection") != "left" || get("bc_pos") != "RB" || get("dist_to_bc_avg") != "7.125" {
		t.Errorf("unexpected values: dir=%s bc_pos=%s avg=%s", get("playDirection"), get("bc_pos"), get("dist_to_bc_avg"))
	}
}

func TestWriteThenRead(t *testing.T) {
	rows := sampleRows()
	var buf bytes.Buffer
	if err := Write(&buf, rows); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("read %d rows, want %d", len(got), len(rows))
	}
	for i := range rows {
		if got[i] != rows[i] {
			t.Errorf("row %d:\n got  %+v\n want %+v", i, got[i], rows[i])
		}
	}
}

func TestReadRejectsForeignHeader(t *testing.T) {
	hdr := append([]string(nil), Columns...)
	hdr[3] = "playerId"
	_, err := Read(strings.NewReader(strings.Join(hdr, ",") + "\n"))
	if err == nil || !strings.Contains(err.Error(), "nflId") {
		t.Errorf("expected header mismatch naming nflId, got %v", err)
	}

	if _, err := Read(strings.NewReader("gameId,playId\n")); err == nil {
		t.Error("expected error for short header")
	}
}

func TestReadBadValue(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleRows()[:1]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	bad := strings.Replace(buf.String(), "2022090800,", "not-a-game,", 1)
	if _, err := Read(strings.NewReader(bad)); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected error on line 2, got %v", err)
	}
}
