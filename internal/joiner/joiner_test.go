package joiner

import (
	"errors"
	"math"
	"testing"

	"github.com/pable/go-tackle-metrics/internal/model"
	"github.com/pable/go-tackle-metrics/internal/resolver"
)

func player(nflID int64, club string, x, y float64) model.TrackingRow {
	return model.TrackingRow{
		GameID: 1, PlayID: 10, FrameID: 30, NflID: nflID, Club: club,
		X: x, Y: y, S: 3, Dir: 90, Event: model.EventHandoff,
		PlayDirection: model.DirectionRight,
	}
}

func football() model.TrackingRow {
	r := player(0, "football", 50, 25)
	r.S, r.Dir = math.NaN(), math.NaN()
	return r
}

func fixture() (*model.Dataset, model.Play) {
	play := model.Play{GameID: 1, PlayID: 10, BallCarrierID: 500, OffensiveTeam: "KC", DefensiveTeam: "LV"}
	ds := &model.Dataset{
		Plays: map[model.PlayKey]model.Play{play.Key(): play},
		Players: map[int64]model.Player{
			500: {NflID: 500, Position: "RB"},
			700: {NflID: 700, Position: "OLB"},
		},
		Tackles: map[model.PlayerKey]model.TackleRecord{
			{GameID: 1, PlayID: 10, NflID: 700}: {GameID: 1, PlayID: 10, NflID: 700, Assist: true},
			{GameID: 1, PlayID: 10, NflID: 701}: {GameID: 1, PlayID: 10, NflID: 701},
		},
	}
	return ds, play
}

func decisive(rows ...model.TrackingRow) *resolver.Decisive {
	return &resolver.Decisive{
		Key:           model.PlayKey{GameID: 1, PlayID: 10},
		FrameID:       30,
		Event:         model.EventHandoff,
		Direction:     model.DirectionRight,
		BallCarrierID: 500,
		Rows:          rows,
	}
}

func TestJoinSplitsDefendersAndBallCarrier(t *testing.T) {
	ds, play := fixture()
	d := decisive(
		player(500, "KC", 50, 25),
		player(501, "KC", 48, 20),
		player(700, "LV", 55, 25),
		player(701, "LV", 60, 30),
		player(702, "LV", 52, 10),
		football(),
	)

	j, err := Join(ds, play, d)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if len(j.Defenders) != 3 {
		t.Fatalf("expected 3 defenders, got %d", len(j.Defenders))
	}
	if j.BallCarrier.NflID != 500 || j.BallCarrier.Position != "RB" || j.BallCarrier.X != 50 {
		t.Errorf("ball carrier = %+v", j.BallCarrier)
	}

	labels := map[int64]bool{}
	for _, def := range j.Defenders {
		if !def.OnDefense || def.Club != "LV" {
			t.Errorf("non-defender kept: %+v", def.TrackingRow)
		}
		labels[def.NflID] = def.TackleParticipant
	}
	if !labels[700] {
		t.Error("assist should label 700 as participant")
	}
	if labels[701] {
		t.Error("tackle record with no credit should label 0")
	}
	if labels[702] {
		t.Error("defender without tackle record should label 0")
	}
	if j.MissingLabels != 1 {
		t.Errorf("MissingLabels = %d, want 1", j.MissingLabels)
	}
	if j.Defenders[0].RosterPosition != "OLB" {
		t.Errorf("roster position = %q, want OLB", j.Defenders[0].RosterPosition)
	}
	if j.JoinGapRows != 0 {
		t.Errorf("football and offense must not count as join gaps, got %d", j.JoinGapRows)
	}
}

func TestJoinDisplayNameFallsBackToRoster(t *testing.T) {
	ds, play := fixture()
	ds.Players[700] = model.Player{NflID: 700, Position: "OLB", DisplayName: "Maxx Crosby"}
	ds.Players[701] = model.Player{NflID: 701, Position: "CB", DisplayName: "Roster Name"}

	named := player(701, "LV", 60, 30)
	named.DisplayName = "Tracking Name"

	tests := []struct {
		name string
		row  model.TrackingRow
		want string
	}{
		{"blank tracking name uses roster", player(700, "LV", 55, 25), "Maxx Crosby"},
		{"tracking name wins", named, "Tracking Name"},
		{"unknown to roster stays blank", player(702, "LV", 52, 10), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := Join(ds, play, decisive(player(500, "KC", 50, 25), tt.row))
			if err != nil {
				t.Fatalf("Join: %v", err)
			}
			if len(j.Defenders) != 1 {
				t.Fatalf("expected 1 defender, got %d", len(j.Defenders))
			}
			if got := j.Defenders[0].DisplayName; got != tt.want {
				t.Errorf("displayName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJoinDropsIncompleteDefenders(t *testing.T) {
	ds, play := fixture()
	incomplete := player(701, "LV", 60, 30)
	incomplete.S = math.NaN()

	j, err := Join(ds, play, decisive(player(500, "KC", 50, 25), player(700, "LV", 55, 25), incomplete))
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if len(j.Defenders) != 1 || j.IncompleteRows != 1 {
		t.Errorf("defenders=%d incomplete=%d, want 1/1", len(j.Defenders), j.IncompleteRows)
	}
}

func TestJoinCountsGapRows(t *testing.T) {
	ds, play := fixture()
	j, err := Join(ds, play, decisive(player(500, "KC", 50, 25), player(700, "LV", 55, 25), player(999, "", 40, 40)))
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if j.JoinGapRows != 1 {
		t.Errorf("JoinGapRows = %d, want 1", j.JoinGapRows)
	}
}

func TestJoinErrors(t *testing.T) {
	ds, play := fixture()
	bcNoSpeed := player(500, "KC", 50, 25)
	bcNoSpeed.Dir = math.NaN()

	tests := []struct {
		name string
		rows []model.TrackingRow
		want error
	}{
		{"ball carrier absent", []model.TrackingRow{player(700, "LV", 55, 25)}, model.ErrUnresolvedBallCarrier},
		{"ball carrier incomplete", []model.TrackingRow{bcNoSpeed, player(700, "LV", 55, 25)}, model.ErrUnresolvedBallCarrier},
		{"no defenders", []model.TrackingRow{player(500, "KC", 50, 25), player(501, "KC", 40, 20)}, model.ErrNoDefenders},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Join(ds, play, decisive(tc.rows...))
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestIndexGroupsPlays(t *testing.T) {
	row := func(game, play int64, frame int) model.TrackingRow {
		return model.TrackingRow{GameID: game, PlayID: play, FrameID: frame}
	}
	rows := []model.TrackingRow{
		row(2, 1, 1), row(1, 5, 1), row(2, 1, 2), row(1, 5, 2), row(1, 3, 1),
	}
	ix := NewIndex(rows)
	if ix.Len() != 3 {
		t.Fatalf("Len = %d, want 3", ix.Len())
	}

	wantKeys := []model.PlayKey{{GameID: 1, PlayID: 3}, {GameID: 1, PlayID: 5}, {GameID: 2, PlayID: 1}}
	for i, want := range wantKeys {
		key, got := ix.Play(i)
		if key != want {
			t.Errorf("Play(%d) key = %v, want %v", i, key, want)
		}
		for _, r := range got {
			if r.Key() != want {
				t.Errorf("Play(%d) contains row of %v", i, r.Key())
			}
		}
	}

	g2 := ix.Lookup(model.PlayKey{GameID: 2, PlayID: 1})
	if len(g2) != 2 || g2[0].FrameID != 1 || g2[1].FrameID != 2 {
		t.Errorf("expected input order kept within play, got %+v", g2)
	}
	if ix.Lookup(model.PlayKey{GameID: 9, PlayID: 9}) != nil {
		t.Error("expected nil for unknown play")
	}
}
