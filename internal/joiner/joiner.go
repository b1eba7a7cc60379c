// Package joiner merges a play's decisive frame with the plays, tackles and
// players tables and splits it into defender rows plus ball-carrier companion
// columns.
package joiner

import (
	"github.com/pable/go-tackle-metrics/internal/model"
	"github.com/pable/go-tackle-metrics/internal/resolver"
)

// Joined is the merged decisive frame of one play.
type Joined struct {
	Defenders   []model.JoinedRow
	BallCarrier model.BallCarrier

	IncompleteRows int
	JoinGapRows    int
	MissingLabels  int
}

// Join enriches every player in d with label, ball-carrier flag, roster
// position and defensive side, filling a blank tracking name from the roster, keeps the defenders, and extracts the ball
// carrier. The play fails with ErrUnresolvedBallCarrier when the carrier is
// absent or lacks kinematics, and with ErrNoDefenders when nobody remains.
func Join(ds *model.Dataset, play model.Play, d *resolver.Decisive) (*Joined, error) {
	j := &Joined{}
	var bc *model.BallCarrier
	bcIncomplete := false

	for _, r := range d.Rows {
		row := model.JoinedRow{
			TrackingRow:    r,
			BallCarrier:    d.IsBallCarrier(r),
			OnDefense:      r.Club != "" && r.Club == play.DefensiveTeam,
			RosterPosition: rosterPosition(ds, r),
		}
		if row.DisplayName == "" {
			row.DisplayName = ds.Players[r.NflID].DisplayName
		}
		t, labelled := ds.Tackles[model.PlayerKey{GameID: r.GameID, PlayID: r.PlayID, NflID: r.NflID}]
		row.TackleParticipant = labelled && t.Participant()

		if row.BallCarrier {
			if r.HasKinematics() {
				bc = &model.BallCarrier{
					NflID:    r.NflID,
					Position: row.RosterPosition,
					X:        r.X,
					Y:        r.Y,
					S:        r.S,
					Dir:      r.Dir,
				}
			} else {
				bcIncomplete = true
			}
		}

		if !row.OnDefense {
			if r.NflID != 0 && r.Club != play.OffensiveTeam {
				j.JoinGapRows++
			}
			continue
		}
		if !r.HasKinematics() {
			j.IncompleteRows++
			continue
		}
		if !labelled {
			j.MissingLabels++
		}
		j.Defenders = append(j.Defenders, row)
	}

	switch {
	case bc == nil && bcIncomplete:
		return j, &model.PlayError{Key: d.Key, Err: model.ErrUnresolvedBallCarrier,
			Detail: "ball carrier row has missing position, speed or direction"}
	case bc == nil:
		return j, &model.PlayError{Key: d.Key, Err: model.ErrUnresolvedBallCarrier}
	case len(j.Defenders) == 0:
		return j, &model.PlayError{Key: d.Key, Err: model.ErrNoDefenders}
	}
	j.BallCarrier = *bc
	return j, nil
}

// rosterPosition prefers the players table and falls back to the tracking row.
func rosterPosition(ds *model.Dataset, r model.TrackingRow) string {
	if p, ok := ds.Players[r.NflID]; ok && p.Position != "" {
		return p.Position
	}
	return r.Position
}
