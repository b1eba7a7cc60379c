// Package resolver picks the decisive tracking frame of a play: the last frame
// tagged handoff, run or pass_arrived.
package resolver

import (
	"fmt"

	"github.com/pable/go-tackle-metrics/internal/categorical"
	"github.com/pable/go-tackle-metrics/internal/model"
)

// Decisive is the resolved moment-of-contact snapshot of one play.
type Decisive struct {
	Key           model.PlayKey
	FrameID       int
	Event         string
	Direction     model.Direction
	BallCarrierID int64

	// Rows holds every player sampled at FrameID, one row per nflId, in input order.
	Rows []model.TrackingRow
}

// Resolve selects the decisive frame among rows, which must all belong to play.
// When several events share the maximum frame, the frame is kept once and the
// event of its first tagged row (input order) names the play type.
func Resolve(play model.Play, rows []model.TrackingRow) (*Decisive, error) {
	key := play.Key()
	if play.NullifiedByPen {
		return nil, &model.PlayError{Key: key, Err: model.ErrNullifiedPlay}
	}

	frame, event := -1, ""
	for _, r := range rows {
		if !categorical.IsDecisiveEvent(r.Event) {
			continue
		}
		if r.FrameID > frame {
			frame, event = r.FrameID, r.Event
		}
	}
	if frame < 0 {
		return nil, &model.PlayError{Key: key, Err: model.ErrMissingDecisiveFrame}
	}

	d := &Decisive{
		Key:           key,
		FrameID:       frame,
		Event:         event,
		BallCarrierID: play.BallCarrierID,
	}
	seen := make(map[int64]struct{})
	for _, r := range rows {
		if r.FrameID != frame {
			continue
		}
		if _, dup := seen[r.NflID]; dup {
			continue
		}
		seen[r.NflID] = struct{}{}
		if d.Direction == "" && r.PlayDirection != "" {
			d.Direction = r.PlayDirection
		}
		d.Rows = append(d.Rows, r)
	}
	if d.Direction != model.DirectionLeft && d.Direction != model.DirectionRight {
		return nil, &model.PlayError{Key: key, Err: model.ErrMissingDecisiveFrame,
			Detail: fmt.Sprintf("frame %d has play direction %q", frame, d.Direction)}
	}
	return d, nil
}

// IsBallCarrier reports whether row r is the play's nominal ball carrier.
func (d *Decisive) IsBallCarrier(r model.TrackingRow) bool {
	return r.NflID != 0 && r.NflID == d.BallCarrierID
}
