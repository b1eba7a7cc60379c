// Package assembler runs the per-play feature pipeline: resolve the decisive
// frame, join it with the reference tables, and derive one feature row per
// defender. Plays are independent and processed on a bounded worker pool.
package assembler

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-tackle-metrics/internal/categorical"
	"github.com/pable/go-tackle-metrics/internal/geometry"
	"github.com/pable/go-tackle-metrics/internal/joiner"
	"github.com/pable/go-tackle-metrics/internal/model"
	"github.com/pable/go-tackle-metrics/internal/resolver"
)

// Result is the output of a pipeline run.
type Result struct {
	Rows        []model.DefenderFeatureRow
	Diagnostics model.Diagnostics
	Issues      []model.PlayIssue
}

type playResult struct {
	rows  []model.DefenderFeatureRow
	diag  model.Diagnostics
	issue *model.PlayIssue
}

// Run processes every play with tracking data in ds. workers <= 0 uses one
// worker per CPU. Rows are ordered by (gameId, playId) and then by input order
// within the play, regardless of worker scheduling. ds.Tracking is sorted in
// place.
func Run(ctx context.Context, ds *model.Dataset, workers int) (*Result, error) {
	if ds == nil {
		return nil, fmt.Errorf("nil Dataset")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ix := joiner.NewIndex(ds.Tracking)
	batches := make([]playResult, ix.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < ix.Len(); i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			key, rows := ix.Play(i)
			batches[i] = processPlay(ds, key, rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("process plays: %w", err)
	}

	total := 0
	for i := range batches {
		total += len(batches[i].rows)
	}
	res := &Result{Rows: make([]model.DefenderFeatureRow, 0, total)}
	for i := range batches {
		b := &batches[i]
		res.Rows = append(res.Rows, b.rows...)
		res.Diagnostics.Add(b.diag)
		if b.issue != nil {
			res.Issues = append(res.Issues, *b.issue)
		}
	}
	return res, nil
}

func processPlay(ds *model.Dataset, key model.PlayKey, rows []model.TrackingRow) playResult {
	pr := playResult{diag: model.Diagnostics{PlaysSeen: 1}}

	fail := func(err error) playResult {
		pr.diag.CountIssue(err)
		issue := model.PlayIssue{GameID: key.GameID, PlayID: key.PlayID, Kind: model.IssueKind(err)}
		var pe *model.PlayError
		if errors.As(err, &pe) {
			issue.Detail = pe.Detail
		}
		pr.issue = &issue
		return pr
	}

	play, ok := ds.Plays[key]
	if !ok {
		return fail(&model.PlayError{Key: key, Err: model.ErrUnknownPlay})
	}
	d, err := resolver.Resolve(play, rows)
	if err != nil {
		return fail(err)
	}
	j, err := joiner.Join(ds, play, d)
	if err != nil {
		return fail(err)
	}
	// Row-level counts cover emitted plays only.
	pr.diag.IncompleteRows = j.IncompleteRows
	pr.diag.JoinGapRows = j.JoinGapRows
	pr.diag.MissingLabels = j.MissingLabels

	pr.rows = Assemble(d, j, ds.Games[key.GameID])
	pr.diag.PlaysEmitted = 1
	pr.diag.RowsEmitted = len(pr.rows)
	return pr
}

// Assemble derives the feature rows of one play. Distance rank and median
// distance are computed over the full defender set before being attached.
func Assemble(d *resolver.Decisive, j *joiner.Joined, game model.Game) []model.DefenderFeatureRow {
	bc := j.BallCarrier

	dists := make([]float64, len(j.Defenders))
	for i, def := range j.Defenders {
		dists[i] = geometry.Distance(def.X, def.Y, bc.X, bc.Y)
	}
	ranks := geometry.DistanceRanks(dists)
	avgDist := geometry.Median(dists)
	sideline := geometry.SidelineDist(bc.Y)
	endzone := geometry.EndzoneDist(d.Direction, bc.X)

	out := make([]model.DefenderFeatureRow, len(j.Defenders))
	for i, def := range j.Defenders {
		relAngle := geometry.RelAngle(def.Dir, bc.Dir)
		out[i] = model.DefenderFeatureRow{
			GameID:            def.GameID,
			PlayID:            def.PlayID,
			FrameID:           d.FrameID,
			NflID:             def.NflID,
			DisplayName:       def.DisplayName,
			Club:              def.Club,
			Position:          def.RosterPosition,
			Season:            game.Season,
			Week:              game.Week,
			PlayDirection:     d.Direction,
			Event:             d.Event,
			X:                 def.X,
			Y:                 def.Y,
			S:                 def.S,
			Dir:               def.Dir,
			TackleParticipant: def.TackleParticipant,
			BC:                bc,

			DistToBC:        dists[i],
			DistToBCAvg:     avgDist,
			DistRank:        ranks[i],
			DefenderInFront: geometry.DefenderInFront(d.Direction, def.X, bc.X),
			SidelineDist:    sideline,
			EndzoneDist:     endzone,
			RelAngle:        relAngle,
			RelSpeed:        geometry.RelSpeed(def.S, bc.S, relAngle),

			IsDLineman:   categorical.IsDLineman(def.RosterPosition),
			IsLinebacker: categorical.IsLinebacker(def.RosterPosition),
			IsSecondary:  categorical.IsSecondary(def.RosterPosition),
			IsPass:       categorical.IsPass(d.Event),
			IsRush:       categorical.IsRush(d.Event),
			IsBCWR:       categorical.IsBCWR(bc.Position),
			IsBCTE:       categorical.IsBCTE(bc.Position),
			IsBCRB:       categorical.IsBCRB(bc.Position),
			IsBCQB:       categorical.IsBCQB(bc.Position),
		}
	}
	return out
}
