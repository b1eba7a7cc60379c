// Package loader reads the games, players, plays, tackles and weekly tracking
// CSV tables into typed records.
package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-tackle-metrics/internal/model"
)

// Input file names inside the data directory.
const (
	GamesFile   = "games.csv"
	PlayersFile = "players.csv"
	PlaysFile   = "plays.csv"
	TacklesFile = "tackles.csv"
)

// TrackingFile returns the tracking file name for one week.
func TrackingFile(week int) string {
	return fmt.Sprintf("tracking_week_%d.csv", week)
}

// Load reads every input table from dir. Tracking weeks are read concurrently
// and concatenated in the order given. The first failure, or cancellation of
// ctx, stops the remaining reads.
func Load(ctx context.Context, dir string, weeks []int) (*model.Dataset, error) {
	ds := &model.Dataset{}
	tracking := make([][]model.TrackingRow, len(weeks))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ds.Games, err = readFile(gctx, dir, GamesFile, ReadGames)
		return err
	})
	g.Go(func() (err error) {
		ds.Players, err = readFile(gctx, dir, PlayersFile, ReadPlayers)
		return err
	})
	g.Go(func() (err error) {
		ds.Plays, err = readFile(gctx, dir, PlaysFile, ReadPlays)
		return err
	})
	g.Go(func() (err error) {
		ds.Tackles, err = readFile(gctx, dir, TacklesFile, ReadTackles)
		return err
	})
	for i, w := range weeks {
		g.Go(func() (err error) {
			tracking[i], err = readFile(gctx, dir, TrackingFile(w), ReadTracking)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, t := range tracking {
		total += len(t)
	}
	ds.Tracking = make([]model.TrackingRow, 0, total)
	for _, t := range tracking {
		ds.Tracking = append(ds.Tracking, t...)
	}
	return ds, nil
}

// readFile parses one table. A cancelled ctx stops it before the file is
// opened or at the next buffered read.
func readFile[T any](ctx context.Context, dir, name string, read func(io.Reader, string) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return read(ctxReader{ctx: ctx, r: f}, name)
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// ReadGames parses the games table keyed by gameId.
func ReadGames(r io.Reader, name string) (map[int64]model.Game, error) {
	t, err := newCSVTable(name, r, "gameId", "season", "week")
	if err != nil {
		return nil, err
	}
	out := make(map[int64]model.Game)
	for {
		ok, err := t.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		var g model.Game
		if g.GameID, err = t.int64("gameId"); err != nil {
			return nil, err
		}
		season, err := t.optInt64("season")
		if err != nil {
			return nil, err
		}
		week, err := t.optInt64("week")
		if err != nil {
			return nil, err
		}
		g.Season, g.Week = int(season), int(week)
		out[g.GameID] = g
	}
}

// ReadPlayers parses the roster keyed by nflId.
func ReadPlayers(r io.Reader, name string) (map[int64]model.Player, error) {
	t, err := newCSVTable(name, r, "nflId", "position")
	if err != nil {
		return nil, err
	}
	out := make(map[int64]model.Player)
	for {
		ok, err := t.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		id, err := t.int64("nflId")
		if err != nil {
			return nil, err
		}
		out[id] = model.Player{
			NflID:       id,
			Position:    strings.ToUpper(t.str("position")),
			DisplayName: t.str("displayName"),
		}
	}
}

// ReadPlays parses the plays table. The offensive team is read from
// offensiveTeam, or possessionTeam when that column is absent.
func ReadPlays(r io.Reader, name string) (map[model.PlayKey]model.Play, error) {
	t, err := newCSVTable(name, r, "gameId", "playId", "ballCarrierId", "defensiveTeam", "playNullifiedByPenalty")
	if err != nil {
		return nil, err
	}
	offCol := "offensiveTeam"
	if !t.has(offCol) {
		offCol = "possessionTeam"
	}
	out := make(map[model.PlayKey]model.Play)
	for {
		ok, err := t.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		var p model.Play
		if p.GameID, err = t.int64("gameId"); err != nil {
			return nil, err
		}
		if p.PlayID, err = t.int64("playId"); err != nil {
			return nil, err
		}
		if p.BallCarrierID, err = t.optInt64("ballCarrierId"); err != nil {
			return nil, err
		}
		p.OffensiveTeam = t.str(offCol)
		p.DefensiveTeam = t.str("defensiveTeam")
		p.NullifiedByPen = strings.EqualFold(t.str("playNullifiedByPenalty"), "Y")
		out[p.Key()] = p
	}
}

// ReadTackles parses tackle credits keyed by (gameId, playId, nflId).
func ReadTackles(r io.Reader, name string) (map[model.PlayerKey]model.TackleRecord, error) {
	t, err := newCSVTable(name, r, "gameId", "playId", "nflId", "tackle", "assist")
	if err != nil {
		return nil, err
	}
	out := make(map[model.PlayerKey]model.TackleRecord)
	for {
		ok, err := t.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		var rec model.TackleRecord
		if rec.GameID, err = t.int64("gameId"); err != nil {
			return nil, err
		}
		if rec.PlayID, err = t.int64("playId"); err != nil {
			return nil, err
		}
		if rec.NflID, err = t.int64("nflId"); err != nil {
			return nil, err
		}
		if rec.Tackle, err = t.flag("tackle"); err != nil {
			return nil, err
		}
		if rec.Assist, err = t.flag("assist"); err != nil {
			return nil, err
		}
		key := model.PlayerKey{GameID: rec.GameID, PlayID: rec.PlayID, NflID: rec.NflID}
		if prev, dup := out[key]; dup {
			rec.Tackle = rec.Tackle || prev.Tackle
			rec.Assist = rec.Assist || prev.Assist
		}
		out[key] = rec
	}
}

// ReadTracking parses one week of tracking rows in file order.
func ReadTracking(r io.Reader, name string) ([]model.TrackingRow, error) {
	t, err := newCSVTable(name, r,
		"gameId", "playId", "frameId", "nflId", "club", "x", "y", "s", "dir", "event", "playDirection")
	if err != nil {
		return nil, err
	}
	var out []model.TrackingRow
	for {
		ok, err := t.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		var row model.TrackingRow
		if row.GameID, err = t.int64("gameId"); err != nil {
			return nil, err
		}
		if row.PlayID, err = t.int64("playId"); err != nil {
			return nil, err
		}
		frame, err := t.int64("frameId")
		if err != nil {
			return nil, err
		}
		row.FrameID = int(frame)
		if row.NflID, err = t.optInt64("nflId"); err != nil {
			return nil, err
		}
		if row.X, err = t.float("x"); err != nil {
			return nil, err
		}
		if row.Y, err = t.float("y"); err != nil {
			return nil, err
		}
		if row.S, err = t.float("s"); err != nil {
			return nil, err
		}
		if row.Dir, err = t.float("dir"); err != nil {
			return nil, err
		}
		row.DisplayName = t.str("displayName")
		row.Club = t.str("club")
		row.Position = strings.ToUpper(t.str("position"))
		row.PlayDirection = model.Direction(strings.ToLower(t.str("playDirection")))
		if ev := t.str("event"); !isNA(ev) {
			row.Event = ev
		}
		out = append(out, row)
	}
}
