package aggregator

import (
	"fmt"
	"sort"

	"github.com/pable/go-tackle-metrics/internal/model"
)

// Aggregate rolls scored defender rows up into one PlayerPerformance per
// nflId: credited tackles (actual) against summed tackle probability
// (expected). players supplies names and positions; unknown ids keep the
// name and position carried on their rows.
func Aggregate(rows []model.DefenderFeatureRow, probs []float64, players map[int64]model.Player) ([]model.PlayerPerformance, error) {
	if len(rows) != len(probs) {
		return nil, fmt.Errorf("rows/probabilities length mismatch: %d vs %d", len(rows), len(probs))
	}

	byPlayer := make(map[int64]*model.PlayerPerformance)
	for i := range rows {
		r := &rows[i]
		acc, ok := byPlayer[r.NflID]
		if !ok {
			acc = &model.PlayerPerformance{NflID: r.NflID, Name: r.DisplayName, Position: r.Position}
			if p, found := players[r.NflID]; found {
				if p.DisplayName != "" {
					acc.Name = p.DisplayName
				}
				if p.Position != "" {
					acc.Position = p.Position
				}
			}
			byPlayer[r.NflID] = acc
		}
		acc.Plays++
		if r.TackleParticipant {
			acc.Tackles++
		}
		acc.Expected += probs[i]
	}

	out := make([]model.PlayerPerformance, 0, len(byPlayer))
	for _, acc := range byPlayer {
		out = append(out, *acc)
	}
	// Sort by over-performance desc; nflId breaks ties for stable output.
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Diff(), out[j].Diff()
		if di != dj {
			return di > dj
		}
		return out[i].NflID < out[j].NflID
	})
	return out, nil
}

// Filter keeps players with at least minPlays scored rows.
func Filter(perf []model.PlayerPerformance, minPlays int) []model.PlayerPerformance {
	var out []model.PlayerPerformance
	for _, p := range perf {
		if p.Plays >= minPlays {
			out = append(out, p)
		}
	}
	return out
}

// TopBottom returns the n best and n worst performers from a slice sorted by
// Aggregate. The two halves never overlap.
func TopBottom(perf []model.PlayerPerformance, n int) (top, bottom []model.PlayerPerformance) {
	if n <= 0 {
		return nil, nil
	}
	if 2*n >= len(perf) {
		half := (len(perf) + 1) / 2
		top = perf[:half]
		bottom = perf[half:]
	} else {
		top = perf[:n]
		bottom = perf[len(perf)-n:]
	}
	rev := make([]model.PlayerPerformance, len(bottom))
	for i, p := range bottom {
		rev[len(bottom)-1-i] = p
	}
	return top, rev
}
