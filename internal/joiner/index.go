package joiner

import (
	"sort"

	"github.com/pable/go-tackle-metrics/internal/model"
)

type span struct{ start, end int }

// Index groups tracking rows by play in one flat arena. Rows of a play are
// contiguous and keep their original relative order.
type Index struct {
	rows  []model.TrackingRow
	keys  []model.PlayKey
	spans map[model.PlayKey]span
}

// NewIndex sorts rows in place by (gameId, playId) and indexes the play ranges.
// The index takes ownership of rows.
func NewIndex(rows []model.TrackingRow) *Index {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.GameID != b.GameID {
			return a.GameID < b.GameID
		}
		return a.PlayID < b.PlayID
	})

	ix := &Index{rows: rows, spans: make(map[model.PlayKey]span)}
	for start := 0; start < len(rows); {
		key := rows[start].Key()
		end := start + 1
		for end < len(rows) && rows[end].Key() == key {
			end++
		}
		ix.keys = append(ix.keys, key)
		ix.spans[key] = span{start, end}
		start = end
	}
	return ix
}

// Len returns the number of distinct plays.
func (ix *Index) Len() int { return len(ix.keys) }

// Play returns the i-th play key (ascending) and its rows.
func (ix *Index) Play(i int) (model.PlayKey, []model.TrackingRow) {
	key := ix.keys[i]
	s := ix.spans[key]
	return key, ix.rows[s.start:s.end:s.end]
}

// Lookup returns the rows of one play, or nil if the play has no tracking data.
func (ix *Index) Lookup(key model.PlayKey) []model.TrackingRow {
	s, ok := ix.spans[key]
	if !ok {
		return nil
	}
	return ix.rows[s.start:s.end:s.end]
}
