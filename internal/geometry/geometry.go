// Package geometry computes spatial and kinematic features between defenders
// and the ball carrier. Coordinates follow the tracking convention: x runs
// 0-120 along the field with endzones at [0,10] and [110,120], y runs 0-53.3
// across it.
package geometry

import (
	"math"
	"sort"

	"github.com/pable/go-tackle-metrics/internal/model"
)

const (
	FieldWidth   = 53.3
	LeftGoalX    = 10.0
	RightGoalX   = 110.0
	degToRadians = math.Pi / 180
)

// Distance is the Euclidean distance between (x1,y1) and (x2,y2).
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2)
}

// DistanceRanks ranks distances ascending, 1 = closest. Equal distances keep
// input order, so the result is always a permutation of 1..len(dists).
func DistanceRanks(dists []float64) []int {
	idx := make([]int, len(dists))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return dists[idx[a]] < dists[idx[b]] })
	ranks := make([]int, len(dists))
	for rank, i := range idx {
		ranks[i] = rank + 1
	}
	return ranks
}

// Median returns the median of vals without modifying it. Even-length input
// averages the two middle values. Empty input returns 0.
func Median(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// DefenderInFront reports whether the defender is between the ball carrier and
// the endzone the play is moving toward.
func DefenderInFront(dir model.Direction, defX, bcX float64) bool {
	if dir == model.DirectionLeft {
		return defX < bcX
	}
	return defX > bcX
}

// SidelineDist is the ball carrier's lateral distance to the nearer sideline.
func SidelineDist(bcY float64) float64 {
	return math.Min(bcY-0, FieldWidth-bcY)
}

// EndzoneDist is the ball carrier's distance to the goal line of the endzone the
// play is moving toward, 0 once at or past it.
func EndzoneDist(dir model.Direction, bcX float64) float64 {
	if dir == model.DirectionLeft {
		if bcX <= LeftGoalX {
			return 0
		}
		return bcX - LeftGoalX
	}
	if bcX >= RightGoalX {
		return 0
	}
	return RightGoalX - bcX
}

// RelAngle is the absolute difference between two motion directions in
// degrees, folded into [0,180].
func RelAngle(dir, bcDir float64) float64 {
	theta := dir - bcDir
	if theta >= -180 && theta <= 180 {
		return math.Abs(theta)
	}
	return 360 - math.Abs(theta)
}

// RelSpeed is the magnitude of the difference between the defender and ball
// carrier velocity vectors, by the law of cosines with included angle relAngle.
func RelSpeed(s, bcS, relAngle float64) float64 {
	sq := bcS*bcS + s*s - 2*bcS*s*math.Cos(relAngle*degToRadians)
	if sq < 0 {
		// rounding at relAngle = 0 with s == bcS
		return 0
	}
	return math.Sqrt(sq)
}
