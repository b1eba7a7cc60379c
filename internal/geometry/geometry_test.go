package geometry

import (
	"math"
	"testing"

	"github.com/pable/go-tackle-metrics/internal/model"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func TestDistance(t *testing.T) {
	if d := Distance(0, 0, 3, 4); !approx(d, 5) {
		t.Errorf("Distance(0,0,3,4) = %v, want 5", d)
	}
	if d := Distance(12.5, 20, 12.5, 20); d != 0 {
		t.Errorf("Distance to self = %v, want 0", d)
	}
}

func TestEndzoneDist(t *testing.T) {
	tests := []struct {
		name string
		dir  model.Direction
		x    float64
		want float64
	}{
		{"left inside endzone", model.DirectionLeft, 5, 0},
		{"left on goal line", model.DirectionLeft, 10, 0},
		{"left midfield", model.DirectionLeft, 60, 50},
		{"right at 50", model.DirectionRight, 50, 60},
		{"right past goal line", model.DirectionRight, 115, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EndzoneDist(tc.dir, tc.x); !approx(got, tc.want) {
				t.Errorf("EndzoneDist(%s, %v) = %v, want %v", tc.dir, tc.x, got, tc.want)
			}
		})
	}
}

func TestEndzoneDistMonotonic(t *testing.T) {
	// Walk each direction away from its target endzone across the whole field.
	tests := []struct {
		dir  model.Direction
		goal float64
		step float64
		from float64
	}{
		{model.DirectionLeft, LeftGoalX, 0.25, 0},
		{model.DirectionRight, RightGoalX, -0.25, 120},
	}
	for _, tc := range tests {
		t.Run(string(tc.dir), func(t *testing.T) {
			prev := math.Inf(-1)
			for i := 0; i <= 480; i++ {
				x := tc.from + float64(i)*tc.step
				got := EndzoneDist(tc.dir, x)
				if got < prev {
					t.Fatalf("EndzoneDist(%s, %v) = %v, decreased from %v", tc.dir, x, got, prev)
				}
				prev = got

				reached := x <= tc.goal
				if tc.dir == model.DirectionRight {
					reached = x >= tc.goal
				}
				if reached && got != 0 {
					t.Errorf("EndzoneDist(%s, %v) = %v, want 0 at or beyond the goal line", tc.dir, x, got)
				}
				if !reached && !approx(got, math.Abs(x-tc.goal)) {
					t.Errorf("EndzoneDist(%s, %v) = %v, want %v", tc.dir, x, got, math.Abs(x-tc.goal))
				}
			}
		})
	}
}

func TestSidelineDist(t *testing.T) {
	tests := []struct {
		y    float64
		want float64
	}{
		{50, 3.3},
		{0, 0},
		{10, 10},
		{FieldWidth / 2, FieldWidth / 2},
	}
	for _, tc := range tests {
		if got := SidelineDist(tc.y); math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("SidelineDist(%v) = %v, want %v", tc.y, got, tc.want)
		}
	}
}

func TestRelAngle(t *testing.T) {
	tests := []struct {
		dir, bcDir float64
		want       float64
	}{
		{90, 90, 0},
		{0, 180, 180},
		{350, 10, 20},
		{10, 350, 20},
		{270, 45, 135},
		{45, 270, 135},
		{0, 359.99, 0.01},
	}
	for _, tc := range tests {
		got := RelAngle(tc.dir, tc.bcDir)
		if math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("RelAngle(%v, %v) = %v, want %v", tc.dir, tc.bcDir, got, tc.want)
		}
		if got < 0 || got > 180 {
			t.Errorf("RelAngle(%v, %v) = %v out of [0,180]", tc.dir, tc.bcDir, got)
		}
	}
}

func TestRelAngleBoundsSweep(t *testing.T) {
	for dir := 0.0; dir < 360; dir += 7.5 {
		for bc := 0.0; bc < 360; bc += 11.25 {
			got := RelAngle(dir, bc)
			if got < 0 || got > 180 {
				t.Fatalf("RelAngle(%v, %v) = %v out of [0,180]", dir, bc, got)
			}
			if !approx(got, RelAngle(bc, dir)) {
				t.Fatalf("RelAngle not symmetric for (%v, %v)", dir, bc)
			}
		}
	}
}

func TestRelSpeed(t *testing.T) {
	tests := []struct {
		name          string
		s, bcS, angle float64
		want          float64
	}{
		{"same heading same speed", 5, 5, 0, 0},
		{"same heading", 7, 4, 0, 3},
		{"head on", 3, 4, 180, 7},
		{"perpendicular", 3, 4, 90, 5},
		{"defender still", 0, 6, 45, 6},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RelSpeed(tc.s, tc.bcS, tc.angle)
			if math.Abs(got-tc.want) > 1e-6 {
				t.Errorf("RelSpeed = %v, want %v", got, tc.want)
			}
			if got < 0 || math.IsNaN(got) {
				t.Errorf("RelSpeed = %v, want non-negative", got)
			}
		})
	}
}

func TestDefenderInFront(t *testing.T) {
	if !DefenderInFront(model.DirectionRight, 40, 30) {
		t.Error("right: defender at greater x should be in front")
	}
	if DefenderInFront(model.DirectionRight, 20, 30) {
		t.Error("right: defender at smaller x should be behind")
	}
	if !DefenderInFront(model.DirectionLeft, 20, 30) {
		t.Error("left: defender at smaller x should be in front")
	}
	if DefenderInFront(model.DirectionLeft, 30, 30) {
		t.Error("level with the ball carrier is not in front")
	}
}

func TestDistanceRanks(t *testing.T) {
	tests := []struct {
		name  string
		dists []float64
		want  []int
	}{
		{"distinct", []float64{3, 1, 2}, []int{3, 1, 2}},
		{"ties keep input order", []float64{2, 1, 2, 1}, []int{3, 1, 4, 2}},
		{"single", []float64{9}, []int{1}},
		{"empty", nil, []int{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DistanceRanks(tc.dists)
			if len(got) != len(tc.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tc.want))
			}
			seen := make(map[int]bool)
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("rank[%d] = %d, want %d", i, got[i], tc.want[i])
				}
				if got[i] < 1 || got[i] > len(got) || seen[got[i]] {
					t.Errorf("ranks %v are not a permutation of 1..%d", got, len(got))
				}
				seen[got[i]] = true
			}
		})
	}
}

func TestMedian(t *testing.T) {
	in := []float64{5, 1, 3}
	if got := Median(in); got != 3 {
		t.Errorf("Median odd = %v, want 3", got)
	}
	if in[0] != 5 || in[1] != 1 {
		t.Errorf("Median modified its input: %v", in)
	}
	if got := Median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("Median even = %v, want 2.5", got)
	}
	if got := Median(nil); got != 0 {
		t.Errorf("Median empty = %v, want 0", got)
	}
}
