package model

import "math"

// Direction is the play direction recorded in tracking data.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Tracking event tags that mark a decisive frame.
const (
	EventHandoff     = "handoff"
	EventRun         = "run"
	EventPassArrived = "pass_arrived"
)

// PlayKey identifies one play within one game.
type PlayKey struct {
	GameID int64
	PlayID int64
}

// PlayerKey identifies one player's participation in one play.
type PlayerKey struct {
	GameID int64
	PlayID int64
	NflID  int64
}

// ---- Raw input records ----

type Game struct {
	GameID int64
	Season int
	Week   int
}

type Player struct {
	NflID       int64
	Position    string
	DisplayName string
}

type Play struct {
	GameID         int64
	PlayID         int64
	BallCarrierID  int64
	OffensiveTeam  string
	DefensiveTeam  string
	NullifiedByPen bool
}

func (p Play) Key() PlayKey { return PlayKey{p.GameID, p.PlayID} }

// TackleRecord holds the tackle/assist credits for one player on one play.
type TackleRecord struct {
	GameID int64
	PlayID int64
	NflID  int64
	Tackle bool
	Assist bool
}

// Participant reports whether the player was credited with a tackle or assist.
func (t TackleRecord) Participant() bool { return t.Tackle || t.Assist }

// TrackingRow is one player's sample in one frame. X, Y, S and Dir are NaN when
// the source field was empty or NA. NflID is 0 for the football.
type TrackingRow struct {
	GameID        int64
	PlayID        int64
	FrameID       int
	NflID         int64
	DisplayName   string
	Club          string
	X, Y          float64
	S             float64
	Dir           float64
	Event         string
	Position      string
	PlayDirection Direction
}

func (r TrackingRow) Key() PlayKey { return PlayKey{r.GameID, r.PlayID} }

// HasKinematics reports whether position, speed and direction are all present.
func (r TrackingRow) HasKinematics() bool {
	return !math.IsNaN(r.X) && !math.IsNaN(r.Y) && !math.IsNaN(r.S) && !math.IsNaN(r.Dir)
}

// Dataset is the full set of input tables held in memory.
type Dataset struct {
	Games    map[int64]Game
	Players  map[int64]Player
	Plays    map[PlayKey]Play
	Tackles  map[PlayerKey]TackleRecord
	Tracking []TrackingRow
}

// ---- Pipeline records ----

// JoinedRow is one player in a decisive frame enriched with label, roster and side.
type JoinedRow struct {
	TrackingRow
	TackleParticipant bool
	BallCarrier       bool
	OnDefense         bool
	RosterPosition    string
}

// BallCarrier holds the companion columns broadcast onto every defender row of a play.
type BallCarrier struct {
	NflID    int64
	Position string
	X, Y     float64
	S        float64
	Dir      float64
}

// DefenderFeatureRow is one output row: one defender at the decisive frame of one play.
type DefenderFeatureRow struct {
	GameID        int64
	PlayID        int64
	FrameID       int
	NflID         int64
	DisplayName   string
	Club          string
	Position      string
	Season        int
	Week          int
	PlayDirection Direction
	Event         string
	X, Y, S, Dir  float64

	TackleParticipant bool

	BC BallCarrier

	DistToBC        float64
	DistToBCAvg     float64
	DistRank        int
	DefenderInFront bool
	SidelineDist    float64
	EndzoneDist     float64
	RelAngle        float64
	RelSpeed        float64

	IsDLineman   bool
	IsLinebacker bool
	IsSecondary  bool
	IsPass       bool
	IsRush       bool
	IsBCWR       bool
	IsBCTE       bool
	IsBCRB       bool
	IsBCQB       bool
}

// FeatureNames lists the engineered model inputs in the order Features returns them.
var FeatureNames = []string{
	"dist_to_bc", "dist_to_bc_avg", "dist_rank", "defender_in_front",
	"sideline_dist", "endzone_dist", "rel_angle", "rel_speed",
	"is_dlineman", "is_linebacker", "is_secondary", "is_pass", "is_rush",
	"is_bc_wr", "is_bc_te", "is_bc_rb", "is_bc_qb",
}

// Features returns the model input vector for the row.
func (r *DefenderFeatureRow) Features() []float64 {
	return []float64{
		r.DistToBC, r.DistToBCAvg, float64(r.DistRank), b2f(r.DefenderInFront),
		r.SidelineDist, r.EndzoneDist, r.RelAngle, r.RelSpeed,
		b2f(r.IsDLineman), b2f(r.IsLinebacker), b2f(r.IsSecondary), b2f(r.IsPass), b2f(r.IsRush),
		b2f(r.IsBCWR), b2f(r.IsBCTE), b2f(r.IsBCRB), b2f(r.IsBCQB),
	}
}

// Label returns the supervised target as 0 or 1.
func (r *DefenderFeatureRow) Label() float64 { return b2f(r.TackleParticipant) }

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// ---- Aggregated results ----

// PlayerPerformance compares a defender's credited tackles with the model's expectation.
type PlayerPerformance struct {
	NflID    int64
	Name     string
	Position string
	Plays    int
	Tackles  int
	Expected float64
}

// Diff is actual minus expected tackles; positive means over-performance.
func (p *PlayerPerformance) Diff() float64 {
	return float64(p.Tackles) - p.Expected
}

// Evaluation summarizes classifier quality on one split.
type Evaluation struct {
	Split     string
	N         int
	Positives int
	Accuracy  float64
	Brier     float64
	LogLoss   float64
}

// RunSummary is a lightweight record for list/show commands.
type RunSummary struct {
	RunID     string
	Kind      string // "process" or "train"
	StartedAt string
	DataDir   string
	Weeks     string
	OutPath   string
	Diagnostics
}
