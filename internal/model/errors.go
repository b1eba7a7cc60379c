package model

import (
	"errors"
	"fmt"
)

// Per-play exclusion reasons. A play failing with one of these contributes no
// rows but does not abort the run.
var (
	ErrUnknownPlay           = errors.New("play missing from plays table")
	ErrNullifiedPlay         = errors.New("play nullified by penalty")
	ErrMissingDecisiveFrame  = errors.New("no handoff, run or pass_arrived event")
	ErrUnresolvedBallCarrier = errors.New("ball carrier absent from decisive frame")
	ErrNoDefenders           = errors.New("no defenders in decisive frame")
)

// PlayError attaches the play key to a per-play exclusion.
type PlayError struct {
	Key    PlayKey
	Err    error
	Detail string
}

func (e *PlayError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("game %d play %d: %v (%s)", e.Key.GameID, e.Key.PlayID, e.Err, e.Detail)
	}
	return fmt.Sprintf("game %d play %d: %v", e.Key.GameID, e.Key.PlayID, e.Err)
}

func (e *PlayError) Unwrap() error { return e.Err }

// IssueKind returns the short ledger label for a per-play exclusion.
func IssueKind(err error) string {
	switch {
	case errors.Is(err, ErrUnknownPlay):
		return "unknown_play"
	case errors.Is(err, ErrNullifiedPlay):
		return "nullified"
	case errors.Is(err, ErrMissingDecisiveFrame):
		return "missing_decisive_frame"
	case errors.Is(err, ErrUnresolvedBallCarrier):
		return "unresolved_ball_carrier"
	case errors.Is(err, ErrNoDefenders):
		return "no_defenders"
	default:
		return "other"
	}
}

// PlayIssue is a recorded diagnostic for one excluded play.
type PlayIssue struct {
	GameID int64
	PlayID int64
	Kind   string
	Detail string
}
