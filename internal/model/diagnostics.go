package model

// Diagnostics counts what a pipeline run excluded or defaulted.
type Diagnostics struct {
	PlaysSeen    int
	PlaysEmitted int
	RowsEmitted  int

	// Excluded plays, by reason.
	Nullified             int
	UnknownPlay           int
	MissingDecisiveFrame  int
	UnresolvedBallCarrier int
	NoDefenders           int

	// Row-level counts.
	IncompleteRows int // defenders dropped for missing x/y/s/dir
	JoinGapRows    int // decisive-frame players not matched to the defensive team
	MissingLabels  int // defenders with no tackle record, labelled 0
}

// Add accumulates other into d.
func (d *Diagnostics) Add(other Diagnostics) {
	d.PlaysSeen += other.PlaysSeen
	d.PlaysEmitted += other.PlaysEmitted
	d.RowsEmitted += other.RowsEmitted
	d.Nullified += other.Nullified
	d.UnknownPlay += other.UnknownPlay
	d.MissingDecisiveFrame += other.MissingDecisiveFrame
	d.UnresolvedBallCarrier += other.UnresolvedBallCarrier
	d.NoDefenders += other.NoDefenders
	d.IncompleteRows += other.IncompleteRows
	d.JoinGapRows += other.JoinGapRows
	d.MissingLabels += other.MissingLabels
}

// Excluded returns the number of plays that produced no rows.
func (d *Diagnostics) Excluded() int {
	return d.Nullified + d.UnknownPlay + d.MissingDecisiveFrame + d.UnresolvedBallCarrier + d.NoDefenders
}

// CountIssue bumps the counter matching err's exclusion reason.
func (d *Diagnostics) CountIssue(err error) {
	switch IssueKind(err) {
	case "unknown_play":
		d.UnknownPlay++
	case "nullified":
		d.Nullified++
	case "missing_decisive_frame":
		d.MissingDecisiveFrame++
	case "unresolved_ball_carrier":
		d.UnresolvedBallCarrier++
	case "no_defenders":
		d.NoDefenders++
	}
}
