// Package categorical maps roster position codes and tracking event tags to
// role and context flags.
package categorical

import "github.com/pable/go-tackle-metrics/internal/model"

var (
	dLinemen    = set("DE", "DT", "NT")
	linebackers = set("ILB", "OLB", "MLB")
	secondary   = set("CB", "FS", "SS", "DB")
	rushEvents  = set(model.EventHandoff, model.EventRun)
	backs       = set("RB", "FB")
)

func set(codes ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		m[c] = struct{}{}
	}
	return m
}

func in(m map[string]struct{}, code string) bool {
	_, ok := m[code]
	return ok
}

func IsDLineman(pos string) bool   { return in(dLinemen, pos) }
func IsLinebacker(pos string) bool { return in(linebackers, pos) }
func IsSecondary(pos string) bool  { return in(secondary, pos) }

func IsPass(event string) bool { return event == model.EventPassArrived }
func IsRush(event string) bool { return in(rushEvents, event) }

// IsDecisiveEvent reports whether event marks a candidate decisive frame.
func IsDecisiveEvent(event string) bool { return IsPass(event) || IsRush(event) }

func IsBCWR(pos string) bool { return pos == "WR" }
func IsBCTE(pos string) bool { return pos == "TE" }
func IsBCRB(pos string) bool { return in(backs, pos) }
func IsBCQB(pos string) bool { return pos == "QB" }
