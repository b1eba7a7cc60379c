// Package featurecsv writes and reads the flat defender feature table consumed
// by the classifier. The column set and order are fixed.
package featurecsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/pable/go-tackle-metrics/internal/model"
)

// Columns is the output header, in order.
var Columns = []string{
	"gameId", "playId", "frameId", "nflId", "displayName", "club", "position",
	"season", "week", "playDirection", "event",
	"x", "y", "s", "dir",
	"tackle_participant",
	"bc_nflId", "bc_pos", "bc_x", "bc_y", "bc_s", "bc_dir",
	"dist_to_bc", "dist_to_bc_avg", "dist_rank", "defender_in_front",
	"sideline_dist", "endzone_dist", "rel_angle", "rel_speed",
	"is_dlineman", "is_linebacker", "is_secondary", "is_pass", "is_rush",
	"is_bc_wr", "is_bc_te", "is_bc_rb", "is_bc_qb",
}

// Write serializes rows with a header line.
func Write(w io.Writer, rows []model.DefenderFeatureRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(Columns))
	for i := range rows {
		encode(&rows[i], rec)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func encode(r *model.DefenderFeatureRow, rec []string) {
	i := 0
	put := func(s string) { rec[i] = s; i++ }

	put(itoa(r.GameID))
	put(itoa(r.PlayID))
	put(strconv.Itoa(r.FrameID))
	put(itoa(r.NflID))
	put(r.DisplayName)
	put(r.Club)
	put(r.Position)
	put(strconv.Itoa(r.Season))
	put(strconv.Itoa(r.Week))
	put(string(r.PlayDirection))
	put(r.Event)
	put(ftoa(r.X))
	put(ftoa(r.Y))
	put(ftoa(r.S))
	put(ftoa(r.Dir))
	put(btoa(r.TackleParticipant))
	put(itoa(r.BC.NflID))
	put(r.BC.Position)
	put(ftoa(r.BC.X))
	put(ftoa(r.BC.Y))
	put(ftoa(r.BC.S))
	put(ftoa(r.BC.Dir))
	put(ftoa(r.DistToBC))
	put(ftoa(r.DistToBCAvg))
	put(strconv.Itoa(r.DistRank))
	put(btoa(r.DefenderInFront))
	put(ftoa(r.SidelineDist))
	put(ftoa(r.EndzoneDist))
	put(ftoa(r.RelAngle))
	put(ftoa(r.RelSpeed))
	put(btoa(r.IsDLineman))
	put(btoa(r.IsLinebacker))
	put(btoa(r.IsSecondary))
	put(btoa(r.IsPass))
	put(btoa(r.IsRush))
	put(btoa(r.IsBCWR))
	put(btoa(r.IsBCTE))
	put(btoa(r.IsBCRB))
	put(btoa(r.IsBCQB))
}

func itoa(v int64) string   { return strconv.FormatInt(v, 10) }
func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func btoa(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Read parses a table written by Write. The header must match Columns exactly.
func Read(r io.Reader) ([]model.DefenderFeatureRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)
	cr.ReuseRecord = true

	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, c := range Columns {
		if hdr[i] != c {
			return nil, fmt.Errorf("column %d: want %q, got %q", i, c, hdr[i])
		}
	}

	var out []model.DefenderFeatureRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		var row model.DefenderFeatureRow
		if err := decode(rec, &row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, row)
	}
}

// decoder walks a record in column order, keeping the first parse error.
type decoder struct {
	rec []string
	i   int
	err error
}

func (d *decoder) next() (string, string) {
	col, s := Columns[d.i], d.rec[d.i]
	d.i++
	return col, s
}

func (d *decoder) str() string {
	_, s := d.next()
	return s
}

func (d *decoder) int64() int64 {
	col, s := d.next()
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("column %s: %w", col, err)
	}
	return v
}

func (d *decoder) int() int { return int(d.int64()) }

func (d *decoder) float() float64 {
	col, s := d.next()
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("column %s: %w", col, err)
	}
	return v
}

func (d *decoder) bool() bool {
	col, s := d.next()
	switch s {
	case "1":
		return true
	case "0":
		return false
	}
	if d.err == nil {
		d.err = fmt.Errorf("column %s: invalid flag %q", col, s)
	}
	return false
}

func decode(rec []string, r *model.DefenderFeatureRow) error {
	d := &decoder{rec: rec}
	r.GameID = d.int64()
	r.PlayID = d.int64()
	r.FrameID = d.int()
	r.NflID = d.int64()
	r.DisplayName = d.str()
	r.Club = d.str()
	r.Position = d.str()
	r.Season = d.int()
	r.Week = d.int()
	r.PlayDirection = model.Direction(d.str())
	r.Event = d.str()
	r.X = d.float()
	r.Y = d.float()
	r.S = d.float()
	r.Dir = d.float()
	r.TackleParticipant = d.bool()
	r.BC.NflID = d.int64()
	r.BC.Position = d.str()
	r.BC.X = d.float()
	r.BC.Y = d.float()
	r.BC.S = d.float()
	r.BC.Dir = d.float()
	r.DistToBC = d.float()
	r.DistToBCAvg = d.float()
	r.DistRank = d.int()
	r.DefenderInFront = d.bool()
	r.SidelineDist = d.float()
	r.EndzoneDist = d.float()
	r.RelAngle = d.float()
	r.RelSpeed = d.float()
	r.IsDLineman = d.bool()
	r.IsLinebacker = d.bool()
	r.IsSecondary = d.bool()
	r.IsPass = d.bool()
	r.IsRush = d.bool()
	r.IsBCWR = d.bool()
	r.IsBCTE = d.bool()
	r.IsBCRB = d.bool()
	r.IsBCQB = d.bool()
	return d.err
}
