package compare

import (
	"github.com/KaramelBytes/scatterdiff/internal/dataset"
	"github.com/KaramelBytes/scatterdiff/internal/geom"
)

// Movement is a matched point whose plotted position differs between the
// two snapshots.
type Movement struct {
	Label dataset.Value `json:"label"`
	// Row indexes the primary dataset, Counterpart the comparison dataset.
	Row         int        `json:"row"`
	Counterpart int        `json:"counterpart"`
	From        geom.Point `json:"from"`
	To          geom.Point `json:"to"`
}

// Movements lists matched rows whose x or y value changed, in primary row
// order. Rows missing a numeric coordinate on either side are skipped.
// A nil comparison yields no movements.
func Movements(primary, comparison *dataset.Dataset, x, y string) []Movement {
	if primary == nil || comparison == nil {
		return nil
	}
	var out []Movement
	for _, r := range primary.Rows() {
		lv, ok := r.Value(primary.LabelColumn())
		if !ok {
			continue
		}
		m, ok := comparison.Lookup(lv)
		if !ok {
			continue
		}
		to, ok := position(r, x, y)
		if !ok {
			continue
		}
		from, ok := position(m, x, y)
		if !ok {
			continue
		}
		if from == to {
			continue
		}
		out = append(out, Movement{Label: lv, Row: r.Index(), Counterpart: m.Index(), From: from, To: to})
	}
	return out
}

func position(r dataset.Row, x, y string) (geom.Point, bool) {
	xv, ok := r.Value(x)
	if !ok {
		return geom.Point{}, false
	}
	yv, ok := r.Value(y)
	if !ok {
		return geom.Point{}, false
	}
	xf, okx := xv.Float()
	yf, oky := yv.Float()
	if !okx || !oky {
		return geom.Point{}, false
	}
	return geom.Point{X: xf, Y: yf}, true
}
