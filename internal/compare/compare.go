// Package compare aligns two dataset snapshots by their label column and
// classifies every cell of one of them.
//
// The forward direction (Compare) classifies the primary dataset: rows
// without a counterpart are RowAdded, matched cells that differ are
// Changed. The reference direction (Reference) classifies the other
// dataset for the second table: rows without a counterpart are RowRemoved
// and matched rows are never flagged, so a change is reported once.
package compare

import (
	"github.com/KaramelBytes/scatterdiff/internal/dataset"
)

// CellDiff is the classification of one cell.
type CellDiff int

const (
	Unchanged CellDiff = iota
	Changed
	RowAdded
	RowRemoved
)

func (c CellDiff) String() string {
	switch c {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case RowAdded:
		return "added"
	case RowRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c CellDiff) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Direction says which role the classified dataset plays.
type Direction int

const (
	// Forward classifies the primary (working) dataset.
	Forward Direction = iota
	// Backward classifies the reference dataset against the primary.
	Backward
)

// RowDiff is the classification of one row of the classified dataset.
type RowDiff struct {
	Index int
	Label dataset.Value
	// Status is RowAdded or RowRemoved for unmatched rows, Changed when at
	// least one cell changed and Unchanged otherwise.
	Status CellDiff
	// Counterpart is the matched row index in the other dataset, or -1.
	Counterpart int
	// Changed lists the changed column IDs in column order.
	Changed []string
}

// Classification is the classification map of one dataset. The zero
// value (and a nil pointer) classifies everything as Unchanged.
type Classification struct {
	ds        *dataset.Dataset
	direction Direction
	rows      []RowDiff
	cells     []map[string]CellDiff
}

// Compare classifies primary against comparison. A nil comparison means
// no comparison is active.
func Compare(primary, comparison *dataset.Dataset) *Classification {
	return Classify(primary, comparison, Forward)
}

// Reference classifies the reference dataset against primary, the same
// pair Compare sees with the roles swapped.
func Reference(reference, primary *dataset.Dataset) *Classification {
	return Classify(reference, primary, Backward)
}

// Classify classifies every row and cell of ds against other. Neither
// dataset is modified.
func Classify(ds, other *dataset.Dataset, dir Direction) *Classification {
	c := &Classification{ds: ds, direction: dir}
	if ds == nil || other == nil {
		return c
	}
	columns := ds.Columns()
	label := ds.LabelColumn()
	unmatched := RowAdded
	if dir == Backward {
		unmatched = RowRemoved
	}
	c.rows = make([]RowDiff, ds.Len())
	c.cells = make([]map[string]CellDiff, ds.Len())
	for i, r := range ds.Rows() {
		lv, hasLabel := r.Value(label)
		rd := RowDiff{Index: i, Label: lv, Counterpart: -1}
		var match dataset.Row
		var found bool
		if hasLabel {
			match, found = other.Lookup(lv)
		}
		if !found {
			rd.Status = unmatched
			c.rows[i] = rd
			continue
		}
		rd.Counterpart = match.Index()
		if dir == Forward {
			for _, col := range columns {
				if cellChanged(r, match, col.ID) {
					if c.cells[i] == nil {
						c.cells[i] = make(map[string]CellDiff)
					}
					c.cells[i][col.ID] = Changed
					rd.Changed = append(rd.Changed, col.ID)
				}
			}
			if len(rd.Changed) > 0 {
				rd.Status = Changed
			}
		}
		c.rows[i] = rd
	}
	return c
}

// cellChanged treats a value missing on exactly one side as unequal to
// the value present on the other.
func cellChanged(a, b dataset.Row, column string) bool {
	av, aok := a.Value(column)
	bv, bok := b.Value(column)
	if !aok && !bok {
		return false
	}
	if aok != bok {
		return true
	}
	return !av.Equal(bv)
}

// Active reports whether a comparison dataset was supplied.
func (c *Classification) Active() bool { return c != nil && c.rows != nil }

// Direction is the role the classified dataset played.
func (c *Classification) Direction() Direction {
	if c == nil {
		return Forward
	}
	return c.direction
}

// Dataset returns the classified dataset.
func (c *Classification) Dataset() *dataset.Dataset {
	if c == nil {
		return nil
	}
	return c.ds
}

// Cell classifies the cell at row index and column. Unknown rows and
// columns classify as Unchanged.
func (c *Classification) Cell(row int, column string) CellDiff {
	if !c.Active() || row < 0 || row >= len(c.rows) {
		return Unchanged
	}
	switch s := c.rows[row].Status; s {
	case RowAdded, RowRemoved:
		if _, ok := c.ds.Column(column); ok {
			return s
		}
		return Unchanged
	}
	if d, ok := c.cells[row][column]; ok {
		return d
	}
	return Unchanged
}

// CellByLabel classifies the cell of the first row carrying label.
func (c *Classification) CellByLabel(label dataset.Value, column string) CellDiff {
	if !c.Active() {
		return Unchanged
	}
	r, ok := c.ds.Lookup(label)
	if !ok {
		return Unchanged
	}
	return c.Cell(r.Index(), column)
}

// Row returns the row classification at index i.
func (c *Classification) Row(i int) RowDiff {
	if !c.Active() || i < 0 || i >= len(c.rows) {
		rd := RowDiff{Index: i, Counterpart: -1}
		if c != nil && c.ds != nil {
			rd.Label, _ = c.ds.Label(i)
		}
		return rd
	}
	return c.rows[i]
}

// Summary counts rows and cells by classification.
type Summary struct {
	Rows         int `json:"rows"`
	Added        int `json:"added"`
	Removed      int `json:"removed"`
	ChangedRows  int `json:"changed_rows"`
	ChangedCells int `json:"changed_cells"`
	Unchanged    int `json:"unchanged_rows"`
}

// Summary tallies the classification.
func (c *Classification) Summary() Summary {
	var s Summary
	if c == nil || c.ds == nil {
		return s
	}
	s.Rows = c.ds.Len()
	if !c.Active() {
		s.Unchanged = s.Rows
		return s
	}
	for _, r := range c.rows {
		switch r.Status {
		case RowAdded:
			s.Added++
		case RowRemoved:
			s.Removed++
		case Changed:
			s.ChangedRows++
			s.ChangedCells += len(r.Changed)
		default:
			s.Unchanged++
		}
	}
	return s
}

// CellRecord is one non-Unchanged entry of the classification map.
type CellRecord struct {
	Row    int           `json:"row"`
	Label  dataset.Value `json:"label"`
	Column string        `json:"column"`
	Diff   CellDiff      `json:"diff"`
}

// Cells lists every cell not classified Unchanged, in row then column
// order.
func (c *Classification) Cells() []CellRecord {
	if !c.Active() {
		return nil
	}
	columns := c.ds.Columns()
	var out []CellRecord
	for _, r := range c.rows {
		switch r.Status {
		case RowAdded, RowRemoved:
			for _, col := range columns {
				out = append(out, CellRecord{Row: r.Index, Label: r.Label, Column: col.ID, Diff: r.Status})
			}
		case Changed:
			for _, id := range r.Changed {
				out = append(out, CellRecord{Row: r.Index, Label: r.Label, Column: id, Diff: Changed})
			}
		}
	}
	return out
}
