// Package dataset is the immutable tabular snapshot shared by the lasso
// selection and the comparison engine.
//
// A Dataset is built once from a loader and never changes afterwards; a
// new version of the data is a new Dataset with a new ID. Row positions
// are stable for the lifetime of a Dataset and double as scatterplot
// point identifiers.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// ErrUnknownColumn is returned when a column ID is not declared.
var ErrUnknownColumn = errors.New("unknown column")

// Column is the metadata of one declared column.
type Column struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// DisplayName prefers the full name over the identifier.
func (c Column) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Row is a read-only view of one record.
type Row struct {
	index  int
	values map[string]Value
}

// Index is the 0-based position of the row in its Dataset.
func (r Row) Index() int { return r.index }

// Value returns the cell for column and whether the row provides it.
func (r Row) Value(column string) (Value, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Dataset is an immutable snapshot of column metadata and rows.
type Dataset struct {
	id          string
	name        string
	columns     []Column
	info        map[string]Column
	labelColumn string
	rows        []Row
	byLabel     map[Value]int
}

// New builds a Dataset. Columns keep their order; records are copied.
// Only structural problems are errors: empty or repeated column IDs and an
// undeclared label column. Data-quality problems (missing cells, repeated
// labels) are accepted and surface through Validate.
func New(name string, columns []Column, labelColumn string, records []map[string]Value) (*Dataset, error) {
	d := &Dataset{
		id:          uuid.NewString(),
		name:        name,
		columns:     make([]Column, len(columns)),
		info:        make(map[string]Column, len(columns)),
		labelColumn: labelColumn,
		rows:        make([]Row, len(records)),
		byLabel:     make(map[Value]int, len(records)),
	}
	copy(d.columns, columns)
	for _, c := range columns {
		if strings.TrimSpace(c.ID) == "" {
			return nil, errors.New("column with empty id")
		}
		if _, dup := d.info[c.ID]; dup {
			return nil, fmt.Errorf("duplicate column id %q", c.ID)
		}
		d.info[c.ID] = c
	}
	if _, ok := d.info[labelColumn]; !ok {
		return nil, fmt.Errorf("label column %q: %w", labelColumn, ErrUnknownColumn)
	}
	for i, rec := range records {
		vals := make(map[string]Value, len(rec))
		for k, v := range rec {
			vals[k] = v
		}
		d.rows[i] = Row{index: i, values: vals}
		if lv, ok := vals[labelColumn]; ok {
			// first occurrence wins
			if _, seen := d.byLabel[lv]; !seen {
				d.byLabel[lv] = i
			}
		}
	}
	return d, nil
}

// ID identifies this snapshot. Reloading the same data yields a new ID.
func (d *Dataset) ID() string { return d.id }

// Name is the human-readable source name, usually the file name.
func (d *Dataset) Name() string { return d.name }

// LabelColumn is the identifier of the row identity column.
func (d *Dataset) LabelColumn() string { return d.labelColumn }

// Columns returns the columns in display order.
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// Column looks up column metadata by identifier.
func (d *Dataset) Column(id string) (Column, bool) {
	c, ok := d.info[id]
	return c, ok
}

// Len is the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Row returns the row at position i.
func (d *Dataset) Row(i int) (Row, bool) {
	if i < 0 || i >= len(d.rows) {
		return Row{}, false
	}
	return d.rows[i], true
}

// Rows returns all rows in order.
func (d *Dataset) Rows() []Row {
	out := make([]Row, len(d.rows))
	copy(out, d.rows)
	return out
}

// Label returns the label value of row i.
func (d *Dataset) Label(i int) (Value, bool) {
	r, ok := d.Row(i)
	if !ok {
		return Value{}, false
	}
	return r.Value(d.labelColumn)
}

// Lookup finds the first row, in row order, whose label equals label.
func (d *Dataset) Lookup(label Value) (Row, bool) {
	i, ok := d.byLabel[label]
	if !ok {
		return Row{}, false
	}
	return d.rows[i], true
}

// Point is a scatterplot candidate in data coordinates.
type Point struct {
	ID    int
	X     float64
	Y     float64
	Label Value
}

// Points projects every row onto the x and y columns. Rows lacking a
// numeric value for either column are skipped; their IDs are not reused.
func (d *Dataset) Points(x, y string) ([]Point, error) {
	for _, c := range []string{x, y} {
		col, ok := d.info[c]
		if !ok {
			return nil, fmt.Errorf("%q: %w", c, ErrUnknownColumn)
		}
		if col.Kind != Numeric {
			return nil, fmt.Errorf("column %q is %s, need numeric", c, col.Kind)
		}
	}
	pts := make([]Point, 0, len(d.rows))
	for _, r := range d.rows {
		xv, okx := r.values[x]
		yv, oky := r.values[y]
		if !okx || !oky {
			continue
		}
		xf, nx := xv.Float()
		yf, ny := yv.Float()
		if !nx || !ny || math.IsNaN(xf) || math.IsNaN(yf) {
			continue
		}
		pts = append(pts, Point{ID: r.index, X: xf, Y: yf, Label: r.values[d.labelColumn]})
	}
	return pts, nil
}

// Extent returns the minimum and maximum numeric values of a column.
// ok is false when the column has no numeric values.
func (d *Dataset) Extent(column string) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range d.rows {
		v, present := r.values[column]
		if !present {
			continue
		}
		f, num := v.Float()
		if !num || math.IsNaN(f) {
			continue
		}
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}
