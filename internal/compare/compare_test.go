package compare_test

import (
	"reflect"
	"testing"

	"github.com/KaramelBytes/scatterdiff/internal/compare"
	"github.com/KaramelBytes/scatterdiff/internal/dataset"
	"github.com/KaramelBytes/scatterdiff/internal/geom"
)

var lv = dataset.String

func build(t *testing.T, columns []string, rows ...map[string]dataset.Value) *dataset.Dataset {
	t.Helper()
	var cs []dataset.Column
	for _, c := range columns {
		k := dataset.Numeric
		if c == "Label" {
			k = dataset.Categorical
		}
		cs = append(cs, dataset.Column{ID: c, Name: c, Kind: k})
	}
	d, err := dataset.New("test", cs, "Label", rows)
	if err != nil {
		t.Fatalf("build dataset: %v", err)
	}
	return d
}

func row(label string, kv ...any) map[string]dataset.Value {
	r := map[string]dataset.Value{"Label": lv(label)}
	for i := 0; i+1 < len(kv); i += 2 {
		r[kv[i].(string)] = dataset.Number(kv[i+1].(float64))
	}
	return r
}

func TestNoComparisonIsAllUnchanged(t *testing.T) {
	p := build(t, []string{"Label", "v"}, row("A", "v", 1.0), row("B", "v", 2.0))
	c := compare.Compare(p, nil)
	if c.Active() {
		t.Fatalf("classification without comparison must be inactive")
	}
	for i := 0; i < p.Len(); i++ {
		for _, col := range []string{"Label", "v"} {
			if got := c.Cell(i, col); got != compare.Unchanged {
				t.Fatalf("Cell(%d,%s) = %v", i, col, got)
			}
		}
	}
	if s := c.Summary(); s.Rows != 2 || s.Unchanged != 2 {
		t.Fatalf("summary = %+v", s)
	}
	if c.Cells() != nil {
		t.Fatalf("inactive classification must list no cells")
	}
	var nilC *compare.Classification
	if nilC.Cell(0, "v") != compare.Unchanged || nilC.Active() {
		t.Fatalf("nil classification must behave as inactive")
	}
}

func TestExampleScenario(t *testing.T) {
	primary := build(t, []string{"Label", "v"}, row("A", "v", 1.0), row("B", "v", 2.0))
	comparison := build(t, []string{"Label", "v"}, row("A", "v", 9.0), row("C", "v", 3.0))

	fwd := compare.Compare(primary, comparison)
	if got := fwd.Cell(0, "v"); got != compare.Changed {
		t.Errorf("A.v = %v, want changed", got)
	}
	if got := fwd.Cell(0, "Label"); got != compare.Unchanged {
		t.Errorf("A.Label = %v, want unchanged", got)
	}
	for _, col := range []string{"Label", "v"} {
		if got := fwd.Cell(1, col); got != compare.RowAdded {
			t.Errorf("B.%s = %v, want added", col, got)
		}
	}
	if got := fwd.CellByLabel(lv("A"), "v"); got != compare.Changed {
		t.Errorf("CellByLabel(A, v) = %v", got)
	}

	ref := compare.Reference(comparison, primary)
	if got := ref.Cell(0, "v"); got != compare.Unchanged {
		t.Errorf("reference must not re-flag changes, A.v = %v", got)
	}
	if got := ref.Cell(1, "v"); got != compare.RowRemoved {
		t.Errorf("C.v = %v, want removed", got)
	}
	if ref.Direction() != compare.Backward {
		t.Errorf("reference direction = %v", ref.Direction())
	}

	want := compare.Summary{Rows: 2, Added: 1, ChangedRows: 1, ChangedCells: 1}
	if got := fwd.Summary(); got != want {
		t.Errorf("forward summary = %+v, want %+v", got, want)
	}
}

func TestSingleCellChange(t *testing.T) {
	cols := []string{"Label", "a", "b", "c"}
	primary := build(t, cols, row("A", "a", 1.0, "b", 2.0, "c", 3.0))
	comparison := build(t, cols, row("A", "a", 1.0, "b", 5.0, "c", 3.0))
	c := compare.Compare(primary, comparison)
	for _, col := range cols {
		want := compare.Unchanged
		if col == "b" {
			want = compare.Changed
		}
		if got := c.Cell(0, col); got != want {
			t.Errorf("Cell(0,%s) = %v, want %v", col, got, want)
		}
	}
	rd := c.Row(0)
	if rd.Status != compare.Changed || rd.Counterpart != 0 || !reflect.DeepEqual(rd.Changed, []string{"b"}) {
		t.Errorf("row diff = %+v", rd)
	}
}

func TestRoundTripAddedBecomesRemoved(t *testing.T) {
	cols := []string{"Label", "v"}
	a := build(t, cols, row("A", "v", 1.0), row("B", "v", 2.0), row("D", "v", 4.0))
	b := build(t, cols, row("D", "v", 4.0), row("C", "v", 3.0), row("A", "v", 1.0))

	fwd := compare.Compare(a, b)
	back := compare.Reference(a, b)
	for i := 0; i < a.Len(); i++ {
		added := fwd.Row(i).Status == compare.RowAdded
		removed := back.Row(i).Status == compare.RowRemoved
		if added != removed {
			t.Errorf("row %d: added=%v removed=%v", i, added, removed)
		}
	}
}

func TestSchemaDriftIsChanged(t *testing.T) {
	primary := build(t, []string{"Label", "v", "extra"}, row("A", "v", 1.0, "extra", 7.0))
	comparison := build(t, []string{"Label", "v"}, row("A", "v", 1.0))
	c := compare.Compare(primary, comparison)
	if got := c.Cell(0, "extra"); got != compare.Changed {
		t.Errorf("extra = %v, want changed", got)
	}
	if got := c.Cell(0, "v"); got != compare.Unchanged {
		t.Errorf("v = %v, want unchanged", got)
	}
	if got := c.Cell(0, "nope"); got != compare.Unchanged {
		t.Errorf("undeclared column = %v, want unchanged", got)
	}
}

func TestMissingBothSidesIsUnchanged(t *testing.T) {
	primary := build(t, []string{"Label", "v"}, row("A"))
	comparison := build(t, []string{"Label", "v"}, row("A"))
	if got := compare.Compare(primary, comparison).Cell(0, "v"); got != compare.Unchanged {
		t.Errorf("v = %v, want unchanged", got)
	}
}

func TestDuplicateLabelsFirstMatchWins(t *testing.T) {
	primary := build(t, []string{"Label", "v"}, row("A", "v", 1.0), row("A", "v", 2.0))
	comparison := build(t, []string{"Label", "v"}, row("A", "v", 1.0), row("A", "v", 2.0))
	c := compare.Compare(primary, comparison)
	if got := c.Cell(0, "v"); got != compare.Unchanged {
		t.Errorf("row 0 = %v", got)
	}
	// Row 1 also matches comparison row 0, the first A.
	if got := c.Cell(1, "v"); got != compare.Changed {
		t.Errorf("row 1 = %v, want changed against first match", got)
	}
	if c.Row(1).Counterpart != 0 {
		t.Errorf("counterpart = %d, want 0", c.Row(1).Counterpart)
	}
}

func TestCellsListing(t *testing.T) {
	primary := build(t, []string{"Label", "v"}, row("A", "v", 1.0), row("B", "v", 2.0))
	comparison := build(t, []string{"Label", "v"}, row("A", "v", 9.0))
	got := compare.Compare(primary, comparison).Cells()
	want := []compare.CellRecord{
		{Row: 0, Label: lv("A"), Column: "v", Diff: compare.Changed},
		{Row: 1, Label: lv("B"), Column: "Label", Diff: compare.RowAdded},
		{Row: 1, Label: lv("B"), Column: "v", Diff: compare.RowAdded},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Cells = %+v\nwant %+v", got, want)
	}
}

func TestMovements(t *testing.T) {
	cols := []string{"Label", "x", "y"}
	primary := build(t, cols, row("A", "x", 1.0, "y", 1.0), row("B", "x", 2.0, "y", 2.0), row("N", "x", 0.0, "y", 0.0))
	comparison := build(t, cols, row("B", "x", 2.0, "y", 3.0), row("A", "x", 1.0, "y", 1.0))
	got := compare.Movements(primary, comparison, "x", "y")
	want := []compare.Movement{{Label: lv("B"), Row: 1, Counterpart: 0, From: geom.Pt(2, 3), To: geom.Pt(2, 2)}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Movements = %+v, want %+v", got, want)
	}
	if compare.Movements(primary, nil, "x", "y") != nil {
		t.Fatalf("no comparison should yield no movements")
	}
}

func TestInputsNotMutated(t *testing.T) {
	primary := build(t, []string{"Label", "v"}, row("A", "v", 1.0))
	comparison := build(t, []string{"Label", "v"}, row("A", "v", 2.0))
	before := primary.Rows()[0]
	_ = compare.Compare(primary, comparison)
	_ = compare.Reference(comparison, primary)
	after := primary.Rows()[0]
	bv, _ := before.Value("v")
	av, _ := after.Value("v")
	if !bv.Equal(av) || primary.Len() != 1 || comparison.Len() != 1 {
		t.Fatalf("inputs changed")
	}
}
