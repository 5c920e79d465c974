package dataset_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/KaramelBytes/scatterdiff/internal/dataset"
)

func cols() []dataset.Column {
	return []dataset.Column{
		{ID: "Label", Name: "Label", Kind: dataset.Categorical},
		{ID: "x", Name: "Width", Unit: "mm", Kind: dataset.Numeric},
		{ID: "y", Name: "Height", Unit: "mm", Kind: dataset.Numeric},
	}
}

func rec(label string, x, y float64) map[string]dataset.Value {
	return map[string]dataset.Value{
		"Label": dataset.String(label),
		"x":     dataset.Number(x),
		"y":     dataset.Number(y),
	}
}

func TestNewRejectsStructuralProblems(t *testing.T) {
	if _, err := dataset.New("d", cols(), "Name", nil); !errors.Is(err, dataset.ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn for undeclared label, got %v", err)
	}
	dup := append(cols(), dataset.Column{ID: "x"})
	if _, err := dataset.New("d", dup, "Label", nil); err == nil {
		t.Fatalf("expected error for duplicate column id")
	}
	empty := append(cols(), dataset.Column{ID: "  "})
	if _, err := dataset.New("d", empty, "Label", nil); err == nil {
		t.Fatalf("expected error for empty column id")
	}
}

func TestDatasetIsASnapshot(t *testing.T) {
	records := []map[string]dataset.Value{rec("A", 1, 2), rec("B", 3, 4)}
	d1, err := dataset.New("d", cols(), "Label", records)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := dataset.New("d", cols(), "Label", records)
	if err != nil {
		t.Fatal(err)
	}
	if d1.ID() == d2.ID() {
		t.Fatalf("reloads must get distinct snapshot ids")
	}
	// Mutating the caller's records does not leak into the snapshot.
	records[0]["x"] = dataset.Number(99)
	r, _ := d1.Row(0)
	if v, _ := r.Value("x"); !v.Equal(dataset.Number(1)) {
		t.Fatalf("snapshot changed after input mutation: %v", v)
	}
	cs := d1.Columns()
	cs[0].ID = "mutated"
	if d1.Columns()[0].ID != "Label" {
		t.Fatalf("Columns must return a copy")
	}
}

func TestLookupFirstMatchWins(t *testing.T) {
	d, err := dataset.New("d", cols(), "Label", []map[string]dataset.Value{rec("A", 1, 1), rec("B", 2, 2), rec("A", 3, 3)})
	if err != nil {
		t.Fatal(err)
	}
	r, ok := d.Lookup(dataset.String("A"))
	if !ok || r.Index() != 0 {
		t.Fatalf("Lookup(A) = %d,%v want row 0", r.Index(), ok)
	}
	if _, ok := d.Lookup(dataset.String("a")); ok {
		t.Fatalf("lookup must not case-fold")
	}
	if _, ok := d.Lookup(dataset.Number(1)); ok {
		t.Fatalf("number must not match string label")
	}
	issues := d.Validate()
	if len(issues) != 1 || issues[0].Kind != dataset.DuplicateLabel || issues[0].Row != 2 || issues[0].First != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestValidateMissingValues(t *testing.T) {
	r := rec("A", 1, 1)
	delete(r, "y")
	d, err := dataset.New("d", cols(), "Label", []map[string]dataset.Value{r})
	if err != nil {
		t.Fatal(err)
	}
	issues := d.Validate()
	if len(issues) != 1 || issues[0].Kind != dataset.MissingValue || issues[0].Column != "y" {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestPointsAndExtent(t *testing.T) {
	missing := rec("C", 0, 0)
	delete(missing, "y")
	d, err := dataset.New("d", cols(), "Label", []map[string]dataset.Value{rec("A", 1, 5), missing, rec("B", -2, 7)})
	if err != nil {
		t.Fatal(err)
	}
	pts, err := d.Points("x", "y")
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 2 || pts[0].ID != 0 || pts[1].ID != 2 {
		t.Fatalf("unexpected points: %+v", pts)
	}
	if !pts[1].Label.Equal(dataset.String("B")) {
		t.Fatalf("point label = %v", pts[1].Label)
	}
	if _, err := d.Points("Label", "y"); err == nil {
		t.Fatalf("categorical axis should fail")
	}
	if _, err := d.Points("z", "y"); !errors.Is(err, dataset.ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
	lo, hi, ok := d.Extent("x")
	if !ok || lo != -2 || hi != 1 {
		t.Fatalf("Extent(x) = %v %v %v", lo, hi, ok)
	}
	if _, _, ok := d.Extent("Label"); ok {
		t.Fatalf("Extent of categorical column should report !ok")
	}
}

func TestValueEquality(t *testing.T) {
	tests := []struct {
		a, b dataset.Value
		want bool
	}{
		{dataset.Number(1), dataset.Number(1), true},
		{dataset.Number(1), dataset.Number(2), false},
		{dataset.Number(1), dataset.String("1"), false},
		{dataset.String("x"), dataset.String("X"), false},
		{dataset.String("x"), dataset.String("x"), true},
		{dataset.Number(math.NaN()), dataset.Number(math.NaN()), false},
	}
	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.want {
			t.Errorf("%#v.Equal(%#v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestValueJSON(t *testing.T) {
	b, err := json.Marshal([]dataset.Value{dataset.Number(1.5), dataset.String("a\"b"), dataset.Number(math.Inf(1))})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `[1.5,"a\"b","+Inf"]`; got != want {
		t.Fatalf("json = %s, want %s", got, want)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]dataset.Kind{"numeric": dataset.Numeric, " Categorical ": dataset.Categorical} {
		got, err := dataset.ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := dataset.ParseKind("blob"); err == nil {
		t.Errorf("expected error for unknown kind")
	}
}
