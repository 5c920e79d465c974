package dataset

import "fmt"

// IssueKind classifies a data-quality problem.
type IssueKind int

const (
	MissingValue IssueKind = iota
	DuplicateLabel
)

func (k IssueKind) String() string {
	switch k {
	case MissingValue:
		return "missing value"
	case DuplicateLabel:
		return "duplicate label"
	default:
		return "unknown issue"
	}
}

// Issue is a data-quality problem found by Validate.
type Issue struct {
	Kind   IssueKind
	Row    int
	Column string
	// First is the row that already owns the label, for DuplicateLabel.
	First int
}

func (i Issue) String() string {
	switch i.Kind {
	case DuplicateLabel:
		return fmt.Sprintf("row %d: %s (first seen at row %d)", i.Row, i.Kind, i.First)
	default:
		return fmt.Sprintf("row %d: %s for column %q", i.Row, i.Kind, i.Column)
	}
}

// Validate lists rows that lack a declared column and rows whose label
// repeats an earlier one. The Dataset stays usable either way: lookups
// resolve to the first row with a given label.
func (d *Dataset) Validate() []Issue {
	var issues []Issue
	for _, r := range d.rows {
		for _, c := range d.columns {
			if _, ok := r.values[c.ID]; !ok {
				issues = append(issues, Issue{Kind: MissingValue, Row: r.index, Column: c.ID})
			}
		}
		lv, ok := r.values[d.labelColumn]
		if !ok {
			continue
		}
		if first, ok := d.byLabel[lv]; ok && first != r.index {
			issues = append(issues, Issue{Kind: DuplicateLabel, Row: r.index, Column: d.labelColumn, First: first})
		}
	}
	return issues
}
