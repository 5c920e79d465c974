package prediction

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/scatterdiff/internal/dataset"
)

// Op is a comparison operator of a range expression.
type Op int

const (
	GE Op = iota
	LE
)

func (o Op) String() string {
	if o == GE {
		return ">="
	}
	return "<="
}

// Expr is a single bound such as "mpg >= 21.5".
type Expr struct {
	Feature string
	Op      Op
	Value   float64
}

func (e Expr) String() string {
	return fmt.Sprintf("%s %s %s", e.Feature, e.Op, strconv.FormatFloat(e.Value, 'g', -1, 64))
}

// ParseExpr parses "feature >= value" or "feature <= value".
func ParseExpr(s string) (Expr, error) {
	op, sep := LE, "<="
	if strings.Contains(s, ">=") {
		op, sep = GE, ">="
	}
	feature, val, ok := strings.Cut(s, sep)
	if !ok {
		return Expr{}, fmt.Errorf("range expression %q: missing >= or <=", s)
	}
	feature = strings.TrimSpace(feature)
	if feature == "" {
		return Expr{}, fmt.Errorf("range expression %q: missing feature", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return Expr{}, fmt.Errorf("range expression %q: %w", s, err)
	}
	return Expr{Feature: feature, Op: op, Value: v}, nil
}

// Match reports whether the row satisfies the bound. Rows without a
// numeric value for the feature never match.
func (e Expr) Match(r dataset.Row) bool {
	v, ok := r.Value(e.Feature)
	if !ok {
		return false
	}
	f, ok := v.Float()
	if !ok {
		return false
	}
	if e.Op == GE {
		return f >= e.Value
	}
	return f <= e.Value
}

// Rule is a conjunction of bounds. An empty Rule matches nothing.
type Rule []Expr

// Match reports whether every bound holds.
func (r Rule) Match(row dataset.Row) bool {
	if len(r) == 0 {
		return false
	}
	for _, e := range r {
		if !e.Match(row) {
			return false
		}
	}
	return true
}

// RuleSet is a disjunction of rules, one per decision path.
type RuleSet []Rule

// ParseRules parses the nested expression lists of a range prediction.
func ParseRules(paths [][]string) (RuleSet, error) {
	rs := make(RuleSet, 0, len(paths))
	for _, path := range paths {
		rule := make(Rule, 0, len(path))
		for _, s := range path {
			e, err := ParseExpr(s)
			if err != nil {
				return nil, err
			}
			rule = append(rule, e)
		}
		rs = append(rs, rule)
	}
	return rs, nil
}

// Match reports whether any rule holds.
func (rs RuleSet) Match(row dataset.Row) bool {
	for _, r := range rs {
		if r.Match(row) {
			return true
		}
	}
	return false
}

// Members returns the point IDs (row indexes) of d matched by the rule
// set. Every referenced feature must be a column of d.
func (rs RuleSet) Members(d *dataset.Dataset) ([]int, error) {
	for _, r := range rs {
		for _, e := range r {
			if _, ok := d.Column(e.Feature); !ok {
				return nil, fmt.Errorf("range feature %q: %w", e.Feature, dataset.ErrUnknownColumn)
			}
		}
	}
	ids := []int{}
	for _, row := range d.Rows() {
		if rs.Match(row) {
			ids = append(ids, row.Index())
		}
	}
	return ids, nil
}
