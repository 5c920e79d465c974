package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/scatterdiff/internal/dataset"
)

// Options controls how a file becomes a dataset.
type Options struct {
	// LabelColumn names the row identity column. Matched against column IDs,
	// exactly first and then case-insensitively. Defaults to "Label".
	LabelColumn string
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, picked from the file extension.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// XLSX sheet selection; SheetIndex is 1-based.
	SheetName  string
	SheetIndex int
	// Kinds forces the kind of the named columns instead of inferring it.
	Kinds map[string]dataset.Kind
	// Strict rejects datasets with missing cells or repeated labels.
	Strict bool
}

// DefaultOptions returns reasonable defaults for loading datasets.
func DefaultOptions() Options {
	return Options{
		LabelColumn: "Label",
		MaxRows:     100000,
		SheetIndex:  1,
	}
}

// Table is the raw text grid read from a file, header first.
type Table struct {
	Header  []string
	Records [][]string
	// Truncated is set when rows were left unread because of MaxRows.
	Truncated bool
}

// Reader reads one file format into a Table.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported dataset format")

// ErrNoLabelColumn indicates the label column is not among the headers.
var ErrNoLabelColumn = errors.New("label column not found")

// IntegrityError reports data-quality issues rejected in strict mode.
type IntegrityError struct {
	Path   string
	Issues []dataset.Issue
}

func (e *IntegrityError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s", e.Path, e.Issues[0])
	}
	return fmt.Sprintf("%s: %d data issues (first: %s)", e.Path, len(e.Issues), e.Issues[0])
}

// Read selects a reader based on filename and returns the raw table.
func Read(path string, opt Options) (*Table, error) {
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path, opt)
		}
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

// LoadFile reads path and builds a dataset from it.
func LoadFile(path string, opt Options) (*dataset.Dataset, error) {
	t, err := Read(path, opt)
	if err != nil {
		return nil, err
	}
	return Build(filepath.Base(path), t, opt)
}

// Build turns a Table into a dataset: headers are split into identifier
// and unit, kinds are inferred per column and empty cells are left out.
// In strict mode a dataset with issues is returned as an IntegrityError.
func Build(name string, t *Table, opt Options) (*dataset.Dataset, error) {
	s, err := newSchema(name, t, opt)
	if err != nil {
		return nil, err
	}
	stats := make(map[string]*columnStats)
	s.scan(t, opt, stats)
	s.assignKinds(opt, stats)
	return s.build(name, t, opt)
}

// BuildPair builds two versions of the same dataset with one schema: a
// column is numeric only if its values parse as numbers in both tables,
// so equal cells compare equal whichever file they came from.
func BuildPair(nameA string, a *Table, nameB string, b *Table, opt Options) (*dataset.Dataset, *dataset.Dataset, error) {
	sa, err := newSchema(nameA, a, opt)
	if err != nil {
		return nil, nil, err
	}
	sb, err := newSchema(nameB, b, opt)
	if err != nil {
		return nil, nil, err
	}
	stats := make(map[string]*columnStats)
	sa.scan(a, opt, stats)
	sb.scan(b, opt, stats)
	sa.assignKinds(opt, stats)
	sb.assignKinds(opt, stats)
	da, err := sa.build(nameA, a, opt)
	if err != nil {
		return nil, nil, err
	}
	db, err := sb.build(nameB, b, opt)
	if err != nil {
		return nil, nil, err
	}
	return da, db, nil
}

type schema struct {
	cols  []dataset.Column
	label string
}

// columnStats counts present and numeric-looking values of one column ID.
type columnStats struct {
	present, numeric int
	percent          bool
}

func newSchema(name string, t *Table, opt Options) (*schema, error) {
	if t == nil || len(t.Header) == 0 {
		return nil, fmt.Errorf("%s: no header row", name)
	}
	cols := make([]dataset.Column, len(t.Header))
	used := make(map[string]bool, len(t.Header))
	for i, h := range t.Header {
		full := strings.TrimSpace(h)
		id, unit := splitUnits(full)
		if id == "" {
			id = fmt.Sprintf("column%d", i+1)
		}
		// repeated headers get the first free numeric suffix
		base := id
		for n := 2; used[id]; n++ {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		used[id] = true
		cols[i] = dataset.Column{ID: id, Name: full, Unit: unit}
	}
	label, err := resolveLabel(cols, opt.LabelColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &schema{cols: cols, label: label}, nil
}

func (s *schema) scan(t *Table, opt Options, stats map[string]*columnStats) {
	for j, c := range s.cols {
		st := stats[c.ID]
		if st == nil {
			st = &columnStats{}
			stats[c.ID] = st
		}
		for _, rec := range t.Records {
			v := cell(rec, j)
			if v == "" {
				continue
			}
			st.present++
			if strings.Contains(v, "%") {
				st.percent = true
			}
			if _, ok := parseNumeric(v, opt.DecimalSeparator, opt.ThousandsSeparator); ok {
				st.numeric++
			}
		}
	}
}

// assignKinds makes a column numeric when every present value parses as
// a number. The label column stays categorical unless forced.
func (s *schema) assignKinds(opt Options, stats map[string]*columnStats) {
	for j := range s.cols {
		c := &s.cols[j]
		if k, ok := forcedKind(opt.Kinds, c.ID); ok {
			c.Kind = k
			continue
		}
		if c.ID == s.label {
			c.Kind = dataset.Categorical
			continue
		}
		st := stats[c.ID]
		if st.percent && c.Unit == "" {
			c.Unit = "%"
		}
		if st.present > 0 && st.numeric == st.present {
			c.Kind = dataset.Numeric
		} else {
			c.Kind = dataset.Categorical
		}
	}
}

func (s *schema) build(name string, t *Table, opt Options) (*dataset.Dataset, error) {
	records := make([]map[string]dataset.Value, 0, len(t.Records))
	for _, rec := range t.Records {
		m := make(map[string]dataset.Value, len(s.cols))
		for j, c := range s.cols {
			v := cell(rec, j)
			if v == "" {
				continue
			}
			if c.Kind == dataset.Numeric {
				if f, ok := parseNumeric(v, opt.DecimalSeparator, opt.ThousandsSeparator); ok {
					m[c.ID] = dataset.Number(f)
					continue
				}
			}
			m[c.ID] = dataset.String(v)
		}
		records = append(records, m)
	}
	d, err := dataset.New(name, s.cols, s.label, records)
	if err != nil {
		return nil, err
	}
	if opt.Strict {
		if issues := d.Validate(); len(issues) > 0 {
			return nil, &IntegrityError{Path: name, Issues: issues}
		}
	}
	return d, nil
}

func cell(rec []string, j int) string {
	if j >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[j])
}

func resolveLabel(cols []dataset.Column, want string) (string, error) {
	if want == "" {
		want = "Label"
	}
	for _, c := range cols {
		if c.ID == want || c.Name == want {
			return c.ID, nil
		}
	}
	for _, c := range cols {
		if strings.EqualFold(c.ID, want) {
			return c.ID, nil
		}
	}
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	return "", fmt.Errorf("%w: %q (available: %s)", ErrNoLabelColumn, want, strings.Join(ids, ", "))
}

func forcedKind(kinds map[string]dataset.Kind, id string) (dataset.Kind, bool) {
	if k, ok := kinds[id]; ok {
		return k, true
	}
	for name, k := range kinds {
		if strings.EqualFold(name, id) {
			return k, true
		}
	}
	return 0, false
}
