package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/scatterdiff/internal/compare"
	"github.com/KaramelBytes/scatterdiff/internal/dataset"
	"github.com/KaramelBytes/scatterdiff/internal/parser"
	"github.com/KaramelBytes/scatterdiff/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cmpX        string
	cmpY        string
	cmpOutput   string
	cmpLimit    int
	cmpOnlyDiff bool
)

// compareReport is the JSON document written by --output.
type compareReport struct {
	Primary    datasetRef           `json:"primary"`
	Comparison *datasetRef          `json:"comparison,omitempty"`
	Summary    compare.Summary      `json:"summary"`
	Reference  *compare.Summary     `json:"reference_summary,omitempty"`
	Cells      []compare.CellRecord `json:"cells"`
	Removed    []compare.CellRecord `json:"removed"`
	Movements  []compare.Movement   `json:"movements,omitempty"`
}

type datasetRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Rows  int    `json:"rows"`
	Label string `json:"label_column"`
}

func refOf(d *dataset.Dataset) datasetRef {
	return datasetRef{ID: d.ID(), Name: d.Name(), Rows: d.Len(), Label: d.LabelColumn()}
}

var compareCmd = &cobra.Command{
	Use:   "compare <primary> [comparison]",
	Short: "Classify every cell of a dataset against a saved version",
	Long: `Compare loads the primary (working) dataset and, optionally, a comparison
dataset. Rows are matched by the label column. The primary table marks rows
without a counterpart as added (+) and differing cells as changed (~); the
comparison table marks rows missing from the primary as removed (-).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := loadOptions()
		if err != nil {
			return err
		}
		pt, err := readTable(cmd, args[0], opt)
		if err != nil {
			return err
		}
		var primary, comparison *dataset.Dataset
		if len(args) == 2 {
			ct, err := readTable(cmd, args[1], opt)
			if err != nil {
				return err
			}
			// one schema for both versions so equal cells compare equal
			primary, comparison, err = parser.BuildPair(filepath.Base(args[0]), pt, filepath.Base(args[1]), ct, opt)
			if err != nil {
				return err
			}
			debugf(cmd, "loaded %s: %d rows, %d columns (snapshot %s)", args[1], comparison.Len(), len(comparison.Columns()), comparison.ID())
		} else {
			primary, err = parser.Build(filepath.Base(args[0]), pt, opt)
			if err != nil {
				return err
			}
		}
		debugf(cmd, "loaded %s: %d rows, %d columns (snapshot %s)", args[0], primary.Len(), len(primary.Columns()), primary.ID())
		for _, d := range []*dataset.Dataset{primary, comparison} {
			if d == nil {
				continue
			}
			if n := len(d.Validate()); n > 0 {
				warnf(cmd, "%s: %d data-quality issues (run 'scatterdiff validate' for details)", d.Name(), n)
			}
		}

		fwd := compare.Compare(primary, comparison)
		st := newStyles(effectiveConfig().Palette)
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, st.title.Render(primary.Name()))
		renderTable(out, fwd, st, cmpLimit, cmpOnlyDiff)
		report := compareReport{Primary: refOf(primary), Summary: fwd.Summary(), Cells: fwd.Cells(), Removed: []compare.CellRecord{}}
		if report.Cells == nil {
			report.Cells = []compare.CellRecord{}
		}

		if comparison != nil {
			back := compare.Reference(comparison, primary)
			fmt.Fprintln(out)
			fmt.Fprintln(out, st.title.Render(comparison.Name()))
			renderTable(out, back, st, cmpLimit, cmpOnlyDiff)
			fmt.Fprintln(out)
			renderSummary(out, "primary", report.Summary)
			rs := back.Summary()
			renderSummary(out, "comparison", rs)
			ref := refOf(comparison)
			report.Comparison = &ref
			report.Reference = &rs
			if cells := back.Cells(); cells != nil {
				report.Removed = cells
			}
		} else {
			fmt.Fprintln(out)
			fmt.Fprintln(out, st.dim.Render("no comparison dataset; all cells unchanged"))
		}

		if cmpX != "" || cmpY != "" {
			if cmpX == "" || cmpY == "" {
				return fmt.Errorf("--x and --y must be given together")
			}
			// validates the columns even without a comparison
			if _, err := primary.Points(cmpX, cmpY); err != nil {
				return err
			}
			report.Movements = compare.Movements(primary, comparison, cmpX, cmpY)
			if comparison != nil {
				printMovements(cmd, primary, report.Movements, st)
			}
		}

		if cmpOutput != "" {
			if err := utils.WriteJSON(cmpOutput, report); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote %s\n", cmpOutput)
		}
		return nil
	},
}

func printMovements(cmd *cobra.Command, primary *dataset.Dataset, moves []compare.Movement, st styles) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	if len(moves) == 0 {
		fmt.Fprintln(out, "No points moved")
		return
	}
	fmt.Fprintf(out, "Moved points (%d):\n", len(moves))
	var b strings.Builder
	for _, m := range moves {
		fmt.Fprintf(&b, "  %s: (%s, %s) → %s\n",
			labelOf(primary, m.Row),
			fmtNum(m.From.X), fmtNum(m.From.Y),
			st.changed.Render(fmt.Sprintf("(%s, %s)", fmtNum(m.To.X), fmtNum(m.To.Y))))
	}
	fmt.Fprint(out, b.String())
}

func fmtNum(f float64) string { return dataset.Number(f).String() }

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&cmpX, "x", "", "x column; with --y, list points that moved between versions")
	compareCmd.Flags().StringVar(&cmpY, "y", "", "y column; with --x, list points that moved between versions")
	compareCmd.Flags().StringVarP(&cmpOutput, "output", "o", "", "write the classification as JSON to this path")
	compareCmd.Flags().IntVar(&cmpLimit, "limit", 0, "maximum rows per table (0 = all)")
	compareCmd.Flags().BoolVar(&cmpOnlyDiff, "only-diff", false, "hide unchanged rows")
}
