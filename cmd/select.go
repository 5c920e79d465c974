package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/scatterdiff/internal/brush"
	"github.com/KaramelBytes/scatterdiff/internal/dataset"
	"github.com/KaramelBytes/scatterdiff/internal/geom"
	"github.com/KaramelBytes/scatterdiff/internal/utils"
	"github.com/spf13/cobra"
)

var (
	selX      string
	selY      string
	selPath   string
	selBounds string
	selCancel bool
	selOutput string
)

type selectedPoint struct {
	ID    int           `json:"id"`
	Label dataset.Value `json:"label"`
	X     float64       `json:"x"`
	Y     float64       `json:"y"`
}

// selectReport is the JSON document written by --output.
type selectReport struct {
	Snapshot string          `json:"snapshot"`
	X        string          `json:"x"`
	Y        string          `json:"y"`
	Path     string          `json:"path"`
	Selected []selectedPoint `json:"selected"`
}

var selectCmd = &cobra.Command{
	Use:   "select <file>",
	Short: "Replay a lasso gesture over two numeric columns",
	Long: `Select plots the dataset on the --x and --y columns and replays a freeform
lasso gesture given as data-space vertices. The first vertex starts the
gesture, every further vertex extends it, and the gesture ends after the last
one. Points strictly inside the closed path are selected.

  scatterdiff select cars.csv --x hp --y mpg --path "50,10 300,10 300,40"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if selX == "" || selY == "" {
			return fmt.Errorf("--x and --y are required")
		}
		verts, err := parsePath(selPath)
		if err != nil {
			return err
		}
		opt, err := loadOptions()
		if err != nil {
			return err
		}
		ds, err := loadDataset(cmd, args[0], opt)
		if err != nil {
			return err
		}
		pts, err := ds.Points(selX, selY)
		if err != nil {
			return err
		}
		debugf(cmd, "%d of %d rows plotted on %s × %s", len(pts), ds.Len(), selX, selY)

		var opts []brush.Option
		if selBounds != "" {
			r, err := parseBounds(selBounds, ds, selX, selY)
			if err != nil {
				return err
			}
			debugf(cmd, "clamping vertices to [%g,%g]-[%g,%g]", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
			opts = append(opts, brush.WithBounds(r))
		}

		cands := make([]brush.Candidate, len(pts))
		byID := make(map[int]dataset.Point, len(pts))
		for i, p := range pts {
			cands[i] = brush.Candidate{ID: p.ID, X: p.X, Y: p.Y}
			byID[p.ID] = p
		}

		st := newStyles(effectiveConfig().Palette)
		var final *brush.Event
		eng := brush.New(cands, func(ev brush.Event) {
			phase := ev.Phase.String()
			if ev.Phase == brush.Brushing {
				phase = st.brushing.Render(phase)
			}
			debugf(cmd, "%s: %d points", phase, len(ev.PointIDs))
			if ev.Phase == brush.End {
				e := ev
				final = &e
			}
		}, opts...)

		eng.Start(verts[0])
		for _, v := range verts[1:] {
			eng.Extend(v)
		}
		path := eng.Polygon()
		out := cmd.OutOrStdout()
		if selCancel {
			eng.Cancel()
			fmt.Fprintln(out, "Selection cancelled")
			return nil
		}
		eng.End()
		if final == nil {
			return fmt.Errorf("gesture did not complete")
		}

		fmt.Fprintf(out, "Path: %s\n", path.PathData())
		fmt.Fprintf(out, "Selected %d of %d points\n", len(final.PointIDs), len(pts))
		report := selectReport{Snapshot: ds.ID(), X: selX, Y: selY, Path: path.PathData(), Selected: []selectedPoint{}}
		for _, id := range final.PointIDs {
			p := byID[id]
			report.Selected = append(report.Selected, selectedPoint{ID: id, Label: p.Label, X: p.X, Y: p.Y})
			fmt.Fprintf(out, "  %s %s (%s, %s)\n", st.selected.Render(fmt.Sprintf("#%d", id)), labelOf(ds, id), fmtNum(p.X), fmtNum(p.Y))
		}

		if selOutput != "" {
			if err := utils.WriteJSON(selOutput, report); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote %s\n", selOutput)
		}
		return nil
	},
}

// parsePath reads vertices written as "x,y" pairs separated by spaces or
// semicolons.
func parsePath(s string) ([]geom.Point, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ';' || r == '\t' || r == '\n' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("--path is required")
	}
	out := make([]geom.Point, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("invalid vertex %q (want x,y)", f)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex %q: %w", f, err)
		}
		out = append(out, geom.Pt(x, y))
	}
	return out, nil
}

// parseBounds reads "minX,minY,maxX,maxY", or "auto" for a plotting area
// around the data extent of the plotted columns.
func parseBounds(s string, ds *dataset.Dataset, x, y string) (geom.Rect, error) {
	if strings.EqualFold(strings.TrimSpace(s), "auto") {
		x0, x1, okx := ds.Extent(x)
		y0, y1, oky := ds.Extent(y)
		if !okx || !oky {
			return geom.Rect{}, fmt.Errorf("no numeric extent for %s × %s", x, y)
		}
		return geom.PlotArea(geom.NewRect(geom.Pt(x0, y0), geom.Pt(x1, y1))), nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Rect{}, fmt.Errorf("invalid --bounds %q (want minX,minY,maxX,maxY or auto)", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Rect{}, fmt.Errorf("invalid --bounds %q: %w", s, err)
		}
		v[i] = f
	}
	return geom.NewRect(geom.Pt(v[0], v[1]), geom.Pt(v[2], v[3])), nil
}

func init() {
	rootCmd.AddCommand(selectCmd)
	selectCmd.Flags().StringVar(&selX, "x", "", "numeric column on the x axis")
	selectCmd.Flags().StringVar(&selY, "y", "", "numeric column on the y axis")
	selectCmd.Flags().StringVar(&selPath, "path", "", "gesture vertices: \"x,y x,y ...\"")
	selectCmd.Flags().StringVar(&selBounds, "bounds", "", "clamp vertices to minX,minY,maxX,maxY or 'auto'")
	selectCmd.Flags().BoolVar(&selCancel, "cancel", false, "cancel the gesture instead of ending it")
	selectCmd.Flags().StringVarP(&selOutput, "output", "o", "", "write the selection as JSON to this path")
}
