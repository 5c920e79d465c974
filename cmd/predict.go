package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/KaramelBytes/scatterdiff/internal/dataset"
	"github.com/KaramelBytes/scatterdiff/internal/prediction"
	"github.com/KaramelBytes/scatterdiff/internal/utils"
	"github.com/spf13/cobra"
)

var (
	predSelection []int
	predRecompute bool
	predOutput    string
)

// predictionResult is one entry of the JSON document written by --output.
type predictionResult struct {
	ID         string                 `json:"id"`
	Kind       string                 `json:"kind"`
	Rank       float64                `json:"rank"`
	Dimensions []string               `json:"dimensions"`
	Members    []int                  `json:"members"`
	Rules      []string               `json:"rules,omitempty"`
	Stats      *prediction.Membership `json:"stats,omitempty"`
}

var predictCmd = &cobra.Command{
	Use:   "predict <file> <predictions>",
	Short: "Overlay predictions on a dataset and score them against a selection",
	Long: `Predict reads predictions (YAML or JSON) produced for the dataset, orders
them by rank and describes the overlay each one would draw. Range predictions
have their members recomputed from their rules when --recompute is set or when
they carry no member IDs. With --selection, each prediction is scored against
the selected point IDs.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := loadOptions()
		if err != nil {
			return err
		}
		ds, err := loadDataset(cmd, args[0], opt)
		if err != nil {
			return err
		}
		preds, err := prediction.Load(args[1])
		if err != nil {
			return err
		}
		debugf(cmd, "loaded %d predictions from %s", len(preds), args[1])
		for i := range preds {
			if k := preds[i].Kind(); (k == prediction.KindRange || k == prediction.KindSimplifiedRange) && preds[i].Rank == 0 {
				if d, ok := infoInt(preds[i].Info, "depth"); ok {
					preds[i].Rank = prediction.RangeRank(d)
				}
			}
		}
		sort.SliceStable(preds, func(i, j int) bool { return preds[i].Rank > preds[j].Rank })

		for _, id := range predSelection {
			if id < 0 || id >= ds.Len() {
				return fmt.Errorf("selection id %d out of range [0,%d)", id, ds.Len())
			}
		}

		st := newStyles(effectiveConfig().Palette)
		out := cmd.OutOrStdout()
		results := []predictionResult{}
		for n, p := range preds {
			res, err := overlay(cmd, out, ds, p, st, n+1)
			if err != nil {
				return err
			}
			if res != nil {
				results = append(results, *res)
			}
		}
		if len(results) == 0 {
			fmt.Fprintln(out, "No renderable predictions")
		}

		if predOutput != "" {
			if err := utils.WriteJSON(predOutput, results); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote %s\n", predOutput)
		}
		return nil
	},
}

// overlay prints one prediction. Unknown kinds draw nothing and yield nil.
func overlay(cmd *cobra.Command, out io.Writer, ds *dataset.Dataset, p prediction.Prediction, st styles, n int) (*predictionResult, error) {
	kind := p.Kind()
	res := &predictionResult{ID: p.ID, Kind: kind.String(), Rank: p.Rank, Dimensions: p.Dimensions, Members: p.MemberIDs}
	switch kind {
	case prediction.KindDBScanCluster, prediction.KindKMeansCluster:
		// cluster overlays draw the hull of the member points
	case prediction.KindRange, prediction.KindSimplifiedRange:
		rs, err := p.Rules()
		if errors.Is(err, prediction.ErrNoRules) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("prediction %s: %w", p.ID, err)
		}
		for _, r := range rs {
			parts := make([]string, len(r))
			for i, e := range r {
				parts[i] = e.String()
			}
			res.Rules = append(res.Rules, strings.Join(parts, " AND "))
		}
		if predRecompute || len(p.MemberIDs) == 0 {
			ids, err := rs.Members(ds)
			if err != nil {
				return nil, fmt.Errorf("prediction %s: %w", p.ID, err)
			}
			debugf(cmd, "prediction %s: %d members from rules (%d declared)", p.ID, len(ids), len(p.MemberIDs))
			res.Members = ids
		}
	case prediction.KindUnknown:
		debugf(cmd, "prediction %s: no overlay for %s/%s", p.ID, p.Algorithm, p.Intent)
		return nil, nil
	}
	if res.Members == nil {
		res.Members = []int{}
	}

	fmt.Fprintf(out, "%s %s %s rank %.3f, %d members", st.header.Render(fmt.Sprintf("[%d]", n)), kind, p.ID, p.Rank, len(res.Members))
	if len(p.Dimensions) > 0 {
		fmt.Fprintf(out, " over %s", strings.Join(p.Dimensions, " × "))
	}
	fmt.Fprintln(out)
	if p.Description != "" {
		fmt.Fprintf(out, "    %s\n", st.dim.Render(p.Description))
	}
	for _, r := range res.Rules {
		fmt.Fprintf(out, "    rule: %s\n", r)
	}
	if len(predSelection) > 0 {
		m := prediction.Stats(res.Members, predSelection)
		res.Stats = &m
		fmt.Fprintf(out, "    %s %d  %s %d  %s %d  jaccard %.2f\n",
			st.match.Render("match"), len(m.Matches),
			st.ipns.Render("ipns"), len(m.IPNS),
			st.isnp.Render("isnp"), len(m.ISNP), m.Jaccard)
		var marks []string
		for _, id := range unionIDs(m) {
			mk := m.Mark(id)
			marks = append(marks, st.mark(mk).Render(fmt.Sprintf("%s:%s", labelOf(ds, id), mk)))
		}
		if len(marks) > 0 {
			fmt.Fprintf(out, "    %s\n", strings.Join(marks, " "))
		}
	}
	return res, nil
}

func unionIDs(m prediction.Membership) []int {
	ids := make([]int, 0, len(m.Matches)+len(m.IPNS)+len(m.ISNP))
	ids = append(ids, m.Matches...)
	ids = append(ids, m.IPNS...)
	ids = append(ids, m.ISNP...)
	sort.Ints(ids)
	return ids
}

func infoInt(info map[string]any, key string) (int, bool) {
	switch v := info[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().IntSliceVar(&predSelection, "selection", nil, "selected point IDs (row indexes) to score against")
	predictCmd.Flags().BoolVar(&predRecompute, "recompute", false, "recompute range members from their rules")
	predictCmd.Flags().StringVarP(&predOutput, "output", "o", "", "write the overlays as JSON to this path")
}
