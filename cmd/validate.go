package cmd

import (
	"fmt"

	"github.com/KaramelBytes/scatterdiff/internal/parser"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Show the inferred schema and data-quality issues of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := loadOptions()
		if err != nil {
			return err
		}
		// Issues are listed here; strict mode turns them into the error below.
		strict := opt.Strict
		opt.Strict = false
		ds, err := loadDataset(cmd, args[0], opt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		st := newStyles(effectiveConfig().Palette)
		fmt.Fprintf(out, "%s: %d rows, label column %q\n", st.title.Render(ds.Name()), ds.Len(), ds.LabelColumn())
		fmt.Fprintln(out, "Columns:")
		for _, c := range ds.Columns() {
			line := fmt.Sprintf("  - %s (%s)", c.ID, c.Kind)
			if c.Unit != "" {
				line += fmt.Sprintf(" [%s]", c.Unit)
			}
			if c.Name != "" && c.Name != c.ID {
				line += fmt.Sprintf(" %q", c.Name)
			}
			if lo, hi, ok := ds.Extent(c.ID); ok {
				line += fmt.Sprintf(" range %s..%s", fmtNum(lo), fmtNum(hi))
			}
			fmt.Fprintln(out, line)
		}
		issues := ds.Validate()
		if len(issues) == 0 {
			fmt.Fprintln(out, "✓ No issues")
			return nil
		}
		fmt.Fprintf(out, "Issues (%d):\n", len(issues))
		for _, is := range issues {
			fmt.Fprintf(out, "  - %s\n", is)
		}
		if strict {
			return &parser.IntegrityError{Path: args[0], Issues: issues}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
