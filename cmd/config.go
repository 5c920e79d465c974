package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/scatterdiff/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set scatterdiff configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded (showing defaults)")
		}
		c := effectiveConfig()
		fmt.Fprintf(out, "label_column: %s\n", c.LabelColumn)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		fmt.Fprintf(out, "max_rows: %d\n", c.MaxRows)
		fmt.Fprintf(out, "strict: %t\n", c.Strict)
		if c.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", c.SheetName)
		}
		fmt.Fprintf(out, "sheet_index: %d\n", c.SheetIndex)
		st := newStyles(c.Palette)
		for _, e := range paletteEntries(&c.Palette) {
			fmt.Fprintf(out, "palette.%s: %s %s\n", e.key, *e.val, swatch(st, e.key))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "label_column":
			if strings.TrimSpace(val) == "" {
				return fmt.Errorf("label_column must not be empty")
			}
			cfg.LabelColumn = val
		case "delimiter":
			switch val {
			case "", ",", ";":
				cfg.Delimiter = val
			case "\t", "tab":
				cfg.Delimiter = "tab"
			default:
				return fmt.Errorf("invalid delimiter: %q (use ',', ';' or tab)", val)
			}
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "strict":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for strict: %w", err)
			}
			cfg.Strict = b
		case "sheet_name":
			cfg.SheetName = val
		case "sheet_index":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for sheet_index: %v", val)
			}
			cfg.SheetIndex = i
		default:
			name, ok := strings.CutPrefix(key, "palette.")
			if !ok {
				return fmt.Errorf("unknown key: %s", key)
			}
			var target *string
			for _, e := range paletteEntries(&cfg.Palette) {
				if e.key == name {
					target = e.val
				}
			}
			if target == nil {
				return fmt.Errorf("unknown palette color: %s", name)
			}
			if !validColor(val) {
				return fmt.Errorf("invalid color %q (use #RRGGBB or an ANSI number)", val)
			}
			*target = val
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

type paletteEntry struct {
	key string
	val *string
}

func paletteEntries(p *cfgpkg.Palette) []paletteEntry {
	return []paletteEntry{
		{"added", &p.Added},
		{"removed", &p.Removed},
		{"changed", &p.Changed},
		{"brushing", &p.Brushing},
		{"selected", &p.Selected},
		{"match", &p.Match},
		{"ipns", &p.IPNS},
		{"isnp", &p.ISNP},
	}
}

func swatch(st styles, key string) string {
	switch key {
	case "added":
		return st.added.Render("  ")
	case "removed":
		return st.removed.Render("  ")
	case "changed":
		return st.changed.Render("  ")
	case "brushing":
		return st.brushing.Render("●")
	case "selected":
		return st.selected.Render("●")
	case "match":
		return st.match.Render("●")
	case "ipns":
		return st.ipns.Render("●")
	case "isnp":
		return st.isnp.Render("●")
	}
	return ""
}

func validColor(s string) bool {
	if strings.HasPrefix(s, "#") {
		h := s[1:]
		if len(h) != 3 && len(h) != 6 {
			return false
		}
		_, err := strconv.ParseUint(h, 16, 32)
		return err == nil
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 255
}
