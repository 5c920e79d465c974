package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	cfgpkg "github.com/KaramelBytes/scatterdiff/internal/config"
	"github.com/KaramelBytes/scatterdiff/internal/dataset"
	"github.com/KaramelBytes/scatterdiff/internal/parser"
	"github.com/spf13/cobra"
)

var (
	// Global flags (override config when set)
	cfgFile       string
	debug         bool
	flagLabel     string
	flagDelimiter string
	flagMaxRows   int
	flagStrict    bool
	flagSheetName string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "scatterdiff",
	Short: "Lasso-select scatterplot points and diff dataset versions",
	Long: `scatterdiff loads tabular datasets (CSV, TSV, XLSX), replays freeform lasso
selections over two numeric columns, and compares a working dataset against a
saved version cell by cell, keyed by a label column.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.scatterdiff/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVarP(&flagLabel, "label", "l", "", "label column used as row identity (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagMaxRows, "max-rows", 0, "maximum rows to read, 0 = config default")
	rootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", false, "reject datasets with missing cells or duplicate labels")
	rootCmd.PersistentFlags().StringVar(&flagSheetName, "sheet-name", "", "XLSX: sheet name to load")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		warnf(rootCmd, "failed to load config: %v", err)
		cfg = nil
		return
	}
	cfg = c
}

// effectiveConfig returns the loaded config or built-in defaults.
func effectiveConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		LabelColumn: "Label",
		MaxRows:     100000,
		SheetIndex:  1,
		Palette:     cfgpkg.DefaultPalette(),
	}
}

// readTable reads path and warns when the row limit cut the file short.
func readTable(cmd *cobra.Command, path string, opt parser.Options) (*parser.Table, error) {
	t, err := parser.Read(path, opt)
	if err != nil {
		return nil, err
	}
	if t.Truncated {
		warnf(cmd, "%s: only the first %d rows were read (raise --max-rows or max_rows)", filepath.Base(path), opt.MaxRows)
	}
	return t, nil
}

// loadDataset reads and builds a single dataset.
func loadDataset(cmd *cobra.Command, path string, opt parser.Options) (*dataset.Dataset, error) {
	t, err := readTable(cmd, path, opt)
	if err != nil {
		return nil, err
	}
	return parser.Build(filepath.Base(path), t, opt)
}

// loadOptions merges config and global flags into loader options.
func loadOptions() (parser.Options, error) {
	c := effectiveConfig()
	opt := parser.DefaultOptions()
	if c.LabelColumn != "" {
		opt.LabelColumn = c.LabelColumn
	}
	if c.MaxRows > 0 {
		opt.MaxRows = c.MaxRows
	}
	if c.SheetIndex > 0 {
		opt.SheetIndex = c.SheetIndex
	}
	opt.SheetName = c.SheetName
	opt.Strict = c.Strict

	f := rootCmd.PersistentFlags()
	if f.Changed("label") && flagLabel != "" {
		opt.LabelColumn = flagLabel
	}
	if f.Changed("max-rows") && flagMaxRows > 0 {
		opt.MaxRows = flagMaxRows
	}
	if f.Changed("strict") {
		opt.Strict = flagStrict
	}
	if f.Changed("sheet-name") {
		opt.SheetName = flagSheetName
	}
	delim := c.Delimiter
	if f.Changed("delimiter") {
		delim = flagDelimiter
	}
	switch delim {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported delimiter: %q", delim)
	}
	return opt, nil
}

func warnf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: "+format+"\n", args...)
}

func debugf(cmd *cobra.Command, format string, args ...any) {
	if !debug {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "[debug] "+format+"\n", args...)
}
