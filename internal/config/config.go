package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Palette holds the colors the terminal renderer uses for comparison
// and selection output. Values are hex strings or ANSI color numbers.
type Palette struct {
	Added    string `mapstructure:"added" yaml:"added"`
	Removed  string `mapstructure:"removed" yaml:"removed"`
	Changed  string `mapstructure:"changed" yaml:"changed"`
	Brushing string `mapstructure:"brushing" yaml:"brushing"`
	Selected string `mapstructure:"selected" yaml:"selected"`
	// Prediction membership marks
	Match string `mapstructure:"match" yaml:"match"`
	IPNS  string `mapstructure:"ipns" yaml:"ipns"`
	ISNP  string `mapstructure:"isnp" yaml:"isnp"`
}

// Global configuration structure.
type Global struct {
	LabelColumn string `mapstructure:"label_column" yaml:"label_column"`
	Delimiter   string `mapstructure:"delimiter" yaml:"delimiter"`
	MaxRows     int    `mapstructure:"max_rows" yaml:"max_rows"`
	Strict      bool   `mapstructure:"strict" yaml:"strict"`
	SheetName   string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex  int    `mapstructure:"sheet_index" yaml:"sheet_index"`

	Palette Palette `mapstructure:"palette" yaml:"palette"`
}

// DefaultPalette returns the built-in colors.
func DefaultPalette() Palette {
	return Palette{
		Added:    "#90EE90",
		Removed:  "#FF8080",
		Changed:  "#FFFF8B",
		Brushing: "#FF0000",
		Selected: "#1E90FF",
		Match:    "#1B9E77",
		IPNS:     "#D95F02",
		ISNP:     "#7570B3",
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".scatterdiff"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.scatterdiff/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SCATTERDIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("label_column", "Label")
	v.SetDefault("delimiter", "")
	v.SetDefault("max_rows", 100000)
	v.SetDefault("strict", false)
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	p := DefaultPalette()
	v.SetDefault("palette.added", p.Added)
	v.SetDefault("palette.removed", p.Removed)
	v.SetDefault("palette.changed", p.Changed)
	v.SetDefault("palette.brushing", p.Brushing)
	v.SetDefault("palette.selected", p.Selected)
	v.SetDefault("palette.match", p.Match)
	v.SetDefault("palette.ipns", p.IPNS)
	v.SetDefault("palette.isnp", p.ISNP)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine; a broken one is not
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
