package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

const DefaultMaxResults = 50

type Config struct {
	FilePath     string
	UseStdin     bool
	Follow       bool
	Theme        Theme
	MaxResults   int      // command palette result bound
	Freeze       []string // column names frozen on open, on top of the schema
	Filter       string   // initial filter query
	NoCache      bool
	ExportFormat string
	ExportOut    string
	ShowVersion  bool

	// Internal
	IsPipedStdin bool
}

func Load() (*Config, error) {
	return Parse(os.Args[1:])
}

// Parse reads flags from args with environment defaults.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}

	if fi, err := os.Stdin.Stat(); err == nil {
		cfg.IsPipedStdin = (fi.Mode() & os.ModeCharDevice) == 0
	}

	fs := flag.NewFlagSet("packgrid", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.FilePath, "file", "", "path to a TSV table")
	fs.BoolVar(&cfg.UseStdin, "stdin", false, "read the table from stdin (default: auto if piped)")
	fs.BoolVar(&cfg.Follow, "follow", false, "follow the file and append new rows (tail -f)")
	theme := getenvDefault("PACKGRID_THEME", string(ThemeDark))
	fs.StringVar(&theme, "theme", theme, "theme: dark|light")
	fs.IntVar(&cfg.MaxResults, "max-results", getenvDefaultInt("PACKGRID_MAX_RESULTS", DefaultMaxResults), "maximum command palette results")
	freeze := ""
	fs.StringVar(&freeze, "freeze", "", "comma-separated column names to freeze")
	fs.StringVar(&cfg.Filter, "filter", "", "initial filter (text or /regex/)")
	fs.BoolVar(&cfg.NoCache, "no-cache", false, "do not read or write the per-file view state")
	fs.StringVar(&cfg.ExportFormat, "export", "", "export the filtered view and exit: tsv|csv")
	fs.StringVar(&cfg.ExportOut, "out", "", "output path for export")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch Theme(theme) {
	case ThemeDark, ThemeLight:
		cfg.Theme = Theme(theme)
	default:
		return nil, fmt.Errorf("unknown theme %q", theme)
	}
	for _, name := range strings.Split(freeze, ",") {
		if name = strings.TrimSpace(name); name != "" {
			cfg.Freeze = append(cfg.Freeze, name)
		}
	}

	if cfg.ExportFormat != "" {
		if cfg.ExportOut == "" {
			return nil, errors.New("--export requires --out path")
		}
		if cfg.ExportFormat != "tsv" && cfg.ExportFormat != "csv" {
			return nil, fmt.Errorf("unknown export format %q", cfg.ExportFormat)
		}
	}

	if cfg.UseStdin || (cfg.IsPipedStdin && cfg.FilePath == "") {
		cfg.UseStdin = true
	}
	if cfg.Follow && cfg.FilePath == "" {
		return nil, errors.New("--follow requires --file")
	}

	if cfg.MaxResults < 1 {
		cfg.MaxResults = DefaultMaxResults
	}
	return cfg, nil
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func (c *Config) String() string {
	return fmt.Sprintf("file=%s stdin=%v follow=%v theme=%s max-results=%d freeze=%v", c.FilePath, c.UseStdin, c.Follow, c.Theme, c.MaxResults, c.Freeze)
}
