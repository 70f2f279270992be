package config

import "testing"

func TestParseDefaults(t *testing.T) {
	t.Setenv("PACKGRID_MAX_RESULTS", "")
	t.Setenv("PACKGRID_THEME", "")
	cfg, err := Parse([]string{"-file", "units.tsv", "-freeze", "key, name,"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.MaxResults != DefaultMaxResults || cfg.Theme != ThemeDark {
		t.Fatalf("defaults: %+v", cfg)
	}
	if len(cfg.Freeze) != 2 || cfg.Freeze[0] != "key" || cfg.Freeze[1] != "name" {
		t.Fatalf("freeze: %v", cfg.Freeze)
	}
}

func TestParseMaxResultsFromEnv(t *testing.T) {
	t.Setenv("PACKGRID_MAX_RESULTS", "7")
	cfg, err := Parse([]string{"-file", "x.tsv"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.MaxResults != 7 {
		t.Fatalf("max results %d", cfg.MaxResults)
	}
	cfg, _ = Parse([]string{"-file", "x.tsv", "-max-results", "0"})
	if cfg.MaxResults != DefaultMaxResults {
		t.Fatalf("zero should reset to default, got %d", cfg.MaxResults)
	}
}

func TestParseValidation(t *testing.T) {
	bad := [][]string{
		{"-export", "csv"},
		{"-export", "xml", "-out", "x"},
		{"-theme", "pink"},
		{"-follow"},
	}
	for _, args := range bad {
		if _, err := Parse(args); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}
