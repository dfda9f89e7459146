package selection

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStrategyKindRoundTrip(t *testing.T) {
	for _, kind := range []StrategyKind{Constant, BIC, DIC, CV} {
		parsed, err := ParseStrategyKind(kind.String())
		if err != nil {
			t.Errorf("ParseStrategyKind(%q) failed: %v", kind.String(), err)
			continue
		}
		if parsed != kind {
			t.Errorf("Expected %v, got %v", kind, parsed)
		}
	}

	if _, err := ParseStrategyKind("nope"); err == nil {
		t.Error("Expected error for unknown strategy name")
	}
	if got := StrategyKind(42).String(); got != "Unknown(42)" {
		t.Errorf("Expected Unknown(42), got %q", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"unknown strategy", func(c *Config) { c.Strategy = "nope" }, false},
		{"zero min states", func(c *Config) { c.MinStates = 0 }, false},
		{"max below min", func(c *Config) { c.MaxStates = 1 }, false},
		{"zero constant states", func(c *Config) { c.ConstantStates = 0 }, false},
		{"fold arity too low", func(c *Config) { c.FoldArity = 1 }, false},
		{"fold arity too high", func(c *Config) { c.FoldArity = 4 }, false},
		{"negative workers", func(c *Config) { c.Workers = -1 }, false},
		{"explicit workers", func(c *Config) { c.Workers = 4 }, true},
	}

	for _, test := range tests {
		cfg := DefaultConfig()
		test.mutate(&cfg)
		err := cfg.Validate()
		if test.valid && err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
		}
		if !test.valid && err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "selection.yaml")

	content := "strategy: cv\nmin_states: 3\nmax_states: 6\nseed: 7\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Strategy != "cv" || cfg.MinStates != 3 || cfg.MaxStates != 6 || cfg.Seed != 7 {
		t.Errorf("Loaded config has wrong values: %+v", cfg)
	}
	// Unspecified fields keep their defaults.
	if cfg.FoldArity != 3 || cfg.ConstantStates != 3 {
		t.Errorf("Expected defaults for unspecified fields, got %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for a missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("{not yaml"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("Expected error for malformed YAML")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("min_states: 0\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := LoadConfig(invalid); err == nil {
		t.Error("Expected error for invalid values")
	}
}
