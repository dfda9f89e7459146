package selection

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// StrategyKind identifies one of the mutually exclusive selection
// strategies.
type StrategyKind int

const (
	// Constant fits a single fixed state count and skips comparison.
	Constant StrategyKind = iota
	// BIC minimizes the Bayesian Information Criterion over the range.
	BIC
	// DIC maximizes the Discriminative Information Criterion over the range.
	DIC
	// CV maximizes mean cross-validated log-likelihood over the range.
	CV
)

// String returns the strategy's configuration name.
func (k StrategyKind) String() string {
	switch k {
	case Constant:
		return "constant"
	case BIC:
		return "bic"
	case DIC:
		return "dic"
	case CV:
		return "cv"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// ParseStrategyKind resolves a configuration name to a StrategyKind.
func ParseStrategyKind(name string) (StrategyKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "constant":
		return Constant, nil
	case "bic":
		return BIC, nil
	case "dic":
		return DIC, nil
	case "cv":
		return CV, nil
	default:
		return 0, fmt.Errorf("unknown selection strategy %q", name)
	}
}

// Config holds the selection knobs shared by every class's run.
type Config struct {
	// Strategy names the active selection strategy: constant, bic, dic or cv.
	Strategy string `yaml:"strategy"`

	// MinStates and MaxStates bound the closed candidate state range.
	MinStates int `yaml:"min_states"`
	MaxStates int `yaml:"max_states"`

	// ConstantStates is the single state count the constant strategy fits,
	// regardless of the candidate range.
	ConstantStates int `yaml:"constant_states"`

	// FoldArity is the requested cross-validation fold count, capped at 3.
	// The effective count for a class is min(FoldArity, sequence count).
	FoldArity int `yaml:"fold_arity"`

	// Seed is handed through unchanged to the model trainer so fitting is
	// reproducible. The fold splitter is deterministic and does not use it.
	Seed int64 `yaml:"seed"`

	// Workers bounds the per-class selection worker pool. Zero means one
	// worker per CPU.
	Workers int `yaml:"workers"`
}

// DefaultConfig mirrors the conventional selection setup: BIC over states
// 2 through 10, three folds, constant fallback of 3 states.
func DefaultConfig() Config {
	return Config{
		Strategy:       BIC.String(),
		MinStates:      2,
		MaxStates:      10,
		ConstantStates: 3,
		FoldArity:      3,
		Seed:           14,
	}
}

// Kind resolves the configured strategy name.
func (c Config) Kind() (StrategyKind, error) {
	return ParseStrategyKind(c.Strategy)
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if _, err := c.Kind(); err != nil {
		return err
	}
	if c.MinStates < 1 {
		return fmt.Errorf("min_states must be at least 1, got %d", c.MinStates)
	}
	if c.MaxStates < c.MinStates {
		return fmt.Errorf("max_states (%d) must not be below min_states (%d)", c.MaxStates, c.MinStates)
	}
	if c.ConstantStates < 1 {
		return fmt.Errorf("constant_states must be at least 1, got %d", c.ConstantStates)
	}
	if c.FoldArity < 2 || c.FoldArity > 3 {
		return fmt.Errorf("fold_arity must be 2 or 3, got %d", c.FoldArity)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// workers returns the effective worker pool size.
func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// LoadConfig reads a YAML selection configuration from disk, filling
// unspecified fields from DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read selection config: %v", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse selection config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
