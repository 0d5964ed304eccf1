package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/trace-sim/trace-sim/sim/branch"
	"github.com/trace-sim/trace-sim/sim/policy"
)

// SimConfig holds run parameters, loadable from a YAML or TOML file.
// Nil pointer fields mean "not set in the file" and do not override
// defaults. String fields use empty string for "not set".
type SimConfig struct {
	LogLevel string       `yaml:"log_level" toml:"log_level"`
	Pages    PagesConfig  `yaml:"pages" toml:"pages"`
	Branch   BranchConfig `yaml:"branch" toml:"branch"`
}

// PagesConfig selects the replacement policy and frame count.
type PagesConfig struct {
	Policy string `yaml:"policy" toml:"policy"`
	Frames *int   `yaml:"frames" toml:"frames"`
}

// BranchConfig selects and sizes the branch predictor.
type BranchConfig struct {
	Predictor   string `yaml:"predictor" toml:"predictor"`
	HistoryBits *int   `yaml:"history_bits" toml:"history_bits"` // m
	CounterBits *int   `yaml:"counter_bits" toml:"counter_bits"` // n
	ChooserBits *int   `yaml:"chooser_bits" toml:"chooser_bits"` // k, hybrid only
}

// DefaultSimConfig returns the classroom configuration: LRU over 4 frames and
// an m=3, n=2 two-level predictor.
func DefaultSimConfig() SimConfig {
	frames := policy.DefaultCapacity
	m, n, k := branch.DefaultHistoryBits, branch.DefaultCounterBits, branch.DefaultChooserBits
	return SimConfig{
		LogLevel: "warn",
		Pages:    PagesConfig{Policy: policy.NameLRU, Frames: &frames},
		Branch:   BranchConfig{Predictor: branch.NameTwoLevel, HistoryBits: &m, CounterBits: &n, ChooserBits: &k},
	}
}

// LoadSimConfig reads a configuration file. Files ending in .toml are decoded
// as TOML, anything else as YAML. Both decoders reject unrecognized keys.
func LoadSimConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sim config: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}
	return ParseYAML(data)
}

// ParseYAML decodes a YAML configuration with strict field checking. An
// empty document yields an empty config.
func ParseYAML(data []byte) (*SimConfig, error) {
	var cfg SimConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing sim config: %w", err)
	}
	return &cfg, nil
}

// ParseTOML decodes a TOML configuration, rejecting undecoded keys.
func ParseTOML(data []byte) (*SimConfig, error) {
	var cfg SimConfig
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing sim config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parsing sim config: unknown keys %s", strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// Merge overrides c with every field set in other.
func (c *SimConfig) Merge(other SimConfig) {
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Pages.Policy != "" {
		c.Pages.Policy = other.Pages.Policy
	}
	if other.Pages.Frames != nil {
		c.Pages.Frames = other.Pages.Frames
	}
	if other.Branch.Predictor != "" {
		c.Branch.Predictor = other.Branch.Predictor
	}
	if other.Branch.HistoryBits != nil {
		c.Branch.HistoryBits = other.Branch.HistoryBits
	}
	if other.Branch.CounterBits != nil {
		c.Branch.CounterBits = other.Branch.CounterBits
	}
	if other.Branch.ChooserBits != nil {
		c.Branch.ChooserBits = other.Branch.ChooserBits
	}
}

// Validate checks names and parameter ranges. Unset fields are valid.
func (c *SimConfig) Validate() error {
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level: %w", err)
		}
	}
	if c.Pages.Policy != "" && !policy.ValidPolicyNames[c.Pages.Policy] {
		return fmt.Errorf("unknown page policy %q; valid: %s", c.Pages.Policy, strings.Join(policy.Names(), ", "))
	}
	if c.Pages.Frames != nil && *c.Pages.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", *c.Pages.Frames)
	}
	if c.Branch.Predictor != "" && !branch.ValidPredictorNames[c.Branch.Predictor] {
		return fmt.Errorf("unknown branch predictor %q; valid: %s", c.Branch.Predictor, strings.Join(branch.Names(), ", "))
	}
	if m := c.Branch.HistoryBits; m != nil && (*m < 1 || *m > branch.MaxHistoryBits) {
		return fmt.Errorf("history_bits must be in [1, %d], got %d", branch.MaxHistoryBits, *m)
	}
	if n := c.Branch.CounterBits; n != nil && (*n < 1 || *n > branch.MaxCounterBits) {
		return fmt.Errorf("counter_bits must be in [1, %d], got %d", branch.MaxCounterBits, *n)
	}
	if k := c.Branch.ChooserBits; k != nil && (*k < 1 || *k > branch.MaxChooserBits) {
		return fmt.Errorf("chooser_bits must be in [1, %d], got %d", branch.MaxChooserBits, *k)
	}
	return nil
}

// FramesOr returns the configured frame count, or fallback when unset.
func (c *SimConfig) FramesOr(fallback int) int {
	if c.Pages.Frames == nil {
		return fallback
	}
	return *c.Pages.Frames
}

// HistoryBitsOr returns m, or fallback when unset.
func (c *SimConfig) HistoryBitsOr(fallback int) int {
	if c.Branch.HistoryBits == nil {
		return fallback
	}
	return *c.Branch.HistoryBits
}

// CounterBitsOr returns n, or fallback when unset.
func (c *SimConfig) CounterBitsOr(fallback int) int {
	if c.Branch.CounterBits == nil {
		return fallback
	}
	return *c.Branch.CounterBits
}

// Widths returns the predictor widths, falling back to the defaults for
// unset fields.
func (c *SimConfig) Widths() branch.Widths {
	w := branch.DefaultWidths()
	w.HistoryBits = c.HistoryBitsOr(w.HistoryBits)
	w.CounterBits = c.CounterBitsOr(w.CounterBits)
	if c.Branch.ChooserBits != nil {
		w.ChooserBits = *c.Branch.ChooserBits
	}
	return w
}
