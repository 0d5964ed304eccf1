package cmd

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	sim "github.com/trace-sim/trace-sim/sim"
	"github.com/trace-sim/trace-sim/sim/trace"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Preset describes a named reference trace in defaults.yaml.
type Preset struct {
	Alphabet    trace.Alphabet `yaml:"alphabet"`
	Trace       string         `yaml:"trace"`
	Description string         `yaml:"description"`
}

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version  string            `yaml:"version"`
	Defaults sim.SimConfig     `yaml:"defaults"`
	Traces   map[string]Preset `yaml:"traces"`
}

// loadDefaultsConfig parses a defaults.yaml document with strict field
// checking and validates every preset against its alphabet.
func loadDefaultsConfig(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing defaults: %w", err)
	}
	if err := cfg.Defaults.Validate(); err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}
	for name, p := range cfg.Traces {
		if !trace.IsValidAlphabet(string(p.Alphabet)) {
			return nil, fmt.Errorf("preset %q: unknown alphabet %q", name, p.Alphabet)
		}
		if _, err := trace.Collect(p.Trace, p.Alphabet); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return &cfg, nil
}

// builtinDefaults returns the embedded defaults.
func builtinDefaults() (*Config, error) {
	return loadDefaultsConfig(defaultsYAML)
}

// LookupPreset returns the trace of the named preset, which must use alphabet a.
func (c *Config) LookupPreset(name string, a trace.Alphabet) (string, error) {
	p, ok := c.Traces[name]
	if !ok {
		return "", fmt.Errorf("unknown preset %q; valid: %v", name, c.PresetNames(a))
	}
	if p.Alphabet != a {
		return "", fmt.Errorf("preset %q is a %s trace, not a %s trace", name, p.Alphabet, a)
	}
	return p.Trace, nil
}

// PresetNames returns the sorted names of presets using alphabet a, or of
// every preset when a is empty.
func (c *Config) PresetNames(a trace.Alphabet) []string {
	names := make([]string, 0, len(c.Traces))
	for name, p := range c.Traces {
		if a == "" || p.Alphabet == a {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
