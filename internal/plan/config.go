// Package plan reads delegation plans from delegator.yaml.
//
// A plan declares the reference types of a generated program, the intercepted
// source method, the candidate target methods with their markers, and how
// unmarked parameters and ties between candidates are resolved.
package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/delegator/internal/config"
)

// Config represents the top-level delegator.yaml configuration.
type Config struct {
	// Types declares the reference types the methods refer to.
	// Primitives, arrays ("T[]") and lang.Object need no declaration.
	Types []TypeSpec `yaml:"types"`

	// Instrumented is the generated type that intercepts the source call.
	Instrumented string `yaml:"instrumented"`

	// Source is the intercepted method.
	Source MethodSpec `yaml:"source"`

	// Targets are the candidate methods the source may delegate to.
	Targets []MethodSpec `yaml:"targets"`

	// Defaults names the provider of markers for unmarked parameters:
	// "none" or "next-unbound". Defaults to "none".
	Defaults string `yaml:"defaults,omitempty"`

	// Resolvers are the ambiguity resolvers to chain, in order.
	// Defaults to [most-specific-type].
	Resolvers []string `yaml:"resolvers,omitempty"`

	// Concurrency bounds how many candidates are bound at once.
	// Zero means one per available CPU.
	Concurrency int `yaml:"concurrency,omitempty"`
}

// TypeSpec declares one reference type.
type TypeSpec struct {
	Name      string   `yaml:"name"`
	Extends   []string `yaml:"extends,omitempty"`
	Interface bool     `yaml:"interface,omitempty"`
}

// MethodSpec declares one method.
type MethodSpec struct {
	Name string `yaml:"name"`

	// Declaring is the owner type. Defaults to the instrumented type.
	Declaring string `yaml:"declaring,omitempty"`

	Params  []ParamSpec `yaml:"params,omitempty"`
	Returns string      `yaml:"returns,omitempty"`
	Static  bool        `yaml:"static,omitempty"`

	// Markers attached to the method, e.g. RuntimeType or IgnoreForBinding.
	Markers []string `yaml:"markers,omitempty"`
}

// ParamSpec declares one parameter. It accepts either a bare type name or
// a mapping with type and markers.
type ParamSpec struct {
	Type string `yaml:"type"`

	// Markers attached to the parameter, e.g. This or Argument(1).
	Markers []string `yaml:"markers,omitempty"`
}

// UnmarshalYAML accepts the scalar shorthand "- int".
func (p *ParamSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		p.Type = node.Value
		return nil
	}
	type plain ParamSpec
	return node.Decode((*plain)(p))
}

// LoadConfig reads and parses a delegator.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses delegator.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for a plan file starting from dir and walking up to
// parent directories. It returns an empty path and nil error if none exists.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range config.PlanFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for structural errors. Type names and
// markers are resolved later, by Build.
func (c *Config) validate(path string) error {
	seen := make(map[string]bool)
	for i, t := range c.Types {
		if t.Name == "" {
			return fmt.Errorf("%s: types[%d]: name is required", path, i)
		}
		if seen[t.Name] {
			return fmt.Errorf("%s: types[%d]: %s declared twice", path, i, t.Name)
		}
		seen[t.Name] = true
	}

	if c.Instrumented == "" {
		return fmt.Errorf("%s: instrumented is required", path)
	}
	if err := c.Source.validate(path, "source"); err != nil {
		return err
	}
	if len(c.Targets) == 0 {
		return fmt.Errorf("%s: no targets defined", path)
	}
	for i := range c.Targets {
		if err := c.Targets[i].validate(path, fmt.Sprintf("targets[%d]", i)); err != nil {
			return err
		}
	}

	switch c.Defaults {
	case "", config.NoDefaults, config.NextUnboundDefaults:
	default:
		return fmt.Errorf("%s: defaults: unknown provider %q (want %s or %s)",
			path, c.Defaults, config.NoDefaults, config.NextUnboundDefaults)
	}

	known := []string{config.MostSpecificTypeResolver, config.ParameterLengthResolver}
	for i, r := range c.Resolvers {
		if !slices.Contains(known, r) {
			return fmt.Errorf("%s: resolvers[%d]: unknown resolver %q", path, i, r)
		}
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("%s: concurrency must not be negative", path)
	}
	return nil
}

func (m *MethodSpec) validate(path, where string) error {
	if m.Name == "" {
		return fmt.Errorf("%s: %s: name is required", path, where)
	}
	for j, p := range m.Params {
		if p.Type == "" {
			return fmt.Errorf("%s: %s (%s): params[%d]: type is required", path, where, m.Name, j)
		}
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.Defaults == "" {
		c.Defaults = config.DefaultProviderValue
	}
	if len(c.Resolvers) == 0 {
		c.Resolvers = []string{config.MostSpecificTypeResolver}
	}
	c.Source.setDefaults(c.Instrumented)
	for i := range c.Targets {
		c.Targets[i].setDefaults(c.Instrumented)
	}
}

func (m *MethodSpec) setDefaults(instrumented string) {
	if m.Declaring == "" {
		m.Declaring = instrumented
	}
	if m.Returns == "" {
		m.Returns = "void"
	}
}
