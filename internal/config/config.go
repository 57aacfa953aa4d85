package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/smallyu/go-ecc/internal/crypto/curve"
	"github.com/smallyu/go-ecc/pkg/ecc"
)

const DefaultLogLevel = "info"

// Config is the on-disk configuration of the ecc tool.
//
//	log_level: debug
//	curves:
//	  - name: toy
//	    a: 2
//	    b: 2
//	    p: 17
//	    gx: 5
//	    gy: 1
//	    n: 19
//
// Integers are decimal or 0x-prefixed hex.
type Config struct {
	LogLevel string      `yaml:"log_level"`
	Curves   []CurveSpec `yaml:"curves"`

	params map[string]*curve.Params
}

// CurveSpec describes a user-defined parameter set.
type CurveSpec struct {
	Name string `yaml:"name"`
	A    string `yaml:"a"`
	B    string `yaml:"b"`
	P    string `yaml:"p"`
	Gx   string `yaml:"gx"`
	Gy   string `yaml:"gy"`
	N    string `yaml:"n"`
}

// Default returns a configuration with only the preset curves.
func Default() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		params:   map[string]*curve.Params{},
	}
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML and validates every configured curve.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	presets := curve.Names()
	for _, spec := range cfg.Curves {
		if spec.Name == "" {
			return nil, fmt.Errorf("config: %w: curve without a name", ecc.ErrInvalidParams)
		}
		if _, dup := cfg.params[spec.Name]; dup {
			return nil, fmt.Errorf("config: %w: curve %q defined twice", ecc.ErrInvalidParams, spec.Name)
		}
		if i := sort.SearchStrings(presets, spec.Name); i < len(presets) && presets[i] == spec.Name {
			return nil, fmt.Errorf("config: %w: curve %q shadows a preset", ecc.ErrInvalidParams, spec.Name)
		}
		params, err := spec.Params()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		cfg.params[spec.Name] = params
	}
	return cfg, nil
}

// Params builds and validates the parameter set described by s.
func (s CurveSpec) Params() (*curve.Params, error) {
	fields := []struct {
		name, val string
	}{
		{"a", s.A}, {"b", s.B}, {"p", s.P}, {"gx", s.Gx}, {"gy", s.Gy}, {"n", s.N},
	}
	vals := make([]*big.Int, len(fields))
	for i, f := range fields {
		v, err := ParseInt(f.val)
		if err != nil {
			return nil, fmt.Errorf("curve %q field %s: %w", s.Name, f.name, err)
		}
		vals[i] = v
	}

	c, err := curve.New(vals[0], vals[1], vals[2])
	if err != nil {
		return nil, fmt.Errorf("curve %q: %w", s.Name, err)
	}
	return curve.NewParams(s.Name, c, curve.NewPoint(vals[3], vals[4]), vals[5])
}

// Curve resolves name against the configured curves, then the presets.
func (c *Config) Curve(name string) (*curve.Params, error) {
	if p, ok := c.params[name]; ok {
		return p, nil
	}
	return curve.Named(name)
}

// CurveNames returns the preset names followed by the configured ones.
func (c *Config) CurveNames() []string {
	names := curve.Names()
	for _, spec := range c.Curves {
		names = append(names, spec.Name)
	}
	return names
}

// ParseInt parses a decimal or 0x-prefixed hexadecimal integer.
func ParseInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty integer", ecc.ErrInvalidParams)
	}
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("%w: cannot parse integer %q", ecc.ErrInvalidParams, s)
	}
	return v, nil
}
