package config

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/goccy/go-yaml"

	"github.com/dtsbundle/dtsbundle/internal/logging"
)

// Internal configuration data structures for dtsbundle.

// Root is the top-level configuration structure used by dtsbundle.
type Root struct {
	Bundles  map[string]*Bundle `json:"bundles,omitempty"`
	Compiler Compiler           `json:"compiler,omitzero"`
	Logging  logging.Config     `json:"logging,omitzero"`
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for the Root
// struct. This lets us define bundles in a more user-friendly way with
// mappings where keys are the bundle names.
func (r *Root) UnmarshalYAML(bs []byte) error {
	type rawRoot Root // avoid recursive calls to UnmarshalYAML by type aliasing
	var raw rawRoot

	if err := yaml.Unmarshal(bs, &raw); err != nil {
		return fmt.Errorf("failed to decode Root: %w", err)
	}

	*r = Root(raw)
	return r.unmarshal(r)
}

func (*Root) unmarshal(raw *Root) error {
	for name := range raw.Bundles {
		raw.Bundles[name] = cmp.Or(raw.Bundles[name], &Bundle{})
		raw.Bundles[name].Name = name
	}

	// Sort names so that incomplete bundles are reported deterministically.
	for _, name := range slices.Sorted(maps.Keys(raw.Bundles)) {
		if err := raw.Bundles[name].Complete(); err != nil {
			return err
		}
	}

	return nil
}

func (r *Root) SortedBundles() iter.Seq2[int, *Bundle] {
	return iterator(r.Bundles, func(b *Bundle) string { return b.Name })
}

func iterator[V any](m map[string]V, name func(V) string) func(func(int, V) bool) {
	names := make([]string, 0, len(m))
	for _, v := range m {
		names = append(names, name(v))
	}

	sort.Strings(names)

	return func(yield func(int, V) bool) {
		for i, name := range names {
			if !yield(i, m[name]) {
				return
			}
		}
	}
}

func Validate(data []byte) error {
	var config any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return err
	}

	return rootSchema.Validate(config)
}

// Compiler configures the compiler collaborator shared by all bundles.
type Compiler struct {
	Path    string         `json:"path,omitempty"`
	Options map[string]any `json:"options,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

// Line ending selectors accepted by the eol bundle option.
const (
	EolNative = "native"
	EolLF     = "lf"
	EolCRLF   = "crlf"
)

// Bundle defines the configuration for one declaration bundle.
type Bundle struct {
	Name            string         `json:"name"`
	BaseDir         string         `json:"base_dir"`
	Out             string         `json:"out"`
	Files           []string       `json:"files,omitempty"`
	Excludes        []string       `json:"excludes,omitempty"`
	Externs         []string       `json:"externs,omitempty"`
	Main            string         `json:"main,omitempty"`
	Indent          string         `json:"indent,omitempty"`
	Eol             string         `json:"eol,omitempty"`
	Target          string         `json:"target,omitempty"`
	Jobs            int            `json:"jobs,omitempty"`
	CompilerOptions map[string]any `json:"compiler_options,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

func (s *Bundle) UnmarshalYAML(bs []byte) error {
	type rawBundle Bundle // avoid recursive calls to UnmarshalYAML by type aliasing
	var raw rawBundle

	if err := yaml.Unmarshal(bs, &raw); err != nil {
		return fmt.Errorf("failed to decode bundle: %w", err)
	}

	*s = Bundle(raw)
	return s.validate()
}

func (s *Bundle) validate() error {
	for _, pattern := range s.Excludes {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("failed to compile excluded file pattern %q: %w", pattern, err)
		}
	}

	for _, pattern := range s.Files {
		if !strings.ContainsAny(pattern, "*?[{") {
			continue
		}
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("failed to compile file pattern %q: %w", pattern, err)
		}
	}

	switch s.Eol {
	case "", EolNative, EolLF, EolCRLF:
	default:
		return fmt.Errorf("invalid eol %q (expected %s, %s or %s)", s.Eol, EolNative, EolLF, EolCRLF)
	}

	if s.Jobs < 0 {
		return fmt.Errorf("invalid jobs %d", s.Jobs)
	}

	return nil
}

// Complete checks the fields a bundle cannot be built without. It runs after
// names have been assigned from the mapping keys, and on bundles assembled
// from command line flags.
func (s *Bundle) Complete() error {
	if err := s.validate(); err != nil {
		return fmt.Errorf("bundle %q: %w", s.Name, err)
	}
	if s.Name == "" {
		return fmt.Errorf("bundle name is required")
	}
	if s.BaseDir == "" {
		return fmt.Errorf("bundle %q: base_dir is required", s.Name)
	}
	if s.Out == "" {
		return fmt.Errorf("bundle %q: out is required", s.Name)
	}
	if len(s.Files) == 0 {
		return fmt.Errorf("bundle %q: files is required", s.Name)
	}
	return nil
}

func ParseFile(filename string) (root *Root, err error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	return Parse(bs)
}

func Parse(bs []byte) (*Root, error) {
	if err := Validate(bs); err != nil {
		return nil, err
	}

	var root Root
	if err := yaml.Unmarshal(bs, &root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &root, nil
}
