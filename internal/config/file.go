package config

import (
	"fmt"
	"maps"
	"os"
	"reflect"
	"slices"

	"github.com/gobwas/glob"
	"github.com/goccy/go-yaml"

	"github.com/drupal-tools/assetctl/internal/util"
)

// DefaultFileName is the conventional name of the declarative configuration
// file at the project root.
const DefaultFileName = ".assetctl.yaml"

// File is the declarative configuration surface. It seeds a Builder; it is
// not the configuration itself, every field maps onto a builder call.
type File struct {
	DrupalDir string         `json:"drupal_dir,omitempty"`
	Styles    PatternSet     `json:"styles,omitzero"`
	Scripts   PatternSet     `json:"scripts,omitzero"`
	Discovery Discovery      `json:"discovery,omitzero"`
	Defaults  *bool          `json:"defaults,omitempty" nullable:"true"` // nil means true
	Options   map[string]any `json:"options,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

// PatternSet carries the three ordered pattern lists of one asset kind.
type PatternSet struct {
	Sources      []string `json:"sources,omitempty"`
	Destinations []string `json:"destinations,omitempty"`
	Ignores      []string `json:"ignores,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

// Discovery controls bulk extension discovery. The booleans default to true
// when absent; ignores are glob patterns matched against manifest paths so
// that manifests inside nested dependency directories are skipped.
type Discovery struct {
	Modules *bool    `json:"modules,omitempty" nullable:"true"`
	Themes  *bool    `json:"themes,omitempty" nullable:"true"`
	Ignores []string `json:"ignores,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for File so that
// glob patterns are checked at decode time.
func (f *File) UnmarshalYAML(bs []byte) error {
	type rawFile File // avoid recursive calls to UnmarshalYAML by type aliasing
	var raw rawFile

	if err := yaml.Unmarshal(bs, &raw); err != nil {
		return fmt.Errorf("failed to decode configuration file: %w", err)
	}

	*f = File(raw)
	return f.validate()
}

func (f *File) validate() error {
	for _, pattern := range slices.Concat(f.Styles.Ignores, f.Scripts.Ignores, f.Discovery.Ignores) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("failed to compile ignore pattern %q: %w", pattern, err)
		}
	}
	return nil
}

func (f *File) Equal(other *File) bool {
	return util.FastEqual(f, other, func(f, other *File) bool {
		return f.DrupalDir == other.DrupalDir &&
			f.Styles.Equal(&other.Styles) &&
			f.Scripts.Equal(&other.Scripts) &&
			f.Discovery.Equal(&other.Discovery) &&
			util.PtrEqual(f.Defaults, other.Defaults) &&
			reflect.DeepEqual(f.Options, other.Options)
	})
}

func (p *PatternSet) Equal(other *PatternSet) bool {
	return util.FastEqual(p, other, func(p, other *PatternSet) bool {
		return slices.Equal(p.Sources, other.Sources) &&
			slices.Equal(p.Destinations, other.Destinations) &&
			slices.Equal(p.Ignores, other.Ignores)
	})
}

func (d *Discovery) Equal(other *Discovery) bool {
	return util.FastEqual(d, other, func(d, other *Discovery) bool {
		return util.PtrEqual(d.Modules, other.Modules) &&
			util.PtrEqual(d.Themes, other.Themes) &&
			slices.Equal(d.Ignores, other.Ignores)
	})
}

// Apply replays the declarative surface onto a builder: explicit web root,
// manual pattern additions, discovery ignores, defaults, bulk discovery, and
// finally the per-plugin option blocks.
func (f *File) Apply(b *Builder) error {
	if f.DrupalDir != "" {
		if err := b.SetDrupalDirectory(f.DrupalDir); err != nil {
			return err
		}
	}

	b.AddStyleSources(f.Styles.Sources...).
		AddStyleDestinations(f.Styles.Destinations...).
		AddStyleIgnores(f.Styles.Ignores...).
		AddScriptSources(f.Scripts.Sources...).
		AddScriptDestinations(f.Scripts.Destinations...).
		AddScriptIgnores(f.Scripts.Ignores...)

	if err := b.SetDiscoveryIgnores(f.Discovery.Ignores...); err != nil {
		return err
	}

	if enabled(f.Defaults) {
		b.ApplyDefaults()
	}

	if enabled(f.Discovery.Modules) {
		if err := b.AddAllCustomModules(true, true); err != nil {
			return err
		}
	}
	if enabled(f.Discovery.Themes) {
		if err := b.AddAllCustomThemes(true, true); err != nil {
			return err
		}
	}

	// Sort keys so repeated applications store options in a stable order.
	for _, key := range slices.Sorted(maps.Keys(f.Options)) {
		b.SetOptionsFor(key, f.Options[key])
	}
	return nil
}

func enabled(p *bool) bool {
	return p == nil || *p
}

// ParseFile reads, validates and decodes a declarative configuration file.
func ParseFile(filename string) (*File, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	return Parse(bs)
}

// Parse validates the document against the embedded JSON schema and decodes
// it into a File.
func Parse(bs []byte) (*File, error) {
	if err := Validate(bs); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(bs, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &f, nil
}

// Validate checks a YAML document against the configuration schema.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}

	return fileSchema.Validate(doc)
}
