package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/gobwas/glob"
	"github.com/goccy/go-yaml"

	"github.com/drupal-tools/assetctl/internal/drupal"
)

// Configuration model for the asset pipeline. A Builder accumulates glob
// patterns and plugin options, typically across many discovered extensions,
// and Build freezes the result into an immutable Config consumed by tasks.

// RootAlreadySetErr is returned when an explicit web root override is
// requested after the web root has already been set or lazily resolved.
type RootAlreadySetErr struct {
	WebRoot string
}

func (err *RootAlreadySetErr) Error() string {
	return fmt.Sprintf("web root already set to %q", err.WebRoot)
}

type webRootState int

const (
	webRootUnset webRootState = iota
	webRootExplicit
	webRootResolved
)

// defaultGlobals are the identifier names that must survive minification
// untouched: Drupal's JavaScript API objects and the libraries its behaviors
// attach to.
var defaultGlobals = []string{"Drupal", "drupalSettings", "jQuery", "once"}

var defaultIgnores = []string{
	"**/node_modules/**",
	"**/vendor/**",
}

// Builder accumulates asset pipeline configuration. Mutators return the
// receiver so calls chain; Build produces an independent Config snapshot.
// A Builder is created per build invocation and is not safe for concurrent
// use.
type Builder struct {
	projectRoot string

	webRoot      string
	webRootState webRootState

	styleSources      []string
	styleDestinations []string
	styleIgnores      []string

	scriptSources      []string
	scriptDestinations []string
	scriptIgnores      []string

	discoveryIgnores []string
	discoveryGlobs   []glob.Glob

	options map[string]any
}

// New returns a Builder for the project rooted at projectRoot, the directory
// holding the project's composer.json.
func New(projectRoot string) *Builder {
	return &Builder{
		projectRoot: projectRoot,
		options:     map[string]any{},
	}
}

func (b *Builder) ProjectRoot() string {
	return b.projectRoot
}

func (b *Builder) AddStyleSources(patterns ...string) *Builder {
	b.styleSources = append(b.styleSources, patterns...)
	return b
}

func (b *Builder) AddStyleDestinations(patterns ...string) *Builder {
	b.styleDestinations = append(b.styleDestinations, patterns...)
	return b
}

func (b *Builder) AddStyleIgnores(patterns ...string) *Builder {
	b.styleIgnores = append(b.styleIgnores, patterns...)
	return b
}

func (b *Builder) AddScriptSources(patterns ...string) *Builder {
	b.scriptSources = append(b.scriptSources, patterns...)
	return b
}

func (b *Builder) AddScriptDestinations(patterns ...string) *Builder {
	b.scriptDestinations = append(b.scriptDestinations, patterns...)
	return b
}

func (b *Builder) AddScriptIgnores(patterns ...string) *Builder {
	b.scriptIgnores = append(b.scriptIgnores, patterns...)
	return b
}

// SetDrupalDirectory fixes the web root to projectRoot/name without touching
// the filesystem; the caller is trusted. It fails once the web root has been
// set or resolved, explicitly or lazily.
func (b *Builder) SetDrupalDirectory(name string) error {
	if b.webRootState != webRootUnset {
		return &RootAlreadySetErr{WebRoot: b.webRoot}
	}
	b.webRoot = filepath.Join(b.projectRoot, name)
	b.webRootState = webRootExplicit
	return nil
}

// WebRoot returns the web root, detecting it under the project root on first
// access and memoizing the result.
func (b *Builder) WebRoot() (string, error) {
	if b.webRootState == webRootUnset {
		root, err := drupal.DetectWebRoot(b.projectRoot)
		if err != nil {
			return "", err
		}
		b.webRoot = root
		b.webRootState = webRootResolved
	}
	return b.webRoot, nil
}

// SetDiscoveryIgnores appends glob patterns matched against manifest paths
// during bulk discovery. Patterns compile eagerly so a malformed pattern
// fails here instead of silently never matching.
func (b *Builder) SetDiscoveryIgnores(patterns ...string) error {
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return fmt.Errorf("invalid discovery ignore pattern %q: %w", pattern, err)
		}
		b.discoveryIgnores = append(b.discoveryIgnores, pattern)
		b.discoveryGlobs = append(b.discoveryGlobs, g)
	}
	return nil
}

// AddExtension folds the descriptor's source and destination patterns into
// the builder, gated by the two flags.
func (b *Builder) AddExtension(e *drupal.Extension, styles, scripts bool) *Builder {
	if styles {
		b.AddStyleSources(e.StyleSources()...)
		b.AddStyleDestinations(e.StyleDestinations()...)
	}
	if scripts {
		b.AddScriptSources(e.ScriptSources()...)
		b.AddScriptDestinations(e.ScriptDestinations()...)
	}
	return b
}

// AddAllCustomModules discovers every custom module under the web root,
// including per-site directories in multi-site layouts, and folds each one
// in via AddExtension.
func (b *Builder) AddAllCustomModules(styles, scripts bool) error {
	return b.addAllCustom("modules", styles, scripts)
}

// AddAllCustomThemes is the theme equivalent of AddAllCustomModules.
func (b *Builder) AddAllCustomThemes(styles, scripts bool) error {
	return b.addAllCustom("themes", styles, scripts)
}

func (b *Builder) addAllCustom(kind string, styles, scripts bool) error {
	root, err := b.WebRoot()
	if err != nil {
		return err
	}
	exts, err := drupal.Discover(drupal.CustomExtensionPatterns(root, kind), b.discoveryGlobs)
	if err != nil {
		return err
	}
	for _, e := range exts {
		b.AddExtension(e, styles, scripts)
	}
	return nil
}

// SetOptionsFor stores an arbitrary option block for the given plugin or
// domain key. No schema is enforced; schema validation, if desired, belongs
// to the consuming task definition.
func (b *Builder) SetOptionsFor(key string, value any) *Builder {
	b.options[key] = value
	return b
}

// OptionsFor returns the stored value for key, or fallback when the key is
// absent. Presence, not truthiness, decides: an explicitly stored false or
// empty value is returned verbatim.
func (b *Builder) OptionsFor(key string, fallback any) any {
	if v, ok := b.options[key]; ok {
		return v
	}
	return fallback
}

// ApplyDefaults appends the conventional ignore set to both ignore lists and
// to the discovery ignores, and seeds the globals list and the minifier
// option block that references it. Repeat calls re-append the ignores and
// overwrite the two option entries with identical values.
func (b *Builder) ApplyDefaults() *Builder {
	b.AddStyleIgnores(append(slices.Clone(defaultIgnores), "**/*.min.css")...)
	b.AddScriptIgnores(append(slices.Clone(defaultIgnores), "**/*.min.js")...)

	// The default ignore patterns are known-good, so compilation cannot fail.
	if err := b.SetDiscoveryIgnores(defaultIgnores...); err != nil {
		panic(err)
	}

	globals := slices.Clone(defaultGlobals)
	b.SetOptionsFor("globals", globals)
	b.SetOptionsFor("uglify", map[string]any{
		"mangle": map[string]any{"reserved": globals},
		"output": map[string]any{"comments": "license"},
	})
	return b
}

// Build resolves the web root if it has not been resolved yet and freezes
// the accumulated state into a Config. Every container field is copied, so
// mutating the builder afterwards never leaks into the snapshot.
func (b *Builder) Build() (*Config, error) {
	webRoot, err := b.WebRoot()
	if err != nil {
		return nil, err
	}
	return &Config{
		projectRoot:        b.projectRoot,
		webRoot:            webRoot,
		styleSources:       slices.Clone(b.styleSources),
		styleDestinations:  slices.Clone(b.styleDestinations),
		styleIgnores:       slices.Clone(b.styleIgnores),
		scriptSources:      slices.Clone(b.scriptSources),
		scriptDestinations: slices.Clone(b.scriptDestinations),
		scriptIgnores:      slices.Clone(b.scriptIgnores),
		discoveryIgnores:   slices.Clone(b.discoveryIgnores),
		options:            maps.Clone(b.options),
	}, nil
}

// Config is the immutable configuration snapshot read by task definitions.
// Once produced it may be shared across consumers without synchronization.
type Config struct {
	projectRoot string
	webRoot     string

	styleSources      []string
	styleDestinations []string
	styleIgnores      []string

	scriptSources      []string
	scriptDestinations []string
	scriptIgnores      []string

	discoveryIgnores []string

	options map[string]any
}

func (c *Config) ProjectRoot() string {
	return c.projectRoot
}

func (c *Config) WebRoot() string {
	return c.webRoot
}

func (c *Config) StyleSources() []string {
	return slices.Clone(c.styleSources)
}

func (c *Config) StyleDestinations() []string {
	return slices.Clone(c.styleDestinations)
}

func (c *Config) StyleIgnores() []string {
	return slices.Clone(c.styleIgnores)
}

func (c *Config) ScriptSources() []string {
	return slices.Clone(c.scriptSources)
}

func (c *Config) ScriptDestinations() []string {
	return slices.Clone(c.scriptDestinations)
}

func (c *Config) ScriptIgnores() []string {
	return slices.Clone(c.scriptIgnores)
}

// DiscoveryIgnores returns the glob patterns that suppressed manifests
// during discovery. The patterns were compiled when added, so consumers may
// recompile them without error handling.
func (c *Config) DiscoveryIgnores() []glob.Glob {
	globs := make([]glob.Glob, len(c.discoveryIgnores))
	for i, pattern := range c.discoveryIgnores {
		globs[i] = glob.MustCompile(pattern, '/')
	}
	return globs
}

// OptionsFor has the same presence-over-truthiness contract as the builder's
// option getter.
func (c *Config) OptionsFor(key string, fallback any) any {
	if v, ok := c.options[key]; ok {
		return v
	}
	return fallback
}

// String renders a structured dump of all fields for debugging. It is not a
// machine-readable serialization contract.
func (c *Config) String() string {
	dump := struct {
		ProjectRoot        string         `json:"project_root"`
		WebRoot            string         `json:"web_root"`
		StyleSources       []string       `json:"style_sources"`
		StyleDestinations  []string       `json:"style_destinations"`
		StyleIgnores       []string       `json:"style_ignores"`
		ScriptSources      []string       `json:"script_sources"`
		ScriptDestinations []string       `json:"script_destinations"`
		ScriptIgnores      []string       `json:"script_ignores"`
		DiscoveryIgnores   []string       `json:"discovery_ignores"`
		Options            map[string]any `json:"options"`
	}{
		ProjectRoot:        c.projectRoot,
		WebRoot:            c.webRoot,
		StyleSources:       c.styleSources,
		StyleDestinations:  c.styleDestinations,
		StyleIgnores:       c.styleIgnores,
		ScriptSources:      c.scriptSources,
		ScriptDestinations: c.scriptDestinations,
		ScriptIgnores:      c.scriptIgnores,
		DiscoveryIgnores:   c.discoveryIgnores,
		Options:            c.options,
	}
	bs, err := yaml.Marshal(dump)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(bs)
}
