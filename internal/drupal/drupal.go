package drupal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/goccy/go-yaml"
)

// ManifestSuffix is the filename suffix marking a directory as the root of a
// Drupal extension (module or theme).
const ManifestSuffix = ".info.yml"

// webRootCandidates are probed in order under the project root. "web" is the
// composer-project default, "docroot" the Acquia-style legacy alias.
var webRootCandidates = []string{"web", "docroot"}

// RootNotFoundErr is returned when none of the candidate web root directories
// exist under the project root.
type RootNotFoundErr struct {
	ProjectRoot string
	Candidates  []string
}

func (err *RootNotFoundErr) Error() string {
	return fmt.Sprintf("no web root found under %q (tried %s)", err.ProjectRoot, strings.Join(err.Candidates, ", "))
}

// InvalidExtensionPathErr is returned when an extension descriptor is
// constructed from a path that does not exist or is not a directory.
type InvalidExtensionPathErr struct {
	Path string
}

func (err *InvalidExtensionPathErr) Error() string {
	return fmt.Sprintf("invalid extension path %q: not an existing directory", err.Path)
}

// DetectWebRoot probes the candidate web root directory names under the
// project root and returns the first that exists and is a directory.
func DetectWebRoot(projectRoot string) (string, error) {
	for _, name := range webRootCandidates {
		path := filepath.Join(projectRoot, name)
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			return path, nil
		}
	}
	return "", &RootNotFoundErr{ProjectRoot: projectRoot, Candidates: webRootCandidates}
}

// Info holds the subset of manifest fields the asset pipeline cares about.
type Info struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Extension describes one discovered module or theme. It is immutable after
// construction; its pattern derivations are pure functions of the path.
type Extension struct {
	path string
	info Info
}

// NewExtension constructs a descriptor for the extension rooted at path. The
// path must exist and be a directory. The manifest directly under the path,
// if present and well-formed, supplies the extension name and type; a missing
// or malformed manifest does not fail construction since the pattern
// derivations depend only on the path.
func NewExtension(path string) (*Extension, error) {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return nil, &InvalidExtensionPathErr{Path: path}
	}

	e := &Extension{path: path}
	if manifests, err := filepath.Glob(filepath.Join(path, "*"+ManifestSuffix)); err == nil && len(manifests) > 0 {
		if bs, err := os.ReadFile(manifests[0]); err == nil {
			_ = yaml.Unmarshal(bs, &e.info)
		}
	}
	return e, nil
}

func (e *Extension) Path() string {
	return e.path
}

// Machine returns the extension's machine name, taken from the directory
// name per the Drupal convention that the manifest is <machine>.info.yml
// inside a directory of the same name.
func (e *Extension) Machine() string {
	return filepath.Base(e.path)
}

func (e *Extension) Info() Info {
	return e.info
}

// StyleSources returns the glob patterns matching every style source file
// under the extension.
func (e *Extension) StyleSources() []string {
	return []string{filepath.Join(e.path, "**", "*.scss")}
}

// ScriptSources returns the glob patterns matching every script source file
// under the extension.
func (e *Extension) ScriptSources() []string {
	return []string{filepath.Join(e.path, "**", "*.js")}
}

// StyleDestinations returns the patterns bounding the extension's generated
// style output: minified stylesheets and their source maps, under the dist
// directory and the components subtree. Everything these patterns match is
// regenerable and safe to delete; they must never widen to match sources.
func (e *Extension) StyleDestinations() []string {
	return e.destinations("css")
}

// ScriptDestinations is the script equivalent of StyleDestinations.
func (e *Extension) ScriptDestinations() []string {
	return e.destinations("js")
}

func (e *Extension) destinations(ext string) []string {
	return []string{
		filepath.Join(e.path, "dist", "**", "*.min."+ext),
		filepath.Join(e.path, "dist", "**", "*."+ext+".map"),
		filepath.Join(e.path, "components", "**", "*.min."+ext),
		filepath.Join(e.path, "components", "**", "*."+ext+".map"),
	}
}

// CustomExtensionPatterns returns the discovery directory globs for custom
// extensions of the given kind ("modules" or "themes") under a web root. The
// shapes cover both a plain docroot and a multi-site layout where extensions
// live under per-site directories.
func CustomExtensionPatterns(webRoot, kind string) []string {
	return []string{
		filepath.Join(webRoot, kind, "custom", "*"),
		filepath.Join(webRoot, "sites", "*", kind, "custom", "*"),
	}
}

// Discover expands each directory glob and yields one Extension per manifest
// file found directly under a matched directory. Manifests whose path matches
// any of the ignore globs are skipped. A pattern matching no manifests is not
// an error; an absent custom modules or themes folder is normal. Overlapping
// patterns can yield duplicate descriptors, which is tolerated: the
// destination patterns they produce delete idempotently.
func Discover(patterns []string, ignore []glob.Glob) ([]*Extension, error) {
	var exts []*Extension
	for _, pattern := range patterns {
		dirs, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid discovery pattern %q: %w", pattern, err)
		}
		for _, dir := range dirs {
			manifests, err := filepath.Glob(filepath.Join(dir, "*"+ManifestSuffix))
			if err != nil {
				return nil, fmt.Errorf("invalid manifest pattern under %q: %w", dir, err)
			}
			for _, manifest := range manifests {
				if matchesAny(ignore, manifest) {
					continue
				}
				e, err := NewExtension(filepath.Dir(manifest))
				if err != nil {
					return nil, err
				}
				exts = append(exts, e)
			}
		}
	}
	return exts, nil
}

func matchesAny(globs []glob.Glob, path string) bool {
	slashed := filepath.ToSlash(path)
	for _, g := range globs {
		if g.Match(slashed) {
			return true
		}
	}
	return false
}
