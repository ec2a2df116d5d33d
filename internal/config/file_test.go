package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/drupal-tools/assetctl/internal/config"
)

func TestParse(t *testing.T) {
	f, err := config.Parse([]byte(`{
		drupal_dir: docroot,
		styles: {
			sources: ["assets/scss/**/*.scss"],
			ignores: ["**/_*.scss"]
		},
		discovery: {
			themes: false,
			ignores: ["**/node_modules/**"]
		},
		defaults: false,
		options: {
			uglify: {compress: false},
			sourcemaps: true
		}
	}`))
	if err != nil {
		t.Fatal(err)
	}

	if f.DrupalDir != "docroot" {
		t.Fatalf("expected drupal_dir docroot, got %q", f.DrupalDir)
	}
	if diff := cmp.Diff([]string{"assets/scss/**/*.scss"}, f.Styles.Sources); diff != "" {
		t.Fatalf("style sources (-want +got):\n%s", diff)
	}
	if f.Discovery.Themes == nil || *f.Discovery.Themes {
		t.Fatal("expected theme discovery to be disabled")
	}
	if f.Discovery.Modules != nil {
		t.Fatal("expected module discovery to be unset")
	}
	if f.Defaults == nil || *f.Defaults {
		t.Fatal("expected defaults to be disabled")
	}

	uglify, ok := f.Options["uglify"].(map[string]any)
	if !ok {
		t.Fatalf("expected uglify option block, got %T", f.Options["uglify"])
	}
	if v, ok := uglify["compress"]; !ok || v != false {
		t.Fatalf("expected compress false to round-trip, got %v", uglify)
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := []struct {
		note string
		doc  string
	}{
		{
			note: "wrong type for styles",
			doc:  `{styles: 42}`,
		},
		{
			note: "unknown top-level field",
			doc:  `{webroot: web}`,
		},
		{
			note: "wrong item type in pattern list",
			doc:  `{scripts: {sources: [{}]}}`,
		},
		{
			note: "malformed ignore glob",
			doc:  `{styles: {ignores: ["["]}}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.note, func(t *testing.T) {
			if _, err := config.Parse([]byte(tc.doc)); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestFileApply(t *testing.T) {
	root := t.TempDir() // no web/ on purpose: drupal_dir skips detection

	f, err := config.Parse([]byte(`{
		drupal_dir: public,
		styles: {sources: ["custom/**/*.scss"], destinations: ["custom/dist/**/*.min.css"]},
		scripts: {ignores: ["**/contrib/**"]},
		discovery: {modules: false, themes: false},
		defaults: false,
		options: {globals: [Drupal]}
	}`))
	if err != nil {
		t.Fatal(err)
	}

	b := config.New(root)
	if err := f.Apply(b); err != nil {
		t.Fatal(err)
	}

	c, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	if exp := filepath.Join(root, "public"); c.WebRoot() != exp {
		t.Fatalf("expected web root %q, got %q", exp, c.WebRoot())
	}
	if diff := cmp.Diff([]string{"custom/**/*.scss"}, c.StyleSources()); diff != "" {
		t.Fatalf("style sources (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"custom/dist/**/*.min.css"}, c.StyleDestinations()); diff != "" {
		t.Fatalf("style destinations (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"**/contrib/**"}, c.ScriptIgnores()); diff != "" {
		t.Fatalf("script ignores (-want +got):\n%s", diff)
	}
	if c.OptionsFor("uglify", nil) != nil {
		t.Fatal("expected no default uglify options with defaults disabled")
	}
	if diff := cmp.Diff([]any{"Drupal"}, c.OptionsFor("globals", nil)); diff != "" {
		t.Fatalf("globals (-want +got):\n%s", diff)
	}
}

func TestFileApplyWithDiscovery(t *testing.T) {
	root := projectRoot(t)
	writeManifest(t, filepath.Join(root, "web", "modules", "custom", "foo"), "foo")

	f, err := config.Parse([]byte(`{discovery: {themes: false}, defaults: false}`))
	if err != nil {
		t.Fatal(err)
	}

	b := config.New(root)
	if err := f.Apply(b); err != nil {
		t.Fatal(err)
	}

	c, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	exp := filepath.Join(root, "web", "modules", "custom", "foo", "**", "*.js")
	if !contains(c.ScriptSources(), exp) {
		t.Fatalf("expected discovered script sources %q, got %v", exp, c.ScriptSources())
	}
}

func TestFileEqual(t *testing.T) {
	doc := `{drupal_dir: web, styles: {sources: [a]}, discovery: {modules: false}, options: {k: v}}`

	a, err := config.Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	b, err := config.Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	if !a.Equal(b) {
		t.Fatal("expected equal files")
	}

	c, err := config.Parse([]byte(`{drupal_dir: docroot}`))
	if err != nil {
		t.Fatal(err)
	}
	if a.Equal(c) {
		t.Fatal("expected unequal files")
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := config.ParseFile(filepath.Join(t.TempDir(), config.DefaultFileName)); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultFileName)
	doc := "drupal_dir: web\ndefaults: false\ndiscovery:\n  modules: false\n  themes: false\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := config.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.DrupalDir != "web" {
		t.Fatalf("expected drupal_dir web, got %q", f.DrupalDir)
	}
}
