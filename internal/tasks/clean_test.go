package tasks_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/drupal-tools/assetctl/internal/config"
	"github.com/drupal-tools/assetctl/internal/drupal"
	"github.com/drupal-tools/assetctl/internal/tasks"
)

func TestCleanRemovesOnlyGeneratedFiles(t *testing.T) {
	root := t.TempDir()
	extPath := filepath.Join(root, "web", "themes", "custom", "bar")

	source := filepath.Join(extPath, "scss", "bar.scss")
	generated := []string{
		filepath.Join(extPath, "dist", "css", "bar.min.css"),
		filepath.Join(extPath, "dist", "css", "bar.css.map"),
		filepath.Join(extPath, "components", "widget", "widget.min.js"),
		filepath.Join(extPath, "components", "widget", "widget.js.map"),
	}
	for _, path := range append([]string{source}, generated...) {
		writeFile(t, path)
	}
	// Plain compiled output without the .min suffix stays untouched.
	unminified := filepath.Join(extPath, "dist", "css", "bar.css")
	writeFile(t, unminified)

	c := buildConfig(t, root, extPath)

	removed, err := tasks.NewClean(c).Execute(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if removed != len(generated) {
		t.Fatalf("expected %d files removed, got %d", len(generated), removed)
	}

	for _, path := range generated {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be removed", path)
		}
	}
	for _, path := range []string{source, unminified} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to survive: %v", path, err)
		}
	}

	// A second run is a no-op.
	removed, err = tasks.NewClean(c).Execute(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Fatalf("expected nothing left to remove, got %d", removed)
	}
}

func TestCleanDuplicatePatterns(t *testing.T) {
	root := t.TempDir()
	extPath := filepath.Join(root, "web", "modules", "custom", "foo")
	target := filepath.Join(extPath, "dist", "js", "foo.min.js")
	writeFile(t, target)

	// The same extension folded in twice, as overlapping discovery produces.
	b := config.New(root)
	e, err := drupal.NewExtension(extPath)
	if err != nil {
		t.Fatal(err)
	}
	b.AddExtension(e, true, true).AddExtension(e, true, true)

	c, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	removed, err := tasks.NewClean(c).Execute(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 file removed, got %d", removed)
	}
}

func TestCleanDryRun(t *testing.T) {
	root := t.TempDir()
	extPath := filepath.Join(root, "web", "modules", "custom", "foo")
	target := filepath.Join(extPath, "dist", "js", "foo.min.js")
	writeFile(t, target)

	c := buildConfig(t, root, extPath)

	var out bytes.Buffer
	removed, err := tasks.NewClean(c).WithOutput(&out).WithDryRun(true).Execute(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Fatalf("expected dry run to remove nothing, got %d", removed)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected %s to survive a dry run: %v", target, err)
	}
	if exp := "would remove " + target + "\n"; out.String() != exp {
		t.Fatalf("expected dry run to report %q, got %q", exp, out.String())
	}
}

func buildConfig(t *testing.T, root, extPath string) *config.Config {
	t.Helper()
	e, err := drupal.NewExtension(extPath)
	if err != nil {
		t.Fatal(err)
	}
	c, err := config.New(root).AddExtension(e, true, true).Build()
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}
