package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/drupal-tools/assetctl/internal/config"
	"github.com/drupal-tools/assetctl/internal/drupal"
)

// List discovers the custom extensions under the configuration's web root
// and writes one line per extension: machine name, type, path.
type List struct {
	config *config.Config
	output io.Writer
}

func NewList(c *config.Config) *List {
	return &List{config: c, output: os.Stdout}
}

func (l *List) WithOutput(w io.Writer) *List {
	l.output = w
	return l
}

func (l *List) Execute(ctx context.Context) error {
	root := l.config.WebRoot()
	patterns := slices.Concat(
		drupal.CustomExtensionPatterns(root, "modules"),
		drupal.CustomExtensionPatterns(root, "themes"),
	)

	exts, err := drupal.Discover(patterns, l.config.DiscoveryIgnores())
	if err != nil {
		return err
	}

	for _, e := range exts {
		if err := ctx.Err(); err != nil {
			return err
		}
		info := e.Info()
		name := info.Name
		if name == "" {
			name = e.Machine()
		}
		kind := info.Type
		if kind == "" {
			kind = "unknown"
		}
		if _, err := fmt.Fprintf(l.output, "%s\t%s\t%s\t%s\n", e.Machine(), kind, name, e.Path()); err != nil {
			return err
		}
	}
	return nil
}
