package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/drupal-tools/assetctl/internal/config"
	"github.com/drupal-tools/assetctl/internal/logging"
)

// Clean removes the generated asset files matched by the configuration's
// destination patterns. The patterns exactly bound regenerable output, so
// everything they match is safe to delete; duplicate patterns from
// overlapping discovery are harmless because deletion is idempotent.
type Clean struct {
	config *config.Config
	log    *logging.Logger
	output io.Writer
	dryRun bool
}

func NewClean(c *config.Config) *Clean {
	return &Clean{
		config: c,
		log:    logging.Discard(),
		output: os.Stdout,
	}
}

func (c *Clean) WithLogger(log *logging.Logger) *Clean {
	c.log = log
	return c
}

func (c *Clean) WithOutput(w io.Writer) *Clean {
	c.output = w
	return c
}

// WithDryRun makes Execute list what it would remove on the output writer
// without removing it.
func (c *Clean) WithDryRun(dryRun bool) *Clean {
	c.dryRun = dryRun
	return c
}

// Execute expands every destination pattern and removes the matched files.
// It returns the number of files removed.
func (c *Clean) Execute(ctx context.Context) (int, error) {
	patterns := slices.Concat(c.config.StyleDestinations(), c.config.ScriptDestinations())

	removed := 0
	for _, pattern := range patterns {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return removed, fmt.Errorf("failed to expand destination pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			fi, err := os.Stat(match)
			if err != nil {
				if os.IsNotExist(err) {
					continue // already removed through a duplicate pattern
				}
				return removed, err
			}
			if fi.IsDir() {
				continue
			}

			if c.dryRun {
				fmt.Fprintf(c.output, "would remove %s\n", match)
				continue
			}
			if err := os.Remove(match); err != nil {
				return removed, fmt.Errorf("failed to remove %s: %w", match, err)
			}
			c.log.Debugf("removed %s", match)
			removed++
		}
	}

	return removed, nil
}
