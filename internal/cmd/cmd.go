package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/drupal-tools/assetctl/internal/config"
	"github.com/drupal-tools/assetctl/internal/logging"
)

// RootCommand is the base command for assetctl.
var RootCommand = &cobra.Command{
	Use:           "assetctl",
	Short:         "Front-end asset pipeline configuration for Drupal projects",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var rootParams struct {
	projectRoot string
	configFiles []string
	logLevel    string
}

func init() {
	RootCommand.PersistentFlags().StringVar(&rootParams.projectRoot, "project-root", ".", "path to the directory containing the project's composer.json")
	RootCommand.PersistentFlags().StringArrayVarP(&rootParams.configFiles, "config", "c", nil, "configuration file or directory (repeatable; later files override earlier ones)")
	RootCommand.PersistentFlags().StringVar(&rootParams.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

func newLogger() (*logging.Logger, error) {
	levels := map[string]int{
		"debug": logging.LevelDebug,
		"info":  logging.LevelInfo,
		"warn":  logging.LevelWarn,
		"error": logging.LevelError,
	}
	level, ok := levels[rootParams.logLevel]
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", rootParams.logLevel)
	}
	return logging.NewLogger(logging.Config{Level: level}), nil
}

// buildConfig assembles the configuration snapshot for the project: the
// files named by --config merged in order, the declarative file at the
// project root if one exists, otherwise defaults plus full discovery.
func buildConfig() (*config.Config, error) {
	root, err := filepath.Abs(rootParams.projectRoot)
	if err != nil {
		return nil, err
	}

	files := rootParams.configFiles
	if len(files) == 0 {
		filename := filepath.Join(root, config.DefaultFileName)
		if _, err := os.Stat(filename); err == nil {
			files = []string{filename}
		}
	}

	b := config.New(root)

	if len(files) > 0 {
		bs, err := config.Merge(files, false)
		if err != nil {
			return nil, err
		}
		f, err := config.Parse(bs)
		if err != nil {
			return nil, err
		}
		if err := f.Apply(b); err != nil {
			return nil, err
		}
		return b.Build()
	}

	b.ApplyDefaults()
	if err := b.AddAllCustomModules(true, true); err != nil {
		return nil, err
	}
	if err := b.AddAllCustomThemes(true, true); err != nil {
		return nil, err
	}
	return b.Build()
}
