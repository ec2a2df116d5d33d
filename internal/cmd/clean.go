package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drupal-tools/assetctl/internal/tasks"
)

func init() {
	var dryRun bool

	cleanCommand := &cobra.Command{
		Use:   "clean",
		Short: "Remove generated style and script files matched by the destination patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildConfig()
			if err != nil {
				return err
			}
			log, err := newLogger()
			if err != nil {
				return err
			}

			removed, err := tasks.NewClean(c).
				WithLogger(log).
				WithOutput(cmd.OutOrStdout()).
				WithDryRun(dryRun).
				Execute(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d files\n", removed)
			return nil
		},
	}

	cleanCommand.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be removed without removing it")

	RootCommand.AddCommand(cleanCommand)
}
