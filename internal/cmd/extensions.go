package cmd

import (
	"github.com/spf13/cobra"

	"github.com/drupal-tools/assetctl/internal/tasks"
)

func init() {
	extensionsCommand := &cobra.Command{
		Use:   "extensions",
		Short: "List the custom modules and themes discovered under the web root",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildConfig()
			if err != nil {
				return err
			}
			return tasks.NewList(c).WithOutput(cmd.OutOrStdout()).Execute(cmd.Context())
		},
	}

	RootCommand.AddCommand(extensionsCommand)
}
