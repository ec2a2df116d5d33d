package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	configCommand := &cobra.Command{
		Use:   "config",
		Short: "Resolve the configuration and print the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildConfig()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), c.String())
			return nil
		},
	}

	RootCommand.AddCommand(configCommand)
}
