package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func getVersionCmd(gs *globalState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show application version",
		Long:  `Show the application version and exit.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(gs.stdout, "rpcgen version %s\n", versionStr)
			return err
		},
	}
}
