package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luli45/photo-filter/pkg/cli"
)

var editCmd = &cobra.Command{
	Use:   "edit [image]",
	Short: "Open the interactive editor",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		return cli.RunCLI(cmd.Context(), cfg, log, path, os.Stdin, cmd.OutOrStdout())
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check GitHub for a newer release and install it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.NewUpdater(os.Stdin, cmd.OutOrStdout(), log).CheckForUpdates(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), cli.Version)
	},
}

func init() {
	rootCmd.AddCommand(editCmd, updateCmd, versionCmd)
}
