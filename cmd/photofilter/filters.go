package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luli45/photo-filter/pkg/filter"
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List available filters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, c := range filter.Commands {
			fmt.Fprintf(out, "%-20s %s\n", c.Usage, c.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filtersCmd)
}
