package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/luli45/photo-filter/pkg/cli"
)

var (
	cfg cli.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "photofilter",
	Short:         "Apply classic photo filters to images",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		c, err := cli.LoadConfig(envFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			c.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		l, err := cli.NewLogger(c, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		cfg, log = c, l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file with PHOTOFILTER_* settings")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
