package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/luli45/photo-filter/pkg/cli"
	"github.com/luli45/photo-filter/pkg/filter"
)

var applyCmd = &cobra.Command{
	Use:   "apply <input>",
	Short: "Apply one filter to an image and write the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runApply,
}

func init() {
	applyCmd.Flags().StringP("filter", "f", "", "filter kind (see 'photofilter filters'); defaults to PHOTOFILTER_FILTER")
	applyCmd.Flags().StringP("intensity", "i", "", "filter intensity, e.g. 5 or 5px; defaults to PHOTOFILTER_INTENSITY, then the filter's own default")
	applyCmd.Flags().String("low", "", "canny low threshold; 8/15 of the intensity when omitted")
	applyCmd.Flags().StringP("output", "o", "", "output file; defaults to <export dir>/filtered-<ms>.png")
	rootCmd.AddCommand(applyCmd)
}

func kindNames() string {
	var names []string
	for _, k := range filter.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func runApply(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	kind := cfg.Filter
	if name, _ := cmd.Flags().GetString("filter"); name != "" {
		k, ok := filter.ParseKind(name)
		if !ok {
			return fmt.Errorf("unknown filter %q (known: %s)", name, kindNames())
		}
		kind = k
	}
	var intensity string
	switch {
	case cmd.Flags().Changed("intensity"):
		intensity, _ = cmd.Flags().GetString("intensity")
	case cfg.IntensitySet:
		intensity = strconv.Itoa(cfg.Intensity)
	}
	filterArgs := []string{intensity}
	if low, _ := cmd.Flags().GetString("low"); low != "" {
		if kind != filter.Canny {
			return fmt.Errorf("--low only applies to canny")
		}
		filterArgs = append(filterArgs, low)
	}
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = filepath.Join(cfg.ExportDir, cli.DefaultExportName(time.Now()))
	}

	img, format, err := cli.LoadImage(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	start := time.Now()
	out, err := filter.ApplyCommand(img, string(kind), filterArgs)
	if err != nil {
		return fmt.Errorf("applying %s: %w", kind, err)
	}
	log.WithFields(logrus.Fields{
		"filter":  kind,
		"args":    filterArgs,
		"format":  format,
		"size":    fmt.Sprintf("%dx%d", out.Rect.Dx(), out.Rect.Dy()),
		"elapsed": time.Since(start).Round(time.Microsecond),
	}).Debug("filtered")

	if err := cli.SaveImage(outputPath, out, cli.SaveOptions{JPEGQuality: cfg.JPEGQuality}); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outputPath)
	return nil
}
