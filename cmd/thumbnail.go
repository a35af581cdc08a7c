package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denysvitali/refgallery-watermark/pkg/watermark"
)

var thumbnailCmd = &cobra.Command{
	Use:     "thumbnail [input]",
	Aliases: []string{"miniature"},
	Short:   "Create a miniature of an image",
	Long: `Create an aspect-preserving miniature named <name>_miniature.jpg.

Example:
  refgallery-watermark thumbnail reference.png --max-size 300 --output-dir ./previews`,
	Args: cobra.ExactArgs(1),
	RunE: runThumbnail,
}

func init() {
	rootCmd.AddCommand(thumbnailCmd)
	thumbnailCmd.Flags().StringP("output-dir", "d", "", "output directory (default is the input's directory)")
	thumbnailCmd.Flags().IntP("max-size", "m", 0, "maximum dimension in pixels")
}

func runThumbnail(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputDir, _ := cmd.Flags().GetString("output-dir")

	config, err := configMgr.CreateWatermarkConfig(watermarkOverrides(cmd), logger)
	if err != nil {
		return fmt.Errorf("creating config: %w", err)
	}

	pipeline, err := watermark.NewPipeline(config, logger)
	if err != nil {
		return fmt.Errorf("creating pipeline: %w", err)
	}

	name, ok := pipeline.CreateMiniature(inputPath, outputDir, 0)
	if !ok {
		return fmt.Errorf("creating miniature of %s failed", inputPath)
	}

	fmt.Println(name)
	return nil
}
