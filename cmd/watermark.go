package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denysvitali/refgallery-watermark/pkg/watermark"
)

var watermarkCmd = &cobra.Command{
	Use:     "watermark [input] [output]",
	Aliases: []string{"process"},
	Short:   "Watermark a single image file",
	Long: `Watermark a single image file. The output format follows the
extension of the output path.

Example:
  refgallery-watermark watermark upload.png reference.png --text "PRIVATE COMMISSION"`,
	Args: cobra.ExactArgs(2),
	RunE: runWatermark,
}

func init() {
	rootCmd.AddCommand(watermarkCmd)
	addWatermarkFlags(watermarkCmd)
	watermarkCmd.Flags().Bool("miniature", false, "also create a miniature next to the output")
	watermarkCmd.Flags().Int("max-size", 0, "miniature maximum dimension in pixels")
}

func runWatermark(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath := args[1]

	logger.WithField("input", inputPath).WithField("output", outputPath).Info("Processing single image")

	config, err := configMgr.CreateWatermarkConfig(watermarkOverrides(cmd), logger)
	if err != nil {
		return fmt.Errorf("creating watermark config: %w", err)
	}

	pipeline, err := watermark.NewPipeline(config, logger)
	if err != nil {
		return fmt.Errorf("creating pipeline: %w", err)
	}

	if !pipeline.AddWatermark(inputPath, outputPath, "") {
		return fmt.Errorf("watermarking %s failed", inputPath)
	}

	if ok, _ := cmd.Flags().GetBool("miniature"); ok {
		name, ok := pipeline.CreateMiniature(outputPath, "", 0)
		if !ok {
			return fmt.Errorf("creating miniature of %s failed", outputPath)
		}
		logger.WithField("file", name).Info("Miniature created")
	}

	logger.Info("Image processed successfully")
	return nil
}
