package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denysvitali/refgallery-watermark/pkg/watermark"
)

var batchCmd = &cobra.Command{
	Use:   "batch [input-dir] [output-dir]",
	Short: "Watermark every image in a directory",
	Long: `Watermark every image in a directory with a pool of workers.

Example:
  refgallery-watermark batch ./uploads ./references --workers 8 --recursive --miniatures`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addWatermarkFlags(batchCmd)

	batchCmd.Flags().IntP("workers", "w", 0, "number of parallel workers")
	batchCmd.Flags().BoolP("recursive", "r", false, "process subdirectories recursively")
	batchCmd.Flags().Bool("miniatures", false, "create a miniature for every output")
	batchCmd.Flags().Int("max-size", 0, "miniature maximum dimension in pixels")
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	outputDir := args[1]

	logger.WithField("input_dir", inputDir).WithField("output_dir", outputDir).Info("Starting batch processing")

	config, err := configMgr.CreateWatermarkConfig(watermarkOverrides(cmd), logger)
	if err != nil {
		return fmt.Errorf("creating watermark config: %w", err)
	}

	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = configMgr.GetAppConfig().DefaultWorkers
	}
	recursive, _ := cmd.Flags().GetBool("recursive")
	miniatures, _ := cmd.Flags().GetBool("miniatures")

	batchProcessor, err := watermark.NewBatchProcessor(config, &watermark.BatchOptions{
		Workers:    workers,
		Recursive:  recursive,
		Miniatures: miniatures,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("creating batch processor: %w", err)
	}

	result, err := batchProcessor.ProcessDirectory(inputDir, outputDir)
	if err != nil {
		return fmt.Errorf("processing directory: %w", err)
	}

	if result.ErrorCount > 0 {
		logger.Warnf("Completed with %d errors out of %d files", result.ErrorCount, result.TotalCount)
		for _, batchErr := range result.Errors {
			logger.WithError(batchErr.Error).WithField("file", batchErr.FilePath).Error("Processing failed")
		}
	} else {
		logger.Infof("Successfully processed all %d files", result.SuccessCount)
	}

	return nil
}
