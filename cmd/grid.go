package cmd

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/denysvitali/refgallery-watermark/internal/preview"
	"github.com/denysvitali/refgallery-watermark/pkg/watermark"
)

var gridCmd = &cobra.Command{
	Use:   "grid [width] [height] [output]",
	Short: "Plot the watermark tile grid for a canvas size",
	Long: `Plot the anchor of every watermark tile laid out on a canvas of the
given size, to check that the grid covers it.

Example:
  refgallery-watermark grid 1920 1080 grid.png --text "DO NOT USE FOR AI TRAINING"`,
	Args: cobra.ExactArgs(3),
	RunE: runGrid,
}

func init() {
	rootCmd.AddCommand(gridCmd)
	gridCmd.Flags().StringP("text", "t", "", "watermark text (default from config)")
	gridCmd.Flags().String("font-source", "", "font source: system or embedded")
}

func runGrid(cmd *cobra.Command, args []string) error {
	width, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("parsing width: %w", err)
	}
	height, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("parsing height: %w", err)
	}

	config, err := configMgr.CreateWatermarkConfig(watermarkOverrides(cmd), logger)
	if err != nil {
		return fmt.Errorf("creating watermark config: %w", err)
	}

	text := config.Text
	if text == "" {
		text = watermark.DefaultText
	}

	handle := config.FontProvider.Resolve(watermark.FontSizeForWidth(width))
	textWidth, textHeight := watermark.MeasureText(handle.Face, text)
	handle.Close()

	grid := watermark.NewGrid(width, height, textWidth, textHeight)
	logger.WithFields(logrus.Fields{
		"columns": grid.NumX,
		"rows":    grid.NumY,
		"tiles":   grid.Len(),
	}).Info("Computed tile grid")

	if err := preview.Render(args[2], grid, width, height); err != nil {
		return fmt.Errorf("rendering grid: %w", err)
	}

	logger.WithField("file", args[2]).Info("Grid plot written")
	return nil
}
