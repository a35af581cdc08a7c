package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/denysvitali/refgallery-watermark/pkg/watermark"
)

var fontsCmd = &cobra.Command{
	Use:   "fonts",
	Short: "Show which watermark font resolves on this host",
	Long: `List the font files probed on this platform, mark the ones present,
and show which face a watermark of the given canvas width would use.

Example:
  refgallery-watermark fonts --width 1920`,
	Args: cobra.NoArgs,
	RunE: runFonts,
}

func init() {
	rootCmd.AddCommand(fontsCmd)
	fontsCmd.Flags().Int("width", 1000, "canvas width used to pick the font size")
}

func runFonts(cmd *cobra.Command, args []string) error {
	width, _ := cmd.Flags().GetInt("width")

	provider, err := configMgr.NewFontProvider(logger)
	if err != nil {
		return err
	}

	if system, ok := provider.(*watermark.SystemFontProvider); ok {
		available := make(map[string]bool)
		for _, path := range system.AvailableFonts() {
			available[path] = true
		}
		fmt.Printf("Platform: %s\n\n", watermark.PlatformFor(runtime.GOOS))
		for _, path := range system.SystemFontPaths() {
			mark := " "
			if available[path] {
				mark = "x"
			}
			fmt.Printf("  [%s] %s\n", mark, path)
		}
		fmt.Println()
	}

	size := watermark.FontSizeForWidth(width)
	handle := provider.Resolve(size)
	defer handle.Close()

	source := handle.Path
	switch {
	case source == "" && handle.Scalable:
		source = "embedded Go Regular"
	case source == "":
		source = "built-in 7x13 bitmap"
	}
	fmt.Printf("Resolved: %s at %dpx (requested %dpx)\n", source, handle.Size, size)
	return nil
}
