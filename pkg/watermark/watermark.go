// Package watermark stamps reference images with a tiled, hollow text
// watermark and builds preview miniatures for the gallery.
package watermark

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

// DefaultText is stamped when no watermark text is given.
const DefaultText = "DO NOT USE FOR AI TRAINING"

const (
	DefaultOpacity          = 128
	DefaultOutlineThickness = 2
	DefaultQuality          = 75
	DefaultMiniatureSize    = 300
	DefaultMiniatureQuality = 80
)

// Config holds the configuration for watermarking and miniatures
type Config struct {
	Text             string
	FontProvider     FontProvider
	Color            color.NRGBA // A is the outline opacity
	OutlineThickness int
	Quality          int
	MiniatureSize    int
	MiniatureQuality int
}

// DefaultConfig returns a configuration using the host's system fonts.
func DefaultConfig(logger *logrus.Logger) *Config {
	return &Config{
		Text:             DefaultText,
		FontProvider:     NewSystemFontProvider(logger),
		Color:            color.NRGBA{R: 255, G: 255, B: 255, A: DefaultOpacity},
		OutlineThickness: DefaultOutlineThickness,
		Quality:          DefaultQuality,
		MiniatureSize:    DefaultMiniatureSize,
		MiniatureQuality: DefaultMiniatureQuality,
	}
}

// Processor handles watermarking and miniature generation. It holds no
// mutable state and may be used from several goroutines.
type Processor struct {
	config *Config
	logger *logrus.Logger
}

// NewProcessor creates a new processor with the given configuration
func NewProcessor(config *Config, logger *logrus.Logger) *Processor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Processor{config: config, logger: logger}
}

// Watermark writes a watermarked copy of inputPath to outputPath, in the
// format named by outputPath's extension. An empty text uses the configured
// text. Nothing is written when any step fails.
func (p *Processor) Watermark(inputPath, outputPath, text string) error {
	if !IsSupportedOutput(outputPath) {
		return fmt.Errorf("unsupported output format: %s", outputPath)
	}

	img, err := decodeFile(inputPath)
	if err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}

	watermarked := p.ApplyWatermark(img, text)

	if err := writeImage(watermarked, outputPath, p.config.Quality); err != nil {
		return fmt.Errorf("saving image: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"input":  inputPath,
		"output": outputPath,
	}).Debug("Watermark applied")
	return nil
}

// ApplyWatermark returns an opaque copy of img covered by the tiled watermark.
func (p *Processor) ApplyWatermark(img image.Image, text string) *image.RGBA {
	if strings.TrimSpace(text) == "" {
		text = p.config.Text
	}
	if strings.TrimSpace(text) == "" {
		text = DefaultText
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	fontSize := FontSizeForWidth(width)
	handle := p.config.FontProvider.Resolve(fontSize)
	defer handle.Close()

	textWidth, textHeight := MeasureText(handle.Face, text)

	tile := image.NewNRGBA(image.Rect(0, 0, 2*textWidth, 2*textHeight))
	DrawOutlinedText(tile, handle.Face, text, image.Pt(textWidth/2, textHeight/2), p.config.Color, p.config.OutlineThickness)

	tiles := map[Rotation]*image.NRGBA{
		RotatePositive: imaging.Rotate(tile, RotatePositive.Angle(), color.Transparent),
		RotateNegative: imaging.Rotate(tile, RotateNegative.Angle(), color.Transparent),
	}

	grid := NewGrid(width, height, textWidth, textHeight)
	overlay := image.NewRGBA(image.Rect(0, 0, width, height))
	grid.Each(func(pl Placement) {
		t := tiles[pl.Rotation]
		r := t.Bounds().Sub(t.Bounds().Min).Add(image.Pt(pl.X, pl.Y))
		draw.Draw(overlay, r, t, t.Bounds().Min, draw.Over)
	})

	p.logger.WithFields(logrus.Fields{
		"font":      handle.Path,
		"font_size": fontSize,
		"scalable":  handle.Scalable,
		"text_box":  fmt.Sprintf("%dx%d", textWidth, textHeight),
		"tiles":     grid.Len(),
	}).Debug("Built watermark overlay")

	return Flatten(Composite(img, overlay))
}

// ValidateConfig validates the watermark configuration
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if config.FontProvider == nil {
		return fmt.Errorf("font provider cannot be nil")
	}

	if config.OutlineThickness < 1 || config.OutlineThickness > 10 {
		return fmt.Errorf("outline thickness must be between 1 and 10, got: %d", config.OutlineThickness)
	}

	if config.Quality < 1 || config.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got: %d", config.Quality)
	}

	if config.MiniatureQuality < 1 || config.MiniatureQuality > 100 {
		return fmt.Errorf("miniature quality must be between 1 and 100, got: %d", config.MiniatureQuality)
	}

	if config.MiniatureSize < 1 {
		return fmt.Errorf("miniature size must be positive, got: %d", config.MiniatureSize)
	}

	return nil
}
