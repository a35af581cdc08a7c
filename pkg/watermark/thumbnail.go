package watermark

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

const miniatureSuffix = "_miniature"

// miniatureExt is the lossy format miniatures are stored in.
const miniatureExt = ".jpg"

// MiniatureName returns the file name of the miniature generated for path.
func MiniatureName(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + miniatureSuffix + miniatureExt
}

// MiniatureSize scales width x height so the longer side is at most maxSize,
// rounding the shorter side. Sizes already within maxSize are unchanged.
func MiniatureSize(width, height, maxSize int) (int, int) {
	if width <= maxSize && height <= maxSize {
		return width, height
	}
	if width >= height {
		return maxSize, max(int(math.Round(float64(height)*float64(maxSize)/float64(width))), 1)
	}
	return max(int(math.Round(float64(width)*float64(maxSize)/float64(height))), 1), maxSize
}

// Miniature writes a copy of inputPath whose longer side is at most maxSize
// pixels, preserving the aspect ratio. Images already within maxSize keep
// their size. An empty outputDir writes next to the source; maxSize <= 0 uses
// the configured size. It returns the generated file name.
func (p *Processor) Miniature(inputPath, outputDir string, maxSize int) (string, error) {
	if maxSize <= 0 {
		maxSize = p.config.MiniatureSize
	}
	if outputDir == "" {
		outputDir = filepath.Dir(inputPath)
	}

	img, err := decodeFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	b := img.Bounds()
	width, height := MiniatureSize(b.Dx(), b.Dy(), maxSize)
	thumb := imaging.Resize(img, width, height, imaging.Lanczos)

	name := MiniatureName(inputPath)
	if err := writeImage(thumb, filepath.Join(outputDir, name), p.config.MiniatureQuality); err != nil {
		return "", fmt.Errorf("saving miniature: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"input":  inputPath,
		"output": name,
		"size":   fmt.Sprintf("%dx%d", thumb.Bounds().Dx(), thumb.Bounds().Dy()),
	}).Debug("Miniature created")
	return name, nil
}
