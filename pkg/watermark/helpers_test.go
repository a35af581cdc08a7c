package watermark

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

// fakeProvider always resolves the bitmap face and records requested sizes.
type fakeProvider struct {
	mu    sync.Mutex
	sizes []int
}

func (f *fakeProvider) Resolve(pixelSize int) *FontHandle {
	f.mu.Lock()
	f.sizes = append(f.sizes, pixelSize)
	f.mu.Unlock()
	return FallbackFont()
}

func (f *fakeProvider) requested() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.sizes...)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig(provider FontProvider) *Config {
	return &Config{
		Text:             DefaultText,
		FontProvider:     provider,
		Color:            color.NRGBA{R: 255, G: 255, B: 255, A: DefaultOpacity},
		OutlineThickness: DefaultOutlineThickness,
		Quality:          DefaultQuality,
		MiniatureSize:    DefaultMiniatureSize,
		MiniatureQuality: DefaultMiniatureQuality,
	}
}

func newTestProcessor() (*Processor, *fakeProvider) {
	provider := &fakeProvider{}
	return NewProcessor(testConfig(provider), quietLogger()), provider
}

func solidImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// writeTestImage encodes a solid image at dir/name, as JPEG or PNG by extension.
func writeTestImage(t *testing.T, dir, name string, width, height int, c color.Color) string {
	t.Helper()

	var buf bytes.Buffer
	img := solidImage(width, height, c)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			t.Fatalf("encoding jpeg: %v", err)
		}
	default:
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		if err := enc.Encode(&buf, img); err != nil {
			t.Fatalf("encoding png: %v", err)
		}
	}

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating directory: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func decodeTestImage(t *testing.T, path string) (image.Image, string) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decoding %s: %v", path, err)
	}
	return img, format
}
