package watermark

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontHandle is a font face resolved for a single watermark operation.
type FontHandle struct {
	Face font.Face
	// Path is the file the face was loaded from. Empty for built-in faces.
	Path string
	// Scalable is false for the fixed-size bitmap fallback, whose rendered
	// size ignores the requested pixel size.
	Scalable bool
	Size     int
}

// Close releases the underlying face.
func (h *FontHandle) Close() error {
	if h == nil || h.Face == nil {
		return nil
	}
	return h.Face.Close()
}

// FontProvider resolves a usable font at a pixel size. Implementations never
// fail: when nothing better is available they return FallbackFont.
type FontProvider interface {
	Resolve(pixelSize int) *FontHandle
}

// FallbackFont returns the built-in 7x13 bitmap face.
func FallbackFont() *FontHandle {
	return &FontHandle{
		Face: basicfont.Face7x13,
		Size: basicfont.Face7x13.Height,
	}
}

// Platform is a host operating system family with its own font locations.
type Platform int

const (
	PlatformOther Platform = iota
	PlatformWindows
	PlatformMacOS
)

func (p Platform) String() string {
	switch p {
	case PlatformWindows:
		return "windows"
	case PlatformMacOS:
		return "macos"
	default:
		return "other"
	}
}

// PlatformFor maps a GOOS value to its font platform family.
func PlatformFor(goos string) Platform {
	switch goos {
	case "windows":
		return PlatformWindows
	case "darwin", "ios":
		return PlatformMacOS
	default:
		return PlatformOther
	}
}

// DefaultFontPaths returns the ordered list of well-known font files for goos.
func DefaultFontPaths(goos string) []string {
	switch PlatformFor(goos) {
	case PlatformWindows:
		return []string{
			`C:\Windows\Fonts\arialbd.ttf`,
			`C:\Windows\Fonts\arial.ttf`,
			`C:\Windows\Fonts\segoeui.ttf`,
			`C:\Windows\Fonts\calibri.ttf`,
		}
	case PlatformMacOS:
		return []string{
			"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
			"/System/Library/Fonts/Supplemental/Arial.ttf",
			"/Library/Fonts/Arial.ttf",
			"/System/Library/Fonts/Helvetica.ttc",
			"/System/Library/Fonts/SFNS.ttf",
		}
	default:
		return []string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
			"/usr/share/fonts/TTF/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
			"/usr/share/fonts/liberation/LiberationSans-Bold.ttf",
			"/usr/share/fonts/truetype/freefont/FreeSansBold.ttf",
			"/usr/share/fonts/TTF/arial.ttf",
		}
	}
}

// SystemFontProvider probes an ordered list of font files on the host.
// Every Resolve call re-reads the filesystem.
type SystemFontProvider struct {
	systemFontPaths []string
	logger          *logrus.Logger
}

// NewSystemFontProvider creates a provider with the font paths of the running platform
func NewSystemFontProvider(logger *logrus.Logger) *SystemFontProvider {
	if logger == nil {
		logger = logrus.New()
	}
	return &SystemFontProvider{
		systemFontPaths: DefaultFontPaths(runtime.GOOS),
		logger:          logger,
	}
}

// SetSystemFontPaths replaces the probed paths. An empty list keeps the platform defaults.
func (p *SystemFontProvider) SetSystemFontPaths(paths []string) {
	if len(paths) == 0 {
		return
	}
	p.systemFontPaths = append([]string(nil), paths...)
}

// SystemFontPaths returns the paths probed by Resolve, in order.
func (p *SystemFontProvider) SystemFontPaths() []string {
	return append([]string(nil), p.systemFontPaths...)
}

// Resolve returns the first font that exists and loads at pixelSize, or the
// bitmap fallback.
func (p *SystemFontProvider) Resolve(pixelSize int) *FontHandle {
	for _, path := range p.systemFontPaths {
		if !fileExists(path) {
			continue
		}
		face, err := loadFace(path, pixelSize)
		if err != nil {
			p.logger.WithError(err).WithField("font", path).Debug("Skipping unusable font")
			continue
		}
		return &FontHandle{Face: face, Path: path, Scalable: true, Size: pixelSize}
	}

	p.logger.WithField("font_size", pixelSize).Debug("No system font found, using built-in bitmap font")
	return FallbackFont()
}

// AvailableFonts returns the configured paths that exist on disk.
func (p *SystemFontProvider) AvailableFonts() []string {
	var available []string
	for _, path := range p.systemFontPaths {
		if fileExists(path) {
			available = append(available, path)
		}
	}
	return available
}

// EmbeddedFontProvider always resolves the embedded Go Regular font, which
// renders identically on every host.
type EmbeddedFontProvider struct{}

// Resolve implements FontProvider.
func (EmbeddedFontProvider) Resolve(pixelSize int) *FontHandle {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return FallbackFont()
	}
	face, err := newFace(f, pixelSize)
	if err != nil {
		return FallbackFont()
	}
	return &FontHandle{Face: face, Scalable: true, Size: pixelSize}
}

// loadFace loads a TrueType/OpenType file or the first font of a collection
func loadFace(path string, pixelSize int) (font.Face, error) {
	fontData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font file %s: %w", path, err)
	}

	var f *opentype.Font
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		collection, err := opentype.ParseCollection(fontData)
		if err != nil {
			return nil, fmt.Errorf("parsing font collection %s: %w", path, err)
		}
		f, err = collection.Font(0)
		if err != nil {
			return nil, fmt.Errorf("reading first font of %s: %w", path, err)
		}
	default:
		f, err = opentype.Parse(fontData)
		if err != nil {
			return nil, fmt.Errorf("parsing font file %s: %w", path, err)
		}
	}

	return newFace(f, pixelSize)
}

// newFace sizes f in pixels; at 72 DPI one point is one pixel.
func newFace(f *opentype.Font, pixelSize int) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(pixelSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face at %dpx: %w", pixelSize, err)
	}
	return face, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
