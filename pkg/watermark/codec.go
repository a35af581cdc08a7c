package watermark

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const webpExt = ".webp"

// SupportedInputExts lists the extensions decodeFile understands.
var SupportedInputExts = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// IsSupportedInput reports whether path has a decodable image extension.
func IsSupportedInput(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedInputExts {
		if ext == supported {
			return true
		}
	}
	return false
}

// IsSupportedOutput reports whether an image can be written to path.
func IsSupportedOutput(path string) bool {
	_, err := encoderFor(path, 0)
	return err == nil
}

type encodeFunc func(w io.Writer, img image.Image) error

// encoderFor picks the encoder named by the extension of path. WebP is
// written lossless; quality only applies to JPEG.
func encoderFor(path string, quality int) (encodeFunc, error) {
	if strings.ToLower(filepath.Ext(path)) == webpExt {
		return func(w io.Writer, img image.Image) error {
			if err := nativewebp.Encode(w, img, nil); err != nil {
				return fmt.Errorf("encoding webp: %w", err)
			}
			return nil
		}, nil
	}

	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return nil, err
	}
	return func(w io.Writer, img image.Image) error {
		if err := imaging.Encode(w, img, format, imaging.JPEGQuality(quality)); err != nil {
			return fmt.Errorf("encoding %s: %w", format, err)
		}
		return nil
	}, nil
}

func decodeFile(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image %s", path)
	}
	return img, nil
}

// writeImage encodes img in the format named by the extension of path. The
// data goes to a temporary file in the same directory first, so path is
// either fully written or left as it was.
func writeImage(img image.Image, path string, quality int) error {
	encode, err := encoderFor(path, quality)
	if err != nil {
		return fmt.Errorf("unsupported output format %q: %w", filepath.Ext(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := encode(tmp, img); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("moving output into place: %w", err)
	}
	return nil
}
