package watermark

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestWatermarkPreservesDimensions(t *testing.T) {
	tests := []struct {
		name          string
		src, dst      string
		width, height int
	}{
		{"png", "in.png", "out.png", 320, 240},
		{"jpeg", "in.jpg", "out.jpg", 97, 411},
		{"png to jpeg", "in.png", "out.jpeg", 1000, 30},
		{"single pixel", "in.png", "out.png", 1, 1},
		{"gif", "in.png", "out.gif", 64, 48},
		{"webp", "in.png", "out.webp", 150, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeTestImage(t, dir, tt.src, tt.width, tt.height, color.NRGBA{R: 20, G: 40, B: 60, A: 255})
			dst := filepath.Join(dir, tt.dst)

			p, _ := newTestProcessor()
			if err := p.Watermark(src, dst, ""); err != nil {
				t.Fatalf("Watermark failed: %v", err)
			}

			img, _ := decodeTestImage(t, dst)
			if got := img.Bounds().Size(); got != image.Pt(tt.width, tt.height) {
				t.Errorf("output size = %v, want %dx%d", got, tt.width, tt.height)
			}
		})
	}
}

func TestWatermarkWritesOpaquePNG(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir, "in.png", 200, 150, color.NRGBA{R: 200, A: 60})
	dst := filepath.Join(dir, "out.png")

	p, _ := newTestProcessor()
	if err := p.Watermark(src, dst, "TRANSLUCENT"); err != nil {
		t.Fatalf("Watermark failed: %v", err)
	}

	img, _ := decodeTestImage(t, dst)
	opaque, ok := img.(interface{ Opaque() bool })
	if !ok || !opaque.Opaque() {
		t.Errorf("expected an opaque output, got %T", img)
	}
}

func TestApplyWatermarkMarksImage(t *testing.T) {
	p, _ := newTestProcessor()
	src := solidImage(320, 240, color.NRGBA{A: 255})

	out := p.ApplyWatermark(src, "")

	marked := 0
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] > 0 {
			marked++
		}
	}
	if marked == 0 {
		t.Fatal("expected watermark pixels on a black image")
	}
	if marked == len(out.Pix)/4 {
		t.Error("the hollow watermark should leave part of the image untouched")
	}
	for i := 0; i < len(src.Pix); i += 4 {
		if src.Pix[i] != 0 {
			t.Fatal("ApplyWatermark modified its input")
		}
	}
}

func TestApplyWatermarkDefaultText(t *testing.T) {
	p, _ := newTestProcessor()
	src := solidImage(160, 120, color.NRGBA{R: 90, G: 90, B: 90, A: 255})

	withDefault := p.ApplyWatermark(src, "")
	explicit := p.ApplyWatermark(src, DefaultText)
	other := p.ApplyWatermark(src, "SOMETHING ELSE")

	if !bytes.Equal(withDefault.Pix, explicit.Pix) {
		t.Error("empty text should render the configured default text")
	}
	if bytes.Equal(withDefault.Pix, other.Pix) {
		t.Error("different text should render differently")
	}
}

func TestApplyWatermarkRequestsWidthScaledFont(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{250, 24},
		{1000, 36},
		{4000, 72},
	}

	for _, tt := range tests {
		p, provider := newTestProcessor()
		p.ApplyWatermark(solidImage(tt.width, 8, color.NRGBA{A: 255}), "")

		got := provider.requested()
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("width %d requested font sizes %v, want [%d]", tt.width, got, tt.want)
		}
	}
}

func TestWatermarkRejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(src, []byte("not an image"), 0644); err != nil {
		t.Fatalf("writing source: %v", err)
	}

	p, _ := newTestProcessor()

	dst := filepath.Join(dir, "out.png")
	if err := p.Watermark(src, dst, ""); err == nil {
		t.Fatal("expected an error for a non-image source")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("destination should not exist, stat error: %v", err)
	}

	existing := filepath.Join(dir, "existing.png")
	if err := os.WriteFile(existing, []byte("previous content"), 0644); err != nil {
		t.Fatalf("writing existing destination: %v", err)
	}
	if err := p.Watermark(src, existing, ""); err == nil {
		t.Fatal("expected an error for a non-image source")
	}
	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatalf("reading destination: %v", err)
	}
	if string(data) != "previous content" {
		t.Errorf("destination was modified: %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected only the two test files, found %d entries", len(entries))
	}
}

func TestWatermarkOutputErrors(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir, "in.png", 50, 50, color.NRGBA{A: 255})

	tests := []struct {
		name string
		dst  string
	}{
		{"unsupported extension", filepath.Join(dir, "out.psd")},
		{"no extension", filepath.Join(dir, "out")},
		{"missing directory", filepath.Join(dir, "missing", "out.png")},
	}

	p, _ := newTestProcessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.Watermark(src, tt.dst, ""); err == nil {
				t.Fatal("expected an error")
			}
			if _, err := os.Stat(tt.dst); !os.IsNotExist(err) {
				t.Errorf("destination should not exist, stat error: %v", err)
			}
		})
	}
}

func TestWatermarkWebPRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir, "upload.png", 120, 80, color.NRGBA{R: 90, G: 60, B: 30, A: 255})
	dst := filepath.Join(dir, "watermarked_upload.webp")

	p, _ := newTestProcessor()
	if err := p.Watermark(src, dst, ""); err != nil {
		t.Fatalf("Watermark failed: %v", err)
	}

	got, format := decodeTestImage(t, dst)
	if format != "webp" {
		t.Fatalf("format = %s, want webp", format)
	}

	srcImg, _ := decodeTestImage(t, src)
	want := p.ApplyWatermark(srcImg, "")
	if got.Bounds() != want.Bounds() {
		t.Fatalf("bounds = %v, want %v", got.Bounds(), want.Bounds())
	}
	for y := 0; y < want.Bounds().Dy(); y++ {
		for x := 0; x < want.Bounds().Dx(); x++ {
			r, g, b, a := got.At(x, y).RGBA()
			w := want.RGBAAt(x, y)
			if r>>8 != uint32(w.R) || g>>8 != uint32(w.G) || b>>8 != uint32(w.B) || a>>8 != 0xff {
				t.Fatalf("pixel (%d,%d) = %d,%d,%d,%d, want %v", x, y, r>>8, g>>8, b>>8, a>>8, w)
			}
		}
	}
}

func TestWatermarkWithScalableFont(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir, "in.jpg", 640, 360, color.NRGBA{R: 30, G: 30, B: 30, A: 255})
	dst := filepath.Join(dir, "out.jpg")

	config := testConfig(EmbeddedFontProvider{})
	p := NewProcessor(config, quietLogger())
	if err := p.Watermark(src, dst, ""); err != nil {
		t.Fatalf("Watermark failed: %v", err)
	}

	img, format := decodeTestImage(t, dst)
	if format != "jpeg" {
		t.Errorf("format = %s, want jpeg", format)
	}
	if img.Bounds().Size() != image.Pt(640, 360) {
		t.Errorf("size = %v, want 640x360", img.Bounds().Size())
	}
}
