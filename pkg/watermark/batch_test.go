package watermark

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func setupBatchDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestImage(t, dir, "a.png", 80, 60, color.NRGBA{R: 200, A: 255})
	writeTestImage(t, dir, "b.jpg", 60, 80, color.NRGBA{G: 200, A: 255})
	writeTestImage(t, dir, filepath.Join("sub", "c.png"), 50, 50, color.NRGBA{B: 200, A: 255})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("writing notes: %v", err)
	}
	return dir
}

func newTestBatch(t *testing.T, options *BatchOptions) *BatchProcessor {
	t.Helper()
	options.Logger = quietLogger()
	bp, err := NewBatchProcessor(testConfig(&fakeProvider{}), options)
	if err != nil {
		t.Fatalf("creating batch processor: %v", err)
	}
	return bp
}

func TestBatchProcessDirectory(t *testing.T) {
	inputDir := setupBatchDir(t)
	outputDir := filepath.Join(t.TempDir(), "out")

	bp := newTestBatch(t, &BatchOptions{Workers: 2})
	result, err := bp.ProcessDirectory(inputDir, outputDir)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}

	if result.TotalCount != 2 || result.SuccessCount != 2 || result.ErrorCount != 0 {
		t.Errorf("result = %+v, want 2 total, 2 success", result)
	}
	for _, name := range []string{"a.png", "b.jpg"} {
		if _, err := os.Stat(filepath.Join(outputDir, name)); err != nil {
			t.Errorf("expected output %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outputDir, "sub", "c.png")); !os.IsNotExist(err) {
		t.Error("subdirectory should be skipped without recursion")
	}
}

func TestBatchRecursiveWithMiniatures(t *testing.T) {
	inputDir := setupBatchDir(t)
	outputDir := t.TempDir()

	bp := newTestBatch(t, &BatchOptions{Workers: 3, Recursive: true, Miniatures: true, MiniatureSize: 40})
	result, err := bp.ProcessDirectory(inputDir, outputDir)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}

	if result.SuccessCount != 3 {
		t.Fatalf("SuccessCount = %d, want 3 (errors: %+v)", result.SuccessCount, result.Errors)
	}
	if len(result.Miniatures) != 3 {
		t.Fatalf("got %d miniatures, want 3", len(result.Miniatures))
	}
	for _, path := range result.Miniatures {
		img, _ := decodeTestImage(t, path)
		b := img.Bounds()
		if max(b.Dx(), b.Dy()) != 40 {
			t.Errorf("miniature %s is %dx%d, want longer side 40", path, b.Dx(), b.Dy())
		}
	}
	if _, err := os.Stat(filepath.Join(outputDir, "sub", "c_miniature.jpg")); err != nil {
		t.Errorf("expected nested miniature: %v", err)
	}
}

func TestBatchReportsCorruptFiles(t *testing.T) {
	inputDir := setupBatchDir(t)
	corrupt := filepath.Join(inputDir, "corrupt.png")
	if err := os.WriteFile(corrupt, []byte("garbage"), 0644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	bp := newTestBatch(t, &BatchOptions{})
	result, err := bp.ProcessDirectory(inputDir, t.TempDir())
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}

	if result.TotalCount != 3 || result.SuccessCount != 2 || result.ErrorCount != 1 {
		t.Errorf("result = %+v, want 3 total, 2 success, 1 error", result)
	}
	if len(result.Errors) != 1 || result.Errors[0].FilePath != corrupt {
		t.Errorf("errors = %+v, want one for %s", result.Errors, corrupt)
	}
}

func TestBatchEmptyDirectory(t *testing.T) {
	bp := newTestBatch(t, &BatchOptions{})
	if _, err := bp.ProcessDirectory(t.TempDir(), t.TempDir()); err == nil {
		t.Error("expected an error for a directory without images")
	}
}

func TestBatchRejectsSharedDestinations(t *testing.T) {
	tests := []struct {
		name       string
		miniatures bool
		success    int
		errors     int
	}{
		{"distinct outputs", false, 2, 0},
		{"shared miniature", true, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputDir := t.TempDir()
			writeTestImage(t, inputDir, "a.png", 80, 60, color.NRGBA{R: 200, A: 255})
			writeTestImage(t, inputDir, "a.jpg", 60, 80, color.NRGBA{G: 200, A: 255})
			outputDir := t.TempDir()

			bp := newTestBatch(t, &BatchOptions{Workers: 2, Miniatures: tt.miniatures, MiniatureSize: 40})
			result, err := bp.ProcessDirectory(inputDir, outputDir)
			if err != nil {
				t.Fatalf("ProcessDirectory failed: %v", err)
			}

			if result.SuccessCount != tt.success || result.ErrorCount != tt.errors {
				t.Fatalf("result = %+v, want %d success, %d errors", result, tt.success, tt.errors)
			}
			if !tt.miniatures {
				return
			}

			if len(result.Errors) != 1 || result.Errors[0].FilePath != filepath.Join(inputDir, "a.png") {
				t.Errorf("errors = %+v, want one for a.png", result.Errors)
			}
			if len(result.Miniatures) != 1 {
				t.Fatalf("miniatures = %v, want one", result.Miniatures)
			}

			img, _ := decodeTestImage(t, result.Miniatures[0])
			if got := img.Bounds().Size(); got != image.Pt(30, 40) {
				t.Errorf("miniature size = %v, want 30x40 from a.jpg", got)
			}
			if _, err := os.Stat(filepath.Join(outputDir, "a.png")); !os.IsNotExist(err) {
				t.Error("a.png should not be written when its miniature collides")
			}
		})
	}
}
