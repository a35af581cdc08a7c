package watermark

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// BatchProcessor watermarks every image of a directory with a bounded pool
// of workers. Each file is handled end-to-end by one worker.
type BatchProcessor struct {
	processor  *Processor
	workers    int
	recursive  bool
	text       string
	miniatures bool
	maxSize    int
	logger     *logrus.Logger
}

// BatchOptions configures batch processing behavior
type BatchOptions struct {
	Workers   int
	Recursive bool

	// Text overrides the configured watermark text when non-empty.
	Text string

	// Miniatures also writes a miniature next to every watermarked output.
	Miniatures    bool
	MiniatureSize int

	Logger *logrus.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(config *Config, options *BatchOptions) (*BatchProcessor, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if options == nil {
		options = &BatchOptions{}
	}

	workers := options.Workers
	if workers <= 0 {
		workers = 4
	}

	logger := options.Logger
	if logger == nil {
		logger = logrus.New()
	}

	return &BatchProcessor{
		processor:  NewProcessor(config, logger),
		workers:    workers,
		recursive:  options.Recursive,
		text:       options.Text,
		miniatures: options.Miniatures,
		maxSize:    options.MiniatureSize,
		logger:     logger,
	}, nil
}

// BatchResult contains the results of batch processing
type BatchResult struct {
	TotalCount   int
	SuccessCount int
	ErrorCount   int
	Errors       []BatchError
	Miniatures   []string
}

// BatchError represents an error that occurred during batch processing
type BatchError struct {
	FilePath string
	Error    error
}

type job struct {
	inputPath  string
	outputPath string
}

type jobResult struct {
	inputPath string
	miniature string
	err       error
}

// ProcessDirectory processes all images in a directory
func (bp *BatchProcessor) ProcessDirectory(inputDir, outputDir string) (*BatchResult, error) {
	imageFiles, err := bp.findImageFiles(inputDir)
	if err != nil {
		return nil, fmt.Errorf("finding image files: %w", err)
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no image files found in %s", inputDir)
	}

	bp.logger.WithFields(logrus.Fields{
		"input_dir":  inputDir,
		"output_dir": outputDir,
		"files":      len(imageFiles),
		"workers":    bp.workers,
		"recursive":  bp.recursive,
		"miniatures": bp.miniatures,
	}).Info("Starting batch processing")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := bp.processFiles(imageFiles, inputDir, outputDir)

	bp.logger.WithFields(logrus.Fields{
		"success": result.SuccessCount,
		"errors":  result.ErrorCount,
		"total":   result.TotalCount,
	}).Info("Batch processing completed")

	return result, nil
}

func (bp *BatchProcessor) processFiles(imageFiles []string, inputDir, outputDir string) *BatchResult {
	jobs := make(chan job, len(imageFiles))
	results := make(chan jobResult, len(imageFiles))

	var wg sync.WaitGroup
	for i := 0; i < bp.workers; i++ {
		wg.Add(1)
		go bp.worker(jobs, results, &wg)
	}

	result := &BatchResult{
		TotalCount: len(imageFiles),
		Errors:     make([]BatchError, 0),
	}

	claimed := make(map[string]string)
	for _, file := range imageFiles {
		relPath, err := filepath.Rel(inputDir, file)
		if err != nil {
			relPath = filepath.Base(file)
		}
		outputPath := filepath.Join(outputDir, relPath)

		if err := bp.claimOutputs(claimed, file, outputPath); err != nil {
			results <- jobResult{inputPath: file, err: err}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			results <- jobResult{inputPath: file, err: fmt.Errorf("creating output directory: %w", err)}
			continue
		}

		jobs <- job{inputPath: file, outputPath: outputPath}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for jr := range results {
		if jr.err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, BatchError{FilePath: jr.inputPath, Error: jr.err})
			bp.logger.WithError(jr.err).WithField("file", jr.inputPath).Error("Failed to process image")
			continue
		}
		result.SuccessCount++
		if jr.miniature != "" {
			result.Miniatures = append(result.Miniatures, jr.miniature)
		}
		bp.logger.WithField("file", jr.inputPath).Debug("Successfully processed image")
	}

	return result
}

func (bp *BatchProcessor) worker(jobs <-chan job, results chan<- jobResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for j := range jobs {
		res := jobResult{inputPath: j.inputPath}
		res.err = bp.processor.Watermark(j.inputPath, j.outputPath, bp.text)
		if res.err == nil && bp.miniatures {
			name, err := bp.processor.Miniature(j.outputPath, "", bp.maxSize)
			if err != nil {
				res.err = fmt.Errorf("creating miniature: %w", err)
			} else {
				res.miniature = filepath.Join(filepath.Dir(j.outputPath), name)
			}
		}
		results <- res
	}
}

// claimOutputs records every path the job for file will write. Two sources
// may not share a destination: a.png and a.jpg both produce a_miniature.jpg.
// Files are claimed in walk order, so the first source keeps the name.
func (bp *BatchProcessor) claimOutputs(claimed map[string]string, file, outputPath string) error {
	paths := []string{outputPath}
	if bp.miniatures {
		paths = append(paths, filepath.Join(filepath.Dir(outputPath), MiniatureName(outputPath)))
	}

	for _, path := range paths {
		if owner, ok := claimed[path]; ok {
			return fmt.Errorf("output %s is already written for %s", path, owner)
		}
	}
	for _, path := range paths {
		claimed[path] = file
	}
	return nil
}

func (bp *BatchProcessor) findImageFiles(inputDir string) ([]string, error) {
	var imageFiles []string

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !bp.recursive && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.Contains(filepath.Base(path), miniatureSuffix) {
			return nil
		}
		if IsSupportedInput(path) {
			imageFiles = append(imageFiles, path)
		}
		return nil
	})

	return imageFiles, err
}
