package watermark

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Pipeline is the boundary used by the gallery's upload handlers. Its
// methods never return errors: failures are logged and reported as a flag,
// and the caller decides whether to keep the untouched original.
type Pipeline struct {
	processor *Processor
	logger    *logrus.Logger
}

// NewPipeline validates config and creates a pipeline.
func NewPipeline(config *Config, logger *logrus.Logger) (*Pipeline, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Pipeline{
		processor: NewProcessor(config, logger),
		logger:    logger,
	}, nil
}

// Processor returns the error-reporting processor behind the pipeline.
func (p *Pipeline) Processor() *Processor {
	return p.processor
}

// AddWatermark writes a watermarked copy of sourcePath to destinationPath.
// An empty text uses the configured default.
func (p *Pipeline) AddWatermark(sourcePath, destinationPath, text string) bool {
	if err := p.processor.Watermark(sourcePath, destinationPath, text); err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"input":  sourcePath,
			"output": destinationPath,
		}).Error("Error adding watermark")
		return false
	}
	return true
}

// CreateMiniature generates a miniature of sourcePath in outputDir and
// returns its file name. ok is false when generation failed.
func (p *Pipeline) CreateMiniature(sourcePath, outputDir string, maxSize int) (filename string, ok bool) {
	name, err := p.processor.Miniature(sourcePath, outputDir, maxSize)
	if err != nil {
		p.logger.WithError(err).WithField("input", sourcePath).Error("Error creating miniature")
		return "", false
	}
	return name, true
}

// AddWatermark watermarks with the default configuration and the standard logger.
func AddWatermark(sourcePath, destinationPath, text string) bool {
	return defaultPipeline().AddWatermark(sourcePath, destinationPath, text)
}

// CreateMiniature builds a miniature with the default configuration and the standard logger.
func CreateMiniature(sourcePath, outputDir string, maxSize int) (string, bool) {
	return defaultPipeline().CreateMiniature(sourcePath, outputDir, maxSize)
}

func defaultPipeline() *Pipeline {
	logger := logrus.StandardLogger()
	return &Pipeline{
		processor: NewProcessor(DefaultConfig(logger), logger),
		logger:    logger,
	}
}
