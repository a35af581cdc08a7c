// Package config provides configuration management for the gallery watermark tool
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/denysvitali/refgallery-watermark/pkg/watermark"
)

// Font sources accepted by font_source.
const (
	FontSourceSystem   = "system"
	FontSourceEmbedded = "embedded"
)

// AppConfig represents the application configuration
type AppConfig struct {
	WatermarkText    string `mapstructure:"watermark_text"`
	Opacity          uint8  `mapstructure:"opacity"`
	OutlineThickness int    `mapstructure:"outline_thickness"`
	Quality          int    `mapstructure:"quality"`
	ThumbnailMaxSize int    `mapstructure:"thumbnail_max_size"`
	ThumbnailQuality int    `mapstructure:"thumbnail_quality"`
	FontSource       string `mapstructure:"font_source"`
	LogLevel         string `mapstructure:"log_level"`

	// Watermark color
	WatermarkColor struct {
		R uint8 `mapstructure:"r"`
		G uint8 `mapstructure:"g"`
		B uint8 `mapstructure:"b"`
	} `mapstructure:"watermark_color"`

	// System font paths; empty means the running platform's defaults
	SystemFontPaths []string `mapstructure:"system_font_paths"`

	// Batch processing
	DefaultWorkers int `mapstructure:"default_workers"`
}

// Manager handles configuration loading and management
type Manager struct {
	config *AppConfig
	viper  *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	v := viper.New()
	setDefaults(v)

	return &Manager{
		config: &AppConfig{},
		viper:  v,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("watermark_text", watermark.DefaultText)
	v.SetDefault("opacity", watermark.DefaultOpacity)
	v.SetDefault("outline_thickness", watermark.DefaultOutlineThickness)
	v.SetDefault("quality", watermark.DefaultQuality)
	v.SetDefault("thumbnail_max_size", watermark.DefaultMiniatureSize)
	v.SetDefault("thumbnail_quality", watermark.DefaultMiniatureQuality)
	v.SetDefault("font_source", FontSourceSystem)
	v.SetDefault("log_level", "info")
	v.SetDefault("default_workers", 4)

	// Default watermark color (white)
	v.SetDefault("watermark_color.r", 255)
	v.SetDefault("watermark_color.g", 255)
	v.SetDefault("watermark_color.b", 255)

	v.SetDefault("system_font_paths", []string{})
}

// LoadConfig loads configuration from file and environment
func (m *Manager) LoadConfig(configFile string) error {
	if configFile != "" {
		m.viper.SetConfigFile(configFile)
	} else {
		m.viper.SetConfigName("refgallery-watermark")
		m.viper.SetConfigType("yaml")
		m.viper.AddConfigPath(".")
		m.viper.AddConfigPath("$HOME/.config/refgallery-watermark")
		m.viper.AddConfigPath("/etc/refgallery-watermark")
	}

	m.viper.SetEnvPrefix("WATERMARK")
	m.viper.AutomaticEnv()

	if err := m.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	return m.unmarshal()
}

func (m *Manager) unmarshal() error {
	if err := m.viper.Unmarshal(m.config); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}
	return nil
}

// GetAppConfig returns the loaded application configuration
func (m *Manager) GetAppConfig() *AppConfig {
	return m.config
}

// Viper exposes the underlying viper instance for flag binding.
func (m *Manager) Viper() *viper.Viper {
	return m.viper
}

// NewFontProvider builds the font provider selected by font_source.
func (m *Manager) NewFontProvider(logger *logrus.Logger) (watermark.FontProvider, error) {
	switch source := m.viper.GetString("font_source"); source {
	case FontSourceSystem, "":
		provider := watermark.NewSystemFontProvider(logger)
		provider.SetSystemFontPaths(m.viper.GetStringSlice("system_font_paths"))
		return provider, nil
	case FontSourceEmbedded:
		return watermark.EmbeddedFontProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown font source %q (expected %s or %s)", source, FontSourceSystem, FontSourceEmbedded)
	}
}

// CreateWatermarkConfig creates a watermark configuration from app config and overrides
func (m *Manager) CreateWatermarkConfig(overrides map[string]interface{}, logger *logrus.Logger) (*watermark.Config, error) {
	for key, value := range overrides {
		m.viper.Set(key, value)
	}

	provider, err := m.NewFontProvider(logger)
	if err != nil {
		return nil, fmt.Errorf("creating font provider: %w", err)
	}

	config := &watermark.Config{
		Text:         m.viper.GetString("watermark_text"),
		FontProvider: provider,
		Color: color.NRGBA{
			R: uint8(m.viper.GetInt("watermark_color.r")),
			G: uint8(m.viper.GetInt("watermark_color.g")),
			B: uint8(m.viper.GetInt("watermark_color.b")),
			A: uint8(m.viper.GetInt("opacity")),
		},
		OutlineThickness: m.viper.GetInt("outline_thickness"),
		Quality:          m.viper.GetInt("quality"),
		MiniatureSize:    m.viper.GetInt("thumbnail_max_size"),
		MiniatureQuality: m.viper.GetInt("thumbnail_quality"),
	}

	if err := watermark.ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, m.unmarshal()
}

// SaveConfig saves the current configuration to a file
func (m *Manager) SaveConfig(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return m.viper.WriteConfigAs(filename)
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./refgallery-watermark.yaml"
	}
	return filepath.Join(homeDir, ".config", "refgallery-watermark", "config.yaml")
}

// GenerateExampleConfig creates an example configuration file
func GenerateExampleConfig(filename string) error {
	manager := NewManager()

	manager.viper.Set("opacity", 110)
	manager.viper.Set("outline_thickness", 2)
	manager.viper.Set("quality", 90)
	manager.viper.Set("font_source", FontSourceEmbedded)

	return manager.SaveConfig(filename)
}
