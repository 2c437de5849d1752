package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Supported values of ANALYZER_BACKEND
const (
	BackendDeepFace    = "deepface"
	BackendRekognition = "rekognition"
	BackendMock        = "mock"
)

type Config struct {
	// Server
	Port           int           `envconfig:"PORT" default:"8000"`
	Environment    string        `envconfig:"ENV" default:"development"`
	LogLevel       string        `envconfig:"LOG_LEVEL"`
	BodyLimitMB    int           `envconfig:"BODY_LIMIT_MB" default:"32"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"120s"`

	// Analyzer
	AnalyzerBackend    string        `envconfig:"ANALYZER_BACKEND" default:"deepface"`
	DeepFaceURL        string        `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`
	DeepFaceDetector   string        `envconfig:"DEEPFACE_DETECTOR" default:"opencv"`
	DeepFaceTimeout    time.Duration `envconfig:"DEEPFACE_TIMEOUT" default:"30s"`
	DeepFaceRetryCount int           `envconfig:"DEEPFACE_RETRY_COUNT" default:"2"`
	AWSRegion          string        `envconfig:"AWS_REGION" default:"us-east-1"`

	// Image
	ImageAutoOrient   bool `envconfig:"IMAGE_AUTO_ORIENT" default:"true"`
	ImageMaxDimension int  `envconfig:"IMAGE_MAX_DIMENSION" default:"0"`
	ImageMaxPixels    int  `envconfig:"IMAGE_MAX_PIXELS" default:"40000000"`
	JPEGQuality       int  `envconfig:"JPEG_QUALITY" default:"90"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot constrain by itself
func (c *Config) Validate() error {
	switch c.AnalyzerBackend {
	case BackendDeepFace, BackendRekognition, BackendMock:
	default:
		return fmt.Errorf("unknown ANALYZER_BACKEND %q (supported: %s, %s, %s)",
			c.AnalyzerBackend, BackendDeepFace, BackendRekognition, BackendMock)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.ImageMaxDimension < 0 {
		return fmt.Errorf("IMAGE_MAX_DIMENSION must not be negative, got %d", c.ImageMaxDimension)
	}
	if c.ImageMaxPixels < 0 {
		return fmt.Errorf("IMAGE_MAX_PIXELS must not be negative, got %d", c.ImageMaxPixels)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout)
	}
	if c.DeepFaceRetryCount < 0 {
		return fmt.Errorf("DEEPFACE_RETRY_COUNT must not be negative, got %d", c.DeepFaceRetryCount)
	}
	if c.BodyLimitMB <= 0 {
		return fmt.Errorf("BODY_LIMIT_MB must be positive, got %d", c.BodyLimitMB)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// BodyLimit returns the request body limit in bytes
func (c *Config) BodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}
