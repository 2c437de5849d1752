package face

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/config"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/provider"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/provider/rekognition"
)

// ProviderType defines supported emotion analyzer backends
type ProviderType string

const (
	// ProviderTypeDeepFace is the DeepFace REST server (default)
	ProviderTypeDeepFace ProviderType = config.BackendDeepFace
	// ProviderTypeRekognition is the AWS Rekognition provider (cloud)
	ProviderTypeRekognition ProviderType = config.BackendRekognition
	// ProviderTypeMock is the deterministic in-process analyzer
	ProviderTypeMock ProviderType = config.BackendMock
)

// NewEmotionAnalyzer creates an EmotionAnalyzer based on configuration
//
// Environment variables:
//   - ANALYZER_BACKEND: "deepface", "rekognition" or "mock" (default: "deepface")
//   - DEEPFACE_URL, DEEPFACE_DETECTOR, DEEPFACE_TIMEOUT, DEEPFACE_RETRY_COUNT
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: via AWS SDK credential chain
func NewEmotionAnalyzer(ctx context.Context, cfg *config.Config) (provider.EmotionAnalyzer, error) {
	switch ProviderType(cfg.AnalyzerBackend) {
	case ProviderTypeRekognition:
		return createRekognitionProvider(ctx, cfg)

	case ProviderTypeMock:
		return mock.New(), nil

	case ProviderTypeDeepFace, "":
		return createDeepFaceProvider(cfg), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.AnalyzerBackend, ProviderTypeDeepFace, ProviderTypeRekognition, ProviderTypeMock)
	}
}

// createRekognitionProvider creates an AWS Rekognition provider instance
func createRekognitionProvider(ctx context.Context, cfg *config.Config) (provider.EmotionAnalyzer, error) {
	rekogConfig := rekognition.Config{
		Region:      cfg.AWSRegion,
		JPEGQuality: cfg.JPEGQuality,
	}

	prov, err := rekognition.NewProvider(ctx, rekogConfig)
	if err != nil {
		return nil, fmt.Errorf("create rekognition provider: %w", err)
	}

	return prov, nil
}

// createDeepFaceProvider creates a DeepFace provider instance, keeping
// client defaults for anything left unset
func createDeepFaceProvider(cfg *config.Config) provider.EmotionAnalyzer {
	deepfaceConfig := deepface.DefaultConfig()

	if cfg.DeepFaceURL != "" {
		deepfaceConfig.BaseURL = cfg.DeepFaceURL
	}
	if cfg.DeepFaceDetector != "" {
		deepfaceConfig.Detector = cfg.DeepFaceDetector
	}
	if cfg.DeepFaceTimeout > 0 {
		deepfaceConfig.Timeout = cfg.DeepFaceTimeout
	}
	if cfg.DeepFaceRetryCount >= 0 {
		deepfaceConfig.RetryCount = cfg.DeepFaceRetryCount
	}
	if cfg.JPEGQuality > 0 {
		deepfaceConfig.JPEGQuality = cfg.JPEGQuality
	}

	return deepface.NewProvider(deepfaceConfig)
}
