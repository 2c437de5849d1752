package deepface

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/frame"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/provider"
)

// Provider implements provider.EmotionAnalyzer using DeepFace API
type Provider struct {
	client  *Client
	quality int
}

// NewProvider creates a new DeepFace provider
func NewProvider(config Config) *Provider {
	quality := config.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = DefaultConfig().JPEGQuality
	}

	return &Provider{
		client:  NewClient(config),
		quality: quality,
	}
}

// Name identifies the backend in health responses
func (p *Provider) Name() string {
	return "DeepFace"
}

// AnalyzeEmotions sends the frame to DeepFace as a JPEG and converts the
// result into a provider.Analysis, keeping the single/multi distinction.
func (p *Provider) AnalyzeEmotions(ctx context.Context, f *frame.Frame) (*provider.Analysis, error) {
	if f == nil || len(f.Pix) == 0 {
		return nil, ErrInvalidImage
	}

	encoded, err := f.EncodeJPEG(p.quality)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	resp, err := p.client.Analyze(ctx, base64.StdEncoding.EncodeToString(encoded))
	if err != nil {
		return nil, fmt.Errorf("analyze emotions: %w", err)
	}

	faces := make([]provider.FaceAnalysis, 0, len(resp.Results))
	for _, result := range resp.Results {
		faces = append(faces, provider.FaceAnalysis{
			Region: provider.Region{
				X: result.Region.X,
				Y: result.Region.Y,
				W: result.Region.W,
				H: result.Region.H,
			},
			Emotion:         result.Emotion,
			DominantEmotion: result.DominantEmotion,
			FaceConfidence:  result.FaceConfidence,
		})
	}

	if resp.Single && len(faces) == 1 {
		return provider.SingleFace(faces[0]), nil
	}
	return provider.MultiFace(faces), nil
}

// Ping checks that the DeepFace server answers
func (p *Provider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Ensure Provider implements the analyzer contracts
var (
	_ provider.EmotionAnalyzer = (*Provider)(nil)
	_ provider.Pinger          = (*Provider)(nil)
)
