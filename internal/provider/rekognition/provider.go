package rekognition

import (
	"context"
	"fmt"
	"math"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/frame"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/provider"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100
)

// emotionNames maps Rekognition emotion types onto analyzer labels.
// CONFUSED has no counterpart and keeps its own label; UNKNOWN is dropped.
var emotionNames = map[types.EmotionName]string{
	types.EmotionNameHappy:     "happy",
	types.EmotionNameSad:       "sad",
	types.EmotionNameAngry:     "angry",
	types.EmotionNameDisgusted: "disgust",
	types.EmotionNameFear:      "fear",
	types.EmotionNameSurprised: "surprise",
	types.EmotionNameCalm:      "neutral",
	types.EmotionNameConfused:  "confused",
}

// Provider implements provider.EmotionAnalyzer using AWS Rekognition DetectFaces
type Provider struct {
	client  *Client
	quality int
}

// Ensure Provider implements provider.EmotionAnalyzer interface at compile time
var _ provider.EmotionAnalyzer = (*Provider)(nil)

// NewProvider creates a Rekognition provider using the default AWS credential chain
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}
	return NewProviderWithClient(client), nil
}

// NewProviderWithClient creates a provider around an existing client
func NewProviderWithClient(client *Client) *Provider {
	quality := client.config.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = DefaultConfig().JPEGQuality
	}
	return &Provider{client: client, quality: quality}
}

// Name identifies the backend in health responses
func (p *Provider) Name() string {
	return "Rekognition"
}

// validateImage checks if image data is valid for Rekognition processing
func validateImage(image []byte) error {
	if len(image) == 0 {
		return ErrInvalidImage
	}
	if len(image) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(image), minImageSize)
	}
	if len(image) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(image), maxImageSize)
	}
	return nil
}

// AnalyzeEmotions detects faces with all attributes and returns one record
// per face detail. No faces yields an empty multi-face analysis.
func (p *Provider) AnalyzeEmotions(ctx context.Context, f *frame.Frame) (*provider.Analysis, error) {
	if f == nil || len(f.Pix) == 0 {
		return nil, ErrInvalidImage
	}

	image, err := f.EncodeJPEG(p.quality)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if err := validateImage(image); err != nil {
		return nil, err
	}

	details, err := p.client.DetectFaces(ctx, image)
	if err != nil {
		return nil, err
	}

	faces := make([]provider.FaceAnalysis, 0, len(details))
	for _, detail := range details {
		faces = append(faces, faceAnalysis(detail, f.Width, f.Height))
	}

	return provider.MultiFace(faces), nil
}

// faceAnalysis converts a face detail, scaling the ratio bounding box to
// frame pixels
func faceAnalysis(detail types.FaceDetail, width, height int) provider.FaceAnalysis {
	face := provider.FaceAnalysis{
		Emotion:        make(map[string]float64, len(detail.Emotions)),
		FaceConfidence: float64(aws.ToFloat32(detail.Confidence)) / 100.0,
	}

	if box := detail.BoundingBox; box != nil {
		face.Region = provider.Region{
			X: scale(aws.ToFloat32(box.Left), width),
			Y: scale(aws.ToFloat32(box.Top), height),
			W: scale(aws.ToFloat32(box.Width), width),
			H: scale(aws.ToFloat32(box.Height), height),
		}
	}

	var best float64 = -1
	for _, e := range detail.Emotions {
		label, ok := emotionNames[e.Type]
		if !ok {
			continue
		}
		score := float64(aws.ToFloat32(e.Confidence))
		face.Emotion[label] = score
		if score > best {
			best = score
			face.DominantEmotion = label
		}
	}

	return face
}

func scale(ratio float32, size int) int {
	return int(math.Round(float64(ratio) * float64(size)))
}
