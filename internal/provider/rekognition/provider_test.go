package rekognition

import (
	"context"
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/frame"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/provider"
)

// TestProviderImplementsInterface verifies that Provider implements EmotionAnalyzer
func TestProviderImplementsInterface(t *testing.T) {
	var _ provider.EmotionAnalyzer = (*Provider)(nil)
}

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, 90, cfg.JPEGQuality)
}

func ptr[T any](v T) *T {
	return &v
}

// testFrame builds a 40x20 frame with enough detail to encode above minImageSize
func testFrame(t *testing.T) *frame.Frame {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 12), B: uint8((x * y) % 255), A: 255})
		}
	}

	f, err := frame.FromImage(img)
	require.NoError(t, err)
	return f
}

func newTestProvider(api DetectFacesAPI) *Provider {
	return NewProviderWithClient(NewClientWithAPI(api, DefaultConfig()))
}

// TestAnalyzeEmotions_Success verifies emotion mapping for a single face
func TestAnalyzeEmotions_Success(t *testing.T) {
	mock := &mockRekognitionAPI{
		detectFacesFunc: func(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
			assert.Equal(t, []types.Attribute{types.AttributeAll}, params.Attributes)
			assert.Equal(t, []byte{0xff, 0xd8}, params.Image.Bytes[:2])

			return &rekognition.DetectFacesOutput{
				FaceDetails: []types.FaceDetail{
					{
						BoundingBox: &types.BoundingBox{
							Left:   ptr(float32(0.25)),
							Top:    ptr(float32(0.5)),
							Width:  ptr(float32(0.5)),
							Height: ptr(float32(0.25)),
						},
						Confidence: ptr(float32(99.5)),
						Emotions: []types.Emotion{
							{Type: types.EmotionNameHappy, Confidence: ptr(float32(90.0))},
							{Type: types.EmotionNameAngry, Confidence: ptr(float32(5.0))},
							{Type: types.EmotionNameCalm, Confidence: ptr(float32(5.0))},
							{Type: types.EmotionNameUnknown, Confidence: ptr(float32(1.0))},
						},
					},
				},
			}, nil
		},
	}

	analysis, err := newTestProvider(mock).AnalyzeEmotions(context.Background(), testFrame(t))
	require.NoError(t, err)
	assert.False(t, analysis.IsSingle())

	face, count, err := analysis.Canonical()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, map[string]float64{"happy": 90.0, "angry": 5.0, "neutral": 5.0}, face.Emotion)
	assert.Equal(t, "happy", face.DominantEmotion)
	assert.Equal(t, provider.Region{X: 10, Y: 10, W: 20, H: 5}, face.Region)
	assert.InDelta(t, 0.995, face.FaceConfidence, 0.001)
}

// TestAnalyzeEmotions_NoFaces verifies that zero faces is not an error
func TestAnalyzeEmotions_NoFaces(t *testing.T) {
	mock := &mockRekognitionAPI{}

	analysis, err := newTestProvider(mock).AnalyzeEmotions(context.Background(), testFrame(t))

	require.NoError(t, err)
	assert.Empty(t, analysis.Faces())

	_, _, err = analysis.Canonical()
	assert.ErrorIs(t, err, provider.ErrNoFaces)
}

// TestAnalyzeEmotions_MultipleFaces verifies that every face detail is kept
func TestAnalyzeEmotions_MultipleFaces(t *testing.T) {
	mock := &mockRekognitionAPI{
		detectFacesFunc: func(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
			return &rekognition.DetectFacesOutput{
				FaceDetails: []types.FaceDetail{
					{Emotions: []types.Emotion{{Type: types.EmotionNameSad, Confidence: ptr(float32(80.0))}}},
					{Emotions: []types.Emotion{{Type: types.EmotionNameFear, Confidence: ptr(float32(70.0))}}},
					{Emotions: []types.Emotion{{Type: types.EmotionNameConfused, Confidence: ptr(float32(60.0))}}},
				},
			}, nil
		},
	}

	analysis, err := newTestProvider(mock).AnalyzeEmotions(context.Background(), testFrame(t))
	require.NoError(t, err)

	faces := analysis.Faces()
	require.Len(t, faces, 3)
	assert.Equal(t, "sad", faces[0].DominantEmotion)
	assert.Equal(t, "fear", faces[1].DominantEmotion)
	assert.Equal(t, map[string]float64{"confused": 60.0}, faces[2].Emotion)
}

func TestEmotionNames(t *testing.T) {
	tests := []struct {
		name types.EmotionName
		want string
	}{
		{types.EmotionNameHappy, "happy"},
		{types.EmotionNameSad, "sad"},
		{types.EmotionNameAngry, "angry"},
		{types.EmotionNameDisgusted, "disgust"},
		{types.EmotionNameFear, "fear"},
		{types.EmotionNameSurprised, "surprise"},
		{types.EmotionNameCalm, "neutral"},
		{types.EmotionNameConfused, "confused"},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			assert.Equal(t, tt.want, emotionNames[tt.name])
		})
	}

	_, ok := emotionNames[types.EmotionNameUnknown]
	assert.False(t, ok)
}

// TestAnalyzeEmotions_Error verifies API error classification
func TestAnalyzeEmotions_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name:    "access denied",
			err:     &smithy.GenericAPIError{Code: errCodeAccessDenied, Message: "denied"},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "unrecognized client",
			err:     &smithy.GenericAPIError{Code: errCodeUnrecognizedClient, Message: "bad token"},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "invalid image format",
			err:     &smithy.GenericAPIError{Code: errCodeInvalidImageFormat, Message: "bad format"},
			wantErr: ErrInvalidImage,
		},
		{
			name:    "throttling",
			err:     &smithy.GenericAPIError{Code: errCodeThrottling, Message: "slow down"},
			wantErr: ErrThrottled,
		},
		{
			name:    "unclassified",
			err:     assert.AnError,
			wantErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockRekognitionAPI{
				detectFacesFunc: func(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
					return nil, tt.err
				},
			}

			analysis, err := newTestProvider(mock).AnalyzeEmotions(context.Background(), testFrame(t))

			require.Error(t, err)
			assert.Nil(t, analysis)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseAPIError_Nil(t *testing.T) {
	assert.NoError(t, ParseAPIError(nil))
}

func TestAnalyzeEmotions_InvalidFrame(t *testing.T) {
	mock := &mockRekognitionAPI{}
	p := newTestProvider(mock)

	_, err := p.AnalyzeEmotions(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = p.AnalyzeEmotions(context.Background(), &frame.Frame{})
	assert.ErrorIs(t, err, ErrInvalidImage)

	assert.Zero(t, mock.calls, "API must not be called for invalid frames")
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
		msg     string
	}{
		{name: "empty", size: 0, wantErr: true},
		{name: "too small", size: 50, wantErr: true, msg: "too small"},
		{name: "minimum", size: minImageSize},
		{name: "maximum", size: maxImageSize},
		{name: "too large", size: maxImageSize + 1, wantErr: true, msg: "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateImage(make([]byte, tt.size))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidImage)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Rekognition", newTestProvider(&mockRekognitionAPI{}).Name())
}

// skipIfNoAWSCredentials skips the test if AWS credentials are not configured
func skipIfNoAWSCredentials(t *testing.T) {
	t.Helper()

	if os.Getenv("AWS_ACCESS_KEY_ID") == "" {
		t.Skip("Skipping integration test: AWS_ACCESS_KEY_ID not set")
	}
}

// TestIntegration_AnalyzeEmotions runs DetectFaces against AWS with a faceless frame
func TestIntegration_AnalyzeEmotions(t *testing.T) {
	skipIfNoAWSCredentials(t)

	ctx := context.Background()
	p, err := NewProvider(ctx, DefaultConfig())
	require.NoError(t, err)

	analysis, err := p.AnalyzeEmotions(ctx, testFrame(t))
	require.NoError(t, err)
	assert.Empty(t, analysis.Faces())
}
