package deepface

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/frame"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProviderImplementsInterface verifies that Provider implements EmotionAnalyzer
func TestProviderImplementsInterface(t *testing.T) {
	var _ provider.EmotionAnalyzer = (*Provider)(nil)
	var _ provider.Pinger = (*Provider)(nil)
}

func TestNewProvider(t *testing.T) {
	p := NewProvider(DefaultConfig())

	require.NotNil(t, p)
	require.NotNil(t, p.client)
	assert.Equal(t, 90, p.quality)
	assert.Equal(t, "DeepFace", p.Name())

	config := DefaultConfig()
	config.JPEGQuality = 0
	assert.Equal(t, 90, NewProvider(config).quality, "invalid quality falls back to default")
}

func testFrame(t *testing.T) *frame.Frame {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}

	f, err := frame.FromImage(img)
	require.NoError(t, err)
	return f
}

func TestProvider_AnalyzeEmotions(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		status     int
		wantErr    bool
		wantSingle bool
		wantFaces  int
	}{
		{
			name:       "single object result",
			response:   `{"results":{"region":{"x":1,"y":2,"w":6,"h":6},"emotion":{"happy":80.5,"sad":19.5},"dominant_emotion":"happy"}}`,
			status:     http.StatusOK,
			wantSingle: true,
			wantFaces:  1,
		},
		{
			name:      "list with one face",
			response:  `{"results":[{"emotion":{"neutral":60.0,"happy":40.0}}]}`,
			status:    http.StatusOK,
			wantFaces: 1,
		},
		{
			name:      "list with two faces",
			response:  `[{"emotion":{"fear":50.0}},{"emotion":{"surprise":60.0}}]`,
			status:    http.StatusOK,
			wantFaces: 2,
		},
		{
			name:      "no faces",
			response:  `{"results":[]}`,
			status:    http.StatusOK,
			wantFaces: 0,
		},
		{
			name:     "server error",
			response: `{"error":"boom"}`,
			status:   http.StatusInternalServerError,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req AnalyzeRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

				payload := strings.TrimPrefix(req.Img, "data:image/jpeg;base64,")
				raw, err := base64.StdEncoding.DecodeString(payload)
				require.NoError(t, err)
				assert.Equal(t, []byte{0xff, 0xd8}, raw[:2], "payload must be a JPEG")

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			p := NewProvider(testConfig(server.URL))
			analysis, err := p.AnalyzeEmotions(context.Background(), testFrame(t))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, analysis)
			assert.Equal(t, tt.wantSingle, analysis.IsSingle())
			assert.Len(t, analysis.Faces(), tt.wantFaces)
		})
	}
}

func TestProvider_AnalyzeEmotions_MapsRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"region":{"x":3,"y":4,"w":5,"h":6},"face_confidence":0.9,"emotion":{"angry":10.0,"happy":90.0},"dominant_emotion":"happy"}]}`))
	}))
	defer server.Close()

	analysis, err := NewProvider(testConfig(server.URL)).AnalyzeEmotions(context.Background(), testFrame(t))
	require.NoError(t, err)

	face, count, err := analysis.Canonical()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, provider.Region{X: 3, Y: 4, W: 5, H: 6}, face.Region)
	assert.Equal(t, map[string]float64{"angry": 10.0, "happy": 90.0}, face.Emotion)
	assert.Equal(t, "happy", face.DominantEmotion)
	assert.InDelta(t, 0.9, face.FaceConfidence, 1e-9)
}

func TestProvider_AnalyzeEmotions_InvalidFrame(t *testing.T) {
	p := NewProvider(DefaultConfig())

	_, err := p.AnalyzeEmotions(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = p.AnalyzeEmotions(context.Background(), &frame.Frame{})
	assert.ErrorIs(t, err, ErrInvalidImage)
}
