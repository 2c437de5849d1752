package mock

import (
	"context"
	"crypto/sha256"

	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/domain"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/frame"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/provider"
)

// Provider implementa provider.EmotionAnalyzer para testes e desenvolvimento
type Provider struct{}

// New cria uma nova instância do MockProvider
func New() *Provider {
	return &Provider{}
}

// Name identifica o backend
func (p *Provider) Name() string {
	return "Mock"
}

// AnalyzeEmotions gera scores determinísticos baseados no hash dos pixels.
// Sempre reporta uma única face cobrindo o centro do frame.
func (p *Provider) AnalyzeEmotions(ctx context.Context, f *frame.Frame) (*provider.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f == nil || len(f.Pix) == 0 {
		return nil, domain.ErrInvalidImage
	}

	scores, dominant := generateScores(f.Pix)

	return provider.SingleFace(provider.FaceAnalysis{
		Region: provider.Region{
			X: f.Width / 10,
			Y: f.Height / 10,
			W: f.Width * 8 / 10,
			H: f.Height * 8 / 10,
		},
		Emotion:         scores,
		DominantEmotion: dominant,
		FaceConfidence:  0.99,
	}), nil
}

// Ping always succeeds
func (p *Provider) Ping(ctx context.Context) error {
	return ctx.Err()
}

// generateScores distribui 100 pontos entre os rótulos do analisador
// conforme os bytes do hash SHA-256 da imagem
func generateScores(pix []byte) (map[string]float64, string) {
	hash := sha256.Sum256(pix)
	labels := domain.AnalyzerLabels()

	weights := make([]float64, len(labels))
	var total float64
	for i := range labels {
		weights[i] = float64(hash[i]) + 1
		total += weights[i]
	}

	scores := make(map[string]float64, len(labels))
	dominant, best := "", -1.0
	for i, label := range labels {
		score := weights[i] / total * 100
		scores[label] = score
		if score > best {
			dominant, best = label, score
		}
	}

	return scores, dominant
}

var (
	_ provider.EmotionAnalyzer = (*Provider)(nil)
	_ provider.Pinger          = (*Provider)(nil)
)
