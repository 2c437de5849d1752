package domain

import (
	"math"
	"sort"
)

// FallbackConfidence é a confiança atribuída a cada emoção alvo quando a análise falha
const FallbackConfidence = 0.1

// labelMapping associa um rótulo do analisador ao vocabulário do serviço.
type labelMapping struct {
	analyzer string
	service  string
}

// emotionLabels is the fixed analyzer→service vocabulary table. Order matters:
// it drives both SupportedEmotions and the iteration order of SelectEmotions.
var emotionLabels = [...]labelMapping{
	{analyzer: "angry", service: "anger"},
	{analyzer: "disgust", service: "disgust"},
	{analyzer: "fear", service: "fear"},
	{analyzer: "happy", service: "joy"},
	{analyzer: "sad", service: "sadness"},
	{analyzer: "surprise", service: "surprise"},
	{analyzer: "neutral", service: "neutral"},
}

// EmotionRequest representa o payload de detecção de emoções
type EmotionRequest struct {
	ImageBase64    string   `json:"image_base64"`
	TargetEmotions []string `json:"target_emotions"`
}

// EmotionResult representa uma emoção detectada com confiança normalizada (0-1)
type EmotionResult struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// EmotionResponse representa o resultado de uma detecção
// FacesDetected == 0 indica que o fallback foi utilizado
type EmotionResponse struct {
	Emotions      []EmotionResult `json:"emotions"`
	FacesDetected int             `json:"faces_detected"`
}

// MapLabel translates an analyzer label into the service vocabulary.
// Labels missing from the table are returned unchanged.
func MapLabel(label string) string {
	for _, m := range emotionLabels {
		if m.analyzer == label {
			return m.service
		}
	}
	return label
}

// SupportedEmotions returns the service vocabulary in table order.
func SupportedEmotions() []string {
	out := make([]string, 0, len(emotionLabels))
	for _, m := range emotionLabels {
		out = append(out, m.service)
	}
	return out
}

// AnalyzerLabels returns the analyzer's canonical labels in table order.
func AnalyzerLabels() []string {
	out := make([]string, 0, len(emotionLabels))
	for _, m := range emotionLabels {
		out = append(out, m.analyzer)
	}
	return out
}

// SelectEmotions maps the raw 0-100 scores of an analyzer emotion map into the
// service vocabulary, keeps only targeted labels and sorts by confidence
// descending.
//
// Scores are visited in table order, then unknown labels alphabetically, and
// the sort is stable, so ties keep that order.
func SelectEmotions(scores map[string]float64, targets []string) []EmotionResult {
	results := make([]EmotionResult, 0, len(targets))
	if len(targets) == 0 || len(scores) == 0 {
		return results
	}

	wanted := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		wanted[t] = struct{}{}
	}

	for _, label := range orderedLabels(scores) {
		mapped := MapLabel(label)
		if _, ok := wanted[mapped]; !ok {
			continue
		}
		results = append(results, EmotionResult{
			Emotion:    mapped,
			Confidence: normalizeScore(scores[label]),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	return results
}

// FallbackResponse builds the low-confidence placeholder returned when
// analysis fails: one entry per target, in request order, zero faces.
func FallbackResponse(targets []string) *EmotionResponse {
	emotions := make([]EmotionResult, 0, len(targets))
	for _, t := range targets {
		emotions = append(emotions, EmotionResult{
			Emotion:    t,
			Confidence: FallbackConfidence,
		})
	}

	return &EmotionResponse{
		Emotions:      emotions,
		FacesDetected: 0,
	}
}

// IsFallback reports whether the response was produced by the fallback path.
func (r *EmotionResponse) IsFallback() bool {
	return r.FacesDetected == 0
}

func orderedLabels(scores map[string]float64) []string {
	labels := make([]string, 0, len(scores))
	known := make(map[string]struct{}, len(emotionLabels))

	for _, m := range emotionLabels {
		known[m.analyzer] = struct{}{}
		if _, ok := scores[m.analyzer]; ok {
			labels = append(labels, m.analyzer)
		}
	}

	var unknown []string
	for label := range scores {
		if _, ok := known[label]; !ok {
			unknown = append(unknown, label)
		}
	}
	sort.Strings(unknown)

	return append(labels, unknown...)
}

// normalizeScore converts a 0-100 analyzer score into [0,1].
func normalizeScore(raw float64) float64 {
	c := raw / 100.0
	switch {
	case math.IsNaN(c), c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}
