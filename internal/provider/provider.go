package provider

import (
	"context"
	"errors"

	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/frame"
)

var (
	// ErrNoFaces indicates a multi-face analysis with zero records
	ErrNoFaces = errors.New("analysis contains no faces")

	// ErrMissingEmotion indicates a face record without an emotion map
	ErrMissingEmotion = errors.New("analysis record has no emotion scores")
)

// EmotionAnalyzer define a interface para provedores de análise de emoções
type EmotionAnalyzer interface {
	// Name identifica o backend (ex: "DeepFace", "Rekognition")
	Name() string

	// AnalyzeEmotions roda somente a análise de emoção sobre o frame RGB.
	// A ausência de face não deve ser tratada como erro pelo backend.
	AnalyzeEmotions(ctx context.Context, f *frame.Frame) (*Analysis, error)
}

// Pinger is implemented by analyzers that can report their own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Region is the face area reported by the analyzer, in pixels.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// FaceAnalysis is one analyzed face. Emotion is keyed by the analyzer's
// canonical labels (angry, disgust, fear, happy, sad, surprise, neutral)
// with scores on a 0-100 scale.
type FaceAnalysis struct {
	Region          Region             `json:"region"`
	Emotion         map[string]float64 `json:"emotion"`
	DominantEmotion string             `json:"dominant_emotion,omitempty"`
	FaceConfidence  float64            `json:"face_confidence,omitempty"`
}

// Analysis is the analyzer output: either a single face record or a
// sequence of records. Use Canonical to normalize it.
type Analysis struct {
	single *FaceAnalysis
	multi  []FaceAnalysis
}

// SingleFace wraps a single-record analysis.
func SingleFace(face FaceAnalysis) *Analysis {
	return &Analysis{single: &face}
}

// MultiFace wraps a multi-record analysis.
func MultiFace(faces []FaceAnalysis) *Analysis {
	if faces == nil {
		faces = []FaceAnalysis{}
	}
	return &Analysis{multi: faces}
}

// IsSingle reports whether the analyzer returned one bare record.
func (a *Analysis) IsSingle() bool {
	return a.single != nil
}

// Faces returns every record in the analysis.
func (a *Analysis) Faces() []FaceAnalysis {
	if a.single != nil {
		return []FaceAnalysis{*a.single}
	}
	return a.multi
}

// Canonical returns the first record and the total face count: 1 for a
// single record, otherwise the sequence length.
func (a *Analysis) Canonical() (FaceAnalysis, int, error) {
	if a == nil {
		return FaceAnalysis{}, 0, ErrNoFaces
	}

	var (
		face  FaceAnalysis
		count int
	)

	if a.single != nil {
		face, count = *a.single, 1
	} else {
		if len(a.multi) == 0 {
			return FaceAnalysis{}, 0, ErrNoFaces
		}
		face, count = a.multi[0], len(a.multi)
	}

	if face.Emotion == nil {
		return FaceAnalysis{}, 0, ErrMissingEmotion
	}

	return face, count, nil
}
