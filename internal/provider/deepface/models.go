package deepface

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AnalyzeRequest for POST /analyze
type AnalyzeRequest struct {
	Img              string   `json:"img"`     // data URL: data:image/jpeg;base64,...
	Actions          []string `json:"actions"` // ["emotion"]
	EnforceDetection bool     `json:"enforce_detection"`
	DetectorBackend  string   `json:"detector_backend"` // "opencv", "retinaface", "mtcnn", etc
}

// AnalyzeResponse from POST /analyze.
//
// Depending on the DeepFace version the payload is {"results": [...]},
// {"results": {...}}, a bare list or a bare object. Single is set when the
// analysis came back as one object rather than a list.
type AnalyzeResponse struct {
	Results []AnalyzeResult
	Single  bool
}

type AnalyzeResult struct {
	Region          FacialArea         `json:"region"`
	FaceConfidence  float64            `json:"face_confidence"`
	Emotion         map[string]float64 `json:"emotion"`
	DominantEmotion string             `json:"dominant_emotion"`
}

type FacialArea struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// UnmarshalJSON accepts every result shape DeepFace servers emit.
func (r *AnalyzeResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty analyze response")
	}

	switch trimmed[0] {
	case '[':
		var list []AnalyzeResult
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		r.Results, r.Single = list, false
		return nil

	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return err
		}

		raw, ok := envelope["results"]
		if !ok {
			var one AnalyzeResult
			if err := json.Unmarshal(trimmed, &one); err != nil {
				return err
			}
			r.Results, r.Single = []AnalyzeResult{one}, true
			return nil
		}

		var nested AnalyzeResponse
		if err := json.Unmarshal(raw, &nested); err != nil {
			return fmt.Errorf("results: %w", err)
		}
		*r = nested
		return nil

	default:
		if bytes.Equal(trimmed, []byte("null")) {
			return nil
		}
		return fmt.Errorf("unexpected analyze response token %q", trimmed[0])
	}
}

// errorResponse is the body DeepFace returns alongside 4xx/5xx statuses.
type errorResponse struct {
	Error string `json:"error"`
}
