package face_test

import (
	"context"
	"fmt"
	"log"

	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/config"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/face"
)

// ExampleNewEmotionAnalyzer_mock demonstrates how to create the in-process analyzer
func ExampleNewEmotionAnalyzer_mock() {
	cfg := &config.Config{
		AnalyzerBackend: "mock",
	}

	analyzer, err := face.NewEmotionAnalyzer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to create analyzer: %v", err)
	}

	fmt.Println(analyzer.Name())
	// Output: Mock
}

// ExampleNewEmotionAnalyzer_deepface demonstrates how to point the service at a DeepFace server
func ExampleNewEmotionAnalyzer_deepface() {
	cfg := &config.Config{
		AnalyzerBackend: "deepface",
		DeepFaceURL:     "http://deepface:5005",
	}

	analyzer, err := face.NewEmotionAnalyzer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to create analyzer: %v", err)
	}

	fmt.Println(analyzer.Name())
	// Output: DeepFace
}
