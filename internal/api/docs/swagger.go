package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
)

// DetectEmotionsRequest represents one emotion detection request
type DetectEmotionsRequest struct {
	ImageBase64    string   `json:"image_base64" example:"data:image/jpeg;base64,/9j/4AAQSkZJRg..."`
	TargetEmotions []string `json:"target_emotions" example:"joy,anger,neutral"`
}

// EmotionResult represents one detected emotion
type EmotionResult struct {
	Emotion    string  `json:"emotion" example:"joy"`
	Confidence float64 `json:"confidence" example:"0.87"`
}

// DetectEmotionsResponse represents the detection result. faces_detected is 0
// when the low-confidence fallback was returned.
type DetectEmotionsResponse struct {
	Emotions      []EmotionResult `json:"emotions"`
	FacesDetected int             `json:"faces_detected" example:"1"`
}

// RootResponse represents the service identity
type RootResponse struct {
	Status  string `json:"status" example:"running"`
	Service string `json:"service" example:"Emotion Detection Service (DeepFace)"`
	Models  string `json:"models" example:"Pre-trained emotion detection models"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status            string   `json:"status" example:"healthy"`
	Backend           string   `json:"backend" example:"DeepFace"`
	SupportedEmotions []string `json:"supported_emotions" example:"anger,disgust,fear,joy,sadness,surprise,neutral"`
}

// ReadyResponse represents the readiness response
type ReadyResponse struct {
	Status string `json:"status" example:"ready"`
}

// ErrorResponse represents the error body
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger(host string) *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Emotion Detection API",
		Version:     "v1.0.0",
		Description: "Facial emotion detection over a pluggable analyzer backend (DeepFace, AWS Rekognition)",
		Host:        host,
		Path:        "/",
	})

	endpoints := []*endpoint.EndPoint{
		// GET / - Service identity
		endpoint.New(
			endpoint.GET,
			"/",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Service identity"),
			endpoint.WithDescription("Returns the service name, including the analyzer backend in use"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RootResponse{}, "200", "Service is running"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Health check"),
			endpoint.WithDescription("Returns the analyzer backend and the supported emotion vocabulary"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is healthy"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness check"),
			endpoint.WithDescription("Pings the analyzer backend when it supports it"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ReadyResponse{}, "200", "Analyzer is reachable"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "ANALYZER_UNAVAILABLE", Message: "Emotion analyzer is unavailable"}, "503", "Service Unavailable"),
			}),
		),

		// POST /detect-emotions - Single image
		endpoint.New(
			endpoint.POST,
			"/detect-emotions",
			endpoint.WithTags("Emotions"),
			endpoint.WithSummary("Detect emotions in an image"),
			endpoint.WithDescription("Analyzes the first face in a base64 image and returns the targeted emotions sorted by confidence. Analysis failures return every target with confidence 0.1 and faces_detected 0."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(DetectEmotionsRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DetectEmotionsResponse{}, "200", "Detection completed (or fallback)"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
		),

		// POST /batch-detect - Sequential batch
		endpoint.New(
			endpoint.POST,
			"/batch-detect",
			endpoint.WithTags("Emotions"),
			endpoint.WithSummary("Detect emotions in several images"),
			endpoint.WithDescription("Runs detect-emotions for each item in order. Results keep the request order."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody([]DetectEmotionsRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]DetectEmotionsResponse{}, "200", "Batch completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "BATCH_FAILED", Message: "Error in batch processing"}, "500", "Internal Server Error"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
