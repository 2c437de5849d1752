package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	// Detection errors. These never reach the client from /detect-emotions,
	// which converts them into the fallback response.
	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the image",
		StatusCode: 422,
	}

	ErrMissingEmotions = &AppError{
		Code:       "MISSING_EMOTIONS",
		Message:    "Analyzer returned no emotion scores",
		StatusCode: 502,
	}

	ErrAnalyzerUnavailable = &AppError{
		Code:       "ANALYZER_UNAVAILABLE",
		Message:    "Emotion analyzer is unavailable",
		StatusCode: 503,
	}

	ErrBatchFailed = &AppError{
		Code:       "BATCH_FAILED",
		Message:    "Error in batch processing",
		StatusCode: 500,
	}
)
