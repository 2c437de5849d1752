package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/audit"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/domain"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/frame"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/metrics"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/provider"
)

type EmotionService struct {
	analyzer    provider.EmotionAnalyzer
	decoder     *frame.Decoder
	logger      *slog.Logger
	metrics     *metrics.EmotionMetrics
	auditLogger audit.Logger
}

func NewEmotionService(analyzer provider.EmotionAnalyzer, decoder *frame.Decoder, logger *slog.Logger) *EmotionService {
	if decoder == nil {
		decoder = frame.NewDecoder(frame.DefaultOptions())
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &EmotionService{
		analyzer:    analyzer,
		decoder:     decoder,
		logger:      logger,
		auditLogger: &audit.NoOpLogger{},
	}
}

func (s *EmotionService) WithMetrics(m *metrics.EmotionMetrics) *EmotionService {
	s.metrics = m
	return s
}

func (s *EmotionService) WithAuditLogger(l audit.Logger) *EmotionService {
	if l == nil {
		l = &audit.NoOpLogger{}
	}
	s.auditLogger = l
	return s
}

// Analyzer returns the backend the service delegates to
func (s *EmotionService) Analyzer() provider.EmotionAnalyzer {
	return s.analyzer
}

// DetectEmotions never fails: any error or panic while decoding or analyzing
// is logged and turned into the fallback response.
func (s *EmotionService) DetectEmotions(ctx context.Context, req domain.EmotionRequest) *domain.EmotionResponse {
	name := s.analyzer.Name()

	resp, reason, err := s.detect(ctx, req)
	if err != nil {
		s.logger.WarnContext(ctx, "emotion detection failed, returning fallback",
			slog.String("provider", name),
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
		s.metrics.RecordFallback(name, reason)
		_ = s.auditLogger.Log(ctx, audit.Event{
			EventType: audit.EventEmotionsFallback,
			Provider:  name,
			Success:   false,
			Error:     err.Error(),
			Metadata: map[string]string{
				"reason":  reason,
				"targets": strconv.Itoa(len(req.TargetEmotions)),
			},
		})
		return domain.FallbackResponse(req.TargetEmotions)
	}

	s.metrics.RecordDetection(name, resp.FacesDetected)
	_ = s.auditLogger.Log(ctx, audit.Event{
		EventType:     audit.EventEmotionsDetected,
		Provider:      name,
		Success:       true,
		FacesDetected: resp.FacesDetected,
		Metadata: map[string]string{
			"targets":  strconv.Itoa(len(req.TargetEmotions)),
			"returned": strconv.Itoa(len(resp.Emotions)),
		},
	})

	return resp
}

// detect is the recoverable boundary around one request. reason classifies
// err for metrics.
func (s *EmotionService) detect(ctx context.Context, req domain.EmotionRequest) (resp *domain.EmotionResponse, reason string, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, reason, err = nil, metrics.ReasonPanic, fmt.Errorf("analyzer panic: %v", r)
		}
	}()

	f, err := s.decoder.DecodeBase64(req.ImageBase64)
	if err != nil {
		return nil, metrics.ReasonDecode, domain.ErrInvalidImage.WithError(err)
	}

	start := time.Now()
	analysis, err := s.analyzer.AnalyzeEmotions(ctx, f)
	s.metrics.ObserveAnalyzer(s.analyzer.Name(), time.Since(start))
	if err != nil {
		return nil, metrics.ReasonAnalyzer, fmt.Errorf("analyze emotions: %w", err)
	}

	face, faces, err := analysis.Canonical()
	if err != nil {
		if errors.Is(err, provider.ErrNoFaces) {
			return nil, metrics.ReasonNoFace, domain.ErrNoFaceDetected.WithError(err)
		}
		return nil, metrics.ReasonMissing, domain.ErrMissingEmotions.WithError(err)
	}

	return &domain.EmotionResponse{
		Emotions:      domain.SelectEmotions(face.Emotion, req.TargetEmotions),
		FacesDetected: faces,
	}, "", nil
}

// BatchDetect runs DetectEmotions sequentially, preserving order. The batch
// aborts without partial results when ctx ends between items or when an item
// panics outside the per-item boundary.
func (s *EmotionService) BatchDetect(ctx context.Context, reqs []domain.EmotionRequest) ([]domain.EmotionResponse, error) {
	results, err := s.batchDetect(ctx, reqs)
	s.metrics.RecordBatch(len(reqs), err)

	event := audit.Event{
		EventType: audit.EventBatchProcessed,
		Provider:  s.analyzer.Name(),
		Success:   err == nil,
		Metadata:  map[string]string{"items": strconv.Itoa(len(reqs))},
	}
	if err != nil {
		event.EventType = audit.EventBatchFailed
		event.Error = err.Error()
		s.logger.ErrorContext(ctx, "batch processing failed",
			slog.Int("items", len(reqs)),
			slog.String("error", err.Error()),
		)
	}
	_ = s.auditLogger.Log(ctx, event)

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *EmotionService) batchDetect(ctx context.Context, reqs []domain.EmotionRequest) ([]domain.EmotionResponse, error) {
	results := make([]domain.EmotionResponse, 0, len(reqs))

	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}

		resp, err := s.detectItem(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}
		results = append(results, *resp)
	}

	return results, nil
}

func (s *EmotionService) detectItem(ctx context.Context, req domain.EmotionRequest) (resp *domain.EmotionResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	return s.DetectEmotions(ctx, req), nil
}
