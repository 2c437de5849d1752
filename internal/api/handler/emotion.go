package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/audit"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/domain"
)

// EmotionService interface for the service
type EmotionService interface {
	DetectEmotions(ctx context.Context, req domain.EmotionRequest) *domain.EmotionResponse
	BatchDetect(ctx context.Context, reqs []domain.EmotionRequest) ([]domain.EmotionResponse, error)
}

// EmotionHandler handles emotion detection requests
type EmotionHandler struct {
	service EmotionService
	logger  *slog.Logger
	timeout time.Duration
}

// NewEmotionHandler creates a new EmotionHandler instance. timeout bounds the
// analysis of one request (a whole batch for /batch-detect); zero disables it.
func NewEmotionHandler(service EmotionService, logger *slog.Logger, timeout time.Duration) *EmotionHandler {
	return &EmotionHandler{
		service: service,
		logger:  logger,
		timeout: timeout,
	}
}

// Detect handles POST /detect-emotions.
// Analysis failures never surface here: the service answers with the fallback.
func (h *EmotionHandler) Detect(c *fiber.Ctx) error {
	var req domain.EmotionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp := h.service.DetectEmotions(ctx, req)
	return c.JSON(resp)
}

// BatchDetect handles POST /batch-detect
func (h *EmotionHandler) BatchDetect(c *fiber.Ctx) error {
	var reqs []domain.EmotionRequest
	if err := json.Unmarshal(c.Body(), &reqs); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	results, err := h.service.BatchDetect(ctx, reqs)
	if err != nil {
		return domain.ErrBatchFailed.WithError(err)
	}

	// batch vazio responde [] e não null
	if results == nil {
		results = []domain.EmotionResponse{}
	}

	return c.JSON(results)
}

// requestContext attaches request metadata for audit events and the request
// deadline. fasthttp does not report client disconnects, so the deadline is
// what stops a long batch between items.
func (h *EmotionHandler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	info := audit.RequestInfo{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
	if id, ok := c.Locals("requestid").(string); ok {
		info.RequestID = id
	}

	ctx := audit.WithRequestInfo(c.UserContext(), info)
	if h.timeout > 0 {
		return context.WithTimeout(ctx, h.timeout)
	}
	return context.WithCancel(ctx)
}
