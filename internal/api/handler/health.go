package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/domain"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/provider"
)

const readyTimeout = 3 * time.Second

type HealthHandler struct {
	analyzer provider.EmotionAnalyzer
}

func NewHealthHandler(analyzer provider.EmotionAnalyzer) *HealthHandler {
	return &HealthHandler{analyzer: analyzer}
}

type RootResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Models  string `json:"models"`
}

type HealthResponse struct {
	Status            string   `json:"status"`
	Backend           string   `json:"backend,omitempty"`
	SupportedEmotions []string `json:"supported_emotions,omitempty"`
}

// Root identifies the service and the analyzer backend in use
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(RootResponse{
		Status:  "running",
		Service: fmt.Sprintf("Emotion Detection Service (%s)", h.analyzer.Name()),
		Models:  "Pre-trained emotion detection models",
	})
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:            "healthy",
		Backend:           h.analyzer.Name(),
		SupportedEmotions: domain.SupportedEmotions(),
	})
}

// Ready pings the analyzer when it supports it. Backends without a ping are
// always ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if p, ok := h.analyzer.(provider.Pinger); ok {
		ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			return domain.ErrAnalyzerUnavailable.WithError(err)
		}
	}

	return c.JSON(HealthResponse{
		Status: "ready",
	})
}
