package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/metrics"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/service"
)

type Dependencies struct {
	Service *service.EmotionService
	Metrics *metrics.EmotionMetrics

	// BodyLimit in bytes; fiber's default applies when zero
	BodyLimit int
	// RequestTimeout bounds each detection request; zero disables it
	RequestTimeout time.Duration
	// SwaggerHost is the host advertised in the API docs
	SwaggerHost string
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Emotion Detection API",
		BodyLimit:    deps.BodyLimit,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares. Metrics wraps Logger so it sees the final status.
	r.app.Use(requestid.New())
	r.app.Use(middleware.Metrics(r.deps.Metrics))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS",
		AllowHeaders: "*",
	}))

	// Swagger documentation
	host := r.deps.SwaggerHost
	if host == "" {
		host = "localhost:8000"
	}
	sw := docs.NewSwagger(host)
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	if r.deps.Metrics != nil {
		r.app.Get("/metrics", adaptor.HTTPHandler(r.deps.Metrics.Handler()))
	}

	healthHandler := handler.NewHealthHandler(r.deps.Service.Analyzer())
	r.app.Get("/", healthHandler.Root)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	emotionHandler := handler.NewEmotionHandler(r.deps.Service, r.logger, r.deps.RequestTimeout)
	r.app.Post("/detect-emotions", emotionHandler.Detect)
	r.app.Post("/batch-detect", emotionHandler.BatchDetect)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

// Shutdown waits for in-flight requests until ctx ends
func (r *Router) Shutdown(ctx context.Context) error {
	return r.app.ShutdownWithContext(ctx)
}
