package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/quorumlab/quorum/internal/api/handlers"
	"github.com/quorumlab/quorum/internal/api/middleware"
	"github.com/quorumlab/quorum/internal/config"
	"github.com/quorumlab/quorum/internal/debate"
	"github.com/quorumlab/quorum/internal/gate"
)

// Dependencies holds all the dependencies for the router
type Dependencies struct {
	Config *config.Config
	Engine *debate.Engine
	Gate   *gate.Gate
	Logger zerolog.Logger
}

// Setup sets up the Fiber app with all routes
func Setup(deps *Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    deps.Config.BodyLimit,
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger(deps.Logger))
	app.Use(middleware.SecurityHeaders())
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.CORSAllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(middleware.RateLimiter(deps.Config.RateLimitPerMinute))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
		})
	})

	api := app.Group("/api")

	// Roster
	agentsHandler := handlers.NewAgentsHandler(deps.Engine, deps.Gate, deps.Config.MaxPRDChars, deps.Logger)
	api.Get("/agents", agentsHandler.List)

	// LLM-backed routes get the stricter per-IP limiter on top of the
	// global one.
	llmLimited := api.Group("", middleware.LLMRateLimiter(deps.Config.LLMRateLimitPerMin, time.Minute))
	llmLimited.Post("/select-agents", agentsHandler.Select)

	debateHandler := handlers.NewDebateHandler(deps.Engine, deps.Gate, deps.Config.MaxPRDChars, deps.Logger)
	llmLimited.Post("/debate", debateHandler.Stream)

	synthesizeHandler := handlers.NewSynthesizeHandler(deps.Engine, deps.Config.MaxPRDChars, deps.Logger)
	llmLimited.Post("/synthesize-prd", synthesizeHandler.Synthesize)

	prdHandler := handlers.NewPRDHandler(deps.Config.MaxPRDChars)
	api.Post("/save-prd", prdHandler.Save)

	return app
}

// requestLogger logs one line per completed request.
func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("request")
		return err
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
