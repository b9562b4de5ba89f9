// Package api implements the HTTP surface of the action-item service.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/avirtanen/agentlab/internal/conf"
	"github.com/avirtanen/agentlab/internal/datastore"
	"github.com/avirtanen/agentlab/internal/errors"
	"github.com/avirtanen/agentlab/internal/extract"
	"github.com/avirtanen/agentlab/internal/logging"
	"github.com/avirtanen/agentlab/internal/observability"
)

// Controller manages the API routes and handlers.
type Controller struct {
	Echo      *echo.Echo
	DS        datastore.Interface
	Settings  *conf.Settings
	Heuristic *extract.HeuristicExtractor
	LLM       *extract.LLMExtractor

	metrics   *observability.Metrics
	apiLogger *slog.Logger
}

// New creates a Controller with all routes registered.
func New(settings *conf.Settings, ds datastore.Interface, heuristic *extract.HeuristicExtractor, llm *extract.LLMExtractor, metrics *observability.Metrics) *Controller {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	c := &Controller{
		Echo:      e,
		DS:        ds,
		Settings:  settings,
		Heuristic: heuristic,
		LLM:       llm,
		metrics:   metrics,
		apiLogger: logging.ForService("api"),
	}

	c.initRoutes()
	return c
}

// initRoutes registers all API endpoints.
func (c *Controller) initRoutes() {
	c.Echo.GET("/healthz", c.HealthCheck)
	if c.metrics != nil {
		c.Echo.GET("/metrics", echo.WrapHandler(c.metrics.Handler()))
	}

	c.Echo.POST("/notes", c.CreateNote)
	c.Echo.GET("/notes", c.ListNotes)
	c.Echo.GET("/notes/:id", c.GetNote)

	c.Echo.POST("/action-items/extract", c.ExtractActionItems)
	c.Echo.POST("/action-items/extract-llm", c.ExtractActionItemsLLM)
	c.Echo.GET("/action-items", c.ListActionItems)
	c.Echo.POST("/action-items/:id/done", c.SetActionItemDone)
}

// Start begins listening on the configured address. Blocks until Shutdown
// is called or the listener fails.
func (c *Controller) Start() error {
	addr := c.Settings.WebServer.Host + ":" + c.Settings.WebServer.Port
	c.apiLogger.Info("starting HTTP server", "addr", addr)
	return c.Echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (c *Controller) Shutdown(ctx context.Context) error {
	return c.Echo.Shutdown(ctx)
}

// HealthCheck reports liveness.
func (c *Controller) HealthCheck(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// HandleError maps an error to its HTTP status from the error category and
// writes the JSON error body. Store failures are fatal to the request only;
// the process keeps serving.
func (c *Controller) HandleError(ctx echo.Context, err error, message string) error {
	category := errors.CategoryOf(err)
	code := statusForCategory(category)

	c.apiLogger.Error("API error",
		"request_id", ctx.Response().Header().Get(echo.HeaderXRequestID),
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"category", string(category),
		"code", code,
		"message", message,
		"error", err.Error(),
	)

	return ctx.JSON(code, ErrorResponse{
		Error:  string(category),
		Detail: message + ": " + err.Error(),
	})
}

// ValidationError writes a 400 response for a malformed request body.
func (c *Controller) ValidationError(ctx echo.Context, detail string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Error:  string(errors.CategoryValidation),
		Detail: detail,
	})
}

func statusForCategory(category errors.ErrorCategory) int {
	switch category {
	case errors.CategoryValidation:
		return http.StatusBadRequest
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case errors.CategoryTimeout:
		return http.StatusGatewayTimeout
	case errors.CategoryUnavailable, errors.CategoryUpstream, errors.CategoryNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
