package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"site-assistant/services"
)

// Handler serves the HTTP API on top of the chat services
type Handler struct {
	chat            *services.ChatService
	businessContext *services.BusinessContext
	siteCache       *services.SiteCache
	fetcher         services.Fetcher
	siteBaseURL     string

	wsPongWait     time.Duration
	wsPingInterval time.Duration
}

// NewHandler creates the API handler
func NewHandler(chat *services.ChatService, businessContext *services.BusinessContext, siteCache *services.SiteCache, fetcher services.Fetcher, siteBaseURL string) *Handler {
	return &Handler{
		chat:            chat,
		businessContext: businessContext,
		siteCache:       siteCache,
		fetcher:         fetcher,
		siteBaseURL:     siteBaseURL,
		wsPongWait:      wsPongWait,
		wsPingInterval:  wsPingInterval,
	}
}

// RegisterRoutes mounts the API on app. adminAuth guards the admin endpoints.
func RegisterRoutes(app *fiber.App, h *Handler, adminAuth fiber.Handler) {
	api := app.Group("/api")

	api.Post("/chat", h.Chat)
	api.Get("/chat/ws", WebSocketUpgrade, websocket.New(h.ChatWebSocket))
	api.Get("/scrape", h.Scrape)

	api.Post("/context", adminAuth, h.UpdateContext)
	api.Post("/refresh-site-cache", adminAuth, h.RefreshSiteCache)
	api.Get("/site-cache", adminAuth, h.GetSiteCacheStatus)
}

// errorPayload turns a service error into its status code and JSON body
func errorPayload(err error) (int, fiber.Map) {
	var validationErr services.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.StatusCode(), fiber.Map{
			"error": validationErr.Error(),
			"code":  validationErr.ErrCode(),
		}
	}

	var upstreamErr *services.UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.StatusCode(), fiber.Map{
			"error":   upstreamErr.Message,
			"details": upstreamErr.Details,
			"code":    upstreamErr.ErrCode(),
		}
	}

	var fetchErr *services.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode(), fiber.Map{
			"error":   "Site cache refresh failed",
			"details": fetchErr.Error(),
			"code":    fetchErr.ErrCode(),
		}
	}

	return fiber.StatusInternalServerError, fiber.Map{
		"error":   "Server error",
		"details": err.Error(),
		"code":    "INTERNAL_SERVER_ERROR",
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status, body := errorPayload(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("Request failed", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(body)
}
