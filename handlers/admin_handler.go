package handlers

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"

	"site-assistant/models"
	"site-assistant/services"
)

// UpdateContext replaces the business context in full
func (h *Handler) UpdateContext(c *fiber.Ctx) error {
	var req models.ContextUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Context, validation.Required),
	); err != nil {
		return respondError(c, services.ValidationError("Missing context"))
	}

	if err := h.businessContext.Replace(c.UserContext(), req.Context); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Context updated.",
	})
}

// RefreshSiteCache forces a refresh cycle regardless of staleness
func (h *Handler) RefreshSiteCache(c *fiber.Ctx) error {
	if err := h.siteCache.Refresh(c.UserContext()); err != nil {
		return respondError(c, err)
	}

	slog.Info("Site cache refreshed on admin request", "updatedAt", h.siteCache.UpdatedAt())
	return c.JSON(fiber.Map{
		"message": "Site cache refreshed.",
	})
}

// GetSiteCacheStatus reports what the cache holds and when it was refreshed
func (h *Handler) GetSiteCacheStatus(c *fiber.Ctx) error {
	return c.JSON(h.siteCache.Status())
}
