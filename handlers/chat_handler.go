package handlers

import (
	"github.com/gofiber/fiber/v2"

	"site-assistant/models"
)

// Chat answers a single user message
func (h *Handler) Chat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	reply, err := h.chat.Handle(c.UserContext(), req.Message)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ChatResponse{Reply: reply})
}
