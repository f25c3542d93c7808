package handlers

import (
	"log/slog"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"site-assistant/models"
)

// scrapeSampleChars is how much of the fetched markup the diagnostic returns
const scrapeSampleChars = 400

// Scrape fetches the site root and reports what came back. Diagnostic only.
func (h *Handler) Scrape(c *fiber.Ctx) error {
	html, err := h.fetcher.FetchHTML(c.UserContext(), h.siteBaseURL)
	if err != nil {
		slog.Error("Scrape failed", "url", h.siteBaseURL, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	sample := html
	if utf8.RuneCountInString(sample) > scrapeSampleChars {
		sample = string([]rune(sample)[:scrapeSampleChars])
	}

	return c.JSON(models.ScrapeResult{
		Success: true,
		Length:  utf8.RuneCountInString(html),
		Sample:  sample,
	})
}
