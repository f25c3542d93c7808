package middleware

import (
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"site-assistant/services"
)

// AdminTokenHeader carries the admin shared secret
const AdminTokenHeader = "x-admin-token"

// AdminVerifier checks an admin token against the configured secret, given
// either in plain text or as a bcrypt hash.
type AdminVerifier struct {
	token string
	hash  []byte
}

// NewAdminVerifier creates a verifier. hash takes precedence over token when both are set.
func NewAdminVerifier(token, hash string) *AdminVerifier {
	v := &AdminVerifier{token: token}
	if hash != "" {
		v.hash = []byte(hash)
	}
	return v
}

// Verify returns an AuthError unless candidate matches the secret. An
// unconfigured secret never matches.
func (v *AdminVerifier) Verify(candidate string) error {
	if candidate == "" {
		return services.AuthError("Unauthorized")
	}
	if len(v.hash) > 0 {
		if err := bcrypt.CompareHashAndPassword(v.hash, []byte(candidate)); err != nil {
			return services.AuthError("Unauthorized")
		}
		return nil
	}
	if v.token == "" || subtle.ConstantTimeCompare([]byte(v.token), []byte(candidate)) != 1 {
		return services.AuthError("Unauthorized")
	}
	return nil
}

// RequireAdmin rejects requests without a valid admin token
func RequireAdmin(verifier *AdminVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := verifier.Verify(c.Get(AdminTokenHeader)); err != nil {
			slog.Warn("Admin access denied", "path", c.Path(), "ip", c.IP())
			var authErr services.AuthError
			errors.As(err, &authErr)
			return c.Status(authErr.StatusCode()).JSON(fiber.Map{
				"error": authErr.Error(),
				"code":  authErr.ErrCode(),
			})
		}
		return c.Next()
	}
}
