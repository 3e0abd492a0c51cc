package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vishalmisal215/SPAS/internal/middleware"
	"github.com/vishalmisal215/SPAS/internal/session"
)

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// loadState decodes the session cookie. An absent, tampered or stale cookie
// degrades to a fresh state rather than failing the request.
func loadState(c *fiber.Ctx, codec session.Codec) session.State {
	state, err := codec.Decode(c.Cookies(session.CookieName))
	if err != nil {
		return session.State{Version: session.Version}
	}
	return state
}

// saveState signs the state back into the session cookie.
func saveState(c *fiber.Ctx, codec session.Codec, state session.State) error {
	token, err := codec.Issue(state)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// clearState drops the session cookie.
func clearState(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
