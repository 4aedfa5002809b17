package auth

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sghss/sghss/internal/platform/token"
)

// IdentityResolver maps a validated token subject back to a live identity.
// It must return an error when the subject no longer exists.
type IdentityResolver func(ctx context.Context, username string) (*Identity, error)

// Authenticate returns middleware that runs once per request, before route
// dispatch. It reads the Authorization header, validates the bearer token
// and binds the resolved identity to the request context. Every failure —
// missing header, bad scheme, invalid or expired token, unknown subject —
// leaves the request unauthenticated and lets it continue: some routes are
// public, and rejecting is the access policy's job, not this middleware's.
func Authenticate(codec *token.Codec, resolve IdentityResolver, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				return next(c)
			}

			claims, err := codec.Validate(tokenStr, time.Now())
			if err != nil {
				logger.Debug().
					Err(err).
					Str("path", c.Request().URL.Path).
					Msg("bearer token rejected")
				return next(c)
			}

			ctx := c.Request().Context()
			id, err := resolve(ctx, claims.Subject())
			if err != nil {
				logger.Debug().
					Str("subject", claims.Subject()).
					Str("path", c.Request().URL.Path).
					Msg("token subject not found")
				return next(c)
			}

			c.SetRequest(c.Request().WithContext(WithIdentity(ctx, id)))
			return next(c)
		}
	}
}

// bearerToken extracts the credential from an "Authorization: Bearer <tok>"
// header. Anything else counts as no credential supplied.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", false
	}
	return tok, true
}
