package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streamshare/subscription-manager/internal/core/domain"
)

// SessionCookie is the name of the cookie carrying the signed admin session.
const SessionCookie = "admin_session"

// Context keys set by Session.
const (
	ContextRole      = "role"
	ContextSessionID = "session_id"
)

// Authenticator resolves a session token. ports.AuthService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// Session validates the session cookie and injects role and session id into
// the echo context.
func Session(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return domain.ErrSessionRequired
			}

			session, err := auth.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return err
				}
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable").SetInternal(err)
			}

			c.Set(ContextRole, session.Role)
			c.Set(ContextSessionID, session.ID)
			return next(c)
		}
	}
}
