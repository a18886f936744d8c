package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/streamshare/subscription-manager/internal/api/middleware"
	"github.com/streamshare/subscription-manager/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	secureCookie bool
}

// NewAuthHandler builds the login handlers. secureCookie marks the session
// cookie Secure and should be on whenever the API is served over TLS.
func NewAuthHandler(authService ports.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// Login checks the admin password and sets the session cookie.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Admin password"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /api/admin/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, session, err := h.authService.Login(c.Request().Context(), req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.cookie(token, session.ExpiresAt))
	return c.JSON(http.StatusOK, loginResponse{Message: "login successful", ExpiresAt: session.ExpiresAt})
}

// Logout revokes the session and clears the cookie. It succeeds without a
// session too.
//
// @Summary      Admin logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/admin/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}

	expired := h.cookie("", time.Unix(0, 0))
	expired.MaxAge = -1
	c.SetCookie(expired)
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Check answers 200 when the request carries a live session. The session
// middleware rejects everything else before this runs.
//
// @Summary      Check admin session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authCheckResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/admin/auth-check [get]
func (h *AuthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, authCheckResponse{IsAuthenticated: true})
}

func (h *AuthHandler) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
