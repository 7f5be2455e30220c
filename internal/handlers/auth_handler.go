package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/httpx"
	"github.com/lysokunvoath/grex/internal/middleware"
	"github.com/lysokunvoath/grex/internal/service"
)

const refreshCookie = "grex_refresh"

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	if input.Email == "" || input.Password == "" || input.DisplayName == "" {
		return httpx.BadRequest(c, "missing_fields", "Email, username, and password are required")
	}

	session, err := h.authService.Register(input)
	if err != nil {
		return respondError(c, err, "register_failed")
	}

	h.setSessionCookies(c, session)
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	if input.Email == "" || input.Password == "" {
		return httpx.BadRequest(c, "missing_fields", "Email and password are required")
	}

	session, err := h.authService.Login(input)
	if err != nil {
		return respondError(c, err, "login_failed")
	}

	h.setSessionCookies(c, session)
	return c.JSON(session)
}

// Refresh accepts the refresh token from the JSON body or the refresh cookie.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := refreshTokenFrom(c)
	if token == "" {
		return httpx.Unauthorized(c, "missing_refresh_token", "Missing refresh token")
	}

	session, err := h.authService.Refresh(token)
	if err != nil {
		h.clearSessionCookies(c)
		return respondError(c, err, "refresh_failed")
	}

	h.setSessionCookies(c, session)
	return c.JSON(session)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(refreshTokenFrom(c)); err != nil {
		return respondError(c, err, "logout_failed")
	}
	h.clearSessionCookies(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// Session returns the authenticated user.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	userID, err := httpx.LocalUUID(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	user, err := h.authService.CurrentUser(userID)
	if err != nil {
		return respondError(c, err, "session_failed")
	}
	return c.JSON(fiber.Map{"user": user.ToResponse()})
}

// CSRF issues a double-submit token for browser clients.
func (h *AuthHandler) CSRF(c *fiber.Ctx) error {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return httpx.Internal(c, "csrf_failed")
	}
	token := hex.EncodeToString(b)
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CSRFCookie,
		Value:    token,
		Path:     "/",
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return c.JSON(fiber.Map{"csrf_token": token})
}

func refreshTokenFrom(c *fiber.Ctx) string {
	var req RefreshRequest
	if len(c.Body()) > 0 {
		_ = c.BodyParser(&req)
	}
	if req.RefreshToken != "" {
		return req.RefreshToken
	}
	return c.Cookies(refreshCookie)
}

func (h *AuthHandler) setSessionCookies(c *fiber.Ctx, session *service.AuthSession) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessCookie,
		Value:    session.AccessToken,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    session.RefreshToken,
		Path:     "/api/auth",
		Expires:  time.Now().Add(service.RefreshTokenTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookies(c *fiber.Ctx) {
	for _, ck := range []struct{ name, path string }{{middleware.AccessCookie, "/"}, {refreshCookie, "/api/auth"}} {
		c.Cookie(&fiber.Cookie{
			Name:     ck.name,
			Value:    "",
			Path:     ck.path,
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
		})
	}
}

// UserKey builds a limiter key generator scoped to the authenticated user.
func UserKey(prefix string) func(*fiber.Ctx) string {
	return func(c *fiber.Ctx) string {
		if uid, err := httpx.LocalUUID(c, "userID"); err == nil && uid != uuid.Nil {
			return prefix + ":" + uid.String()
		}
		return c.IP()
	}
}
