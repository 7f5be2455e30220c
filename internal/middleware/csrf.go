package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lysokunvoath/grex/internal/httpx"
	"github.com/pkg/errors"
)

type CSRFMode string

const (
	// CSRFToken requires the X-Grex-CSRF header to echo the grex_csrf cookie.
	CSRFToken CSRFMode = "token"
	// CSRFOrigin enforces the Origin allow-list only.
	CSRFOrigin CSRFMode = "origin"
	CSRFOff    CSRFMode = "off"
)

func ParseCSRFMode(s string) (CSRFMode, error) {
	switch m := CSRFMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return CSRFToken, nil
	case CSRFToken, CSRFOrigin, CSRFOff:
		return m, nil
	default:
		return "", errors.Errorf("unknown CSRF mode %q", s)
	}
}

// CSRFRequired protects cookie-authenticated browser writes. Safe methods,
// bearer-token requests and requests without an Origin pass untouched.
func CSRFRequired(mode CSRFMode, origins Origins) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if mode == CSRFOff {
			return c.Next()
		}
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		if strings.HasPrefix(c.Get("Authorization"), "Bearer ") {
			return c.Next()
		}

		origin := strings.TrimSpace(c.Get("Origin"))
		if origin == "" {
			return c.Next()
		}
		if !origins.Allows(origin) {
			return httpx.Forbidden(c, "forbidden_origin", "Origin not allowed")
		}
		if mode == CSRFOrigin {
			return c.Next()
		}

		cookie, header := c.Cookies(CSRFCookie), c.Get(CSRFHeader)
		switch {
		case cookie == "" || header == "":
			return httpx.Forbidden(c, "csrf_required", "Missing CSRF token")
		case subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1:
			return httpx.Forbidden(c, "csrf_invalid", "Invalid CSRF token")
		}
		return c.Next()
	}
}
