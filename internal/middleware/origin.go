package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lysokunvoath/grex/internal/httpx"
)

// Origins is a browser Origin allow-list. An empty list, or one holding
// "*", allows everything.
type Origins []string

// ParseOrigins reads a comma-separated list such as ALLOWED_ORIGINS.
func ParseOrigins(csv string) Origins {
	var out Origins
	for _, o := range strings.Split(csv, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (o Origins) Allows(origin string) bool {
	if len(o) == 0 {
		return true
	}
	for _, a := range o {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

// OriginAllowed rejects requests whose Origin header is outside origins.
// Requests without an Origin are not from a browser and pass.
func OriginAllowed(origins Origins) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if origin := strings.TrimSpace(c.Get("Origin")); origin != "" && !origins.Allows(origin) {
			return httpx.Forbidden(c, "forbidden_origin", "Origin not allowed")
		}
		return c.Next()
	}
}
