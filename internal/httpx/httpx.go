// Package httpx holds the JSON error envelope and request helpers shared by
// the REST handlers.
package httpx

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Error writes the envelope with the request id assigned by the requestid
// middleware, if any.
func Error(c *fiber.Ctx, status int, code, message string) error {
	if message == "" {
		message = "Request failed"
	}
	rid, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return c.Status(status).JSON(ErrorResponse{Error: message, Code: code, RequestID: rid})
}

type responder func(c *fiber.Ctx, code, message string) error

func withStatus(status int) responder {
	return func(c *fiber.Ctx, code, message string) error {
		return Error(c, status, code, message)
	}
}

var (
	BadRequest   = withStatus(fiber.StatusBadRequest)
	Unauthorized = withStatus(fiber.StatusUnauthorized)
	Forbidden    = withStatus(fiber.StatusForbidden)
	NotFound     = withStatus(fiber.StatusNotFound)
	Conflict     = withStatus(fiber.StatusConflict)
	Unavailable  = withStatus(fiber.StatusServiceUnavailable)
)

// Internal hides the cause from the caller; log it before responding.
func Internal(c *fiber.Ctx, code string) error {
	return Error(c, fiber.StatusInternalServerError, code, "Internal server error")
}

// LocalUUID reads a uuid stored in c.Locals by the auth middleware.
func LocalUUID(c *fiber.Ctx, key string) (uuid.UUID, error) {
	switch v := c.Locals(key).(type) {
	case uuid.UUID:
		return v, nil
	case nil:
		return uuid.Nil, errors.Errorf("missing local %s", key)
	default:
		return uuid.Nil, errors.Errorf("local %s is %T, not a uuid", key, v)
	}
}

// ParamUUID parses the named route parameter as a UUID.
func ParamUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}
