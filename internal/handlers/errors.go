package handlers

import (
	stderrors "errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/lysokunvoath/grex/internal/httpx"
	"github.com/lysokunvoath/grex/internal/service"
)

// respondError maps service sentinels onto HTTP status codes.
func respondError(c *fiber.Ctx, err error, fallbackCode string) error {
	msg := service.Message(err)
	switch {
	case stderrors.Is(err, service.ErrValidation):
		return httpx.BadRequest(c, "validation_failed", msg)
	case stderrors.Is(err, service.ErrInvalidCredentials), stderrors.Is(err, service.ErrInvalidToken):
		return httpx.Unauthorized(c, "invalid_credentials", msg)
	case stderrors.Is(err, service.ErrForbidden):
		return httpx.Forbidden(c, "forbidden", msg)
	case stderrors.Is(err, service.ErrGroupPrivate):
		return httpx.Forbidden(c, "group_private", msg)
	case stderrors.Is(err, service.ErrNotFound):
		return httpx.NotFound(c, "not_found", msg)
	case stderrors.Is(err, service.ErrAlreadyMember):
		return httpx.Conflict(c, "already_member", msg)
	case stderrors.Is(err, service.ErrEmailTaken):
		return httpx.Conflict(c, "email_taken", msg)
	case stderrors.Is(err, service.ErrStorageUnavailable):
		return httpx.Unavailable(c, "storage_unavailable", msg)
	default:
		slog.Error("request failed", "path", c.Path(), "method", c.Method(), "error", err)
		return httpx.Internal(c, fallbackCode)
	}
}
