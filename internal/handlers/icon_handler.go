package handlers

import (
	"bytes"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/lysokunvoath/grex/internal/httpx"
	"github.com/lysokunvoath/grex/internal/service"
)

type IconHandler struct {
	iconService *service.IconService
}

func NewIconHandler(iconService *service.IconService) *IconHandler {
	return &IconHandler{iconService: iconService}
}

// UploadIcon takes a multipart "icon" field or a raw image body.
func (h *IconHandler) UploadIcon(c *fiber.Ctx) error {
	userID, ok := withUser(c)
	if !ok {
		return nil
	}
	groupID, ok := groupParam(c)
	if !ok {
		return nil
	}

	if fh, err := c.FormFile("icon"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return httpx.BadRequest(c, "invalid_file", "Could not read upload")
		}
		defer f.Close()
		group, err := h.iconService.UploadIcon(c.UserContext(), groupID, userID, f)
		if err != nil {
			return respondError(c, err, "upload_icon_failed")
		}
		return c.JSON(group)
	}

	body := c.Body()
	if len(body) == 0 {
		return httpx.BadRequest(c, "missing_file", "Icon file is required")
	}
	group, err := h.iconService.UploadIcon(c.UserContext(), groupID, userID, bytes.NewReader(body))
	if err != nil {
		return respondError(c, err, "upload_icon_failed")
	}
	return c.JSON(group)
}

func (h *IconHandler) GetIcon(c *fiber.Ctx) error {
	userID, ok := withUser(c)
	if !ok {
		return nil
	}
	groupID, ok := groupParam(c)
	if !ok {
		return nil
	}

	rc, stat, err := h.iconService.OpenIcon(c.UserContext(), groupID, userID)
	if err != nil {
		return respondError(c, err, "get_icon_failed")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	if stat.ETag != "" {
		c.Set(fiber.HeaderETag, strconv.Quote(stat.ETag))
	}
	size := -1
	if stat.Size > 0 {
		size = int(stat.Size)
	}
	// fasthttp closes rc once the body is written.
	return c.SendStream(rc, size)
}
