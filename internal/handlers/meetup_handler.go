package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/httpx"
	"github.com/lysokunvoath/grex/internal/service"
)

type MeetupHandler struct {
	meetupService *service.MeetupService
}

func NewMeetupHandler(meetupService *service.MeetupService) *MeetupHandler {
	return &MeetupHandler{meetupService: meetupService}
}

// ListMeetups accepts repeated or comma separated group_id values.
func (h *MeetupHandler) ListMeetups(c *fiber.Ctx) error {
	userID, ok := withUser(c)
	if !ok {
		return nil
	}

	var groupIDs []uuid.UUID
	for _, raw := range c.Context().QueryArgs().PeekMulti("group_id") {
		for _, part := range strings.Split(string(raw), ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
			}
			groupIDs = append(groupIDs, id)
		}
	}

	meetups, err := h.meetupService.ListMeetups(userID, groupIDs)
	if err != nil {
		return respondError(c, err, "list_meetups_failed")
	}
	return c.JSON(meetups)
}

func (h *MeetupHandler) CreateMeetup(c *fiber.Ctx) error {
	userID, ok := withUser(c)
	if !ok {
		return nil
	}
	groupID, ok := groupParam(c)
	if !ok {
		return nil
	}

	var input service.CreateMeetupInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	meetup, err := h.meetupService.CreateMeetup(groupID, userID, input)
	if err != nil {
		return respondError(c, err, "create_meetup_failed")
	}
	return c.Status(fiber.StatusCreated).JSON(meetup)
}
