package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/httpx"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/lysokunvoath/grex/internal/service"
)

type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsPublic    *bool    `json:"is_public"`
	Tags        []string `json:"tags"`
}

type UpdateGroupRequest struct {
	IsPublic *bool `json:"is_public"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id"`
}

// withDisplayNames copies each preloaded user's display name onto the member.
func withDisplayNames(members []models.GroupMember) []models.GroupMember {
	out := make([]models.GroupMember, 0, len(members))
	for _, m := range members {
		if m.DisplayName == "" {
			m.DisplayName = m.User.DisplayName
		}
		out = append(out, m)
	}
	return out
}

// withUser pulls the authenticated user id or writes a 401.
func withUser(c *fiber.Ctx) (uuid.UUID, bool) {
	userID, err := httpx.LocalUUID(c, "userID")
	if err != nil {
		_ = httpx.Unauthorized(c, "unauthorized", "Unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

func groupParam(c *fiber.Ctx) (uuid.UUID, bool) {
	groupID, err := httpx.ParamUUID(c, "id")
	if err != nil {
		_ = httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
		return uuid.Nil, false
	}
	return groupID, true
}

func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	userID, ok := withUser(c)
	if !ok {
		return nil
	}

	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	group, err := h.groupService.CreateGroup(c.UserContext(), service.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		Tags:        req.Tags,
	}, userID)
	if err != nil {
		return respondError(c, err, "create_group_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

func (h *GroupHandler) ListGroups(c *fiber.Ctx) error {
	userID, ok := withUser(c)
	if !ok {
		return nil
	}

	groups, err := h.groupService.ListVisible(userID)
	if err != nil {
		return respondError(c, err, "list_groups_failed")
	}
	return c.JSON(groups)
}

func (h *GroupHandler) SearchPublic(c *fiber.Ctx) error {
	groups, err := h.groupService.SearchPublic(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err, "search_groups_failed")
	}
	return c.JSON(groups)
}

func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	userID, ok := withUser(c)
	if !ok {
		return nil
	}
	groupID, ok := groupParam(c)
	if !ok {
		return nil
	}

	group, err := h.groupService.GetGroup(groupID, userID)
	if err != nil {
		return respondError(c, err, "get_group_failed")
	}
	return c.JSON(group)
}

func (h *GroupHandler) UpdateGroup(c *fiber.Ctx) error {
	userID, ok := withUser(c)
	if !ok {
		return nil
	}
	groupID, ok := groupParam(c)
	if !ok {
		return nil
	}

	var req UpdateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if req.IsPublic == nil {
		return httpx.BadRequest(c, "missing_fields", "is_public is required")
	}

	group, err := h.groupService.SetPublic(c.UserContext(), groupID, userID, *req.IsPublic)
	if err != nil {
		return respondError(c, err, "update_group_failed")
	}
	return c.JSON(group)
}

func (h *GroupHandler) DeleteGroup(c *fiber.Ctx) error {
	userID, ok := withUser(c)
	if !ok {
		return nil
	}
	groupID, ok := groupParam(c)
	if !ok {
		return nil
	}

	if err := h.groupService.DeleteGroup(c.UserContext(), groupID, userID); err != nil {
		return respondError(c, err, "delete_group_failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *GroupHandler) JoinGroup(c *fiber.Ctx) error {
	userID, ok := withUser(c)
	if !ok {
		return nil
	}
	groupID, ok := groupParam(c)
	if !ok {
		return nil
	}

	member, err := h.groupService.JoinGroup(c.UserContext(), groupID, userID)
	if err != nil {
		return respondError(c, err, "join_group_failed")
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

func (h *GroupHandler) ListMembers(c *fiber.Ctx) error {
	userID, ok := withUser(c)
	if !ok {
		return nil
	}
	groupID, ok := groupParam(c)
	if !ok {
		return nil
	}

	members, err := h.groupService.ListMembers(groupID, userID)
	if err != nil {
		return respondError(c, err, "list_members_failed")
	}
	return c.JSON(withDisplayNames(members))
}

func (h *GroupHandler) AddMember(c *fiber.Ctx) error {
	userID, ok := withUser(c)
	if !ok {
		return nil
	}
	groupID, ok := groupParam(c)
	if !ok {
		return nil
	}

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	memberID, err := uuid.Parse(req.UserID)
	if err != nil {
		return httpx.BadRequest(c, "validation_failed", "Please enter a valid member ID.")
	}

	member, err := h.groupService.AddMember(c.UserContext(), groupID, userID, memberID)
	if err != nil {
		return respondError(c, err, "add_member_failed")
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

func (h *GroupHandler) RemoveMember(c *fiber.Ctx) error {
	userID, ok := withUser(c)
	if !ok {
		return nil
	}
	groupID, ok := groupParam(c)
	if !ok {
		return nil
	}
	memberID, err := httpx.ParamUUID(c, "user_id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user ID")
	}

	if err := h.groupService.RemoveMember(c.UserContext(), groupID, userID, memberID); err != nil {
		return respondError(c, err, "remove_member_failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *GroupHandler) ListMemberships(c *fiber.Ctx) error {
	userID, ok := withUser(c)
	if !ok {
		return nil
	}

	memberships, err := h.groupService.ListMemberships(userID)
	if err != nil {
		return respondError(c, err, "list_memberships_failed")
	}
	return c.JSON(withDisplayNames(memberships))
}
