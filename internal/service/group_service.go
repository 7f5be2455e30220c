package service

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/metrics"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/lysokunvoath/grex/internal/repository"
	"github.com/lysokunvoath/grex/internal/validation"
	"gorm.io/gorm"
)

const publicSearchLimit = 50

type GroupService struct {
	groupRepo repository.GroupRepositoryInterface
	userRepo  repository.UserRepositoryInterface
	cache     PublicGroupCache
	events    EventPublisher
}

func NewGroupService(
	groupRepo repository.GroupRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	cache PublicGroupCache,
	events EventPublisher,
) *GroupService {
	if cache == nil {
		cache = nopCache{}
	}
	if events == nil {
		events = nopPublisher{}
	}
	return &GroupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		cache:     cache,
		events:    events,
	}
}

type CreateGroupInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsPublic    *bool    `json:"is_public"`
	Tags        []string `json:"tags"`
}

func IsOwner(group *models.Group, userID uuid.UUID) bool {
	return group != nil && group.CreatorID == userID
}

// CreateGroup stores the group and the creator's owner membership in one
// transaction.
func (s *GroupService) CreateGroup(ctx context.Context, input CreateGroupInput, creatorID uuid.UUID) (*models.Group, error) {
	if !validation.ValidateGroupName(input.Name) {
		return nil, invalid("group name is required")
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	group := &models.Group{
		Name:        strings.TrimSpace(input.Name),
		Description: validation.TrimAndLimit(input.Description, validation.MaxDescriptionLength),
		IsPublic:    isPublic,
		Tags:        validation.NormalizeTags(input.Tags),
		CreatorID:   creatorID,
	}
	if err := s.groupRepo.CreateWithOwner(group); err != nil {
		return nil, translate(err, "create group")
	}

	metrics.GroupEvents.WithLabelValues("created").Inc()
	if group.IsPublic {
		s.cache.InvalidatePublic(ctx)
	}
	return group, nil
}

// ListVisible returns public groups plus the groups userID belongs to.
func (s *GroupService) ListVisible(userID uuid.UUID) ([]models.Group, error) {
	groups, err := s.groupRepo.ListVisible(userID)
	if err != nil {
		return nil, translate(err, "list groups")
	}
	return groups, nil
}

func (s *GroupService) SearchPublic(ctx context.Context, query string) ([]models.Group, error) {
	query = strings.TrimSpace(query)
	if groups, ok := s.cache.GetPublic(ctx, query); ok {
		metrics.PublicCache.WithLabelValues("hit").Inc()
		return groups, nil
	}
	metrics.PublicCache.WithLabelValues("miss").Inc()

	groups, err := s.groupRepo.SearchPublic(query, publicSearchLimit)
	if err != nil {
		return nil, translate(err, "search groups")
	}
	s.cache.SetPublic(ctx, query, groups)
	return groups, nil
}

// GetGroup returns the group when userID may see it. Private groups are
// reported as not found to non-members.
func (s *GroupService) GetGroup(groupID, userID uuid.UUID) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return nil, translate(err, "group")
	}
	if !group.IsPublic && !group.HasMember(userID) {
		return nil, translate(gorm.ErrRecordNotFound, "group")
	}
	return group, nil
}

func (s *GroupService) ownedGroup(groupID, userID uuid.UUID, action string) (*models.Group, error) {
	group, err := s.GetGroup(groupID, userID)
	if err != nil {
		return nil, err
	}
	if !IsOwner(group, userID) {
		return nil, forbidden("only the group owner can " + action)
	}
	return group, nil
}

// SetPublic changes the group's visibility. Owner only.
func (s *GroupService) SetPublic(ctx context.Context, groupID, userID uuid.UUID, isPublic bool) (*models.Group, error) {
	group, err := s.ownedGroup(groupID, userID, "change privacy")
	if err != nil {
		return nil, err
	}
	if err := s.groupRepo.SetPublic(groupID, isPublic); err != nil {
		return nil, translate(err, "update group")
	}
	group.IsPublic = isPublic

	s.cache.InvalidatePublic(ctx)
	s.events.Publish(GroupEvent{
		Kind:       EventGroupUpdated,
		GroupID:    groupID,
		ActorID:    userID,
		Recipients: group.MemberIDs(),
		Data:       map[string]any{"is_public": isPublic},
	})
	return group, nil
}

// DeleteGroup removes the group together with its meetups and memberships.
// Owner only.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, userID uuid.UUID) error {
	group, err := s.ownedGroup(groupID, userID, "delete the group")
	if err != nil {
		return err
	}
	if err := s.groupRepo.Delete(groupID); err != nil {
		return translate(err, "delete group")
	}

	metrics.GroupEvents.WithLabelValues("deleted").Inc()
	s.cache.InvalidatePublic(ctx)
	s.events.Publish(GroupEvent{
		Kind:       EventGroupDeleted,
		GroupID:    groupID,
		ActorID:    userID,
		Recipients: group.MemberIDs(),
	})
	return nil
}

// JoinGroup adds userID to a public group.
func (s *GroupService) JoinGroup(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupMember, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return nil, translate(err, "group")
	}
	if group.HasMember(userID) {
		return nil, ErrAlreadyMember
	}
	if !group.IsPublic {
		return nil, ErrGroupPrivate
	}
	return s.addMember(ctx, group, userID, userID)
}

// AddMember lets the owner add another user by id.
func (s *GroupService) AddMember(ctx context.Context, groupID, actorID, userID uuid.UUID) (*models.GroupMember, error) {
	if userID == uuid.Nil {
		return nil, invalid("please enter a valid member ID")
	}
	group, err := s.ownedGroup(groupID, actorID, "add members")
	if err != nil {
		return nil, err
	}
	if group.HasMember(userID) {
		return nil, ErrAlreadyMember
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, translate(err, "user")
	}
	return s.addMember(ctx, group, actorID, userID)
}

func (s *GroupService) addMember(ctx context.Context, group *models.Group, actorID, userID uuid.UUID) (*models.GroupMember, error) {
	if err := s.groupRepo.AddMember(group.ID, userID, models.RoleMember); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, translate(err, "add member")
	}

	member := &models.GroupMember{GroupID: group.ID, UserID: userID, Role: models.RoleMember}
	metrics.GroupEvents.WithLabelValues("joined").Inc()
	if group.IsPublic {
		s.cache.InvalidatePublic(ctx)
	}
	s.events.Publish(GroupEvent{
		Kind:       EventMemberJoined,
		GroupID:    group.ID,
		ActorID:    actorID,
		Recipients: append(group.MemberIDs(), userID),
		Data:       member,
	})
	return member, nil
}

// RemoveMember deletes the (group, user) membership. A member may remove
// themselves; the owner may remove anyone but themselves.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, actorID, userID uuid.UUID) error {
	group, err := s.GetGroup(groupID, actorID)
	if err != nil {
		return err
	}

	switch {
	case userID == group.CreatorID:
		return forbidden("the owner cannot leave the group; delete it instead")
	case actorID == userID:
		if !group.HasMember(actorID) {
			return translate(gorm.ErrRecordNotFound, "membership")
		}
	case !IsOwner(group, actorID):
		return forbidden("only the group owner can remove members")
	}

	if err := s.groupRepo.RemoveMember(groupID, userID); err != nil {
		return translate(err, "membership")
	}

	metrics.GroupEvents.WithLabelValues("left").Inc()
	if group.IsPublic {
		s.cache.InvalidatePublic(ctx)
	}
	s.events.Publish(GroupEvent{
		Kind:       EventMemberLeft,
		GroupID:    groupID,
		ActorID:    actorID,
		Recipients: group.MemberIDs(),
		Data:       map[string]any{"user_id": userID},
	})
	return nil
}

func (s *GroupService) ListMembers(groupID, userID uuid.UUID) ([]models.GroupMember, error) {
	if _, err := s.GetGroup(groupID, userID); err != nil {
		return nil, err
	}
	members, err := s.groupRepo.ListMembers(groupID)
	if err != nil {
		return nil, translate(err, "list members")
	}
	return members, nil
}

func (s *GroupService) ListMemberships(userID uuid.UUID) ([]models.GroupMember, error) {
	members, err := s.groupRepo.ListMemberships(userID)
	if err != nil {
		return nil, translate(err, "list memberships")
	}
	return members, nil
}
