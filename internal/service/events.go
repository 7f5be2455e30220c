package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
)

// Event kinds pushed to connected members of a group.
const (
	EventMemberJoined  = "member_joined"
	EventMemberLeft    = "member_left"
	EventMeetupCreated = "meetup_created"
	EventGroupUpdated  = "group_updated"
	EventGroupDeleted  = "group_deleted"
)

type GroupEvent struct {
	Kind       string      `json:"kind"`
	GroupID    uuid.UUID   `json:"group_id"`
	ActorID    uuid.UUID   `json:"actor_id"`
	Recipients []uuid.UUID `json:"-"`
	Data       any         `json:"data,omitempty"`
}

// EventPublisher fans group events out to live clients. Delivery is best
// effort; Publish must not block on slow receivers.
type EventPublisher interface {
	Publish(event GroupEvent)
}

// PublicGroupCache caches public listings keyed by search term.
type PublicGroupCache interface {
	GetPublic(ctx context.Context, query string) ([]models.Group, bool)
	SetPublic(ctx context.Context, query string, groups []models.Group)
	InvalidatePublic(ctx context.Context)
}

type nopPublisher struct{}

func (nopPublisher) Publish(GroupEvent) {}

type nopCache struct{}

func (nopCache) GetPublic(context.Context, string) ([]models.Group, bool) { return nil, false }
func (nopCache) SetPublic(context.Context, string, []models.Group)        {}
func (nopCache) InvalidatePublic(context.Context)                         {}
