package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/gateway"
	"github.com/lysokunvoath/grex/internal/models"
)

// Gateway is the remote data gateway the controllers use.
// *gateway.Client implements it.
type Gateway interface {
	GetSession(ctx context.Context) (*models.UserResponse, error)
	OnAuthStateChange(fn gateway.AuthListener) (unsubscribe func())
	SignIn(ctx context.Context, email, password string) (*gateway.Session, error)
	SignUp(ctx context.Context, displayName, email, password string) (*gateway.Session, error)
	SignOut(ctx context.Context) error

	ListGroups(ctx context.Context) ([]models.Group, error)
	CreateGroup(ctx context.Context, input gateway.CreateGroupInput) (*models.Group, error)
	SetGroupPublic(ctx context.Context, groupID uuid.UUID, isPublic bool) (*models.Group, error)
	DeleteGroup(ctx context.Context, groupID uuid.UUID) error

	JoinGroup(ctx context.Context, groupID uuid.UUID) (*models.GroupMember, error)
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error)
	AddMember(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupMember, error)
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error

	ListMeetups(ctx context.Context, groupIDs ...uuid.UUID) ([]models.Meetup, error)
	CreateMeetup(ctx context.Context, groupID uuid.UUID, input gateway.CreateMeetupInput) (*models.Meetup, error)
}

var _ Gateway = (*gateway.Client)(nil)

// Clipboard receives copied group ids.
type Clipboard interface {
	WriteAll(text string) error
}

// ClipboardFunc adapts a function such as clipboard.WriteAll.
type ClipboardFunc func(text string) error

func (f ClipboardFunc) WriteAll(text string) error { return f(text) }

// Confirm asks the user a yes/no question.
type Confirm func(prompt string) bool
