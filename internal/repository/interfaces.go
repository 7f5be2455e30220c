package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	EmailExists(email string) (bool, error)
	FindByID(id uuid.UUID) (*models.User, error)
}

// RefreshTokenRepositoryInterface defines the contract for refresh token repository operations
type RefreshTokenRepositoryInterface interface {
	Create(token *models.RefreshToken) error
	Consume(tokenHash string, now time.Time) (*models.RefreshToken, error)
	Revoke(tokenHash string, now time.Time) error
	PurgeExpired(cutoff time.Time) (int64, error)
}

// GroupRepositoryInterface defines the contract for group and membership operations
type GroupRepositoryInterface interface {
	CreateWithOwner(group *models.Group) error
	FindByID(id uuid.UUID) (*models.Group, error)
	ListVisible(userID uuid.UUID) ([]models.Group, error)
	SearchPublic(query string, limit int) ([]models.Group, error)
	SetPublic(id uuid.UUID, isPublic bool) error
	SetIcon(id uuid.UUID, key string) error
	Delete(id uuid.UUID) error

	AddMember(groupID, userID uuid.UUID, role models.GroupRole) error
	RemoveMember(groupID, userID uuid.UUID) error
	ListMembers(groupID uuid.UUID) ([]models.GroupMember, error)
	ListMemberships(userID uuid.UUID) ([]models.GroupMember, error)
	IsMember(groupID, userID uuid.UUID) (bool, error)
}

// MeetupRepositoryInterface defines the contract for meetup operations
type MeetupRepositoryInterface interface {
	Create(meetup *models.Meetup) error
	ListVisible(userID uuid.UUID, groupIDs []uuid.UUID) ([]models.Meetup, error)
}
