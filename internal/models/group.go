package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupRole string

const (
	RoleOwner  GroupRole = "owner"
	RoleMember GroupRole = "member"
)

type Group struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	IsPublic    bool      `gorm:"not null;default:true;index" json:"is_public"`
	Tags        []string  `gorm:"serializer:json" json:"tags"`
	Icon        string    `json:"icon,omitempty"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"creator_id"`

	// Associations
	Creator User          `gorm:"foreignKey:CreatorID" json:"-" msgpack:"-"`
	Members []GroupMember `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"members"`
	Meetups []Meetup      `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-" msgpack:"-"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// MemberIDs lists the user IDs of the preloaded members.
func (g *Group) MemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(g.Members))
	for _, m := range g.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// HasMember reports whether userID is among the preloaded members.
func (g *Group) HasMember(userID uuid.UUID) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

type GroupMember struct {
	GroupID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"group_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	Role     GroupRole `gorm:"type:varchar(20);default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	// DisplayName is filled from User when members are listed.
	DisplayName string `gorm:"-" json:"display_name,omitempty" msgpack:"-"`

	User  User  `gorm:"foreignKey:UserID" json:"-" msgpack:"-"`
	Group Group `gorm:"foreignKey:GroupID" json:"-" msgpack:"-"`
}
