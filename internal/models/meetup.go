package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meetup is a scheduled activity owned by exactly one group.
type Meetup struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string    `gorm:"size:120;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DateTime    time.Time `gorm:"not null;index" json:"date_time"`
	GroupID     uuid.UUID `gorm:"type:uuid;not null;index" json:"group_id"`
	CreatorID   uuid.UUID `gorm:"type:uuid;index" json:"creator_id"`
}

func (m *Meetup) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
