package repository

import (
	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
	"gorm.io/gorm"
)

type MeetupRepository struct {
	db *gorm.DB
}

func NewMeetupRepository(db *gorm.DB) *MeetupRepository {
	return &MeetupRepository{db: db}
}

func (r *MeetupRepository) Create(meetup *models.Meetup) error {
	return r.db.Create(meetup).Error
}

// ListVisible returns meetups of groups userID can see, optionally narrowed to
// groupIDs, ordered by date-time.
func (r *MeetupRepository) ListVisible(userID uuid.UUID, groupIDs []uuid.UUID) ([]models.Meetup, error) {
	var meetups []models.Meetup
	member := r.db.Model(&models.GroupMember{}).Select("group_id").Where("user_id = ?", userID)
	visible := r.db.Model(&models.Group{}).Select("id").Where("is_public = true OR id IN (?)", member)

	q := r.db.Where("group_id IN (?)", visible)
	if len(groupIDs) > 0 {
		q = q.Where("group_id IN ?", groupIDs)
	}
	err := q.Order("date_time ASC").Find(&meetups).Error
	return meetups, err
}
