package repository

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
	"gorm.io/gorm"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateWithOwner inserts the group and its owner membership atomically, so a
// group never exists without its creator in the member set.
func (r *GroupRepository) CreateWithOwner(group *models.Group) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members", "Meetups", "Creator").Create(group).Error; err != nil {
			return err
		}
		owner := models.GroupMember{
			GroupID: group.ID,
			UserID:  group.CreatorID,
			Role:    models.RoleOwner,
		}
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}
		group.Members = []models.GroupMember{owner}
		return nil
	})
}

func (r *GroupRepository) FindByID(id uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := r.db.Preload("Members").First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// ListVisible returns public groups plus every group userID belongs to.
func (r *GroupRepository) ListVisible(userID uuid.UUID) ([]models.Group, error) {
	var groups []models.Group
	member := r.db.Model(&models.GroupMember{}).Select("group_id").Where("user_id = ?", userID)
	err := r.db.Where("is_public = true OR id IN (?)", member).
		Preload("Members").
		Order("created_at ASC").
		Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) SearchPublic(query string, limit int) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Where(`is_public = true AND LOWER(name) LIKE LOWER(?) ESCAPE '\'`, containsPattern(query)).
		Preload("Members").
		Order("name ASC").
		Limit(limit).
		Find(&groups).Error
	return groups, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching query as a literal
// substring. Pair it with ESCAPE '\'.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

func (r *GroupRepository) SetPublic(id uuid.UUID, isPublic bool) error {
	res := r.db.Model(&models.Group{}).Where("id = ?", id).Update("is_public", isPublic)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GroupRepository) SetIcon(id uuid.UUID, key string) error {
	return r.db.Model(&models.Group{}).Where("id = ?", id).Update("icon", key).Error
}

// Delete removes the group with its meetups and memberships in one transaction.
func (r *GroupRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.Meetup{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Group{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GroupRepository) AddMember(groupID, userID uuid.UUID, role models.GroupRole) error {
	member := models.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		Role:    role,
	}
	return r.db.Create(&member).Error
}

func (r *GroupRepository) RemoveMember(groupID, userID uuid.UUID) error {
	res := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&models.GroupMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GroupRepository) ListMembers(groupID uuid.UUID) ([]models.GroupMember, error) {
	var members []models.GroupMember
	err := r.db.Where("group_id = ?", groupID).
		Preload("User").
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (r *GroupRepository) ListMemberships(userID uuid.UUID) ([]models.GroupMember, error) {
	var members []models.GroupMember
	err := r.db.Where("user_id = ?", userID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (r *GroupRepository) IsMember(groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}
