package repository

import (
	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user. A taken email surfaces as gorm.ErrDuplicatedKey.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByEmail expects an already normalised address.
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	var n int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Limit(1).Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Take(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
