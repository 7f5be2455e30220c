package repository

import (
	"time"

	"github.com/lysokunvoath/grex/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

// Consume revokes a live token and returns it. The update is a single
// statement, so two concurrent refreshes cannot both succeed.
func (r *RefreshTokenRepository) Consume(tokenHash string, now time.Time) (*models.RefreshToken, error) {
	var token models.RefreshToken
	res := r.db.Model(&token).
		Clauses(clause.Returning{}).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", tokenHash, now).
		Update("revoked_at", now)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &token, nil
}

func (r *RefreshTokenRepository) Revoke(tokenHash string, now time.Time) error {
	return r.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", tokenHash).
		Update("revoked_at", now).Error
}

// PurgeExpired deletes tokens that expired or were revoked before cutoff.
func (r *RefreshTokenRepository) PurgeExpired(cutoff time.Time) (int64, error) {
	res := r.db.Where("expires_at < ? OR revoked_at < ?", cutoff, cutoff).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
