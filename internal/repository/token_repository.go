package repository

import (
	"errors"
	"time"

	"github.com/taskflow/taskflow-api/internal/models"
	"gorm.io/gorm"
)

// ErrTokenConsumed is returned when a refresh token has already been rotated
// or revoked.
var ErrTokenConsumed = errors.New("token repository: refresh token already consumed")

// GormRefreshTokenRepository is a GORM implementation of RefreshTokenRepository
type GormRefreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new RefreshTokenRepository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &GormRefreshTokenRepository{db: db}
}

// Create records a newly issued refresh token as active
func (r *GormRefreshTokenRepository) Create(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

// Consume atomically revokes the active token with the given JTI. The
// guarded UPDATE makes the revocation a single atomic step: of two
// concurrent redemptions of the same token, exactly one sees RowsAffected=1.
func (r *GormRefreshTokenRepository) Consume(jti string, now time.Time) (*models.RefreshToken, error) {
	result := r.db.Model(&models.RefreshToken{}).
		Where("jti = ? AND revoked_at IS NULL", jti).
		Update("revoked_at", now)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		var existing models.RefreshToken
		if err := r.db.Where("jti = ?", jti).First(&existing).Error; err != nil {
			return nil, err
		}
		return nil, ErrTokenConsumed
	}

	var token models.RefreshToken
	if err := r.db.Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}
