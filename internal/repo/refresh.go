package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/models"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/tokens"
)

// SaveRefreshToken records an issued refresh token in the allow-list.
// Only the sha256 of the raw token is stored.
func (r *GormRepo) SaveRefreshToken(ctx context.Context, rawToken, jti string, userID uint, expiresAt time.Time) error {
	row := models.RefreshToken{
		TokenHash: tokens.Sha256Hex(rawToken),
		UserID:    userID,
		JTI:       jti,
		ExpiresAt: expiresAt.Unix(),
	}
	return r.DB.WithContext(ctx).Create(&row).Error
}

func (r *GormRepo) RefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var row models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// RevokeRefreshToken marks the allow-list row for a raw token as revoked.
// Unknown tokens are a no-op: logout must succeed either way.
func (r *GormRepo) RevokeRefreshToken(ctx context.Context, rawToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokens.Sha256Hex(rawToken)).
		Update("revoked", true).Error
}

func (r *GormRepo) RevokeUserRefreshTokens(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ?", userID).
		Update("revoked", true).Error
}
