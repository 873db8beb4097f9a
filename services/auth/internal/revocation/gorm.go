package revocation

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/university/services/auth/internal/models"
)

// Gorm keeps revocations in the revoked_tokens table so they survive restarts
// and are shared by every instance using the same database.
type Gorm struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{DB: db, Now: time.Now}
}

func (g *Gorm) Add(ctx context.Context, token string, expiresAt time.Time) error {
	row := models.RevokedToken{
		TokenHash: HashToken(token),
		ExpiresAt: expiresAt.UTC(),
		RevokedAt: g.Now().UTC(),
	}
	return g.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token_hash"}}, DoNothing: true}).
		Create(&row).Error
}

func (g *Gorm) Contains(ctx context.Context, token string) (bool, error) {
	var n int64
	err := g.DB.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("token_hash = ?", HashToken(token)).
		Count(&n).Error
	return n > 0, err
}

func (g *Gorm) Sweep(ctx context.Context, now time.Time) (int64, error) {
	res := g.DB.WithContext(ctx).
		Where("expires_at < ?", now.UTC()).
		Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}
