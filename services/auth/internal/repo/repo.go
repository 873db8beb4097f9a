package repo

import (
	"gorm.io/gorm"

	"github.com/Skotchmaster/university/services/auth/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate() error {
	return r.DB.AutoMigrate(&models.User{}, &models.RevokedToken{})
}
