package config

import (
	"time"

	"github.com/Skotchmaster/university/pkg/config"
)

type Config struct {
	config.Config

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// RevocationStore is "memory" or "db".
	RevocationStore string
	RevocationSweep string

	SeedUsers    bool
	SeedPassword string
}

func Load() Config {
	cfg := config.Load("auth", 8001)
	config.MustNonEmptyBytes(cfg.JWTSecret, "AUTH_JWT_SECRET")

	return Config{
		Config: cfg,

		AccessTTL:  config.EnvMinutesDefault("AUTH_ACCESS_EXPIRE_MINUTES", 15),
		RefreshTTL: config.EnvDaysDefault("AUTH_REFRESH_EXPIRE_DAYS", 7),

		RevocationStore: config.EnvDefault("AUTH_REVOCATION_STORE", "memory"),
		RevocationSweep: config.EnvDefault("AUTH_REVOCATION_SWEEP", "@every 15m"),

		SeedUsers:    config.EnvBoolDefault("AUTH_SEED_USERS", true),
		SeedPassword: config.EnvDefault("AUTH_SEED_PASSWORD", "ChangeMe123!"),
	}
}
