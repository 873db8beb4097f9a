package config

import "github.com/Skotchmaster/university/pkg/config"

type Config struct {
	config.Config

	SeedCourses bool
}

func Load() Config {
	cfg := config.Load("course", 8002)
	config.MustNonEmptyBytes(cfg.JWTSecret, "AUTH_JWT_SECRET")

	return Config{
		Config:      cfg,
		SeedCourses: config.EnvBoolDefault("COURSE_SEED", true),
	}
}
