package config

import "github.com/Skotchmaster/university/pkg/config"

type Config struct {
	config.Config
}

func Load() Config {
	cfg := config.Load("note", 8003)
	config.MustNonEmptyBytes(cfg.JWTSecret, "AUTH_JWT_SECRET")
	return Config{Config: cfg}
}
