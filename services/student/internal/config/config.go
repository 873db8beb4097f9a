package config

import "github.com/Skotchmaster/university/pkg/config"

type Config struct {
	config.Config

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	// Reindex pushes every active student to the search index at startup.
	Reindex bool
}

func Load() Config {
	cfg := config.Load("student", 8004)
	config.MustNonEmptyBytes(cfg.JWTSecret, "AUTH_JWT_SECRET")

	return Config{
		Config:     cfg,
		ESURL:      config.EnvDefault("ES_URL", ""),
		ESUser:     config.EnvDefault("ES_USER", ""),
		ESPassword: config.EnvDefault("ES_PASSWORD", ""),
		ESIndex:    config.EnvDefault("ES_INDEX", "students"),
		Reindex:    config.EnvBoolDefault("ES_REINDEX_ON_START", true),
	}
}
