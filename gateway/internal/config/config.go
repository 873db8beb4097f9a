package config

import "github.com/Skotchmaster/university/pkg/config"

type Config struct {
	ServerPort  int
	AuthURL     string
	CourseURL   string
	NoteURL     string
	StudentURL  string
	CORSOrigins []string
	LogLevel    string
}

func Load() *Config {
	return &Config{
		ServerPort:  config.EnvIntDefault("SERVER_PORT", 8080),
		AuthURL:     config.EnvDefault("AUTH_URL", "http://localhost:8001"),
		CourseURL:   config.EnvDefault("COURSE_URL", "http://localhost:8002"),
		NoteURL:     config.EnvDefault("NOTE_URL", "http://localhost:8003"),
		StudentURL:  config.EnvDefault("STUDENT_URL", "http://localhost:8004"),
		CORSOrigins: config.CSV(config.EnvDefault("CORS_ORIGINS", "*")),
		LogLevel:    config.EnvDefault("LOG_LEVEL", "info"),
	}
}
