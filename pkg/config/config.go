package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings every service reads from the environment.
type Config struct {
	ServiceName string

	ServerPort int

	DatabaseURL string

	JWTSecret    []byte
	JWTAlgorithm string

	AuthHTTPURL string

	KafkaBrokers []string

	LogLevel string
}

// Load reads the shared settings for service. Service-specific variables
// (COURSE_DATABASE_URL, ...) take precedence over the generic ones.
func Load(service string, defaultPort int) Config {
	prefix := strings.ToUpper(service) + "_"

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", service),

		ServerPort: EnvIntDefault("SERVER_PORT", defaultPort),

		DatabaseURL: EnvDefault(prefix+"DATABASE_URL", EnvDefault("DATABASE_URL", "./data/"+service+".db")),

		JWTSecret:    []byte(EnvDefault("AUTH_JWT_SECRET", os.Getenv("JWT_SECRET"))),
		JWTAlgorithm: EnvDefault("AUTH_JWT_ALGO", "HS256"),

		AuthHTTPURL: os.Getenv("AUTH_URL"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// EnvMinutesDefault reads an integer number of minutes.
func EnvMinutesDefault(key string, def int) time.Duration {
	return time.Duration(EnvIntDefault(key, def)) * time.Minute
}

// EnvDaysDefault reads an integer number of days.
func EnvDaysDefault(key string, def int) time.Duration {
	return time.Duration(EnvIntDefault(key, def)) * 24 * time.Hour
}
