package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultPort          = "8080"
	defaultAllowedOrigin = "*"
	defaultMaxFrameBytes = 10 << 20 // 10MB, вмещает inline-изображения
	defaultRoleA         = "seeker"
	defaultRoleB         = "responder"
)

// Config — конфигурация сервиса из окружения
type Config struct {
	Port          string
	AllowedOrigin string
	MaxFrameBytes int64
	RoleA         string
	RoleB         string
}

// Load читает .env.local / .env и собирает конфигурацию
// с дефолтами для всех значений
func Load() *Config {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	cfg := &Config{
		Port:          getenv("PORT", defaultPort),
		AllowedOrigin: getenv("ALLOWED_ORIGIN", defaultAllowedOrigin),
		MaxFrameBytes: defaultMaxFrameBytes,
		RoleA:         getenv("ROLE_A", defaultRoleA),
		RoleB:         getenv("ROLE_B", defaultRoleB),
	}

	if v := os.Getenv("MAX_FRAME_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			log.Printf("invalid MAX_FRAME_BYTES %q, using default", v)
		} else {
			cfg.MaxFrameBytes = n
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
