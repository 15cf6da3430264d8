package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Settings holds everything the binaries read from the environment.
type Settings struct {
	Port           string
	JWTSecret      string
	AdminPassword  string
	AdminPageSlug  string
	AllowedOrigins []string
	CookieSecure   bool
	AutoMigrate    bool
	RedisAddr      string
	RedisPassword  string
	LogLevel       string
	RateLimitRPS   float64
	RateLimitBurst int
	ScheduleSpec   string
}

// App is the process-wide settings, filled by LoadSettings.
var App = &Settings{
	Port:           "8080",
	JWTSecret:      randomSecret(),
	AdminPageSlug:  "admin",
	RateLimitRPS:   5,
	RateLimitBurst: 10,
	ScheduleSpec:   "0 */10 * * * *",
	LogLevel:       "info",
}

// LoadSettings reads the environment into App and returns it.
func LoadSettings() *Settings {
	s := &Settings{
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		AdminPageSlug:  getEnv("ADMIN_PAGE_SLUG", "admin"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		CookieSecure:   getEnvBool("COOKIE_SECURE", false),
		AutoMigrate:    getEnvBool("DB_AUTO_MIGRATE", true),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		ScheduleSpec:   getEnv("SCHEDULE_SPEC", "0 */10 * * * *"),
	}
	if s.JWTSecret == "" {
		// sessions will not survive a restart or span replicas
		logrus.Warn("JWT_SECRET not set, using a random per-process secret")
		s.JWTSecret = randomSecret()
	}
	if s.AdminPassword == "" {
		logrus.Warn("ADMIN_PASSWORD not set, admin login is disabled")
	}
	App = s
	return s
}

// SetupLogger applies the configured level to logrus.
func SetupLogger(formatter logrus.Formatter) {
	logrus.SetFormatter(formatter)
	level, err := logrus.ParseLevel(App.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		logrus.Fatalf("Cannot generate JWT secret: %v", err)
	}
	return hex.EncodeToString(buf)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

// splitList parses a comma separated list, e.g. "http://localhost:3000,http://localhost:3001"
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
