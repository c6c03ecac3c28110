package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
// Every field has a default so tests run with no env at all.
type Config struct {
	Addr          string
	DBPath        string
	JWTSecret     string
	SessionTTLHrs int
	PublicBaseURL string
	UploadDir     string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	MaxVideoUploadMB int
	LoginRatePerMin  int
}

var cfg Config

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg = Config{
		Addr:          getEnv("ADDR", ":8080"),
		DBPath:        getEnv("DB_PATH", "intake.db"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		SessionTTLHrs: getEnvInt("SESSION_TTL_HOURS", 24),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		SMTPFrom: getEnv("SMTP_FROM", "no-reply@hopebridge.example"),

		MaxVideoUploadMB: getEnvInt("MAX_VIDEO_UPLOAD_MB", 100),
		LoginRatePerMin:  getEnvInt("LOGIN_RATE_PER_MIN", 20),
	}
	return cfg
}

// Get returns the last loaded config, loading defaults on first use.
func Get() Config {
	if cfg == (Config{}) {
		return Load()
	}
	return cfg
}

// Set overrides the loaded config; used by tests.
func Set(c Config) {
	cfg = c
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
