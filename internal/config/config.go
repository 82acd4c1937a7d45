package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	Server   ServerConfig
	CORS     CORSConfig
	Ward     WardConfig
	Worker   WorkerConfig
	SMTP     SMTPConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Driver   string
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type JWTConfig struct {
	AccessSecret      string
	AccessTokenExpiry time.Duration
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// WardConfig holds settings that shape clinical day boundaries and seed data.
type WardConfig struct {
	Timezone     string
	Location     *time.Location
	FixturesPath string
}

type WorkerConfig struct {
	SweepEnabled  bool
	SweepInterval time.Duration
	TriageWindow  time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	NotifyTo string
}

// Enabled reports whether overdue notifications can be sent by e-mail.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.NotifyTo != ""
}

type LogConfig struct {
	Level  string
	Format string
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	timezone := getEnv("WARD_TIMEZONE", "America/Sao_Paulo")

	config := &Config{
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			DSN:      getEnv("DB_DSN", ":memory:"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "ward_rounds"),
		},
		JWT: JWTConfig{
			AccessSecret:      getEnv("JWT_ACCESS_SECRET", "change-me-ward-rounds"),
			AccessTokenExpiry: parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "12h"), 12*time.Hour),
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Ward: WardConfig{
			Timezone:     timezone,
			Location:     loadLocation(timezone),
			FixturesPath: getEnv("FIXTURES_PATH", ""),
		},
		Worker: WorkerConfig{
			SweepEnabled:  parseBool(getEnv("TASK_SWEEP_ENABLED", "true")),
			SweepInterval: parseDuration(getEnv("TASK_SWEEP_INTERVAL", "1m"), time.Minute),
			TriageWindow:  parseDuration(getEnv("TASK_TRIAGE_WINDOW", "15m"), 15*time.Minute),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     parseInt(getEnv("SMTP_PORT", "587"), 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "rounds@localhost"),
			NotifyTo: getEnv("SMTP_NOTIFY_TO", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil || duration <= 0 {
		fmt.Printf("Warning: Invalid duration format '%s', using %s\n", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Printf("Warning: Invalid integer '%s', using %d\n", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		fmt.Printf("Warning: Unknown timezone '%s', using local time\n", name)
		return time.Local
	}
	return loc
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
