package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageFile  = "file"
	StorageDapr  = "dapr"
	StorageRedis = "redis"
)

// Config holds all configuration for the form service
type Config struct {
	// Server
	ServiceName     string
	ServiceVersion  string
	Port            string
	GinMode         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string

	LogLevel       string
	TracingEnabled bool

	Storage StorageConfig
	Redis   RedisConfig
	SMTP    SMTPConfig
	Mail    MailConfig

	// Optional YAML pricing table; built-in prices are used when empty
	PricingFile string
}

type StorageConfig struct {
	Backend         string
	DataDir         string
	ContactLog      string
	BookingLog      string
	NewsletterLog   string
	SubscribersFile string
	DaprStateStore  string
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
	Timeout  time.Duration
}

// MailConfig holds the theatre's own addresses used on outbound mail
type MailConfig struct {
	TheatreName     string
	ContactInbox    string
	BoxOfficeEmail  string
	NewsletterEmail string
}

// Load reads an optional .env file, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] could not read .env: %v", err)
	}

	cfg := &Config{
		ServiceName:     getEnv("SERVICE_NAME", "theatre-forms"),
		ServiceVersion:  getEnv("SERVICE_VERSION", "1.0.0"),
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "release"),
		ReadTimeout:     getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		AllowedOrigins:  getStringSliceEnv("CORS_ALLOWED_ORIGINS", nil),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		TracingEnabled: getBoolEnv("TRACING_ENABLED", false),

		Storage: StorageConfig{
			Backend:         strings.ToLower(getEnv("STORAGE_BACKEND", StorageFile)),
			DataDir:         getEnv("DATA_DIR", "./data"),
			ContactLog:      getEnv("CONTACT_LOG", "contact_submissions.txt"),
			BookingLog:      getEnv("BOOKING_LOG", "booking_inquiries.txt"),
			NewsletterLog:   getEnv("NEWSLETTER_LOG", "newsletter_log.txt"),
			SubscribersFile: getEnv("SUBSCRIBERS_FILE", "newsletter_subscribers.txt"),
			DaprStateStore:  getEnv("DAPR_STATE_STORE", "statestore"),
		},

		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getIntEnv("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "theatre:"),
		},

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getIntEnv("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			UseTLS:   getBoolEnv("SMTP_USE_TLS", true),
			Timeout:  getDurationEnv("SMTP_TIMEOUT", 10*time.Second),
		},

		Mail: MailConfig{
			TheatreName:     getEnv("THEATRE_NAME", "The Grand Theatre"),
			ContactInbox:    getEnv("CONTACT_INBOX", "info@thegrandtheatre.com"),
			BoxOfficeEmail:  getEnv("BOXOFFICE_EMAIL", "boxoffice@thegrandtheatre.com"),
			NewsletterEmail: getEnv("NEWSLETTER_EMAIL", "newsletter@thegrandtheatre.com"),
		},

		PricingFile: getEnv("PRICING_FILE", ""),
	}

	return cfg
}

// Path resolves a storage file name against DataDir unless it is absolute.
func (s StorageConfig) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.DataDir, name)
}

// SMTPEnabled reports whether outbound mail goes to a real relay.
func (c *Config) SMTPEnabled() bool {
	return c.SMTP.Host != ""
}

func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv reads a comma-separated list
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
