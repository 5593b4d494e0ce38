package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	AdminSecret string

	Razorpay RazorpayConfig

	MetricsEnabled bool

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	RateLimit RateLimitConfig
}

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	APIBaseURL    string

	// SkipVerification disables webhook signature checks. Only honored
	// outside production, and logged loudly when active.
	SkipVerification bool
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	WebhookRate   float64
	WebhookBurst  int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "premium"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: environment,
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		AdminSecret: strings.TrimSpace(getenv("ADMIN_SECRET", "")),
		Razorpay: RazorpayConfig{
			KeyID:            strings.TrimSpace(getenv("RAZORPAY_KEY_ID", "")),
			KeySecret:        strings.TrimSpace(getenv("RAZORPAY_KEY_SECRET", "")),
			WebhookSecret:    strings.TrimSpace(getenv("RAZORPAY_WEBHOOK_SECRET", "")),
			APIBaseURL:       getenv("RAZORPAY_API_BASE_URL", "https://api.razorpay.com"),
			SkipVerification: getenvBool("RAZORPAY_SKIP_VERIFICATION", false) && environment != "production",
		},
		MetricsEnabled:    getenvBool("METRICS_ENABLED", true),
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "premium"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword: strings.TrimSpace(getenv("RATE_LIMIT_REDIS_PASSWORD", "")),
			RedisDB:       getenvInt("RATE_LIMIT_REDIS_DB", 0),
			WebhookRate:   getenvFloat("RATE_LIMIT_WEBHOOK_RATE", 25),
			WebhookBurst:  getenvInt("RATE_LIMIT_WEBHOOK_BURST", 50),
		},
	}

	return cfg
}

// Validate reports every missing required field at once so a misconfigured
// deployment fails before serving any request.
func (c Config) Validate() error {
	var missing []string
	if !c.Razorpay.SkipVerification && c.Razorpay.WebhookSecret == "" {
		missing = append(missing, "RAZORPAY_WEBHOOK_SECRET")
	}
	if c.Razorpay.KeyID == "" {
		missing = append(missing, "RAZORPAY_KEY_ID")
	}
	if c.Razorpay.KeySecret == "" {
		missing = append(missing, "RAZORPAY_KEY_SECRET")
	}
	if c.AdminSecret == "" {
		missing = append(missing, "ADMIN_SECRET")
	}
	if c.RateLimit.Enabled && c.RateLimit.RedisAddr == "" {
		missing = append(missing, "RATE_LIMIT_REDIS_ADDR")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
