package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	StorageDriver string // "mongo", "sqlite" or "local"
	MongoURI      string
	MongoDB       string
	SQLitePath    string
	LocalStoreDir string
	CatalogFile   string

	RedisAddress     string
	RedisPassword    string
	ReportDailyLimit int

	GCSBucket      string
	GCSCredentials string

	OpenWeatherAPIKey  string
	AirQualityCacheTTL time.Duration

	OmisePublicKey  string
	OmiseSecretKey  string
	PaymentCurrency string

	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string

	EmailFrom string
	EmailPass string
	SMTPHost  string

	TelegramToken  string
	TelegramChatID int64

	OrderExpiry               time.Duration
	OrderExpirySchedule       string
	AirQualityRefreshSchedule string
}

// LoadDotEnv copies .env into the process environment. Variables that are
// already set win.
func LoadDotEnv() error {
	return godotenv.Load()
}

// GinMode is read on its own so the logger can be built before Load.
func GinMode() string {
	return getenv("GIN_MODE", "release")
}

// Load reads the process environment. Call LoadDotEnv and install the global
// logger first so invalid values are reported.
func Load() *Config {
	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		GinMode:     GinMode(),
		CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:5173")),

		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDB:       getenv("MONGODB_DB", "climate_hub"),
		SQLitePath:    getenv("SQLITE_PATH", "data/climate-hub.db"),
		LocalStoreDir: getenv("LOCAL_STORE_DIR", "data"),
		CatalogFile:   os.Getenv("CATALOG_FILE"),

		RedisAddress:     os.Getenv("REDIS_ADDRESS"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		ReportDailyLimit: getInt("REPORT_DAILY_LIMIT", 20),

		GCSBucket:      os.Getenv("GCS_BUCKET"),
		GCSCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		AirQualityCacheTTL: getDuration("AIR_QUALITY_CACHE_TTL", 15*time.Minute),

		OmisePublicKey:  os.Getenv("OMISE_PUBLIC_KEY"),
		OmiseSecretKey:  os.Getenv("OMISE_SECRET_KEY"),
		PaymentCurrency: strings.ToLower(getenv("PAYMENT_CURRENCY", "usd")),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminUsername:     getenv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		EmailFrom: os.Getenv("EMAIL_FROM"),
		EmailPass: os.Getenv("EMAIL_PASS"),
		SMTPHost:  getenv("SMTP_HOST", "smtp.gmail.com:587"),

		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: getInt64("TELEGRAM_CHAT_ID", 0),

		OrderExpiry:               getDuration("ORDER_EXPIRY", time.Hour),
		OrderExpirySchedule:       getenv("ORDER_EXPIRY_SCHEDULE", "@every 10m"),
		AirQualityRefreshSchedule: getenv("AIR_QUALITY_REFRESH_SCHEDULE", "@every 30m"),
	}

	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:5173"}
	}

	driver := strings.ToLower(os.Getenv("STORAGE_DRIVER"))
	switch driver {
	case "mongo", "sqlite", "local":
		cfg.StorageDriver = driver
	default:
		if cfg.MongoURI != "" {
			cfg.StorageDriver = "mongo"
		} else {
			cfg.StorageDriver = "local"
		}
	}

	return cfg
}

// UseMongo reports whether the Mongo-backed stores should be used.
func (c *Config) UseMongo() bool {
	return c.StorageDriver == "mongo"
}

// NotifyTelegram reports whether moderator alerts are configured.
func (c *Config) NotifyTelegram() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	raw := strings.TrimSpace(os.Getenv(k))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		zap.L().Warn("invalid integer, using default", zap.String("key", k), zap.String("value", raw), zap.Int("default", def))
		return def
	}
	return v
}

func getInt64(k string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(k))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		zap.L().Warn("invalid integer, using default", zap.String("key", k), zap.String("value", raw), zap.Int64("default", def))
		return def
	}
	return v
}

func getDuration(k string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(k))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		zap.L().Warn("invalid duration, using default", zap.String("key", k), zap.String("value", raw), zap.Duration("default", def))
		return def
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
