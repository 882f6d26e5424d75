package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observeWarnings(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("PORT", "")
	t.Setenv("REPORT_DAILY_LIMIT", "")
	t.Setenv("ORDER_EXPIRY", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.False(t, cfg.UseMongo())
	assert.Equal(t, 20, cfg.ReportDailyLimit)
	assert.Equal(t, time.Hour, cfg.OrderExpiry)
	assert.Equal(t, "@every 10m", cfg.OrderExpirySchedule)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadStorageDriver(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("STORAGE_DRIVER", "")
	assert.Equal(t, "mongo", Load().StorageDriver)

	t.Setenv("STORAGE_DRIVER", "SQLite")
	assert.Equal(t, "sqlite", Load().StorageDriver)

	t.Setenv("STORAGE_DRIVER", "cassandra")
	assert.Equal(t, "mongo", Load().StorageDriver)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("REPORT_DAILY_LIMIT", "lots")
	t.Setenv("AIR_QUALITY_CACHE_TTL", "soon")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("PAYMENT_CURRENCY", "THB")

	cfg := Load()

	assert.Equal(t, 20, cfg.ReportDailyLimit)
	assert.Equal(t, 15*time.Minute, cfg.AirQualityCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "thb", cfg.PaymentCurrency)
}

func TestNotifyTelegram(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	assert.False(t, Load().NotifyTelegram())

	t.Setenv("TELEGRAM_CHAT_ID", "-1001234567890")
	cfg := Load()
	assert.True(t, cfg.NotifyTelegram())
	assert.Equal(t, int64(-1001234567890), cfg.TelegramChatID)
}

func TestLoadInvalidValuesAreLogged(t *testing.T) {
	logs := observeWarnings(t)
	t.Setenv("REPORT_DAILY_LIMIT", "lots")
	t.Setenv("ORDER_EXPIRY", "later")
	t.Setenv("TELEGRAM_CHAT_ID", "group")

	Load()

	ints := logs.FilterMessage("invalid integer, using default").All()
	require.Len(t, ints, 2)
	keys := []string{ints[0].ContextMap()["key"].(string), ints[1].ContextMap()["key"].(string)}
	assert.ElementsMatch(t, []string{"REPORT_DAILY_LIMIT", "TELEGRAM_CHAT_ID"}, keys)

	durations := logs.FilterMessage("invalid duration, using default").All()
	require.Len(t, durations, 1)
	assert.Equal(t, "ORDER_EXPIRY", durations[0].ContextMap()["key"])
}

func TestLoadTelegramChatIDBeyond32Bits(t *testing.T) {
	t.Setenv("TELEGRAM_CHAT_ID", "-1009876543210")
	assert.Equal(t, int64(-1009876543210), Load().TelegramChatID)
}

func TestGinMode(t *testing.T) {
	t.Setenv("GIN_MODE", "")
	assert.Equal(t, "release", GinMode())

	t.Setenv("GIN_MODE", "debug")
	assert.Equal(t, "debug", GinMode())
	assert.Equal(t, "debug", Load().GinMode)
}
