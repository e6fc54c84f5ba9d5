package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 関係する環境変数を全部空にしておく（t.Setenvが後片付けする）
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "GO_ENV", "JWT_SECRET", "SESSION_TTL", "STORE_NAME", "STORE_PHONE",
		"STORE_ADDRESS", "WHATSAPP_NUMBER", "PROMO_COUPON", "DELIVERY_FEE",
		"FREE_DELIVERY_THRESHOLD", "COUPONS", "DEV_OTP", "ADMIN_PIN", "GEMINI_API_KEY",
		"GEMINI_MODEL", "GEMINI_BASE_URL", "SUGGEST_DEBOUNCE", "SUGGEST_TIMEOUT",
		"REDIS_ADDR", "SUGGEST_CACHE_TTL", "KAFKA_BROKERS", "KAFKA_TOPIC",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "dev", cfg.GoEnv)
	assert.False(t, cfg.IsProd())
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.DeliveryFee.Equal(decimal.NewFromInt(20)))
	assert.True(t, cfg.FreeDeliveryThreshold.Equal(decimal.NewFromInt(499)))
	assert.Equal(t, "RAKESH15:15,WELCOME10:10", cfg.Coupons)
	assert.Equal(t, "1234", cfg.DevOTP)
	assert.Equal(t, 500*time.Millisecond, cfg.SuggestDebounce)
	assert.Equal(t, 10*time.Second, cfg.SuggestTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "orders.placed", cfg.KafkaTopic)
}

func TestLoad_MissingSecret(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("PORT", ":9000")
	t.Setenv("GO_ENV", "prod")
	t.Setenv("DELIVERY_FEE", "30.5")
	t.Setenv("SUGGEST_DEBOUNCE", "250ms")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "30.5", cfg.DeliveryFee.String())
	assert.Equal(t, 250*time.Millisecond, cfg.SuggestDebounce)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"SESSION_TTL":             "forever",
		"DELIVERY_FEE":            "twenty",
		"FREE_DELIVERY_THRESHOLD": "-1",
		"SUGGEST_TIMEOUT":         "10",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", "s")
			t.Setenv(key, val)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}
