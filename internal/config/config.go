package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	JWTSecret  string        // セッショントークン署名シークレット
	SessionTTL time.Duration // 最終アクセスからの有効期限

	StoreName      string // 店名
	StorePhone     string // 表示用の電話番号
	StoreAddress   string // 表示用の住所
	WhatsAppNumber string // wa.me のリンク先（国番号込み）
	PromoCoupon    string // バナーに出すクーポン

	DeliveryFee           decimal.Decimal // 配送料（20）
	FreeDeliveryThreshold decimal.Decimal // 送料無料ライン（499）
	Coupons               string          // CODE:PERCENT,CODE:PERCENT

	DevOTP   string // モックOTP
	AdminPIN string // 空なら管理者ログイン無効

	GeminiAPIKey    string // 空ならヒント無効
	GeminiModel     string
	GeminiBaseURL   string
	SuggestDebounce time.Duration
	SuggestTimeout  time.Duration

	RedisAddr       string        // 空ならヒントをキャッシュしない
	SuggestCacheTTL time.Duration

	KafkaBrokers []string // 空ならKafkaに流さない
	KafkaTopic   string
}

const (
	defaultPort        = "8080"
	defaultGoEnv       = "dev"
	defaultStoreName   = "Rakesh Kirana Store"
	defaultStorePhone  = "+91 98765 43210"
	defaultWhatsApp    = "919876543210"
	defaultCoupons     = "RAKESH15:15,WELCOME10:10"
	defaultPromoCoupon = "RAKESH15"
	defaultDevOTP      = "1234"
	defaultKafkaTopic  = "orders.placed"
)

// Loadは環境変数
func Load() (Config, error) {
	sessionTTL, err := durationOr("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	deliveryFee, err := decimalOr("DELIVERY_FEE", decimal.NewFromInt(20))
	if err != nil {
		return Config{}, err
	}
	threshold, err := decimalOr("FREE_DELIVERY_THRESHOLD", decimal.NewFromInt(499))
	if err != nil {
		return Config{}, err
	}
	debounce, err := durationOr("SUGGEST_DEBOUNCE", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	suggestTimeout, err := durationOr("SUGGEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := durationOr("SUGGEST_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  envOr("PORT", defaultPort),
		GoEnv: envOr("GO_ENV", defaultGoEnv),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: sessionTTL,

		StoreName:      envOr("STORE_NAME", defaultStoreName),
		StorePhone:     envOr("STORE_PHONE", defaultStorePhone),
		StoreAddress:   os.Getenv("STORE_ADDRESS"),
		WhatsAppNumber: envOr("WHATSAPP_NUMBER", defaultWhatsApp),
		PromoCoupon:    envOr("PROMO_COUPON", defaultPromoCoupon),

		DeliveryFee:           deliveryFee,
		FreeDeliveryThreshold: threshold,
		Coupons:               envOr("COUPONS", defaultCoupons),

		DevOTP:   envOr("DEV_OTP", defaultDevOTP),
		AdminPIN: os.Getenv("ADMIN_PIN"),

		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		GeminiBaseURL:   os.Getenv("GEMINI_BASE_URL"),
		SuggestDebounce: debounce,
		SuggestTimeout:  suggestTimeout,

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		SuggestCacheTTL: cacheTTL,

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOr("KAFKA_TOPIC", defaultKafkaTopic),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.DeliveryFee.IsNegative() {
		return Config{}, fmt.Errorf("DELIVERY_FEE must be >= 0")
	}
	if cfg.FreeDeliveryThreshold.IsNegative() {
		return Config{}, fmt.Errorf("FREE_DELIVERY_THRESHOLD must be >= 0")
	}
	if cfg.DevOTP == "" {
		return Config{}, fmt.Errorf("DEV_OTP must not be empty")
	}

	return cfg, nil
}

// Addr は ":8080" 形式のlisten先
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod" || c.GoEnv == "production"
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func decimalOr(key string, def decimal.Decimal) (decimal.Decimal, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be number: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
