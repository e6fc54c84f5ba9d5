package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/notify"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/pricing"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/suggest"
	"storefront/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const sweepInterval = time.Minute

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProd() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	//.envはあれば読む（本番は環境変数だけ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 金額はJSONで数値として返す
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//Repository（インメモリ実装）生成
	productRepo := infraRepo.NewProductMemoryRepository(catalog.SeedProducts())
	orderRepo := infraRepo.NewOrderMemoryRepository()
	auditRepo := infraRepo.NewAuditLogMemoryRepository()

	//クーポンと配送料
	coupons, err := pricing.ParseRegistry(cfg.Coupons)
	if err != nil {
		logger.Fatal("invalid COUPONS", zap.Error(err))
	}
	engine := pricing.NewEngine(coupons, cfg.DeliveryFee, cfg.FreeDeliveryThreshold)

	//検索ヒント（Gemini → Redisキャッシュ）
	var provider suggest.Provider = suggest.NoopProvider{}
	var describer usecase.DescriptionWriter = suggest.NoopProvider{}
	if cfg.GeminiAPIKey != "" {
		g := suggest.NewGeminiProvider(suggest.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
			Timeout: cfg.SuggestTimeout,
		}, logger)
		provider, describer = g, g
	} else {
		logger.Info("GEMINI_API_KEY not set, relevance hints disabled")
	}
	if cfg.RedisAddr != "" {
		rdb, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, hints not cached", zap.Error(err))
		} else {
			defer rdb.Close()
			provider = suggest.NewCachedProvider(provider, rdb, cfg.SuggestCacheTTL, logger)
		}
	}

	newTracker := func() *suggest.Tracker {
		return suggest.NewTracker(provider, suggest.TrackerOptions{
			Debounce: cfg.SuggestDebounce,
			Timeout:  cfg.SuggestTimeout,
		}, logger)
	}
	sessions := session.NewMemoryStore(cfg.SessionTTL, newTracker)
	tokens := session.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)

	//注文通知（ログ + Kafka）
	sinks := notify.MultiSink{notify.NewLogSink(logger)}
	if len(cfg.KafkaBrokers) > 0 {
		ks := notify.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer ks.Close()
		sinks = append(sinks, ks)
	}
	whatsapp := notify.NewWhatsApp(cfg.WhatsAppNumber, notify.DefaultWelcomeMessage)

	//Usecase生成
	storefrontUC := usecase.NewStorefrontUsecase(productRepo, orderRepo, engine, whatsapp, sinks, usecase.StoreSettings{
		Name:        cfg.StoreName,
		Phone:       cfg.StorePhone,
		Address:     cfg.StoreAddress,
		PromoCoupon: cfg.PromoCoupon,
	}, logger)
	authUC := usecase.NewAuthUsecase(sessions, tokens, usecase.AuthSettings{
		DevOTP:   cfg.DevOTP,
		AdminPIN: cfg.AdminPIN,
	}, logger)
	adminUC := usecase.NewAdminUsecase(productRepo, orderRepo, auditRepo, describer, logger)

	//Handler生成
	e := server.New(server.Handlers{
		Storefront:   handler.NewStorefrontHandler(storefrontUC),
		Cart:         handler.NewCartHandler(storefrontUC),
		Auth:         handler.NewAuthHandler(authUC),
		Order:        handler.NewOrderHandler(storefrontUC),
		AdminProduct: handler.NewAdminProductHandler(adminUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminUC),
	}, tokens, sessions, logger)

	//期限切れセッションの掃除
	go func() {
		t := time.NewTicker(sweepInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				if n := sessions.Sweep(now); n > 0 {
					logger.Debug("sessions swept", zap.Int("count", n))
				}
			}
		}
	}()

	//Server起動
	if err := server.Run(ctx, e, cfg.Addr(), logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
