package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"climate-hub/airquality"
	"climate-hub/cache"
	"climate-hub/config"
	"climate-hub/controllers"
	"climate-hub/database"
	"climate-hub/gcs"
	"climate-hub/jobs"
	"climate-hub/logger"
	middlewares "climate-hub/middleware"
	"climate-hub/models"
	"climate-hub/notify"
	"climate-hub/payment"
	"climate-hub/routes"
	"climate-hub/services"
	"climate-hub/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	root := &cobra.Command{
		Use:          "climate-hub",
		Short:        "Climate awareness API: reports, FAQ, air quality and the climate shop",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API and the scheduled jobs",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "expire-orders",
			Short: "Mark stale pending orders as expired once and exit",
			RunE:  runExpireOrders,
		},
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// setup installs the global logger and then loads configuration, so config
// warnings reach the log.
func setup() (*config.Config, *zap.Logger, error) {
	envErr := config.LoadDotEnv()
	log, err := logger.New(config.GinMode())
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	if envErr != nil {
		log.Debug("no .env file loaded", zap.Error(envErr))
	}
	return config.Load(), log, nil
}

type stores struct {
	reports services.ReportStore
	faqs    services.FaqStore
	orders  services.OrderStore
	close   func()
}

func openStores(cfg *config.Config) (*stores, error) {
	if cfg.UseMongo() {
		if err := db.InitDB(cfg.MongoURI, cfg.MongoDB); err != nil {
			return nil, err
		}
		return &stores{
			reports: services.NewMongoReportStore(db.OpenCollection(db.ReportsCollection)),
			faqs:    services.NewMongoFaqStore(db.OpenCollection(db.FaqsCollection)),
			orders:  services.NewMongoOrderStore(db.OpenCollection(db.OrdersCollection)),
			close:   db.DisconnectDB,
		}, nil
	}

	if cfg.StorageDriver == "sqlite" {
		sqlDB, err := services.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		zap.L().Info("using sqlite store", zap.String("path", cfg.SQLitePath))
		return &stores{
			reports: services.NewSQLiteReportStore(sqlDB),
			faqs:    services.NewSQLiteFaqStore(sqlDB),
			orders:  services.NewSQLiteOrderStore(sqlDB),
			close:   func() { _ = sqlDB.Close() },
		}, nil
	}

	reports, err := services.NewLocalReportStore(filepath.Join(cfg.LocalStoreDir, "reports.json"))
	if err != nil {
		return nil, err
	}
	faqs, err := services.NewLocalFaqStore(filepath.Join(cfg.LocalStoreDir, "faqs.json"))
	if err != nil {
		return nil, err
	}
	orders, err := services.NewLocalOrderStore(filepath.Join(cfg.LocalStoreDir, "orders.json"))
	if err != nil {
		return nil, err
	}
	zap.L().Info("using local file store", zap.String("dir", cfg.LocalStoreDir))
	return &stores{reports: reports, faqs: faqs, orders: orders, close: func() {}}, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer st.close()
	controllers.InitStores(st.reports, st.faqs, st.orders)

	if cfg.CatalogFile != "" {
		products, err := models.LoadCatalog(cfg.CatalogFile)
		if err != nil {
			return err
		}
		models.Catalog = products
		log.Info("loaded product catalog", zap.String("file", cfg.CatalogFile), zap.Int("products", len(products)))
	}

	if cfg.NotifyTelegram() {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Warn("telegram unavailable, moderator alerts disabled", zap.Error(err))
		} else {
			controllers.InitNotifier(tg)
		}
	}

	// Photos go to the bucket when one is configured, otherwise stay inline.
	if cfg.GCSBucket != "" {
		if err := gcs.InitGCS(ctx, cfg.GCSBucket, cfg.GCSCredentials); err != nil {
			log.Warn("cloud storage unavailable, keeping photos inline", zap.Error(err))
		} else {
			defer gcs.Close()
			controllers.InitPhotoStore(services.GCSPhotoStore{Folder: "reports"})
		}
	}

	var (
		aqCache       airquality.Cache
		reportLimiter middlewares.HitCounter
	)
	if cfg.RedisAddress != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddress, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable, caching and rate limiting disabled", zap.Error(err))
		} else {
			defer func(c *redis.Client) { _ = c.Close() }(rdb)
			aqCache = cache.NewJSONCache(rdb, "aq:")
			reportLimiter = cache.NewWindowCounter(rdb, "ratelimit:reports:")
		}
	}

	aq := airquality.NewService(airquality.NewClient(cfg.OpenWeatherAPIKey), aqCache, cfg.AirQualityCacheTTL)
	controllers.InitAirQuality(aq)

	gateway, err := payment.NewOmiseGateway(cfg.OmisePublicKey, cfg.OmiseSecretKey)
	if err != nil {
		return err
	}
	var mailer utils.Mailer
	if m := (&utils.SMTPMailer{From: cfg.EmailFrom, Pass: cfg.EmailPass, Addr: cfg.SMTPHost}); m.Enabled() {
		mailer = m
	}
	controllers.InitShop(gateway, mailer, cfg.PaymentCurrency)

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, moderation endpoints will reject every token")
	}
	controllers.InitAdmin(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecret)
	middlewares.InitAuth(cfg.JWTSecret)

	scheduler, err := jobs.NewScheduler(jobs.Config{
		OrderExpirySchedule:       cfg.OrderExpirySchedule,
		OrderExpiry:               cfg.OrderExpiry,
		AirQualityRefreshSchedule: cfg.AirQualityRefreshSchedule,
	}, st.orders, aq)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger())
	routes.SetupRoutes(r, routes.Options{
		CORSOrigins:      cfg.CORSOrigins,
		ReportLimiter:    reportLimiter,
		ReportDailyLimit: cfg.ReportDailyLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", zap.String("addr", srv.Addr), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runExpireOrders(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer st.close()

	n, err := jobs.ExpireOrders(cmd.Context(), st.orders, cfg.OrderExpiry)
	if err != nil {
		return err
	}
	log.Info("expired pending orders", zap.Int64("count", n), zap.Duration("older_than", cfg.OrderExpiry))
	return nil
}
