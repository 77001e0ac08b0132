package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iterativai/empathic-venture-forge/internal/application"
	appanalysis "github.com/iterativai/empathic-venture-forge/internal/application/analysis"
	appchat "github.com/iterativai/empathic-venture-forge/internal/application/chat"
	appenrich "github.com/iterativai/empathic-venture-forge/internal/application/enrich"
	"github.com/iterativai/empathic-venture-forge/internal/config"
	domai "github.com/iterativai/empathic-venture-forge/internal/domain/ai"
	domanalysis "github.com/iterativai/empathic-venture-forge/internal/domain/analysis"
	domchat "github.com/iterativai/empathic-venture-forge/internal/domain/chat"
	"github.com/iterativai/empathic-venture-forge/internal/domain/faults"
	localai "github.com/iterativai/empathic-venture-forge/internal/infra/ai/local"
	openaigw "github.com/iterativai/empathic-venture-forge/internal/infra/ai/openai"
	mysqlp "github.com/iterativai/empathic-venture-forge/internal/infra/db/mysql"
	postgresp "github.com/iterativai/empathic-venture-forge/internal/infra/db/postgres"
	"github.com/iterativai/empathic-venture-forge/internal/infra/httpserver"
	"github.com/iterativai/empathic-venture-forge/internal/infra/notify"
	minioStore "github.com/iterativai/empathic-venture-forge/internal/infra/storage"
	"github.com/iterativai/empathic-venture-forge/internal/middleware"
)

func main() {
	// .env buat dev lokal; di prod env sudah diset dari luar
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal("config load error", zap.Error(err))
	}

	ctx := context.Background()

	// connect DB, driver dipilih dari config
	var (
		db       *sql.DB
		repo     domanalysis.Repository
		convRepo domchat.Repository
		faultsRp faults.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			logger.Fatal("postgres connect error", zap.Error(err))
		}
		repo = postgresp.NewAnalysisRepository(db)
		convRepo = postgresp.NewConversationRepository(db)
		faultsRp = postgresp.NewFaultRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			logger.Fatal("mysql connect error", zap.Error(err))
		}
		repo = mysqlp.NewAnalysisRepository(db)
		convRepo = mysqlp.NewConversationRepository(db)
		faultsRp = mysqlp.NewFaultRepository(db)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		logger.Fatal("minio init error", zap.Error(err))
	}

	// init AI gateway
	var gateway domai.Gateway
	switch cfg.AI.Provider {
	case "local":
		gateway = localai.New()
	default:
		if cfg.AI.BaseURL != "" {
			gateway = openaigw.NewClientWithBaseURL(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
		} else {
			gateway = openaigw.NewClient(cfg.AI.APIKey, cfg.AI.Model)
		}
	}

	hub := notify.NewHub(logger)

	enrichSvc := &appenrich.Service{
		Repo:       repo,
		Gateway:    gateway,
		Notifier:   hub,
		Faults:     faultsRp,
		Clock:      application.SystemClock{},
		Log:        logger,
		MarkFailed: cfg.Worker.MarkFailed,
	}
	analysesSvc := &appanalysis.Service{
		Repo:       repo,
		Files:      store,
		Dispatcher: enrichSvc,
		Clock:      application.SystemClock{},
		Log:        logger,
	}
	chatSvc := &appchat.Service{
		Repo:    convRepo,
		Gateway: gateway,
		Clock:   application.SystemClock{},
		Log:     logger,
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware(logger))
	mux.Use(middleware.MetricsMiddleware)
	// Auth runs before the rate limiter, which keys buckets by the
	// resolved tenant
	mux.Use(middleware.APIKeyAuth(cfg.Auth.Keys))
	if cfg.RateLimit.Capacity > 0 {
		mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	}

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Mount("/", httpserver.NewRouter(analysesSvc, enrichSvc, chatSvc, hub, logger))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
}
