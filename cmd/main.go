package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/abhishekverma0700/eduavaa/config"
	"github.com/abhishekverma0700/eduavaa/internal/container"
	"github.com/abhishekverma0700/eduavaa/internal/infrastructure/store"
	"github.com/abhishekverma0700/eduavaa/internal/interface/middleware"
	"github.com/abhishekverma0700/eduavaa/internal/router"
	"github.com/abhishekverma0700/eduavaa/pkg/helpers"
	"github.com/abhishekverma0700/eduavaa/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Ledger store (postgres or sqlite), migrated on start
	ledger, closeLedger, err := store.OpenLedger(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to open ledger")
	}
	defer closeLedger()

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// Elasticsearch (optional; catalog search falls back to the manifest)
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; catalog search uses the manifest")
		} else {
			container.SetES(es)
		}
	}

	// Razorpay
	if gw, err := newGateway(cfg); err != nil {
		logger.WithError(err).Warn("payment gateway not configured; order creation will fail")
	} else {
		container.SetGateway(gw)
	}

	// Download link signer
	signer, closeSigner, err := newAssetSigner(ctx, cfg)
	if err != nil {
		logger.WithError(err).Warn("asset signer unavailable; download links disabled")
	} else if signer != nil {
		container.SetSigner(signer)
		defer closeSigner()
	}

	// Purchase receipts through RabbitMQ
	if cfg.MailSendEnabled {
		receipts, closeReceipts, err := newReceiptPublisher(cfg)
		if err != nil {
			logger.WithError(err).Warn("receipt queue unavailable; receipts disabled")
		} else {
			container.SetReceipts(receipts)
			defer closeReceipts()
		}
	}

	container.SetManifest(loadManifest(cfg, logger))

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetLedger(ledger)
	container.SetRedis(rdb)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(middleware.Metrics())
	// CORS
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader, "X-Admin-UID"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(middleware.AccessLog(logger))
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
