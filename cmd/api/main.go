package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"classlisting/config"
	_ "classlisting/docs"
	"classlisting/internal/adapters/auth"
	"classlisting/internal/adapters/email"
	"classlisting/internal/adapters/marketplace"
	httpdelivery "classlisting/internal/delivery/http"
	"classlisting/internal/delivery/http/controllers"
	"classlisting/internal/delivery/http/middleware"
	"classlisting/internal/repository/postgres"
	"classlisting/internal/repository/rediscache"
	"classlisting/internal/services"
)

const serviceTimeout = 30 * time.Second

// @title Classlisting Partner API
// @version 1.0
// @description Partner-facing listing composer for children's enrichment classes.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailProvider,
		FromAddress: cfg.MailFromAddress,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	partnerRepo := postgres.NewPartnerRepository(db)
	draftStore := rediscache.NewDraftStore(redisClient, cfg.DraftTTL)
	marketplaceAPI := marketplace.NewClient(cfg.MarketplaceAPIURL, cfg.MarketplaceAPIKey, &http.Client{Timeout: serviceTimeout})

	hasher := auth.NewBcryptHasher(0)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	partnerService := services.NewPartnerService(partnerRepo, hasher, tokenIssuer, cfg.TokenExpiry)
	wizardService := services.NewWizardService(draftStore, marketplaceAPI, partnerRepo, mailer, logger, serviceTimeout)
	catalogService := services.NewCatalogService(marketplaceAPI, serviceTimeout)

	planService := services.NewPlanOptionsService()
	batchService := services.NewBatchService()
	slotService := services.NewSlotRuleService()

	wizardController := controllers.NewWizardController(logger, wizardService, planService, batchService, slotService)
	authController := controllers.NewAuthController(logger, partnerService)
	catalogController := controllers.NewCatalogController(logger, catalogService)

	mux := httpdelivery.NewRouter(wizardController, authController, catalogController, tokenVerifier, logger)
	handler := middleware.CORS(cfg.CORSOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
