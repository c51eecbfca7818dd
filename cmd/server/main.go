// @title         cvfolio API
// @version       1.0
// @description   Portfolio et CV en ligne : pages publiques, administration et API JSON.
// @BasePath      /api
// @schemes       http
// @host          localhost:3000
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Jeton d'accès : "Bearer <JWT>".
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	_ "github.com/cvfolio/cvfolio/docs"

	// internal imports
	"github.com/cvfolio/cvfolio/api/http"
	"github.com/cvfolio/cvfolio/api/http/handlers"
	"github.com/cvfolio/cvfolio/api/http/middleware"
	"github.com/cvfolio/cvfolio/api/http/views"
	"github.com/cvfolio/cvfolio/pkg/auth"
	"github.com/cvfolio/cvfolio/pkg/config"
	"github.com/cvfolio/cvfolio/pkg/contact"
	"github.com/cvfolio/cvfolio/pkg/cv"
	"github.com/cvfolio/cvfolio/pkg/document"
	"github.com/cvfolio/cvfolio/pkg/health"
	"github.com/cvfolio/cvfolio/pkg/health/checkers"
	"github.com/cvfolio/cvfolio/pkg/llm/openrouter"
	"github.com/cvfolio/cvfolio/pkg/logging"
	"github.com/cvfolio/cvfolio/pkg/product"
	"github.com/cvfolio/cvfolio/pkg/recordstore"
	"github.com/cvfolio/cvfolio/pkg/repository/records"
	"github.com/cvfolio/cvfolio/pkg/security/jwt"
	"github.com/cvfolio/cvfolio/pkg/storage"
	"github.com/cvfolio/cvfolio/pkg/storage/blob"
	"github.com/cvfolio/cvfolio/pkg/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration from defaults, CONFIG_FILE and env/.env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.AppEnv, cfg.LogLevel)

	// Record store
	handle, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("open %s store: %v", cfg.StoreBackend, err)
	}
	defer handle.Close()
	store := recordstore.New(handle.Backend, recordstore.WithLogger(logger.With("component", "recordstore")))
	readinessCheckers := append([]health.Checker{}, handle.Checkers...)

	// Sessions: in memory unless REDIS_URL is set
	var sessionStorage fiber.Storage
	if cfg.RedisURL != "" {
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer client.Close()
		sessionStorage = redis.NewStorage(client)
		readinessCheckers = append(readinessCheckers, checkers.NewRedisChecker(client))
	}
	sessions := middleware.NewSessions(cfg.SessionTTL(), sessionStorage, !cfg.IsDevelopment())

	// Uploaded CV files: S3 when a bucket is configured, local disk otherwise
	var blobs blob.Store
	if cfg.S3Bucket != "" {
		blobs, err = blob.NewS3Store(ctx, blob.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	} else {
		blobs, err = blob.NewLocalStore(cfg.UploadDir)
	}
	if err != nil {
		log.Fatalf("init document storage: %v", err)
	}

	// Domain services
	cvSvc := cv.NewService(store)
	contactSvc := contact.NewService(store, contact.WithLogger(logger.With("component", "contact")))
	userRepo := records.NewUserRepository(store)
	jwtGen := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL())
	authUC := auth.NewAuthService(userRepo, jwtGen)

	docOpts := []document.Option{document.WithLogger(logger.With("component", "document"))}
	if cfg.OpenRouterAPIKey != "" {
		llmClient := openrouter.New(openrouter.Config{
			APIKey:   cfg.OpenRouterAPIKey,
			BaseURL:  cfg.OpenRouterBase,
			Model:    cfg.OpenRouterModel,
			AppTitle: cfg.OpenRouterAppTitle,
			Referer:  cfg.OpenRouterReferer,
		})
		docOpts = append(docOpts, document.WithChatModel(llmClient, llmClient.Model()))
	} else {
		logger.Warn(ctx, "OPENROUTER_API_KEY is not set, profile extraction is disabled")
	}
	docSvc := document.NewService(records.NewDocumentRepository(store), blobs, cvSvc, docOpts...)

	engine := views.New()
	if err := engine.Load(); err != nil {
		log.Fatalf("load views: %v", err)
	}
	app := http.NewApp(http.AppConfig{
		Views:        engine,
		ExposeErrors: cfg.IsDevelopment(),
		AccessLog:    true,
		Logger:       logger,
	})

	// Register routes
	http.Register(app, http.Handlers{
		Pages:     handlers.NewPageHandler(cvSvc, contactSvc, docSvc, sessions),
		Admin:     handlers.NewAdminHandler(cvSvc, contactSvc, sessions),
		Auth:      handlers.NewAuthHandler(authUC, sessions, cfg.AllowRegistration),
		Health:    handlers.NewHealthHandler(health.NewService(readinessCheckers...), cfg.StoreBackend),
		CV:        handlers.NewCVHandler(cvSvc),
		Contact:   handlers.NewContactHandler(contactSvc),
		Documents: handlers.NewDocumentsHandler(docSvc),
		Users:     handlers.NewUsersHandler(auth.NewUserService(userRepo)),
		Products:  handlers.NewProductsHandler(product.NewService(records.NewProductRepository(store))),
		Sessions:  sessions,
		Verifier:  jwt.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer),
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "shutdown", "error", err)
		}
	}()

	// Start server
	logger.Info(ctx, "HTTP server listening", "port", cfg.Port, "store", cfg.StoreBackend, "env", cfg.AppEnv)
	if err := app.Listen(":" + cfg.Port); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("server stopped: %v", err)
	}
}
