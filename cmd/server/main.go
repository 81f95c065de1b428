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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	"github.com/animeflix/auth-service/application/usecase"
	"github.com/animeflix/auth-service/infrastructure/adapter/postgres"
	redisadapter "github.com/animeflix/auth-service/infrastructure/adapter/redis"
	"github.com/animeflix/auth-service/infrastructure/config"
	"github.com/animeflix/auth-service/infrastructure/http/handler"
	"github.com/animeflix/auth-service/infrastructure/http/middleware"
	"github.com/animeflix/auth-service/infrastructure/service/email"
	jwtservice "github.com/animeflix/auth-service/infrastructure/service/jwt"
	"github.com/animeflix/auth-service/infrastructure/service/logger"
	"github.com/animeflix/auth-service/infrastructure/service/password"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "auth-service",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	// Connect to database
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		structuredLogger.Error(ctx, "Failed to ping database", err, nil)
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", nil)

	// Connect to the session cache
	redisClient, err := redisadapter.NewClient(cfg.RedisURL)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to connect to redis", err, map[string]interface{}{
			"redis_url": cfg.RedisURL,
		})
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	structuredLogger.Info(ctx, "Session cache connection established", nil)

	// Adapters and services
	userRepo := postgres.NewUserRepositoryAdapter(db)
	sessionCache := redisadapter.NewSessionCacheAdapter(redisClient)

	tokenService, err := jwtservice.NewJWTService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	passwordService := password.NewBcryptPasswordService(cfg.Pepper, cfg.BcryptCost)
	emailService := email.NewSMTPEmailService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		Sender:   cfg.SMTPSender,
		BaseURL:  cfg.PublicBaseURL,
	}, structuredLogger)

	// Use cases
	authUseCase := usecase.NewAuthUseCase(
		userRepo,
		sessionCache,
		tokenService,
		passwordService,
		structuredLogger,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	userUseCase := usecase.NewUserUseCase(userRepo, passwordService, emailService, structuredLogger)

	// HTTP layer
	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	secureCookies := cfg.Environment == "production"
	authHandler := handler.NewAuthHandler(
		authUseCase,
		secureCookies,
		int(cfg.AccessTokenTTL.Seconds()),
		int(cfg.RefreshTokenTTL.Seconds()),
	)
	userHandler := handler.NewUserHandler(userUseCase)

	router := mux.NewRouter()
	router.HandleFunc("/v1/auth/login", authHandler.Login).Methods(http.MethodPost)
	router.HandleFunc("/v1/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)
	router.HandleFunc("/v1/auth/logout", authMiddleware.RequireAuth(authHandler.Logout)).Methods(http.MethodPost)
	router.HandleFunc("/v1/auth/me", authMiddleware.RequireAuth(authHandler.Me)).Methods(http.MethodGet)
	router.HandleFunc("/v1/users", userHandler.Register).Methods(http.MethodPost)
	router.HandleFunc("/v1/users/verify-email", userHandler.VerifyEmail).Methods(http.MethodGet)
	router.HandleFunc("/v1/users/resend-verification", userHandler.ResendVerification).Methods(http.MethodPost)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"healthy"}`)
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      middleware.CorrelationIDMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		structuredLogger.Info(ctx, "Starting server", map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			structuredLogger.Error(ctx, "Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	structuredLogger.Info(ctx, "Shutting down server...", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "Server exited", nil)
}
