package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/palegrove/umbra/internal/auth"
	"github.com/palegrove/umbra/internal/bot"
	"github.com/palegrove/umbra/internal/config"
	"github.com/palegrove/umbra/internal/handler"
	"github.com/palegrove/umbra/internal/logger"
	"github.com/palegrove/umbra/internal/middleware"
	"github.com/palegrove/umbra/internal/repository/postgres"
	redisrepo "github.com/palegrove/umbra/internal/repository/redis"
	"github.com/palegrove/umbra/internal/service"
)

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().Str("databaseURL", cfg.DatabaseURL).Msg("Config loaded")

	// Database
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()

	// Redis
	redisClient, err := redisrepo.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	// Enable Redis keyspace notifications for turn timer expiry events.
	if err := redisClient.Underlying().ConfigSet(context.Background(), "notify-keyspace-events", "Ex").Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to set Redis keyspace notifications (turn deadlines may not fire)")
	}

	// Repos
	userRepo := postgres.NewUserRepo(db)
	matchRepo := postgres.NewMatchRepo(db)
	eventRepo := postgres.NewEventRepo(db)

	// Bot personalities
	personalities, err := bot.LoadPersonalitiesFile(cfg.PersonalitiesPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PersonalitiesPath).Msg("Failed to load bot personalities")
	}
	assigner := bot.NewAssigner(personalities)

	// Auth
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)
	googleOAuth := auth.NewGoogleOAuth(
		os.Getenv("GOOGLE_CLIENT_ID"),
		os.Getenv("GOOGLE_CLIENT_SECRET"),
		os.Getenv("GOOGLE_REDIRECT_URL"),
	)

	// WebSocket hub
	wsHub := handler.NewHub()

	// Services
	matchSvc := service.NewMatchService(matchRepo, userRepo, assigner)
	turnSvc := service.NewTurnService(matchRepo, eventRepo, redisClient, wsHub, personalities, cfg.TurnTimeout)

	// Timer listener (force-end turns on deadline expiry)
	timerListener := service.NewTimerListener(redisClient.Underlying(), turnSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(googleOAuth, jwtMgr, userRepo)
	userHandler := handler.NewUserHandler(userRepo)
	matchHandler := handler.NewMatchHandler(matchSvc, turnSvc, wsHub)
	intentHandler := handler.NewIntentHandler(turnSvc)
	wsHandler := handler.NewWSHandler(wsHub, jwtMgr)

	// Router
	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth (public)
	mux.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)
	mux.HandleFunc("POST /auth/refresh", authHandler.RefreshToken)
	mux.HandleFunc("GET /auth/dev", authHandler.DevLogin)

	// Protected API routes
	api := http.NewServeMux()
	api.HandleFunc("GET /users/me", userHandler.GetMe)
	api.HandleFunc("PATCH /users/me", userHandler.UpdateMe)
	api.HandleFunc("GET /users/{id}", userHandler.GetUser)
	api.HandleFunc("POST /matches", matchHandler.CreateMatch)
	api.HandleFunc("GET /matches", matchHandler.ListMatches)
	api.HandleFunc("GET /matches/{id}", matchHandler.GetMatch)
	api.HandleFunc("POST /matches/{id}/join", matchHandler.JoinMatch)
	api.HandleFunc("POST /matches/{id}/start", matchHandler.StartMatch)
	api.HandleFunc("DELETE /matches/{id}", matchHandler.DeleteMatch)
	api.HandleFunc("POST /matches/{id}/intents", intentHandler.ApplyIntent)
	api.HandleFunc("GET /matches/{id}/choices", intentHandler.MovementChoices)
	api.HandleFunc("GET /matches/{id}/snapshot", intentHandler.PublicSnapshot)
	api.HandleFunc("GET /matches/{id}/snapshot/me", intentHandler.PrivateSnapshot)
	api.HandleFunc("GET /matches/{id}/events", intentHandler.ListEvents)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMw(api)))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Recover active matches (rehydrate live state after restart)
	if err := turnSvc.RecoverActiveMatches(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to recover active matches (non-fatal)")
	}

	// Start timer listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go timerListener.Start(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
