package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-feed-backend/internal/config"
	"pet-feed-backend/internal/datareader"
	"pet-feed-backend/internal/handlers"
	"pet-feed-backend/internal/media"
	"pet-feed-backend/internal/middleware"
	"pet-feed-backend/internal/repository"
	"pet-feed-backend/internal/repository/memory"
	"pet-feed-backend/internal/repository/postgres"
	"pet-feed-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx := context.Background()

	// Pick the repository backend
	repo, cleanup, err := openRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open repository")
	}
	defer cleanup()

	// Seed from CSV fixtures when configured
	if cfg.Storage.FixturesDir != "" {
		if err := datareader.Populate(ctx, repo, cfg.Storage.FixturesDir); err != nil {
			log.Fatal().Err(err).Str("dir", cfg.Storage.FixturesDir).Msg("Failed to populate repository")
		}
		if total, err := repo.TotalUserCount(ctx); err == nil {
			log.Info().Int("users", total).Str("dir", cfg.Storage.FixturesDir).Msg("Fixtures loaded")
		}
	}

	layout := media.Layout{Root: cfg.Media.Root}
	thumbnailer := media.NewThumbnailer(
		media.FFmpegExtractor{Binary: cfg.Media.FFmpegBinary},
		cfg.Media.ThumbnailMaxWidth,
		cfg.Media.ThumbnailMaxHeight,
	)

	// Initialize services
	authService := services.NewAuthService(repo, cfg.JWT.Secret)
	userService := services.NewUserService(repo, layout)
	feedHub := services.NewFeedHub()
	feedService := services.NewFeedService(repo, thumbnailer)
	postService := services.NewPostService(repo, feedHub)
	uploadService := services.NewUploadService(repo, layout, feedHub)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, repo)
	feedHandler := handlers.NewFeedHandler(feedService)
	postHandler := handlers.NewPostHandler(postService, repo)
	uploadHandler := handlers.NewUploadHandler(uploadService, repo)
	wsHandler := handlers.NewWebSocketHandler(feedHub, authService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/feed", feedHandler.GetFeed)
		r.Get("/posts/{id}", postHandler.GetPost)
		r.Get("/posts/{id}/comments", postHandler.GetComments)
		r.Get("/profiles/{username}", userHandler.GetProfile)
		r.Get("/users/{id}/followers", userHandler.Followers)
		r.Get("/users/{id}/thumbnails", feedHandler.GetUserThumbnails)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(authService))
			r.Put("/me/bio", userHandler.UpdateBio)
			r.Post("/me/avatar", userHandler.UploadAvatar)
			r.Post("/me/convert", userHandler.Convert)
			r.Post("/users/{id}/follow", userHandler.Follow)
			r.Delete("/users/{id}/follow", userHandler.Unfollow)
			r.Delete("/posts/{id}", postHandler.DeletePost)
			r.Post("/posts/{id}/like", postHandler.ToggleLike)
			r.Post("/posts/{id}/comments", postHandler.CreateComment)
			r.Delete("/posts/{id}/comments/{commentID}", postHandler.DeleteComment)
			r.Post("/comments/{id}/like", postHandler.LikeComment)
			r.Post("/uploads", uploadHandler.Stage)
			r.Post("/uploads/{id}/finalize", uploadHandler.Finalize)
			r.Delete("/uploads", uploadHandler.Discard)
		})
	})

	// Serve uploaded media straight from disk
	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.Media.Root))))

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("storage", cfg.Storage.Mode).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openRepository picks the backend from the storage mode. The postgres
// backend migrates its schema on startup; memory mode needs no setup.
func openRepository(ctx context.Context, cfg *config.Config) (repository.Repository, func(), error) {
	switch cfg.Storage.Mode {
	case "memory":
		return memory.New(), func() {}, nil
	case "postgres":
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		log.Info().Msg("Database connection established")
		return postgres.New(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage mode %q", cfg.Storage.Mode)
	}
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
