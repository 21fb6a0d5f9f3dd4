package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ridesafe-backend/internal/config"
	"ridesafe-backend/internal/handlers"
	"ridesafe-backend/internal/middleware"
	"ridesafe-backend/internal/repository"
	"ridesafe-backend/internal/services"

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

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	rideRepo := repository.NewRideRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	emergencyRepo := repository.NewEmergencyRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)

	// Initialize services
	wsHub := services.NewWSHub()
	userService := services.NewUserService(userRepo, rideRepo, ratingRepo, cfg.JWT.Secret)
	rideService := services.NewRideService(rideRepo, wsHub)
	ratingService := services.NewRatingService(ratingRepo, rideRepo)
	messageService := services.NewMessageService(messageRepo, rideRepo, wsHub)
	emergencyService := services.NewEmergencyService(emergencyRepo, rideRepo)
	vehicleService := services.NewVehicleService(vehicleRepo, userRepo)
	imageService, err := services.NewImageService(userRepo, cfg.AWS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create image service")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, imageService)
	rideHandler := handlers.NewRideHandler(rideService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	messageHandler := handlers.NewMessageHandler(messageService)
	emergencyHandler := handlers.NewEmergencyHandler(emergencyService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, userService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)
			r.Post("/profile/image", userHandler.UploadProfileImage)
			r.Get("/preferences", userHandler.GetPreferences)
			r.Put("/preferences", userHandler.UpdatePreferences)
			r.Get("/stats", userHandler.GetStats)
			r.Delete("/account", userHandler.DeleteAccount)

			r.Post("/vehicle", vehicleHandler.RegisterVehicle)
			r.Get("/vehicle", vehicleHandler.GetVehicle)

			r.Post("/rides", rideHandler.RequestRide)
			r.Get("/rides", rideHandler.ListRides)
			r.Get("/rides/{rideID}", rideHandler.GetRide)
			r.Post("/rides/{rideID}/accept", rideHandler.AcceptRide)
			r.Post("/rides/{rideID}/status", rideHandler.AdvanceRide)
			r.Post("/rides/{rideID}/cancel", rideHandler.CancelRide)

			r.Post("/rides/{rideID}/rating", ratingHandler.RateRide)
			r.Get("/users/{userID}/ratings", ratingHandler.ListRatings)

			r.Post("/rides/{rideID}/messages", messageHandler.SendMessage)
			r.Get("/rides/{rideID}/messages", messageHandler.ListMessages)
			r.Post("/messages/{messageID}/read", messageHandler.MarkRead)

			r.Post("/rides/{rideID}/emergency", emergencyHandler.Report)
			r.Get("/emergencies", emergencyHandler.ListOpen)
			r.Post("/emergencies/{reportID}/resolve", emergencyHandler.Resolve)
		})
	})

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
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
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
