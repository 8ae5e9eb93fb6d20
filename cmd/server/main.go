package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	api "hotel-backend/internal/api/grpc"
	"hotel-backend/internal/api/grpc/interceptor"
	httpapi "hotel-backend/internal/api/http"
	"hotel-backend/internal/config"
	"hotel-backend/internal/lock"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/payment"
	"hotel-backend/internal/repository/postgres"
	"hotel-backend/internal/security"
	"hotel-backend/internal/service"
	"hotel-backend/internal/storage"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	migrate := flag.Bool("migrate", false, "Apply the database schema before serving")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Hotel Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Email configuration", "provider", cfg.Email.Provider, "from", cfg.Email.From)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if *migrate {
		if err := postgres.Migrate(context.Background(), db); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
		logger.Info("Database schema applied")
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize Storage Service
	files, err := storage.New(cfg.Storage, "http://"+cfg.GetServerAddress())
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	logger.Info("Using local image storage", "upload_dir", cfg.Storage.UploadDir)
	maxFileSize := cfg.Storage.MaxFileSize * 1024 * 1024

	// Initialize Email Service
	sender, err := service.NewEmailSender(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize email sender: %v", err)
	}
	emailSvc := service.NewEmailService(sender, cfg.Email.AdminEmails)

	// Webhook delivery lock; without Redis the database constraints still hold
	var locker lock.Locker
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("Redis unreachable, webhook lock will fail open", "addr", cfg.Redis.Addr, "error", err)
		}
		locker = lock.NewRedisLocker(rdb, "hotel:webhook:", cfg.LockTTL())
	} else {
		logger.Info("Redis not configured, webhook lock disabled")
	}

	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.Stripe.Currency,
		cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL)

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	availabilitySvc := service.NewAvailabilityService(store.RoomRepository, store.ReservationRepository)
	reservationSvc := service.NewReservationService(
		store.RoomRepository,
		store.ReservationRepository,
		store.NotificationRepository,
		store.ActivityLogRepository,
	)
	paymentSvc := service.NewPaymentService(
		store.RoomRepository,
		store.ReservationRepository,
		store.UserRepository,
		store.PaymentEventRepository,
		store.NotificationRepository,
		store.ActivityLogRepository,
		gateway,
		locker,
		emailSvc,
	)
	roomSvc := service.NewRoomService(
		store.RoomRepository,
		store.ReservationRepository,
		store.ActivityLogRepository,
		files,
		cfg.Storage.AllowedTypes,
		maxFileSize,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)
	activitySvc := service.NewActivityService(store.ActivityLogRepository)

	// Initialize HTTP handlers
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:          httpapi.NewAuthHandler(authSvc),
		Reservations:  httpapi.NewReservationHandler(reservationSvc, availabilitySvc),
		Payments:      httpapi.NewPaymentHandler(paymentSvc),
		Rooms:         httpapi.NewRoomHandler(roomSvc, availabilitySvc),
		Notifications: httpapi.NewNotificationHandler(noteSvc, activitySvc, cfg.StreamInterval()),
		Files:         httpapi.NewImageUploadHandler(files, maxFileSize),
		DB:            store,
	}, httpapi.NewAuthMiddleware(tokenManager))

	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up gRPC health server
	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(interceptor.NewLoggingInterceptor().Unary()),
	)
	healthReporter := api.NewHealthReporter(store, 15*time.Second)
	healthpb.RegisterHealthServer(grpcServer, healthReporter.Server())

	// Register reflection service for grpcurl
	reflection.Register(grpcServer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go healthReporter.Run(ctx)

	go func() {
		logger.Info("gRPC health server listening", "address", cfg.GetGRPCAddress())
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
		}
	}()

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Server stopped")
}
