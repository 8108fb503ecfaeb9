package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"hrhub/internal/config"
	"hrhub/internal/logger"
	"hrhub/internal/repository"
	"hrhub/internal/server"
	"hrhub/internal/service"
	"hrhub/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	if envErr != nil {
		logg.Info("no .env file found, relying on environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	health := map[string]server.Pinger{}

	// --- Repositories ---
	var (
		userRepo       repository.UserRepository
		employeeRepo   repository.EmployeeRepository
		leaveRepo      repository.LeaveRepository
		attendanceRepo repository.AttendanceRepository
	)
	switch cfg.Storage {
	case config.StorageMemory:
		store := repository.NewMemoryStore()
		userRepo, employeeRepo = store.Users(), store.Employees()
		leaveRepo, attendanceRepo = store.Leaves(), store.Attendance()
		logg.Warn("using in-memory storage, data is lost on restart")
	default:
		dbPool, err := config.ConnectDB(ctx, cfg.DB, logg)
		if err != nil {
			logg.Fatal("failed to connect to database", zap.Error(err))
		}
		defer dbPool.Close()

		if err := config.MigratePool(ctx, dbPool); err != nil {
			logg.Fatal("failed to migrate database", zap.Error(err))
		}
		userRepo = repository.NewUserRepository(dbPool)
		employeeRepo = repository.NewEmployeeRepository(dbPool)
		leaveRepo = repository.NewLeaveRepository(dbPool)
		attendanceRepo = repository.NewAttendanceRepository(dbPool)
		health["db"] = dbPool.Ping
	}

	var revocations repository.RevocationStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logg.Fatal("failed to connect to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		revocations = repository.NewRedisRevocationStore(rdb)
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		logg.Warn("REDIS_ADDR not set, revoked tokens are kept in memory")
		revocations = repository.NewMemoryRevocationStore()
	}

	// --- Services ---
	jwtUtil := utils.NewJWTUtil(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	authService, err := service.NewAuthService(userRepo, revocations, jwtUtil, service.AuthConfig{
		InitialAdminEmail: cfg.InitialAdminEmail,
		BcryptCost:        cfg.BcryptCost,
	}, logg)
	if err != nil {
		logg.Fatal("failed to init auth service", zap.Error(err))
	}
	employeeService := service.NewEmployeeService(employeeRepo, leaveRepo, attendanceRepo)
	leaveService := service.NewLeaveService(leaveRepo)
	attendanceService := service.NewAttendanceService(attendanceRepo)

	// --- Router ---
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.Deps{
		Auth:        authService,
		Employees:   employeeService,
		Leave:       leaveService,
		Attendance:  attendanceService,
		Logger:      logg,
		CORSOrigins: cfg.CORSOrigins,
		Health:      health,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logg.Info("server starting", zap.String("port", cfg.ServerPort), zap.String("storage", cfg.Storage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error("listen failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	logg.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	logg.Info("server exiting")
}
