package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/config"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/dtr-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/dtr-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/dtrtime"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/dtr-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/dtr-backend-go/internal/repository/postgresql"
	approvalService "github.com/cmlabs-hris/dtr-backend-go/internal/service/approval"
	attendanceService "github.com/cmlabs-hris/dtr-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/dtr-backend-go/internal/service/auth"
	rosterService "github.com/cmlabs-hris/dtr-backend-go/internal/service/roster"
	"github.com/go-chi/httplog/v3"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "intern-dtr"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		userRepo   user.UserRepository
		recordRepo attendance.DailyRecordRepository
	)
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.MaxConns)
		if err != nil {
			log.Fatal("Error connecting to database: ", err)
		}
		defer db.Close()

		if cfg.Database.AutoMigrate {
			if err := postgresql.EnsureSchema(ctx, db); err != nil {
				log.Fatal("Failed to apply schema: ", err)
			}
		}
		userRepo = postgresql.NewUserRepository(db)
		recordRepo = postgresql.NewDailyRecordRepository(db)
	case "memory":
		slog.Warn("Using in-memory storage, data is lost on restart")
		userRepo = memory.NewUserRepository()
		recordRepo = memory.NewDailyRecordRepository()
	default:
		log.Fatal("Unsupported storage driver: ", cfg.Storage.Driver)
	}

	offset, err := dtrtime.ParseOffset(cfg.Org.UTCOffset)
	if err != nil {
		log.Fatal("Invalid organization offset: ", err)
	}
	zone := dtrtime.NewZone(offset)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}
	m := metrics.New()

	approvalSvc := approvalService.NewApprovalService(userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(recordRepo, approvalSvc, zone, m)
	aggregatorSvc := attendanceService.NewAggregatorService(recordRepo, zone)
	rosterSvc := rosterService.NewRosterService(userRepo, recordRepo, approvalSvc, aggregatorSvc, zone)
	authSvc := serviceAuth.NewAuthService(userRepo, JWTService)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, aggregatorSvc, zone, time.Now)
	adminHandler := appHTTP.NewAdminHandler(rosterSvc, approvalSvc, time.Now)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			FrontendURL: cfg.App.FrontendURL,
			LogLevel:    cfg.SlogLevel(),
		},
		logger,
		JWTService,
		m,
		middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		authHandler,
		attendanceHandler,
		adminHandler,
	)

	scheduler := cron.NewScheduler(ctx)
	cron.NewGaugeJobs(approvalSvc, aggregatorSvc, m, time.Now).RegisterJobs(scheduler, cfg.Metrics.RefreshInterval)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Driver, "utc_offset", cfg.Org.UTCOffset)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
