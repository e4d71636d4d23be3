package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/config"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/notification"
	appHTTP "github.com/cmlabs-hris/hris-timeleave-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-timeleave-go/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/hris-timeleave-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hris-timeleave-go/internal/service/notification"
	"golang.org/x/sync/errgroup"
)

const version = "v1.0.0"

type repositories struct {
	attendance attendance.Repository
	balances   leave.BalanceRepository
	requests   leave.RequestRepository
	tx         database.Transactor
	close      func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("app", "hris-timeleave"), slog.String("env", cfg.App.Env)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clk := clock.New(loc)

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	// Notifications
	translator, err := i18n.New(cfg.Notification.Locale)
	if err != nil {
		return fmt.Errorf("failed to load locales: %w", err)
	}

	hubSink := notificationService.NewHubSink(sse.NewHub(10))
	sinks := []notification.Sink{hubSink, notificationService.NewLogSink(slog.Default())}

	if cfg.Notification.SQSQueueURL != "" {
		sqsClient, err := notificationService.NewSQSClient(ctx, cfg.Notification.AWSRegion, cfg.Notification.AWSEndpoint)
		if err != nil {
			return err
		}
		sinks = append(sinks, notificationService.NewSQSSink(sqsClient, cfg.Notification.SQSQueueURL))
		slog.Info("SQS notification sink enabled", "queue_url", cfg.Notification.SQSQueueURL)
	}

	dispatcher := notificationService.NewDispatcher(translator, notificationService.Config{
		WorkerCount: cfg.Notification.Workers,
		QueueSize:   cfg.Notification.QueueSize,
		Locale:      cfg.Notification.Locale,
	}, sinks...)

	// Services
	tracker := attendanceService.NewTracker(repos.attendance, clk)
	ledger := leaveService.NewLedger(repos.balances, cfg.Allotment())
	workflow := leaveService.NewWorkflow(repos.requests, ledger, repos.tx, dispatcher, clk)

	accessExpiration, err := cfg.AccessExpiration()
	if err != nil {
		return err
	}
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, accessExpiration)

	// Background jobs
	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(repos.attendance, clk).RegisterJobs(scheduler, cfg.Audit.Interval)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			Env:            cfg.App.Env,
			Version:        version,
			LogLevel:       cfg.SlogLevel(),
		},
		jwtService,
		appHTTP.NewAttendanceHandler(tracker),
		appHTTP.NewLeaveHandler(workflow),
		appHTTP.NewNotificationHandler(hubSink, jwtService),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server running", "addr", server.Addr, "storage", cfg.Storage.Driver, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		slog.Info("shutting down server")
		err := server.Shutdown(shutdownCtx)

		// drain queued notifications after the last request
		dispatcher.Stop()
		return err
	})

	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	return g.Wait()
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		slog.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			attendance: memory.NewAttendanceRepository(store),
			balances:   memory.NewLeaveBalanceRepository(store),
			requests:   memory.NewLeaveRequestRepository(store),
			tx:         store,
			close:      func() {},
		}, nil

	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("error connecting to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &repositories{
			attendance: postgresql.NewAttendanceRepository(db),
			balances:   postgresql.NewLeaveBalanceRepository(db),
			requests:   postgresql.NewLeaveRequestRepository(db),
			tx:         postgresql.NewTransactor(db),
			close:      db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}
