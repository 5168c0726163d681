package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	"webinar_sync/internal/api"
	"webinar_sync/internal/config"
	"webinar_sync/internal/credential"
	"webinar_sync/internal/domain"
	"webinar_sync/internal/pagination"
	"webinar_sync/internal/progress"
	"webinar_sync/internal/publisher"
	"webinar_sync/internal/ratelimit"
	"webinar_sync/internal/scheduler"
	"webinar_sync/internal/service"
	"webinar_sync/internal/source/zoom"
	"webinar_sync/internal/storage/postgres"
	"webinar_sync/internal/storage/redis"
)

const usage = `usage: syncer [-config path] <command> [flags]

commands:
  run     -connection ID [-from YYYY-MM-DD] [-to YYYY-MM-DD]
  resume  -run ID
  serve`

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cfg, flag.Arg(0), flag.Args()[1:], logger); err != nil {
		logger.Error("syncer failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, command string, args []string, logger *slog.Logger) error {
	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	switch command {
	case "run":
		return app.runOnce(ctx, args)
	case "resume":
		return app.resume(ctx, args)
	case "serve":
		return app.serve(ctx)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

// app holds the wired components shared by every command.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	db        *sqlx.DB
	redis     goredis.UniversalClient
	publisher *publisher.RabbitMQ

	runs    *postgres.SyncRunStore
	cursors *pagination.Cursors
	orch    *service.Orchestrator
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	a.db = db
	if err := db.PingContext(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("connected to database")

	enc, err := credential.NewEncryptor(cfg.Encryption.MasterKey, cfg.Encryption.Context)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init encryptor: %w", err)
	}

	tokenStore, err := a.paginationStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var pub progress.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to rabbitmq: %w", err)
		}
		a.publisher = rabbitMQ
		pub = rabbitMQ
	}

	// Initialize stores
	connections := postgres.NewConnectionStore(db)
	a.runs = postgres.NewSyncRunStore(db)
	queue := postgres.NewQueueStore(db)
	syncState := postgres.NewSyncStateStore(db)
	webinars := postgres.NewWebinarStore(db)
	children := postgres.NewChildStore(db)
	txManager := postgres.NewTransactionManager(db)

	vault := credential.NewVault(credential.Config{
		OAuthURL:     cfg.Provider.OAuthURL,
		ClientID:     cfg.Provider.ClientID,
		ClientSecret: cfg.Provider.ClientSecret,
	}, connections, enc, &http.Client{Timeout: cfg.Provider.Timeout}, logger)

	limiter := ratelimit.New(ratelimit.Config{
		PerSecond:    cfg.RateLimit.PerSecond,
		PerMinute:    cfg.RateLimit.PerMinute,
		FallbackWait: cfg.RateLimit.FallbackRetryWait,
	}, logger)

	a.cursors = pagination.New(tokenStore, cfg.Pagination.TokenTTL, logger)

	client := zoom.New(zoom.Config{
		BaseURL:            cfg.Provider.BaseURL,
		PageSize:           cfg.Provider.PageSize,
		Timeout:            cfg.Provider.Timeout,
		RegistrantStatuses: cfg.Provider.RegistrantStatuses,
		Breaker: zoom.BreakerConfig{
			ConsecutiveFailures: cfg.Provider.Breaker.ConsecutiveFailures,
			OpenTimeout:         cfg.Provider.Breaker.OpenTimeout,
		},
	}, vault, limiter, a.cursors, logger)

	a.orch = service.NewOrchestrator(
		vault,
		client,
		a.runs,
		queue,
		syncState,
		txManager,
		service.NewWriter(webinars, children, txManager, cfg.Sync.BatchSize, logger),
		service.NewAggregator(webinars, logger),
		progress.NewReporter(a.runs, pub, logger),
		logger,
		cfg.Sync,
	)

	return a, nil
}

func (a *app) paginationStore(ctx context.Context) (pagination.TokenStore, error) {
	switch a.cfg.Pagination.Backend {
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		a.logger.Info("pagination tokens stored in redis", "addr", a.cfg.Redis.Addr)
		return redis.NewPaginationTokenStore(client), nil
	case "memory":
		a.logger.Warn("pagination tokens kept in memory, they do not survive a restart")
		return pagination.NewMemoryStore(), nil
	default:
		return postgres.NewPaginationTokenStore(a.db), nil
	}
}

func (a *app) Close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

func (a *app) runOnce(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	connectionID := fs.String("connection", "", "provider connection id")
	from := fs.String("from", "", "window start (YYYY-MM-DD), defaults to the configured window")
	to := fs.String("to", "", "window end (YYYY-MM-DD), defaults to the configured window")
	if err := fs.Parse(args); err != nil {
		return err
	}

	window, err := a.window(*from, *to)
	if err != nil {
		return err
	}

	stopSweeper := a.startSweeper(ctx)
	defer stopSweeper()

	run, err := a.orch.Start(ctx, *connectionID, window)
	a.report(run)
	return err
}

func (a *app) resume(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("resume", flag.ContinueOnError)
	runID := fs.String("run", "", "sync run id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("resume: -run is required")
	}

	stopSweeper := a.startSweeper(ctx)
	defer stopSweeper()

	run, err := a.orch.Resume(ctx, *runID)
	a.report(run)
	return err
}

func (a *app) serve(ctx context.Context) error {
	stopSweeper := a.startSweeper(ctx)
	defer stopSweeper()

	handler := api.NewHandler(ctx, a.orch, a.runs, a.cfg.Sync.Window, a.logger)
	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown", "error", err)
	}

	// ctx is done, so background runs are winding down and will be left
	// cancelled with their queues intact.
	a.orch.Wait()
	a.logger.Info("server stopped")
	return nil
}

func (a *app) startSweeper(ctx context.Context) func() {
	sweepCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	sched := scheduler.NewScheduler(a.cursors, a.cfg.Pagination.SweepInterval, a.logger)
	go func() {
		defer close(done)
		_ = sched.Start(sweepCtx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func (a *app) window(from, to string) (domain.SyncWindow, error) {
	start, end := a.cfg.Sync.Window(time.Now().UTC())
	if from != "" {
		t, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return domain.SyncWindow{}, fmt.Errorf("parse -from: %w", err)
		}
		start = t
	}
	if to != "" {
		t, err := time.Parse(time.DateOnly, to)
		if err != nil {
			return domain.SyncWindow{}, fmt.Errorf("parse -to: %w", err)
		}
		end = t
	}
	return domain.SyncWindow{Start: start, End: end}, nil
}

func (a *app) report(run *domain.SyncRun) {
	if run == nil {
		return
	}
	attrs := []any{
		"run_id", run.ID,
		"status", run.Status,
		"total", run.TotalItems,
		"processed", run.ProcessedItems,
		"failed", run.FailedItems,
	}
	if run.ErrorMessage != nil {
		attrs = append(attrs, "error", *run.ErrorMessage)
	}
	a.logger.Info("sync run result", attrs...)
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
