package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pingo-api/config"
	"pingo-api/internal/application/ports"
	"pingo-api/internal/application/services"
	"pingo-api/internal/infrastructure/db/postgres"
	"pingo-api/internal/infrastructure/db/postgres/settings"
	"pingo-api/internal/infrastructure/db/postgres/upload"
	"pingo-api/internal/infrastructure/db/postgres/user"
	"pingo-api/internal/infrastructure/jwt"
	"pingo-api/internal/infrastructure/metrics"
	"pingo-api/internal/infrastructure/mq"
	"pingo-api/internal/infrastructure/storage"
	"pingo-api/internal/interface/api/rest"
	"pingo-api/internal/interface/api/rest/middleware"
	"pingo-api/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	fs         afero.Fs
	uploads    *storage.UploadStore
	assets     *storage.AssetStore
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	events     ports.EventEmitter
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
	sweeper    *services.ExpirationSweeper
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	defer logger.Sync()

	// config
	if err = godotenv.Load(".env"); err != nil {
		logger.Info("no .env file, using process environment", zap.Error(err))
	}
	cfg := config.Load()
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.CORS(cfg.App.AllowedOrigins))
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		return nil, fmt.Errorf("DB config error: %w", err)
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err = postgres.RunMigrations(ctx, dbPool, logger); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// storage
	fsys := afero.NewOsFs()
	uploads := storage.NewUploadStore(fsys, cfg.Storage.UploadsDir)
	if err = uploads.EnsureDir(); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to prepare uploads dir: %w", err)
	}
	assets := storage.NewAssetStore(fsys, logger, cfg.Storage.LogosDir, cfg.Storage.BackgroundsDir)

	a := &App{
		logger:   logger,
		cfg:      cfg,
		db:       dbPool,
		fs:       fsys,
		uploads:  uploads,
		assets:   assets,
		httpSrv:  httpSrv,
		router:   r,
		mCounter: mCounter,
		events:   mq.Noop{},
	}

	// rabbitMQ is optional; without it lifecycle events are dropped
	if !cfg.MQEnabled() {
		logger.Info("RabbitMQ not configured, lifecycle events disabled")
		return a, nil
	}
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("RabbitMQ config error: %w", err)
	}
	rbMQ := mq.New(cfg.MQ, logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to connect to rabbitMQ: %w", err)
	}
	a.mq = rbMQ
	a.events = rbMQ
	if err = rbMQ.Init(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed init rabbitMQ: %w", err)
	}
	// rmqConsumer
	rmqConsumer := rmqconsumer.New(cfg.MQ, logger)
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to connect rabbitMQ consumer: %w", err)
	}
	a.mqConsumer = rmqConsumer
	if err = rmqConsumer.Init(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to init rabbitMQ consumer: %w", err)
	}

	return a, nil
}

func (a *App) Close() {
	if a.mqConsumer != nil {
		a.mqConsumer.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		_ = a.mq.GetConn().Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.cfg.App.Host+":"+a.cfg.App.Port))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.sweeper != nil {
		g.Go(func() error {
			a.sweeper.Worker(ctx)
			return nil
		})
	}

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	userRepo := user.NewRepository(a.db)
	uploadRepo := upload.NewRepository(a.db, a.logger)
	settingsRepo := settings.NewRepository(a.db)

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret)
	accessService := services.NewAccessService(uploadRepo, jwtService, a.logger)
	deliveryService := services.NewDeliveryService(accessService, a.uploads, uploadRepo, a.logger, a.mCounter)
	settingsService := services.NewSettingsService(settingsRepo, userRepo, a.assets, a.logger, a.mCounter)
	a.sweeper = services.NewExpirationSweeper(
		uploadRepo, settingsRepo, a.uploads, a.events, a.logger, a.mCounter, a.cfg.Sweeper.Interval,
	)

	// controllers
	rest.NewDeliveryController(a.router, deliveryService, a.logger)
	rest.NewSettingsController(a.router, settingsService, a.logger, jwtService)

	// branding assets
	a.router.StaticFS(rest.RouteLogos, afero.NewHttpFs(afero.NewBasePathFs(a.fs, a.assets.Dir(storage.CategoryLogo))))
	a.router.StaticFS(rest.RouteBackgrounds, afero.NewHttpFs(afero.NewBasePathFs(a.fs, a.assets.Dir(storage.CategoryBackground))))

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }
