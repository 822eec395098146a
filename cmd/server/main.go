package main

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/rl1809/storefront/config"
	"github.com/rl1809/storefront/internal/adapter/blobstore"
	"github.com/rl1809/storefront/internal/adapter/handler"
	"github.com/rl1809/storefront/internal/adapter/payment"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/cache"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/observability"
	"github.com/rl1809/storefront/internal/port"
)

const (
	metricsNamespace = "storefront"
	shutdownTimeout  = 5 * time.Second
)

func main() {
	fx.New(
		fx.Provide(
			config.New,
			newLogger,
			newMetrics,
		),
		fx.Provide(
			newStore,
			newCache,
			newRetryQueue,
			newBlobStorage,
			newPaymentGateway,
		),
		fx.Provide(
			newReadThrough,
			newInvalidator,
			cache.NewIdempotency,
		),
		fx.Provide(newServices),
		fx.Invoke(
			startHTTPServer,
			startGRPCServer,
		),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
	).Run()
}

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	logger, err := observability.NewLogger(cfg.Env.Log.Level, cfg.Env.Log.Pretty)
	if err != nil {
		return nil, err
	}
	logger = logger.With(zap.String("service", cfg.Env.ServiceName), zap.String("env", cfg.Env.Env))

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}

func newMetrics() (*observability.Metrics, cache.Recorder) {
	m := observability.NewMetrics(metricsNamespace)
	return m, m
}

func newStore(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (port.DatabaseRepository, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, data is lost on exit")
		return storage.NewMemoryStore(), nil
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	adapter := storage.NewMySQLAdapter(db)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return errors.Wrap(err, "ping mysql")
			}
			logger.Info("connected to mysql")

			if cfg.MySQL.EnsureSchema {
				if err := adapter.EnsureSchema(ctx); err != nil {
					return err
				}
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})
	return adapter, nil
}

func newCache(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) port.CacheRepository {
	var backend port.CacheRepository

	switch cfg.Cache.Driver {
	case config.CacheDriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: 100,
		})
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := rdb.Ping(ctx).Err(); err != nil {
					return errors.Wrap(err, "ping redis")
				}
				logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
				return nil
			},
			OnStop: func(context.Context) error {
				return rdb.Close()
			},
		})
		backend = storage.NewRedisAdapter(rdb)
	default:
		backend = storage.NewMemoryAdapter()
	}

	if !cfg.Cache.Breaker.Enabled {
		return backend
	}

	b := cfg.Cache.Breaker
	breaker := storage.DefaultBreakerConfig("cache-" + cfg.Cache.Driver)
	if b.MaxRequests > 0 {
		breaker.MaxRequests = b.MaxRequests
	}
	if b.Interval > 0 {
		breaker.Interval = b.Interval
	}
	if b.Timeout > 0 {
		breaker.Timeout = b.Timeout
	}
	if b.FailureThreshold > 0 {
		breaker.FailureThreshold = b.FailureThreshold
	}
	if b.MinRequests > 0 {
		breaker.MinRequests = b.MinRequests
	}
	return storage.NewBreakerCache(backend, breaker, logger)
}

func newRetryQueue(lc fx.Lifecycle, cfg *config.Config, c port.CacheRepository, logger *zap.Logger) *cache.RetryQueue {
	q := cache.NewRetryQueue(c, cfg.Cache.RetryQueueSize, logger)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			q.Start(cfg.Cache.RetryWorkers)
			return nil
		},
		OnStop: func(context.Context) error {
			q.Close()
			return nil
		},
	})
	return q
}

// newReadThrough keeps memory cache entries until they are invalidated. The
// TTL only bounds entries in a shared cache.
func newReadThrough(cfg *config.Config, c port.CacheRepository, metrics cache.Recorder, logger *zap.Logger) *cache.ReadThrough {
	opts := cache.Options{TTL: cfg.Cache.TTL, FailOpen: cfg.Cache.FailOpen}
	if cfg.Cache.Driver == config.CacheDriverMemory {
		opts.TTL = 0
	}
	return cache.NewReadThrough(c, opts, metrics, logger)
}

func newInvalidator(c port.CacheRepository, retry *cache.RetryQueue, metrics cache.Recorder, logger *zap.Logger) *cache.Invalidator {
	return cache.NewInvalidator(c, retry, metrics, logger)
}

func newBlobStorage(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (port.BlobStorage, error) {
	bucket, err := blobstore.Open(context.Background(), cfg.Blob.URL, cfg.Blob.PublicBaseURL, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return bucket.Close()
		},
	})
	return bucket, nil
}

func newPaymentGateway(cfg *config.Config, logger *zap.Logger) port.PaymentGateway {
	if cfg.Payment.SecretKey == "" {
		logger.Warn("payment secret key not set, issuing offline payment intents")
		return payment.Offline{}
	}
	return payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.SecretKey, cfg.Payment.Timeout)
}

type serviceParams struct {
	fx.In

	Config      *config.Config
	Logger      *zap.Logger
	Store       port.DatabaseRepository
	Blobs       port.BlobStorage
	Gateway     port.PaymentGateway
	ReadThrough *cache.ReadThrough
	Invalidator *cache.Invalidator
	Idempotency *cache.Idempotency
}

func newServices(p serviceParams) handler.Services {
	return handler.Services{
		Users:    service.NewUserService(p.Store, p.Invalidator),
		Products: service.NewProductService(p.Store, p.Blobs, p.ReadThrough, p.Invalidator, p.Config.Product.PerPage, p.Logger),
		Reviews:  service.NewReviewService(p.Store, p.Store, p.Store, p.ReadThrough, p.Invalidator),
		Orders:   service.NewOrderService(p.Store, p.Store, p.ReadThrough, p.Invalidator, p.Idempotency),
		Payments: service.NewPaymentService(p.Gateway, p.Store, p.Config.Payment.Currency),
		Stats:    service.NewStatsService(p.Store, p.Store, p.Store, p.ReadThrough),
	}
}

func startHTTPServer(lc fx.Lifecycle, cfg *config.Config, services handler.Services, metrics *observability.Metrics, logger *zap.Logger) {
	router := handler.NewRouter(services, metrics, cfg.HTTP.MaxUploadSize, logger)

	addr := net.JoinHostPort("", strconv.Itoa(cfg.HTTP.Port))
	t := cfg.HTTP.Timeouts
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.Setup(),
		ReadTimeout:       t.ReadTimeout,
		ReadHeaderTimeout: t.ReadHeaderTimeout,
		WriteTimeout:      t.WriteTimeout,
		IdleTimeout:       t.IdleTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return errors.Wrapf(err, "listen %s", addr)
			}
			go func() {
				logger.Info("HTTP server listening", zap.String("addr", addr))
				if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			err := srv.Shutdown(shutdownCtx)
			logger.Info("HTTP server stopped")
			return err
		},
	})
}

func startGRPCServer(lc fx.Lifecycle, cfg *config.Config, services handler.Services, logger *zap.Logger) {
	addr := net.JoinHostPort("", strconv.Itoa(cfg.GRPC.Port))
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(handler.UnaryLogger(logger)))
	handler.RegisterStatsServer(grpcServer, handler.NewGRPCHandler(services.Users, services.Stats, logger))

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return errors.Wrapf(err, "listen %s", addr)
			}
			go func() {
				logger.Info("gRPC server listening", zap.String("addr", addr))
				if err := grpcServer.Serve(lis); err != nil {
					logger.Error("gRPC server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			grpcServer.GracefulStop()
			logger.Info("gRPC server stopped")
			return nil
		},
	})
}
