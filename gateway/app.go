package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/denine/artstore/cart"
	"github.com/denine/artstore/catalog"
	"github.com/denine/artstore/common/broker"
	"github.com/denine/artstore/common/metrics"
	"github.com/denine/artstore/discovery"
	"github.com/denine/artstore/discovery/consul"
	"github.com/denine/artstore/discovery/inmem"
	"github.com/denine/artstore/orders"
	"github.com/denine/artstore/payments"
	"github.com/denine/artstore/payments/processor"
	"github.com/denine/artstore/store"
)

type App struct {
	store         *store.Store
	redis         *redis.Client
	channel       *amqp.Channel
	closeRabbitMQ func() error
	registry      discovery.Registry
	httpServer    *http.Server
	config        Config
	logger        *slog.Logger

	// mu guards registration and closed; Start and Shutdown run on different goroutines.
	mu           sync.Mutex
	registration *ServiceRegistration
	closed       bool
	shutdownOnce sync.Once
}

type Config struct {
	ServiceName string
	InstanceID  string
	HTTPAddr    string
	ConsulAddr  string

	MongoURI     string
	MongoDB      string
	MongoMaxPool int

	RedisAddr       string
	CatalogCacheTTL time.Duration

	AMQPUser string
	AMQPPass string
	AMQPHost string
	AMQPPort string

	StripeKey           string
	StripeWebhookSecret string
	FrontendURL         string
	Currency            string

	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewApp connects the backing services. Redis, RabbitMQ and Consul are optional
// and skipped when their address is empty.
func NewApp(ctx context.Context, config Config, log *slog.Logger) (*App, error) {
	a := &App{config: config, logger: log}

	log.Info("connecting to mongodb", slog.String("database", config.MongoDB))
	db, err := store.Connect(ctx, config.MongoURI, config.MongoDB, uint64(config.MongoMaxPool))
	if err != nil {
		return nil, err
	}
	a.store = store.New(db)
	if err := a.store.EnsureIndexes(ctx); err != nil {
		a.close(ctx)
		return nil, err
	}

	if config.RedisAddr != "" {
		client, err := catalog.DialRedis(ctx, config.RedisAddr)
		if err != nil {
			log.Warn("redis unavailable, catalog cache disabled", slog.Any("error", err))
		} else {
			a.redis = client
			log.Info("redis connected", slog.String("addr", config.RedisAddr))
		}
	}

	if config.AMQPHost != "" {
		log.Info("connecting to rabbitmq",
			slog.String("host", config.AMQPHost),
			slog.String("port", config.AMQPPort),
		)
		ch, closeFn, err := broker.Connect(config.AMQPUser, config.AMQPPass, config.AMQPHost, config.AMQPPort)
		if err != nil {
			log.Warn("rabbitmq unavailable, events disabled", slog.Any("error", err))
		} else {
			a.channel = ch
			a.closeRabbitMQ = closeFn
		}
	}

	registry, err := createRegistry(config.ConsulAddr, log)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.registry = registry

	a.httpServer = a.newHTTPServer(a.routes())

	return a, nil
}

// routes wires the services over the connected backends.
func (a *App) routes() http.Handler {
	httpMetrics := metrics.NewHTTPMetrics(a.config.ServiceName, prometheus.DefaultRegisterer)
	businessMetrics := metrics.NewBusinessMetrics(a.config.ServiceName, prometheus.DefaultRegisterer)

	var catalogStore catalog.Store = a.store
	if a.redis != nil {
		catalogStore = catalog.NewCachedStore(a.store, catalog.NewThemeCache(a.redis, a.config.CatalogCacheTTL), a.logger)
	}
	catalogSvc := catalog.NewService(catalogStore, a.logger)
	cartSvc := cart.NewService(a.store, catalogSvc, a.logger)

	stripeProcessor := processor.NewStripeProcessor(a.config.StripeKey, a.config.StripeWebhookSecret)
	var publisher payments.EventPublisher
	if a.channel != nil {
		publisher = broker.NewPublisher(a.channel)
	}
	paymentSvc := payments.NewTelemetryMiddleware(payments.NewService(
		stripeProcessor,
		a.store,
		cartSvc,
		publisher,
		businessMetrics,
		a.logger,
		payments.Config{
			Currency:    a.config.Currency,
			FrontendURL: a.config.FrontendURL,
		},
	))
	ordersSvc := orders.NewService(a.store, a.logger)

	h := NewHandler(catalogSvc, cartSvc, paymentSvc, stripeProcessor, ordersSvc, a.logger)
	return newRouter(h, httpMetrics, prometheus.DefaultGatherer, a.logger, a.config)
}

func (a *App) newHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              a.config.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Start binds the listen address, registers the instance and blocks serving HTTP
// until Shutdown. The instance is only registered once the port is bound.
func (a *App) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.config.HTTPAddr, err)
	}

	if a.registry != nil {
		registration, err := RegisterService(ctx, a.registry, a.config.InstanceID, a.config.ServiceName, a.config.HTTPAddr, a.logger)
		if err != nil {
			ln.Close()
			return fmt.Errorf("register service: %w", err)
		}

		a.mu.Lock()
		if a.closed {
			a.mu.Unlock()
			ln.Close()
			return registration.Deregister(ctx)
		}
		a.registration = registration
		a.mu.Unlock()
	}

	a.logger.Info("starting http server", slog.String("addr", ln.Addr().String()))
	if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, deregisters and releases every backend. Only the
// first call does anything, so the signal handler and a failed Start may both call it.
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down gracefully")

		a.mu.Lock()
		a.closed = true
		registration := a.registration
		a.mu.Unlock()

		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.logger.Error("http server shutdown error", slog.Any("error", err))
		}

		if registration != nil {
			if err := registration.Deregister(ctx); err != nil {
				a.logger.Error("failed to deregister service", slog.Any("error", err))
			}
		}

		a.close(ctx)
	})
	return nil
}

func (a *App) close(ctx context.Context) {
	if a.closeRabbitMQ != nil {
		if err := a.closeRabbitMQ(); err != nil {
			a.logger.Error("error closing rabbitmq", slog.Any("error", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("error closing redis", slog.Any("error", err))
		}
	}
	if a.store != nil {
		if err := a.store.Disconnect(ctx); err != nil {
			a.logger.Error("error disconnecting mongodb", slog.Any("error", err))
		}
	}
}

func createRegistry(addr string, log *slog.Logger) (discovery.Registry, error) {
	if addr == "" {
		log.Info("consul address not provided, registering in process")
		return inmem.NewRegistry(), nil
	}
	return consul.NewRegistry(addr, log)
}
