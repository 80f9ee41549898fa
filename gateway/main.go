package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/denine/artstore/common/config"
	"github.com/denine/artstore/common/logger"
	"github.com/denine/artstore/common/tracing"
	"github.com/denine/artstore/discovery"
	"github.com/denine/artstore/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:          "artstore",
		Short:        "DE---NINE art print storefront API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() Config {
	serviceName := config.GetEnv("SERVICE_NAME", "artstore")
	return Config{
		ServiceName: serviceName,
		InstanceID:  config.GetEnv("INSTANCE_ID", discovery.GenerateInstanceID(serviceName)),
		HTTPAddr:    config.GetEnv("HTTP_ADDR", ":8001"),
		ConsulAddr:  config.GetEnv("CONSUL_ADDR", ""),

		MongoURI:     config.GetEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      config.GetEnv("MONGO_DB", "denine_artstore"),
		MongoMaxPool: config.GetEnvInt("MONGO_MAX_POOL_SIZE", 100),

		RedisAddr:       config.GetEnv("REDIS_ADDR", ""),
		CatalogCacheTTL: config.GetEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),

		AMQPUser: config.GetEnv("AMQP_USER", "guest"),
		AMQPPass: config.GetEnv("AMQP_PASS", "guest"),
		AMQPHost: config.GetEnv("AMQP_HOST", ""),
		AMQPPort: config.GetEnv("AMQP_PORT", "5672"),

		StripeKey:           config.GetEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: config.GetEnv("STRIPE_ENDPOINT_SECRET", ""),
		FrontendURL:         config.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		Currency:            config.GetEnv("CURRENCY", "NOK"),

		CORSOrigins:    config.GetEnvList("CORS_ORIGINS", []string{"*"}),
		RequestTimeout: config.GetEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides HTTP_ADDR")

	return cmd
}

func runServe(cfg Config) error {
	log := logger.NewLogger(cfg.ServiceName)
	log.Info("starting service",
		slog.String("instance_id", cfg.InstanceID),
		slog.String("http_addr", cfg.HTTPAddr),
	)
	if cfg.StripeKey == "" {
		log.Warn("STRIPE_SECRET_KEY is not set, checkout will fail")
	}

	shutdownTracer, err := tracing.InitTracer(cfg.ServiceName, log)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer shutdownTracer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("received shutdown signal")
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Error("error during shutdown", slog.Any("error", err))
		}
		cancel()
	}()

	if err := app.Start(ctx); err != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		_ = app.Shutdown(shutdownCtx)
		return err
	}
	<-ctx.Done()
	return nil
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create indexes and load the launch catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			log := logger.NewLogger(cfg.ServiceName)

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			db, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB, uint64(cfg.MongoMaxPool))
			if err != nil {
				return err
			}
			s := store.New(db)
			defer s.Disconnect(context.Background())

			if err := s.EnsureIndexes(ctx); err != nil {
				return err
			}

			n, err := SeedCatalog(ctx, s, log)
			if err != nil {
				return err
			}
			log.Info("catalogue seeded", slog.Int("themes", n), slog.String("database", cfg.MongoDB))
			return nil
		},
	}
}
