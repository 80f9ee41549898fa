package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/denine/artstore/discovery"
)

// healthCheckInterval must stay below the registry TTL (5s in Consul).
//
// Why a TTL check instead of Consul polling /health?
// → The instance reports itself; Consul needs no route back into the container
// → A crashed process stops reporting and drops out of Discover after the TTL
const healthCheckInterval = time.Second

type ServiceRegistration struct {
	registry    discovery.Registry
	instanceID  string
	serviceName string
	logger      *slog.Logger
	stopChan    chan struct{}
	stopOnce    sync.Once
	done        chan struct{}
}

// RegisterService registers the instance and keeps its TTL check passing until Deregister.
func RegisterService(
	ctx context.Context,
	registry discovery.Registry,
	instanceID, serviceName, addr string,
	logger *slog.Logger,
) (*ServiceRegistration, error) {
	return registerService(ctx, registry, instanceID, serviceName, addr, logger, healthCheckInterval)
}

func registerService(
	ctx context.Context,
	registry discovery.Registry,
	instanceID, serviceName, addr string,
	logger *slog.Logger,
	interval time.Duration,
) (*ServiceRegistration, error) {
	if err := registry.Register(ctx, instanceID, serviceName, addr); err != nil {
		return nil, err
	}

	sr := &ServiceRegistration{
		registry:    registry,
		instanceID:  instanceID,
		serviceName: serviceName,
		logger:      logger,
		stopChan:    make(chan struct{}),
		done:        make(chan struct{}),
	}

	logger.Info("service registered",
		slog.String("service", serviceName),
		slog.String("instance_id", instanceID),
		slog.String("addr", addr),
	)

	go sr.startHealthCheck(interval)

	return sr, nil
}

func (sr *ServiceRegistration) startHealthCheck(interval time.Duration) {
	defer close(sr.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-sr.stopChan:
			return
		case <-ticker.C:
			if err := sr.registry.HealthCheck(sr.instanceID, sr.serviceName); err != nil {
				sr.logger.Warn("health check failed", slog.Any("error", err))
			}
		}
	}
}

// Deregister stops the health check loop and removes the instance. Safe to call twice.
func (sr *ServiceRegistration) Deregister(ctx context.Context) error {
	sr.stopOnce.Do(func() { close(sr.stopChan) })
	<-sr.done
	return sr.registry.Deregister(ctx, sr.instanceID, sr.serviceName)
}
