package consul

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	consul "github.com/hashicorp/consul/api"

	"github.com/denine/artstore/discovery"
)

type Registry struct {
	client *consul.Client
	logger *slog.Logger
}

func NewRegistry(addr string, logger *slog.Logger) (*Registry, error) {
	config := consul.DefaultConfig()
	config.Address = addr

	client, err := consul.NewClient(config)
	if err != nil {
		return nil, err
	}

	return &Registry{client: client, logger: logger}, nil
}

// Register adds the instance with a TTL check. An empty host (":8001") lets the
// agent fill in its own address.
func (r *Registry) Register(ctx context.Context, instanceID, serviceName, hostPort string) error {
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return fmt.Errorf("invalid hostPort %q: %w", hostPort, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", portStr, err)
	}

	return r.client.Agent().ServiceRegister(&consul.AgentServiceRegistration{
		ID:      instanceID,
		Name:    serviceName,
		Address: host,
		Port:    port,
		Check: &consul.AgentServiceCheck{
			CheckID:                        instanceID,
			TLSSkipVerify:                  true,
			TTL:                            "5s",
			DeregisterCriticalServiceAfter: "10s",
		},
	})
}

func (r *Registry) Deregister(ctx context.Context, instanceID, serviceName string) error {
	r.logger.Info("deregistering service",
		slog.String("service", serviceName),
		slog.String("instance_id", instanceID),
	)
	return r.client.Agent().ServiceDeregister(instanceID)
}

func (r *Registry) Discover(ctx context.Context, serviceName string) ([]string, error) {
	services, _, err := r.client.Health().Service(serviceName, "", true, (&consul.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}

	var addresses []string
	for _, service := range services {
		addresses = append(addresses, net.JoinHostPort(service.Service.Address, strconv.Itoa(service.Service.Port)))
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("%s: %w", serviceName, discovery.ErrNoInstances)
	}

	return addresses, nil
}

func (r *Registry) HealthCheck(instanceID, serviceName string) error {
	return r.client.Agent().UpdateTTL(instanceID, "online", consul.HealthPassing)
}

var _ discovery.Registry = (*Registry)(nil)
