// Package inmem is a process-local discovery.Registry for single-node runs and tests.
package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/denine/artstore/discovery"
)

// DefaultTTL matches the Consul check TTL used by the consul registry.
const DefaultTTL = 5 * time.Second

type instance struct {
	hostPort string
	seenAt   time.Time
}

type Registry struct {
	mu       sync.RWMutex
	services map[string]map[string]instance
	ttl      time.Duration
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		services: make(map[string]map[string]instance),
		ttl:      DefaultTTL,
		now:      time.Now,
	}
}

func (r *Registry) Register(ctx context.Context, instanceID, serviceName, hostPort string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	instances, ok := r.services[serviceName]
	if !ok {
		instances = make(map[string]instance)
		r.services[serviceName] = instances
	}
	instances[instanceID] = instance{hostPort: hostPort, seenAt: r.now()}
	return nil
}

func (r *Registry) Deregister(ctx context.Context, instanceID, serviceName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.services[serviceName], instanceID)
	if len(r.services[serviceName]) == 0 {
		delete(r.services, serviceName)
	}
	return nil
}

// HealthCheck refreshes the instance's TTL.
func (r *Registry) HealthCheck(instanceID, serviceName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.services[serviceName][instanceID]
	if !ok {
		return fmt.Errorf("%s/%s: %w", serviceName, instanceID, discovery.ErrNotRegistered)
	}
	inst.seenAt = r.now()
	r.services[serviceName][instanceID] = inst
	return nil
}

// Discover returns the sorted addresses of instances checked within the TTL.
func (r *Registry) Discover(ctx context.Context, serviceName string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := r.now().Add(-r.ttl)
	var addrs []string
	for _, inst := range r.services[serviceName] {
		if inst.seenAt.Before(cutoff) {
			continue
		}
		addrs = append(addrs, inst.hostPort)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%s: %w", serviceName, discovery.ErrNoInstances)
	}
	sort.Strings(addrs)
	return addrs, nil
}

var _ discovery.Registry = (*Registry)(nil)
