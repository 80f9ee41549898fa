package discovery

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	ErrNotRegistered = errors.New("instance is not registered")
	ErrNoInstances   = errors.New("no healthy instances")
)

// Registry is implemented by consul.Registry and inmem.Registry. Discover only
// returns instances whose health check is passing.
type Registry interface {
	Register(ctx context.Context, instanceID, serviceName, hostPort string) error
	Deregister(ctx context.Context, instanceID, serviceName string) error
	Discover(ctx context.Context, serviceName string) ([]string, error)
	HealthCheck(instanceID, serviceName string) error
}

// GenerateInstanceID returns serviceName plus a random suffix, e.g. "artstore-8214".
func GenerateInstanceID(serviceName string) string {
	return fmt.Sprintf("%s-%d", serviceName, rand.New(rand.NewSource(time.Now().UnixNano())).Intn(100000))
}
