// Package discovery resolves logical service names to the base URL of a live
// instance. Callers depend on Locator only; which instance answers is the
// implementation's choice.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

// ErrNoInstances is returned when a service has no live instance.
var ErrNoInstances = errors.New("no live instances")

// Instance is one addressable copy of a service.
type Instance struct {
	ID      string `json:"instanceId"`
	Service string `json:"service"`
	URL     string `json:"uri"`
}

// Locator resolves service names.
type Locator interface {
	// Resolve returns the base URL of one live instance of service.
	Resolve(ctx context.Context, service string) (string, error)
	// Instances lists every live instance of service.
	Instances(ctx context.Context, service string) ([]Instance, error)
}

// StaticLocator round-robins over a fixed list of base URLs per service.
type StaticLocator struct {
	services map[string][]string
	next     atomic.Uint64
}

// NewStaticLocator creates a StaticLocator. Trailing slashes are trimmed and
// blank entries dropped.
func NewStaticLocator(services map[string][]string) *StaticLocator {
	clean := make(map[string][]string, len(services))
	for name, urls := range services {
		for _, u := range urls {
			u = strings.TrimRight(strings.TrimSpace(u), "/")
			if u != "" {
				clean[name] = append(clean[name], u)
			}
		}
	}
	return &StaticLocator{services: clean}
}

func (l *StaticLocator) Resolve(_ context.Context, service string) (string, error) {
	urls := l.services[service]
	if len(urls) == 0 {
		return "", fmt.Errorf("resolve %s: %w", service, ErrNoInstances)
	}
	n := l.next.Add(1) - 1
	return urls[n%uint64(len(urls))], nil
}

func (l *StaticLocator) Instances(_ context.Context, service string) ([]Instance, error) {
	urls := l.services[service]
	instances := make([]Instance, 0, len(urls))
	for i, u := range urls {
		instances = append(instances, Instance{
			ID:      fmt.Sprintf("%s-%d", service, i),
			Service: service,
			URL:     u,
		})
	}
	return instances, nil
}
