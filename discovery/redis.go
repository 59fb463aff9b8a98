package discovery

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "discovery:"

const defaultLeaseTTL = 15 * time.Second

// membersKey is a sorted set of instance ids scored by lease expiry (unix ms).
func membersKey(service string) string {
	return keyPrefix + service + ":instances"
}

// urlsKey is a hash of instance id -> base URL.
func urlsKey(service string) string {
	return keyPrefix + service + ":urls"
}

// RedisLocator resolves services registered by a Registrar. Instances whose
// lease expired are ignored.
type RedisLocator struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisLocator creates a RedisLocator.
func NewRedisLocator(client *redis.Client) *RedisLocator {
	return &RedisLocator{client: client, now: time.Now}
}

func (l *RedisLocator) Resolve(ctx context.Context, service string) (string, error) {
	instances, err := l.Instances(ctx, service)
	if err != nil {
		return "", err
	}
	if len(instances) == 0 {
		return "", fmt.Errorf("resolve %s: %w", service, ErrNoInstances)
	}
	return instances[rand.Intn(len(instances))].URL, nil
}

func (l *RedisLocator) Instances(ctx context.Context, service string) ([]Instance, error) {
	ids, err := l.client.ZRangeByScore(ctx, membersKey(service), &redis.ZRangeBy{
		Min: strconv.FormatInt(l.now().UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s instances: %w", service, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	urls, err := l.client.HMGet(ctx, urlsKey(service), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("load %s urls: %w", service, err)
	}

	instances := make([]Instance, 0, len(ids))
	for i, id := range ids {
		u, ok := urls[i].(string)
		if !ok || u == "" {
			continue
		}
		instances = append(instances, Instance{ID: id, Service: service, URL: u})
	}
	return instances, nil
}

// Registrar keeps one instance's lease alive in the registry.
type Registrar struct {
	client   *redis.Client
	instance Instance
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewRegistrar creates a Registrar for instance with the given lease length.
// A ttl under one second falls back to defaultLeaseTTL.
func NewRegistrar(client *redis.Client, instance Instance, ttl time.Duration, log *zap.Logger) *Registrar {
	if ttl < time.Second {
		ttl = defaultLeaseTTL
	}
	return &Registrar{client: client, instance: instance, ttl: ttl, log: log.Named("registrar"), now: time.Now}
}

// Register writes or renews the lease and drops expired peers.
func (r *Registrar) Register(ctx context.Context) error {
	now := r.now()
	expiry := float64(now.Add(r.ttl).UnixMilli())

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, urlsKey(r.instance.Service), r.instance.ID, r.instance.URL)
	pipe.ZAdd(ctx, membersKey(r.instance.Service), &redis.Z{Score: expiry, Member: r.instance.ID})
	pipe.ZRemRangeByScore(ctx, membersKey(r.instance.Service), "-inf", "("+strconv.FormatInt(now.UnixMilli(), 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("register %s: %w", r.instance.ID, err)
	}
	return nil
}

// Deregister removes the instance immediately.
func (r *Registrar) Deregister(ctx context.Context) error {
	pipe := r.client.TxPipeline()
	pipe.ZRem(ctx, membersKey(r.instance.Service), r.instance.ID)
	pipe.HDel(ctx, urlsKey(r.instance.Service), r.instance.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("deregister %s: %w", r.instance.ID, err)
	}
	return nil
}

// Run renews the lease every third of the TTL until ctx is cancelled, then
// deregisters.
func (r *Registrar) Run(ctx context.Context) error {
	if err := r.Register(ctx); err != nil {
		return err
	}
	r.log.Info("instance registered",
		zap.String("service", r.instance.Service), zap.String("instance", r.instance.ID), zap.String("url", r.instance.URL))

	ticker := time.NewTicker(r.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			dctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := r.Deregister(dctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				r.log.Warn("deregister failed", zap.Error(err))
			}
			return nil
		case <-ticker.C:
			if err := r.Register(ctx); err != nil && ctx.Err() == nil {
				r.log.Warn("lease renewal failed", zap.Error(err))
			}
		}
	}
}
