package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"

	"invoice-reconciliation-backend/internal/config"
)

// ErrBusy is returned when another pipeline run holds the store.
var ErrBusy = errors.New("pipeline is busy")

// Locker keeps the store single-writer: at most one pipeline run at a time.
type Locker interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// LocalLocker serializes runs inside one process.
type LocalLocker struct {
	sem chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{sem: make(chan struct{}, 1)}
}

// Acquire blocks until the lock is free or ctx is done.
func (l *LocalLocker) Acquire(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

const (
	redisLockKey   = "lock:invoice-pipeline"
	redisLockTTL   = 10 * time.Minute
	redisLockRetry = 500 * time.Millisecond
)

// RedisLocker serializes runs across processes sharing one redis.
type RedisLocker struct {
	client *redislock.Client
	logger *logrus.Logger
}

func NewRedisLocker(client *redislock.Client, logger *logrus.Logger) *RedisLocker {
	return &RedisLocker{client: client, logger: logger}
}

// Acquire retries until the lock is obtained or ctx (or the lock TTL when
// ctx has no deadline) expires.
func (l *RedisLocker) Acquire(ctx context.Context) (func(), error) {
	lock, err := l.client.Obtain(ctx, redisLockKey, redisLockTTL, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(redisLockRetry),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrBusy
	}
	if err != nil {
		config.LogError(l.logger, "pipeline", "Acquire", "obtain redis lock", redisLockKey, err)
		return nil, err
	}
	return func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			config.LogError(l.logger, "pipeline", "Acquire", "release redis lock", redisLockKey, err)
		}
	}, nil
}
