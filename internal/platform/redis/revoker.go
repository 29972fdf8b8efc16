// Package redis stores revoked token ids in Redis so that logouts hold
// across every API instance sharing the same server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/verba-api/internal/config"
	"github.com/phrazzld/verba-api/internal/service/auth"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "verba:revoked:"

// Revoker implements auth.Revoker with one expiring key per token id.
type Revoker struct {
	rdb    *goredis.Client
	now    func() time.Time
	logger *slog.Logger
}

// NewClient builds a client from the redis configuration section.
func NewClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRevoker wraps rdb. If logger is nil, a default logger will be used.
func NewRevoker(rdb *goredis.Client, logger *slog.Logger) *Revoker {
	if rdb == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Revoker{
		rdb:    rdb,
		now:    time.Now,
		logger: logger.With(slog.String("component", "redis_revoker")),
	}
}

// Ensure Revoker implements auth.Revoker interface
var _ auth.Revoker = (*Revoker)(nil)

// Ping checks that the server is reachable.
func (r *Revoker) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Revoke implements auth.Revoker.Revoke
func (r *Revoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}

	if err := r.rdb.Set(ctx, keyPrefix+jti, 1, ttl).Err(); err != nil {
		r.logger.Error("failed to store revocation",
			slog.String("error", err.Error()),
			slog.String("token_id", jti))
		return fmt.Errorf("store revocation in redis: %w", err)
	}
	return nil
}

// IsRevoked implements auth.Revoker.IsRevoked
func (r *Revoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.rdb.Get(ctx, keyPrefix+jti).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	return false, fmt.Errorf("read revocation from redis: %w", err)
}

// Close releases the underlying client.
func (r *Revoker) Close() error {
	return r.rdb.Close()
}
