package cache

import (
	"context"
	"fmt"

	"sp500-dashboard/src/interfaces"
	"sp500-dashboard/src/models"
)

// NewStore builds the configured cache backend.
func NewStore(ctx context.Context, cfg models.MCacheConfig) (interfaces.ICacheStore, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
