package settings

import (
	"context"
	"fmt"

	"github.com/kode4food/flowdesk/internal/config"
)

// Open constructs a Store for the configured backend. Redis backends are
// pinged before the store is returned
func Open(ctx context.Context, cfg config.SettingsConfig) (*Store, error) {
	switch cfg.Backend {
	case "", config.SettingsBackendMemory:
		return NewMemoryStore(), nil
	case config.SettingsBackendRedis:
		b := NewRedisBackend(cfg)
		if err := b.Ping(ctx); err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("connect settings redis: %w", err)
		}
		return New(b), nil
	default:
		return nil, fmt.Errorf("%w: %s",
			config.ErrInvalidSettingsBackend, cfg.Backend)
	}
}
