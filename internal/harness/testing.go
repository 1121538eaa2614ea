package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	// Option adjusts the configuration used by New
	Option func(*Config)

	// Case is a named subtest run against a shared Harness
	Case struct {
		Name string
		Run  func(t *testing.T, h *Harness)
	}
)

// WithRedisSettings backs preferences with an in-process Redis server
func WithRedisSettings() Option {
	return func(c *Config) {
		c.RedisSettings = true
	}
}

// WithConfig replaces the configuration wholesale
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// New creates and starts a harness owned by t. Teardown runs when t
// completes
func New(t testing.TB, opts ...Option) *Harness {
	t.Helper()

	cfg := NewTestConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	h := NewHarness(cfg)
	require.NoError(t, h.Setup())
	t.Cleanup(func() {
		assert.NoError(t, h.Teardown())
	})
	return h
}

// RunSuite starts one harness, runs each case as a subtest in order,
// resets between cases, and tears the harness down at the end
func RunSuite(t *testing.T, cfg Config, cases ...Case) {
	t.Helper()

	h := NewHarness(cfg)
	require.NoError(t, h.Setup())
	defer func() {
		assert.NoError(t, h.Teardown())
	}()

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			defer func() {
				assert.NoError(t, h.ResetBetweenTests())
			}()
			c.Run(t, h)
		})
	}
}
