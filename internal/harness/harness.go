package harness

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kode4food/flowdesk/internal/i18n"
	"github.com/kode4food/flowdesk/internal/mock"
	"github.com/kode4food/flowdesk/internal/mock/fixtures"
	"github.com/kode4food/flowdesk/internal/settings"
)

type (
	// Config controls how a Harness builds its components
	Config struct {
		// Policy applies to requests no rule matches. NewTestConfig uses
		// Error so a missing fixture fails loudly
		Policy mock.BypassPolicy

		// Fallback receives bypassed requests
		Fallback http.RoundTripper

		// Rules replaces the default console fixtures when non-nil
		Rules []mock.Rule

		// RedisSettings backs the preference store with an in-process
		// Redis server instead of memory
		RedisSettings bool
	}

	// Harness owns the interception lifecycle for a single test or suite
	Harness struct {
		config   Config
		router   *mock.Router
		redis    *miniredis.Miniredis
		settings *settings.Store
		locale   *i18n.Store
		state    state
		mu       sync.RWMutex
	}

	state int
)

const (
	stateIdle state = iota
	stateStarted
	stateStopped
)

const redisPrefix = "harness"

var (
	ErrAlreadyStarted = errors.New("harness already started")
	ErrNotStarted     = errors.New("harness not started")
	ErrTornDown       = errors.New("harness torn down")
)

var _ http.RoundTripper = (*Harness)(nil)

// NewTestConfig returns the configuration used by New
func NewTestConfig() Config {
	return Config{Policy: mock.Error}
}

// NewHarness creates a harness that intercepts nothing until Setup
func NewHarness(cfg Config) *Harness {
	rules := cfg.Rules
	if rules == nil {
		rules = fixtures.Defaults()
	}
	return &Harness{
		config: cfg,
		router: mock.New(mock.Config{
			Policy:   cfg.Policy,
			Fallback: cfg.Fallback,
		}, rules...),
	}
}

// Setup starts interception. It may only be called once
func (h *Harness) Setup() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case stateStarted:
		return ErrAlreadyStarted
	case stateStopped:
		return ErrTornDown
	}

	locale, err := i18n.Default()
	if err != nil {
		return fmt.Errorf("load locale catalogs: %w", err)
	}
	if h.config.RedisSettings {
		srv, err := miniredis.Run()
		if err != nil {
			return fmt.Errorf("start settings redis: %w", err)
		}
		h.redis = srv
	}

	h.locale = locale
	h.settings = h.newSettings()
	h.state = stateStarted
	return nil
}

// ResetBetweenTests discards override rules, recorded calls and stored
// preferences so the next test starts from the defaults
func (h *Harness) ResetBetweenTests() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != stateStarted {
		return ErrNotStarted
	}

	h.router.Reset()
	err := h.settings.Close()
	if h.redis != nil {
		h.redis.FlushAll()
	}
	h.settings = h.newSettings()
	return err
}

// Teardown stops interception and releases owned resources. Calls after
// the first report nothing
func (h *Harness) Teardown() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != stateStarted {
		h.state = stateStopped
		return nil
	}
	h.state = stateStopped
	h.router.Reset()

	var errs []error
	if err := h.settings.Close(); err != nil {
		errs = append(errs, err)
	}
	if h.redis != nil {
		h.redis.Close()
	}
	if c, ok := h.config.Fallback.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
	return errors.Join(errs...)
}

// Started reports whether interception is active
func (h *Harness) Started() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state == stateStarted
}

// RoundTrip routes req through the mock router while started, and fails
// closed otherwise
func (h *Harness) RoundTrip(req *http.Request) (*http.Response, error) {
	if !h.Started() {
		return nil, fmt.Errorf("%w: %s %s",
			ErrNotStarted, req.Method, req.URL.Path)
	}
	return h.router.RoundTrip(req)
}

// Client returns an http.Client whose requests go through the harness
func (h *Harness) Client() *http.Client {
	return &http.Client{Transport: h}
}

// Use installs override rules for the remainder of the current test
func (h *Harness) Use(rules ...mock.Rule) {
	h.router.Use(rules...)
}

// Router returns the harness-owned mock router
func (h *Harness) Router() *mock.Router {
	return h.router
}

// Calls returns the requests observed since the last reset
func (h *Harness) Calls() []mock.Call {
	return h.router.Calls()
}

// Settings returns the preference store for the current test. The store is
// replaced by ResetBetweenTests
func (h *Harness) Settings() *settings.Store {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settings
}

// Localizer returns a localizer bound to the current preference store
func (h *Harness) Localizer() *i18n.Localizer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return i18n.NewLocalizer(h.locale, h.settings)
}

// Redis returns the in-process Redis server, or nil for memory settings
func (h *Harness) Redis() *miniredis.Miniredis {
	return h.redis
}

func (h *Harness) newSettings() *settings.Store {
	if h.redis == nil {
		return settings.NewMemoryStore()
	}
	client := redis.NewClient(&redis.Options{Addr: h.redis.Addr()})
	return settings.New(
		settings.NewRedisBackendWithClient(client, redisPrefix),
	)
}
