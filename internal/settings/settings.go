package settings

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/kode4food/flowdesk/pkg/log"
	"github.com/kode4food/flowdesk/pkg/util"
)

type (
	// Key names a persisted preference
	Key string

	// Change describes a preference update delivered to subscribers
	Change struct {
		Key   Key    `json:"key"`
		Value string `json:"value"`
	}

	// Backend persists preference values
	Backend interface {
		Load(ctx context.Context, key Key) (string, bool, error)
		Save(ctx context.Context, key Key, value string) error
		Close() error
	}

	// Preferences is the read and write surface consumers of the store
	// depend on
	Preferences interface {
		GetOr(ctx context.Context, key Key, def string) string
		Set(ctx context.Context, key Key, value string) error
	}

	// Store is the single process-wide preference store
	Store struct {
		backend Backend
		subs    map[*subscription]struct{}
		closed  bool
		mu      sync.Mutex
	}

	subscription struct {
		ch   chan Change
		keys util.Set[Key]
	}
)

const (
	Language         Key = "language"
	DisplayStyle     Key = "flowDisplayStyle"
	AgentflowVersion Key = "agentFlowVersion"
)

const subscriberBuffer = 16

// Keys lists every preference the console persists
var Keys = []Key{Language, DisplayStyle, AgentflowVersion}

var knownKeys = util.SetOf(Keys...)

var _ Preferences = (*Store)(nil)

var (
	ErrStoreClosed = errors.New("settings store closed")
	ErrEmptyKey    = errors.New("settings key is required")
)

// New creates a Store backed by the provided Backend
func New(b Backend) *Store {
	return &Store{
		backend: b,
		subs:    map[*subscription]struct{}{},
	}
}

// NewMemoryStore creates a Store with an in-memory backend
func NewMemoryStore() *Store {
	return New(NewMemoryBackend())
}

// Get returns the stored value for key and whether it was present
func (s *Store) Get(ctx context.Context, key Key) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	if s.isClosed() {
		return "", false, ErrStoreClosed
	}
	return s.backend.Load(ctx, key)
}

// GetOr returns the stored value for key, or def when the key is missing or
// the backend cannot be read. Backend errors are logged
func (s *Store) GetOr(ctx context.Context, key Key, def string) string {
	v, ok, err := s.Get(ctx, key)
	if err != nil {
		slog.Warn("Failed to read setting",
			log.Key(key),
			log.Error(err))
		return def
	}
	if !ok || v == "" {
		return def
	}
	return v
}

// Set persists value for key and notifies subscribers of the change
func (s *Store) Set(ctx context.Context, key Key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if s.isClosed() {
		return ErrStoreClosed
	}
	if err := s.backend.Save(ctx, key, value); err != nil {
		return err
	}
	s.notify(Change{Key: key, Value: value})
	return nil
}

// Subscribe registers for changes to the given keys, or to every key when
// none are provided. The returned cancel function releases the
// subscription and closes the channel. Slow subscribers miss changes rather
// than blocking Set
func (s *Store) Subscribe(keys ...Key) (<-chan Change, func()) {
	sub := &subscription{
		ch:   make(chan Change, subscriberBuffer),
		keys: util.SetOf(keys...),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[sub]; ok {
				delete(s.subs, sub)
				close(sub.ch)
			}
		})
	}
}

// Close releases all subscriptions and the backend
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for sub := range s.subs {
		close(sub.ch)
	}
	s.subs = map[*subscription]struct{}{}
	s.mu.Unlock()

	return s.backend.Close()
}

func (s *Store) notify(c Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sub := range s.subs {
		if !sub.wants(c.Key) {
			continue
		}
		select {
		case sub.ch <- c:
		default:
			slog.Warn("Dropped settings change for slow subscriber",
				log.Key(c.Key))
		}
	}
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// IsKnown reports whether key is one of the persisted preferences
func IsKnown(key Key) bool {
	return knownKeys.Contains(key)
}

func (sub *subscription) wants(k Key) bool {
	return sub.keys.IsEmpty() || sub.keys.Contains(k)
}
