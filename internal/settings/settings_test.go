package settings_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kode4food/flowdesk/internal/settings"
)

func TestGetSetMemory(t *testing.T) {
	ctx := context.Background()
	s := settings.NewMemoryStore()
	defer func() { _ = s.Close() }()

	_, ok, err := s.Get(ctx, settings.Language)
	assert.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, settings.Language, "es"))

	v, ok, err := s.Get(ctx, settings.Language)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "es", v)
}

func TestGetOrDefaults(t *testing.T) {
	ctx := context.Background()
	s := settings.NewMemoryStore()
	defer func() { _ = s.Close() }()

	assert.Equal(t, "card", s.GetOr(ctx, settings.DisplayStyle, "card"))
	require.NoError(t, s.Set(ctx, settings.DisplayStyle, "list"))
	assert.Equal(t, "list", s.GetOr(ctx, settings.DisplayStyle, "card"))
}

func TestEmptyKeyRejected(t *testing.T) {
	ctx := context.Background()
	s := settings.NewMemoryStore()
	defer func() { _ = s.Close() }()

	assert.ErrorIs(t, s.Set(ctx, "", "x"), settings.ErrEmptyKey)
	_, _, err := s.Get(ctx, "")
	assert.ErrorIs(t, err, settings.ErrEmptyKey)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	ctx := context.Background()
	s := settings.NewMemoryStore()
	defer func() { _ = s.Close() }()

	ch, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.Set(ctx, settings.AgentflowVersion, "v1"))

	select {
	case c := <-ch:
		assert.Equal(t, settings.AgentflowVersion, c.Key)
		assert.Equal(t, "v1", c.Value)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestSubscribeFiltersKeys(t *testing.T) {
	ctx := context.Background()
	s := settings.NewMemoryStore()
	defer func() { _ = s.Close() }()

	ch, cancel := s.Subscribe(settings.Language)
	defer cancel()

	require.NoError(t, s.Set(ctx, settings.DisplayStyle, "list"))
	require.NoError(t, s.Set(ctx, settings.Language, "es"))

	c := <-ch
	assert.Equal(t, settings.Language, c.Key)
	assert.Len(t, ch, 0)
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	s := settings.NewMemoryStore()
	defer func() { _ = s.Close() }()

	ch, cancel := s.Subscribe()
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	s := settings.NewMemoryStore()
	defer func() { _ = s.Close() }()

	_, cancel := s.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 100 {
			_ = s.Set(ctx, settings.Language, "en")
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Set blocked on slow subscriber")
	}
}

func TestCloseStore(t *testing.T) {
	ctx := context.Background()
	s := settings.NewMemoryStore()

	ch, _ := s.Subscribe()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, ok := <-ch
	assert.False(t, ok)

	assert.ErrorIs(t, s.Set(ctx, settings.Language, "en"),
		settings.ErrStoreClosed)
	_, _, err := s.Get(ctx, settings.Language)
	assert.ErrorIs(t, err, settings.ErrStoreClosed)

	late, _ := s.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}

func TestIsKnown(t *testing.T) {
	for _, k := range settings.Keys {
		assert.True(t, settings.IsKnown(k))
	}
	assert.False(t, settings.IsKnown("theme"))
	assert.False(t, settings.IsKnown(""))
}
