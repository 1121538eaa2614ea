package i18n

import (
	"context"
	"errors"
	"fmt"

	"github.com/kode4food/flowdesk/internal/settings"
)

// Localizer translates using the language currently stored in the
// preference store, so a language switch applies on the next call
type Localizer struct {
	store *Store
	prefs settings.Preferences
}

var ErrUnsupportedLanguage = errors.New("unsupported language")

// NewLocalizer binds a translation store to a preference store
func NewLocalizer(store *Store, prefs settings.Preferences) *Localizer {
	return &Localizer{store: store, prefs: prefs}
}

// T translates key using the active language
func (l *Localizer) T(ctx context.Context, key Key) string {
	return l.store.Translate(key, l.Language(ctx))
}

// Language returns the active language, resolved against loaded catalogs
func (l *Localizer) Language(ctx context.Context) string {
	raw := l.prefs.GetOr(ctx, settings.Language, l.store.Fallback())
	return l.store.Resolve(raw)
}

// SetLanguage persists code as the active language. Only loaded languages
// are accepted
func (l *Localizer) SetLanguage(ctx context.Context, code string) error {
	for _, lang := range l.store.Languages() {
		if lang == code {
			return l.prefs.Set(ctx, settings.Language, code)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, code)
}

// Store returns the underlying translation store
func (l *Localizer) Store() *Store {
	return l.store
}
