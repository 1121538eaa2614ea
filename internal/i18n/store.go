package i18n

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
)

type (
	// Language describes a selectable UI language
	Language struct {
		Code string `json:"code"`
		Name string `json:"name"`
		Flag string `json:"flag"`
	}

	// Store resolves translation keys against a catalog
	Store struct {
		catalog  *Catalog
		fallback string
		codes    []string
		matcher  language.Matcher
		mu       sync.RWMutex
	}
)

// SupportedLanguages lists the languages offered by the language selector
var SupportedLanguages = []Language{
	{Code: "en", Name: "English", Flag: "🇺🇸"},
	{Code: "es", Name: "Español", Flag: "🇪🇸"},
}

// NewStore creates a Store over catalog, falling back to fallback when a
// requested language has no messages. An unknown fallback is replaced with
// the catalog's base language
func NewStore(catalog *Catalog, fallback string) *Store {
	if !catalog.HasLanguage(fallback) {
		fallback = catalog.Base()
	}
	s := &Store{
		catalog:  catalog,
		fallback: fallback,
	}
	s.rebuildMatcher()
	return s
}

// Default loads the embedded catalogs with English as the fallback
func Default() (*Store, error) {
	c, err := LoadEmbedded()
	if err != nil {
		return nil, err
	}
	return NewStore(c, BaseLanguage), nil
}

// Translate returns the string for key in lang, else in the fallback
// language, else the key itself
func (s *Store) Translate(key Key, lang string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.catalog.Lookup(s.resolve(lang), key); ok {
		return v
	}
	if v, ok := s.catalog.Lookup(s.fallback, key); ok {
		return v
	}
	return string(key)
}

// Messages translates every base key into lang, applying the same
// fallback rules as Translate
func (s *Store) Messages(lang string) map[Key]string {
	s.mu.RLock()
	keys := s.catalog.Keys()
	s.mu.RUnlock()

	res := make(map[Key]string, len(keys))
	for _, k := range keys {
		res[k] = s.Translate(k, lang)
	}
	return res
}

// Resolve maps a requested language code or tag (e.g. "es-MX") onto a
// loaded language, or the fallback language when nothing matches
func (s *Store) Resolve(lang string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(lang)
}

// Fallback returns the configured fallback language
func (s *Store) Fallback() string {
	return s.fallback
}

// Languages returns the loaded language codes
func (s *Store) Languages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.codes...)
}

// Apply merges every language of overlay into the store. The merge only
// takes effect if the result still passes Catalog.Validate; otherwise the
// store is left untouched and the validation error is returned
func (s *Store) Apply(overlay *Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.catalog.Clone()
	for _, lang := range overlay.Languages() {
		merged.Add(lang, overlay.messages[lang])
	}
	if err := merged.Validate(); err != nil {
		return err
	}
	s.catalog = merged
	s.rebuildMatcher()
	return nil
}

func (s *Store) resolve(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return s.fallback
	}
	if s.catalog.HasLanguage(lang) {
		return lang
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return s.fallback
	}
	_, idx, conf := s.matcher.Match(tag)
	if conf == language.No {
		return s.fallback
	}
	return s.codes[idx]
}

func (s *Store) rebuildMatcher() {
	codes := s.catalog.Languages()
	tags := make([]language.Tag, 0, len(codes))
	valid := make([]string, 0, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		valid = append(valid, code)
	}
	s.codes = valid
	s.matcher = language.NewMatcher(tags)
}
