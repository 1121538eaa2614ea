package view

import (
	"context"

	"github.com/kode4food/flowdesk/internal/i18n"
)

type (
	// LanguageOption is one entry in the language menu
	LanguageOption struct {
		i18n.Language
		Active bool
	}

	// LanguageSelector drives the language menu
	LanguageSelector struct {
		localizer *i18n.Localizer
		languages []i18n.Language
	}
)

// NewLanguageSelector lists the supported languages that have a loaded
// catalog
func NewLanguageSelector(l *i18n.Localizer) *LanguageSelector {
	loaded := map[string]bool{}
	for _, code := range l.Store().Languages() {
		loaded[code] = true
	}

	var langs []i18n.Language
	for _, lang := range i18n.SupportedLanguages {
		if loaded[lang.Code] {
			langs = append(langs, lang)
		}
	}
	return &LanguageSelector{localizer: l, languages: langs}
}

// Current returns the active language, or the first listed language when
// the active one is not offered
func (s *LanguageSelector) Current(ctx context.Context) i18n.Language {
	code := s.localizer.Language(ctx)
	for _, lang := range s.languages {
		if lang.Code == code {
			return lang
		}
	}
	if len(s.languages) == 0 {
		return i18n.Language{Code: code, Name: code}
	}
	return s.languages[0]
}

// Options returns the menu entries with the active one marked
func (s *LanguageSelector) Options(ctx context.Context) []LanguageOption {
	current := s.Current(ctx)
	res := make([]LanguageOption, 0, len(s.languages))
	for _, lang := range s.languages {
		res = append(res, LanguageOption{
			Language: lang,
			Active:   lang.Code == current.Code,
		})
	}
	return res
}

// Select persists code as the active language
func (s *LanguageSelector) Select(ctx context.Context, code string) error {
	return s.localizer.SetLanguage(ctx, code)
}
