package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kode4food/flowdesk/pkg/util"
)

type (
	// Catalog holds the messages for every loaded language
	Catalog struct {
		base     string
		messages map[string]map[Key]string
	}

	// KeySetError reports languages whose key set differs from the base
	KeySetError struct {
		Base     string
		Language string
		Missing  []Key
		Extra    []Key
	}

	catalogFile struct {
		Locale   string         `yaml:"locale"`
		Messages map[Key]string `yaml:"messages"`
	}
)

// BaseLanguage is the canonical source language for catalogs
const BaseLanguage = "en"

//go:embed locales/*.yaml
var embeddedFS embed.FS

var (
	ErrNoCatalogs      = errors.New("no catalog files found")
	ErrMissingLocale   = errors.New("catalog locale is required")
	ErrLocaleMismatch  = errors.New("catalog locale must match file name")
	ErrMissingMessages = errors.New("catalog messages map is required")
	ErrMissingBase     = errors.New("base language is not defined")
)

// LoadEmbedded loads the catalogs compiled into this package
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedFS, "locales")
}

// LoadFromFS loads every <lang>.yaml file found in dir of fsys
func LoadFromFS(fsys fs.FS, dir string) (*Catalog, error) {
	paths, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, ErrNoCatalogs
	}
	slices.Sort(paths)

	c := NewCatalog(BaseLanguage)
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		if err := c.AddFile(p, data); err != nil {
			return nil, err
		}
	}

	if !c.HasLanguage(c.base) {
		return nil, fmt.Errorf("%w: %s", ErrMissingBase, c.base)
	}
	return c, nil
}

// NewCatalog creates an empty catalog with the given base language
func NewCatalog(base string) *Catalog {
	return &Catalog{
		base:     base,
		messages: map[string]map[Key]string{},
	}
}

// AddFile parses a YAML catalog file and merges its messages. The locale
// declared in the file must match the file's base name
func (c *Catalog) AddFile(name string, data []byte) error {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse catalog %s: %w", name, err)
	}

	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("%w: %s", ErrMissingLocale, name)
	}
	fromName := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if locale != fromName {
		return fmt.Errorf("%w: %s declares %q", ErrLocaleMismatch, name, locale)
	}
	if file.Messages == nil {
		return fmt.Errorf("%w: %s", ErrMissingMessages, name)
	}

	c.Add(locale, file.Messages)
	return nil
}

// Add merges messages for a language, replacing existing values
func (c *Catalog) Add(lang string, messages map[Key]string) {
	cur, ok := c.messages[lang]
	if !ok {
		cur = make(map[Key]string, len(messages))
		c.messages[lang] = cur
	}
	maps.Copy(cur, messages)
}

// Clone returns a deep copy of the catalog
func (c *Catalog) Clone() *Catalog {
	res := NewCatalog(c.base)
	for lang, msgs := range c.messages {
		res.messages[lang] = maps.Clone(msgs)
	}
	return res
}

// Base returns the catalog's base language
func (c *Catalog) Base() string {
	return c.base
}

// HasLanguage reports whether messages were loaded for lang
func (c *Catalog) HasLanguage(lang string) bool {
	_, ok := c.messages[lang]
	return ok
}

// Languages returns the loaded language codes, base language first
func (c *Catalog) Languages() []string {
	res := make([]string, 0, len(c.messages))
	for lang := range c.messages {
		if lang != c.base {
			res = append(res, lang)
		}
	}
	slices.Sort(res)
	if c.HasLanguage(c.base) {
		res = append([]string{c.base}, res...)
	}
	return res
}

// Keys returns the base language's keys in sorted order
func (c *Catalog) Keys() []Key {
	return util.Sorted(util.KeySet(c.messages[c.base]))
}

// Lookup returns the message for key in exactly lang
func (c *Catalog) Lookup(lang string, key Key) (string, bool) {
	msgs, ok := c.messages[lang]
	if !ok {
		return "", false
	}
	v, ok := msgs[key]
	return v, ok
}

// Validate checks that every language defines the same key set as the base
// language, returning one KeySetError per divergent language
func (c *Catalog) Validate() error {
	base, ok := c.messages[c.base]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingBase, c.base)
	}
	baseKeys := util.KeySet(base)

	var errs []error
	for _, lang := range c.Languages() {
		if lang == c.base {
			continue
		}
		keys := util.KeySet(c.messages[lang])
		missing := baseKeys.Diff(keys)
		extra := keys.Diff(baseKeys)
		if missing.IsEmpty() && extra.IsEmpty() {
			continue
		}
		errs = append(errs, &KeySetError{
			Base:     c.base,
			Language: lang,
			Missing:  util.Sorted(missing),
			Extra:    util.Sorted(extra),
		})
	}
	return errors.Join(errs...)
}

func (e *KeySetError) Error() string {
	return fmt.Sprintf("language %s differs from %s: missing %v, extra %v",
		e.Language, e.Base, e.Missing, e.Extra)
}
