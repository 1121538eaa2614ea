// Package i18n is the console's locale resource store
//
// Catalogs map translation keys to display strings for each supported
// language. They are embedded as YAML, optionally overlaid from a blob
// bucket at startup, and looked up through Store.Translate, which never
// fails: an unknown language falls back to the default language and an
// unknown key is returned unchanged
package i18n
