// Package util provides small generic collection helpers shared across the
// mock API, locale, and settings packages
package util
