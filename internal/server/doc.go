// Package server exposes the mock console API over real HTTP for local UI
// development, along with preference, locale and mock inspection endpoints
package server
