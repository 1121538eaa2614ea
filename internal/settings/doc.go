// Package settings implements the process-wide console preference store
//
// Preferences (active language, flow display mode, agentflow version) are
// read through Get, written through Set, and observed through Subscribe.
// Values are persisted by a Backend, either in memory or in Redis
package settings
