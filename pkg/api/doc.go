// Package api defines the wire types of the console HTTP API
//
// These are the request and response bodies exchanged with the console
// backend, shared by the mock fixtures, the typed client, and the mock
// API server
package api
