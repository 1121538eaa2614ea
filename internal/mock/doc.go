// Package mock implements the console's mock request router
//
// A Router holds an ordered list of rules, each pairing an HTTP method and
// path pattern with a handler that synthesizes a response. The router is
// both an http.RoundTripper, so tests inject it into an http.Client in
// place of the network, and an http.Handler, so the same rules can be
// served to a browser during local development.
//
// Default rules are matched in registration order. Rules added with Use
// are test-local overrides: they are consulted first, newest first, and
// are discarded by Reset. Requests that match nothing follow the router's
// bypass policy
package mock
