// Package harness binds a mock router, a preference store and a localizer
// to a test lifecycle. Each Harness owns its own router so parallel tests
// never share rule state
package harness
