// Package fixtures holds the default mock rules for the console API and the
// override rules tests install to exercise specific scenarios
//
// The login fixture branches on literal email addresses to select canned
// failure modes. It is a stand-in for a backend, not an authentication
// decision
package fixtures
