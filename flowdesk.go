// Package flowdesk holds build identity shared by the console tooling
package flowdesk

const (
	// Name identifies the mock API service in logs and health responses
	Name = "flowdesk-mock"

	// Version is the release version reported by the mock API service
	Version = "0.1.0"
)
