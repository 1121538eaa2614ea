package mock

import (
	"fmt"
	"strings"
)

// BypassPolicy decides what happens to a request no rule matches
type BypassPolicy int

const (
	// Bypass forwards unmatched requests to the fallback transport
	Bypass BypassPolicy = iota

	// Warn forwards unmatched requests and logs a warning
	Warn

	// Error fails unmatched requests with ErrUnhandledRequest
	Error
)

var policyNames = map[BypassPolicy]string{
	Bypass: "bypass",
	Warn:   "warn",
	Error:  "error",
}

// ParseBypassPolicy maps "bypass", "warn" or "error" to a policy
func ParseBypassPolicy(s string) (BypassPolicy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for p, n := range policyNames {
		if n == name {
			return p, nil
		}
	}
	return Bypass, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

func (p BypassPolicy) String() string {
	if n, ok := policyNames[p]; ok {
		return n
	}
	return fmt.Sprintf("BypassPolicy(%d)", int(p))
}
