package mock

import (
	"net/http"
	"strings"
	"time"
)

// Rule pairs an HTTP method and path pattern with a response handler
type Rule struct {
	Method  string
	Pattern *Pattern
	Handler Handler
	Delay   time.Duration
}

// NewRule builds a rule, panicking when the pattern is malformed. Rules are
// declared as fixtures, so a bad pattern is a programming error
func NewRule(method, pattern string, h Handler) Rule {
	return Rule{
		Method:  strings.ToUpper(method),
		Pattern: MustParsePattern(pattern),
		Handler: h,
	}
}

// Get builds a GET rule
func Get(pattern string, h Handler) Rule {
	return NewRule(http.MethodGet, pattern, h)
}

// Post builds a POST rule
func Post(pattern string, h Handler) Rule {
	return NewRule(http.MethodPost, pattern, h)
}

// AnyMethod as a rule's method matches every request method
const AnyMethod = "*"

// WithDelay returns a copy of the rule that waits d before responding
func (r Rule) WithDelay(d time.Duration) Rule {
	r.Delay = d
	return r
}

// Key identifies the rule by method and pattern, e.g. "POST /api/v1/auth/login"
func (r Rule) Key() string {
	return r.Method + " " + r.Pattern.String()
}

func (r Rule) match(method, path string) (map[string]string, bool) {
	if r.Method != AnyMethod && r.Method != method {
		return nil, false
	}
	return r.Pattern.Match(path)
}
