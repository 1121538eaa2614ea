package mock

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// Pattern is a compiled path pattern. Segments are literal, named
	// (":id") or a trailing wildcard ("*")
	Pattern struct {
		raw      string
		segments []segment
		wildcard bool
	}

	segment struct {
		value string
		param bool
	}
)

var (
	ErrEmptyPattern      = errors.New("path pattern is required")
	ErrPatternNotRooted  = errors.New("path pattern must start with /")
	ErrEmptyParamName    = errors.New("path parameter requires a name")
	ErrDuplicateParam    = errors.New("duplicate path parameter")
	ErrMisplacedWildcard = errors.New("wildcard must be the final segment")
)

// ParsePattern compiles a path pattern such as "/api/v1/auth/permissions/:type"
func ParsePattern(raw string) (*Pattern, error) {
	if raw == "" {
		return nil, ErrEmptyPattern
	}
	if !strings.HasPrefix(raw, "/") {
		return nil, fmt.Errorf("%w: %s", ErrPatternNotRooted, raw)
	}

	p := &Pattern{raw: raw}
	seen := map[string]bool{}
	parts := splitPath(raw)
	for i, part := range parts {
		switch {
		case part == "*":
			if i != len(parts)-1 {
				return nil, fmt.Errorf("%w: %s", ErrMisplacedWildcard, raw)
			}
			p.wildcard = true
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: %s", ErrEmptyParamName, raw)
			}
			if seen[name] {
				return nil, fmt.Errorf("%w: %s in %s",
					ErrDuplicateParam, name, raw)
			}
			seen[name] = true
			p.segments = append(p.segments, segment{value: name, param: true})
		default:
			p.segments = append(p.segments, segment{value: part})
		}
	}
	return p, nil
}

// MustParsePattern is ParsePattern that panics on malformed input
func MustParsePattern(raw string) *Pattern {
	p, err := ParsePattern(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether path satisfies the pattern and returns the values
// captured by named segments
func (p *Pattern) Match(path string) (map[string]string, bool) {
	parts := splitPath(path)
	if len(parts) < len(p.segments) {
		return nil, false
	}
	if !p.wildcard && len(parts) != len(p.segments) {
		return nil, false
	}

	params := map[string]string{}
	for i, seg := range p.segments {
		if seg.param {
			if parts[i] == "" {
				return nil, false
			}
			params[seg.value] = parts[i]
			continue
		}
		if parts[i] != seg.value {
			return nil, false
		}
	}
	return params, true
}

// String returns the pattern as written
func (p *Pattern) String() string {
	return p.raw
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
