package mock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/flowdesk/internal/mock"
)

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		match   bool
		params  map[string]string
	}{
		{"/api/v1/auth/login", "/api/v1/auth/login", true, map[string]string{}},
		{"/api/v1/auth/login", "/api/v1/auth/login/", true, map[string]string{}},
		{"/api/v1/auth/login", "/api/v1/auth", false, nil},
		{"/api/v1/auth/login", "/api/v1/auth/login/extra", false, nil},
		{
			"/api/v1/auth/permissions/:type",
			"/api/v1/auth/permissions/ORGANIZATION",
			true,
			map[string]string{"type": "ORGANIZATION"},
		},
		{
			"/flows/:flowID/steps/:stepID",
			"/flows/f1/steps/s2",
			true,
			map[string]string{"flowID": "f1", "stepID": "s2"},
		},
		{"/flows/:flowID", "/flows", false, nil},
		{"/node-icon/*", "/node-icon/openAI/large", true, map[string]string{}},
		{"/", "/", true, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_"+tt.path, func(t *testing.T) {
			p := mock.MustParsePattern(tt.pattern)
			params, ok := p.Match(tt.path)
			assert.Equal(t, tt.match, ok)
			if tt.match {
				assert.Equal(t, tt.params, params)
			}
		})
	}
}

func TestParsePatternErrors(t *testing.T) {
	tests := []struct {
		pattern  string
		expected error
	}{
		{"", mock.ErrEmptyPattern},
		{"api/v1", mock.ErrPatternNotRooted},
		{"/a/:", mock.ErrEmptyParamName},
		{"/a/:id/b/:id", mock.ErrDuplicateParam},
		{"/a/*/b", mock.ErrMisplacedWildcard},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := mock.ParsePattern(tt.pattern)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestMustParsePatternPanics(t *testing.T) {
	assert.Panics(t, func() { mock.MustParsePattern("relative") })
	assert.Equal(t, "/x/:y", mock.MustParsePattern("/x/:y").String())
}

func TestParseBypassPolicy(t *testing.T) {
	p, err := mock.ParseBypassPolicy("Warn")
	assert.NoError(t, err)
	assert.Equal(t, mock.Warn, p)
	assert.Equal(t, "warn", p.String())

	p, err = mock.ParseBypassPolicy("error")
	assert.NoError(t, err)
	assert.Equal(t, mock.Error, p)

	_, err = mock.ParseBypassPolicy("sometimes")
	assert.ErrorIs(t, err, mock.ErrUnknownPolicy)
	assert.Equal(t, "BypassPolicy(9)", mock.BypassPolicy(9).String())
}
