package log_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/flowdesk/pkg/log"
)

type (
	errStub  string
	langCode string
)

func TestMethodAndPath(t *testing.T) {
	assertAttrEqual(t, log.Method("POST"), "method", "POST")
	assertAttrEqual(t, log.Path("/api/v1/auth/login"), "path", "/api/v1/auth/login")
	assertAttrEqual(t, log.Pattern("/auth/:type"), "pattern", "/auth/:type")
}

func TestStatusCode(t *testing.T) {
	attr := log.StatusCode(429)
	assert.Equal(t, "status_code", attr.Key)
	assert.Equal(t, int64(429), attr.Value.Int64())
}

func TestLanguage(t *testing.T) {
	attr := log.Language(langCode("es"))
	assertAttrEqual(t, attr, "language", "es")
}

func TestKeyAndFlowID(t *testing.T) {
	assertAttrEqual(t, log.Key("agentFlowVersion"), "key", "agentFlowVersion")
	assertAttrEqual(t, log.FlowID("flow-1"), "flow_id", "flow-1")
}

func TestError(t *testing.T) {
	attr := log.Error(nil)
	assertAttrEqual(t, attr, "error", "")

	attr = log.Error(errStub("boom"))
	assertAttrEqual(t, attr, "error", "boom")
}

func (e errStub) Error() string { return string(e) }

func assertAttrEqual(t *testing.T, attr slog.Attr, key, value string) {
	t.Helper()
	assert.Equal(t, key, attr.Key)
	assert.Equal(t, value, attr.Value.String())
}
