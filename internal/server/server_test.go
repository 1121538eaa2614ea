package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kode4food/flowdesk/internal/i18n"
	"github.com/kode4food/flowdesk/internal/mock"
	"github.com/kode4food/flowdesk/internal/mock/fixtures"
	"github.com/kode4food/flowdesk/internal/server"
	"github.com/kode4food/flowdesk/internal/settings"
	"github.com/kode4food/flowdesk/pkg/api"
)

type testServerEnv struct {
	Server   *server.Server
	Router   *mock.Router
	Settings *settings.Store
	Routes   *gin.Engine
}

func testServer(t *testing.T) *testServerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	locale, err := i18n.Default()
	require.NoError(t, err)

	prefs := settings.NewMemoryStore()
	t.Cleanup(func() { _ = prefs.Close() })

	router := fixtures.NewRouter(mock.Config{Policy: mock.Error})
	srv := server.NewServer(router, prefs, locale)
	t.Cleanup(srv.CloseWebSockets)

	return &testServerEnv{
		Server:   srv,
		Router:   router,
		Settings: prefs,
		Routes:   srv.SetupRoutes(),
	}
}

func (e *testServerEnv) do(
	method, path string, body any,
) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.Routes.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var res T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestHealthEndpoint(t *testing.T) {
	env := testServer(t)

	w := env.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	res := decode[api.HealthResponse](t, w)
	assert.Equal(t, "flowdesk-mock", res.Service)
	assert.Equal(t, "healthy", res.Status)
	assert.Equal(t, len(fixtures.Defaults()), res.Rules)
}

func TestCORSPreflight(t *testing.T) {
	env := testServer(t)

	w := env.do(http.MethodOptions, fixtures.LoginPath, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, env.Router.Calls())
}

func TestConsoleAPIServedByMock(t *testing.T) {
	env := testServer(t)

	w := env.do(http.MethodPost, fixtures.LoginPath, api.LoginRequest{
		Email: "test@example.com", Password: "pw",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(mock.RequestIDHeader))
	assert.Equal(t, "user-123", decode[api.User](t, w).ID)

	w = env.do(http.MethodPost, fixtures.LoginPath, api.LoginRequest{
		Email: "ratelimit@example.com", Password: "pw",
	})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "authentication_rate_limit",
		decode[api.ErrorResponse](t, w).Type,
	)
}

func TestUnknownAPIPathIsNotFound(t *testing.T) {
	env := testServer(t)

	w := env.do(http.MethodGet, "/api/v1/nothing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t,
		decode[api.ErrorResponse](t, w).Message, "no mock rule matched",
	)
}

func TestMockInspection(t *testing.T) {
	env := testServer(t)
	env.Router.Use(fixtures.EnterprisePlatform())

	w := env.do(http.MethodGet, "/mock/rules", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	rules := decode[api.RulesResponse](t, w).Rules
	assert.Equal(t, "GET "+fixtures.PlatformSettingsPath, rules[0])
	assert.Len(t, rules, len(fixtures.Defaults())+1)

	env.do(http.MethodGet, fixtures.PlatformSettingsPath, nil)
	w = env.do(http.MethodGet, "/mock/calls", nil)
	calls := decode[api.CallsResponse](t, w)
	require.Equal(t, 1, calls.Count)
	assert.Equal(t, fixtures.PlatformSettingsPath, calls.Calls[0].Path)
	assert.True(t, calls.Calls[0].Handled)

	w = env.do(http.MethodPost, "/mock/reset", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, env.Router.Rules(), len(fixtures.Defaults()))
	assert.Empty(t, env.Router.Calls())
}

func TestSettingsRoundTrip(t *testing.T) {
	env := testServer(t)

	w := env.do(http.MethodGet, "/settings", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[api.SettingsResponse](t, w).Settings)

	w = env.do(http.MethodGet, "/settings/flowDisplayStyle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPut, "/settings/flowDisplayStyle",
		api.SettingRequest{Value: "list"},
	)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/settings/flowDisplayStyle", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, api.SettingResponse{
		Key: "flowDisplayStyle", Value: "list",
	}, decode[api.SettingResponse](t, w))

	w = env.do(http.MethodGet, "/settings", nil)
	assert.Equal(t, map[string]string{"flowDisplayStyle": "list"},
		decode[api.SettingsResponse](t, w).Settings,
	)
}

func TestSettingsValidation(t *testing.T) {
	env := testServer(t)

	w := env.do(http.MethodPut, "/settings/theme",
		api.SettingRequest{Value: "dark"},
	)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/settings/theme", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPut, "/settings/agentFlowVersion",
		api.SettingRequest{},
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPut, "/settings/language",
		api.SettingRequest{Value: "fr"},
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t,
		decode[api.ErrorResponse](t, w).Message, "unsupported language",
	)
}

func TestLanguages(t *testing.T) {
	env := testServer(t)

	w := env.do(http.MethodGet, "/locale/languages", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	res := decode[api.LanguagesResponse](t, w)
	assert.Equal(t, "en", res.Active)
	require.Len(t, res.Languages, 2)
	assert.True(t, res.Languages[0].Active)

	env.do(http.MethodPut, "/settings/language",
		api.SettingRequest{Value: "es"},
	)
	w = env.do(http.MethodGet, "/locale/languages", nil)
	res = decode[api.LanguagesResponse](t, w)
	assert.Equal(t, "es", res.Active)
	assert.True(t, res.Languages[1].Active)
}

func TestTranslations(t *testing.T) {
	env := testServer(t)

	w := env.do(http.MethodGet, "/locale/translations", nil)
	res := decode[api.TranslationsResponse](t, w)
	assert.Equal(t, "en", res.Language)
	assert.Equal(t, "Search", res.Messages["common.search"])

	w = env.do(http.MethodGet, "/locale/translations/es-MX", nil)
	res = decode[api.TranslationsResponse](t, w)
	assert.Equal(t, "es", res.Language)
	assert.Equal(t, "Buscar", res.Messages["common.search"])

	w = env.do(http.MethodGet, "/locale/translations/zz", nil)
	res = decode[api.TranslationsResponse](t, w)
	assert.Equal(t, "en", res.Language)
}
