package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kode4food/flowdesk/internal/client"
	"github.com/kode4food/flowdesk/internal/harness"
	"github.com/kode4food/flowdesk/internal/mock"
	"github.com/kode4food/flowdesk/internal/mock/fixtures"
	"github.com/kode4food/flowdesk/pkg/api"
)

func newClient(t *testing.T) (*client.HTTPClient, *harness.Harness) {
	t.Helper()
	h := harness.New(t)
	return client.NewHTTPClient(h.Client(), "http://console.test/"), h
}

func TestLogin(t *testing.T) {
	cl, h := newClient(t)

	user, err := cl.Login(context.Background(), "test@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-123", user.ID)
	assert.Equal(t, "mock-token-123", user.Token)
	assert.True(t, user.IsAuthenticated)
	require.Len(t, user.AssignedWorkspaces, 1)

	calls := h.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "POST "+fixtures.LoginPath, calls[0].Rule)
	assert.JSONEq(t,
		`{"email":"test@example.com","password":"secret"}`,
		string(calls[0].Body),
	)
}

func TestLoginErrorTaxonomy(t *testing.T) {
	cl, _ := newClient(t)
	ctx := context.Background()

	tests := []struct {
		email   string
		status  int
		message string
		is      error
	}{
		{
			email:   fixtures.UnverifiedEmail,
			status:  http.StatusUnauthorized,
			message: api.MsgUnverified,
			is:      client.ErrUnauthorized,
		},
		{
			email:   fixtures.InvalidEmail,
			status:  http.StatusUnauthorized,
			message: api.MsgInvalidCredentials,
			is:      client.ErrUnauthorized,
		},
		{
			email:   fixtures.RateLimitEmail,
			status:  http.StatusTooManyRequests,
			message: api.MsgTooManyRequests,
			is:      client.ErrRateLimited,
		},
	}

	for _, tc := range tests {
		t.Run(tc.email, func(t *testing.T) {
			_, err := cl.Login(ctx, tc.email, "x")
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.is)
			assert.ErrorIs(t, err, client.ErrHTTPError)
			assert.NotErrorIs(t, err, client.ErrServer)

			var apiErr *client.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.message, apiErr.Message)
		})
	}
}

func TestLoginRedirect(t *testing.T) {
	cl, _ := newClient(t)

	_, err := cl.Login(context.Background(), fixtures.RedirectEmail, "x")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)

	target, ok := apiErr.Redirect()
	assert.True(t, ok)
	assert.Equal(t, "/sso-redirect", target)
}

func TestRateLimitType(t *testing.T) {
	cl, _ := newClient(t)

	_, err := cl.Login(context.Background(), fixtures.RateLimitEmail, "x")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, api.ErrorTypeRateLimit, apiErr.Type)
	_, ok := apiErr.Redirect()
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	cl, _ := newClient(t)
	ctx := context.Background()

	res, err := cl.Resolve(ctx, "mock-token-123")
	require.NoError(t, err)
	assert.True(t, res.Resolved)

	_, err = cl.Resolve(ctx, "")
	assert.ErrorIs(t, err, client.ErrValidation)
}

func TestPermissions(t *testing.T) {
	cl, _ := newClient(t)
	ctx := context.Background()

	res, err := cl.Permissions(ctx, "workspace")
	require.NoError(t, err)
	assert.Equal(t, "workspace", res.Type)
	assert.Equal(t, []string{"read", "write", "delete"}, res.Permissions)

	_, err = cl.Permissions(ctx, "invalid")
	assert.ErrorIs(t, err, client.ErrValidation)
}

func TestLoginMethods(t *testing.T) {
	cl, h := newClient(t)
	ctx := context.Background()

	providers, err := cl.LoginMethods(ctx)
	require.NoError(t, err)
	assert.Equal(t, fixtures.DefaultProviders(), providers)

	h.Use(fixtures.NoSSOProviders())
	providers, err = cl.LoginMethods(ctx)
	require.NoError(t, err)
	assert.Empty(t, providers)
	assert.NotNil(t, providers)
}

func TestResendVerification(t *testing.T) {
	cl, _ := newClient(t)
	ctx := context.Background()

	res, err := cl.ResendVerification(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, res.Success)

	_, err = cl.ResendVerification(ctx, "")
	assert.ErrorIs(t, err, client.ErrValidation)

	_, err = cl.ResendVerification(ctx, fixtures.ResendFailEmail)
	assert.ErrorIs(t, err, client.ErrServer)
}

func TestPlatformSettings(t *testing.T) {
	cl, h := newClient(t)
	ctx := context.Background()

	res, err := cl.PlatformSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.PlatformCloud, res.PlatformType)

	h.Use(fixtures.EnterprisePlatform())
	res, err = cl.PlatformSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.PlatformEnterprise, res.PlatformType)
}

func TestRefreshTokenSendsBearer(t *testing.T) {
	cl, h := newClient(t)
	var auth string
	h.Use(mock.Post(fixtures.RefreshTokenPath,
		func(req *mock.Request) *mock.Response {
			auth = req.Header.Get("Authorization")
			return mock.OK(fixtures.RefreshedToken())
		},
	))

	res, err := cl.WithToken("mock-token-123").RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-mock-token-123", res.Token)
	assert.Equal(t, "Bearer mock-token-123", auth)
}

func TestListAgentflowsQuery(t *testing.T) {
	cl, h := newClient(t)

	res, err := cl.ListAgentflows(
		context.Background(), api.FlowTypeMultiAgent, 1, 10,
	)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	calls := h.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "limit=10&page=1&type=MULTIAGENT", calls[0].Query)
}

func TestListAgentflowsOmitsDefaults(t *testing.T) {
	cl, h := newClient(t)

	_, err := cl.ListAgentflows(context.Background(), "", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, h.Calls()[0].Query)
}

func TestNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		},
	))
	defer srv.Close()

	cl := client.NewHTTPClient(srv.Client(), srv.URL)
	_, err := cl.PlatformSettings(context.Background())

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
	assert.ErrorIs(t, err, client.ErrServer)
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	cl, h := newClient(t)
	h.Use(mock.Get(fixtures.PlatformSettingsPath,
		mock.Static(mock.NetworkError(errors.New("connection reset"))),
	))

	_, err := cl.PlatformSettings(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, client.ErrHTTPError)
}
