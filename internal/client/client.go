package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kode4food/flowdesk"
	"github.com/kode4food/flowdesk/pkg/api"
	"github.com/kode4food/flowdesk/pkg/log"
)

type (
	// Client is the typed console API surface used by the view models
	Client interface {
		Login(ctx context.Context, email, password string) (*api.User, error)
		Resolve(ctx context.Context, token string) (*api.ResolveResponse, error)
		Permissions(
			ctx context.Context, typ string,
		) (*api.PermissionsResponse, error)
		LoginMethods(ctx context.Context) ([]string, error)
		ResendVerification(
			ctx context.Context, email string,
		) (*api.ResendVerificationResponse, error)
		PlatformSettings(ctx context.Context) (*api.PlatformSettings, error)
		RefreshToken(ctx context.Context) (*api.RefreshTokenResponse, error)
		ListAgentflows(
			ctx context.Context, typ api.FlowType, page, limit int,
		) (*api.AgentflowsResponse, error)
	}

	// HTTPClient calls the console API through an injected http.Client
	HTTPClient struct {
		httpClient *http.Client
		baseURL    string
		token      string
	}
)

const apiPrefix = "/api/v1"

var userAgent = "Flowdesk/" + flowdesk.Version

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the console at baseURL. Tests pass a
// client whose transport is the mock router
func NewHTTPClient(hc *http.Client, baseURL string) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{
		httpClient: hc,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// WithToken returns a copy that sends token as a bearer credential
func (c *HTTPClient) WithToken(token string) *HTTPClient {
	res := *c
	res.token = token
	return &res
}

func (c *HTTPClient) Login(
	ctx context.Context, email, password string,
) (*api.User, error) {
	var res api.User
	err := c.do(ctx, http.MethodPost, "/auth/login",
		api.LoginRequest{Email: email, Password: password}, &res,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Resolve(
	ctx context.Context, token string,
) (*api.ResolveResponse, error) {
	var res api.ResolveResponse
	err := c.do(ctx, http.MethodPost, "/auth/resolve",
		api.ResolveRequest{Token: token}, &res,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Permissions(
	ctx context.Context, typ string,
) (*api.PermissionsResponse, error) {
	var res api.PermissionsResponse
	path := "/auth/permissions/" + url.PathEscape(typ)
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LoginMethods returns the configured SSO provider identifiers
func (c *HTTPClient) LoginMethods(ctx context.Context) ([]string, error) {
	var res api.ProvidersResponse
	err := c.do(ctx, http.MethodGet, "/loginmethod/default", nil, &res)
	if err != nil {
		return nil, err
	}
	if res.Providers == nil {
		return []string{}, nil
	}
	return res.Providers, nil
}

func (c *HTTPClient) ResendVerification(
	ctx context.Context, email string,
) (*api.ResendVerificationResponse, error) {
	var res api.ResendVerificationResponse
	err := c.do(ctx, http.MethodPost, "/account/resend-verification",
		api.ResendVerificationRequest{Email: email}, &res,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) PlatformSettings(
	ctx context.Context,
) (*api.PlatformSettings, error) {
	var res api.PlatformSettings
	err := c.do(ctx, http.MethodGet, "/platformsettings/settings", nil, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) RefreshToken(
	ctx context.Context,
) (*api.RefreshTokenResponse, error) {
	var res api.RefreshTokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/refreshToken", nil, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListAgentflows returns one page of flows of the given type. Zero page or
// limit values are omitted so the server defaults apply
func (c *HTTPClient) ListAgentflows(
	ctx context.Context, typ api.FlowType, page, limit int,
) (*api.AgentflowsResponse, error) {
	q := url.Values{}
	if typ != "" {
		q.Set("type", string(typ))
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/chatflows"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var res api.AgentflowsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) do(
	ctx context.Context, method, path string, in, out any,
) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			slog.Error("Failed to marshal request",
				log.Path(path),
				log.Error(err))
			return err
		}
		body = bytes.NewReader(b)
	}

	endpoint := c.baseURL + apiPrefix + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		slog.Error("Failed to create HTTP request",
			log.Path(path),
			log.Error(err))
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	dur := time.Since(start)

	if err != nil {
		slog.Debug("HTTP request failed",
			log.Method(method),
			log.Path(path),
			slog.Duration("duration", dur),
			log.Error(err))
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("Failed to read response body",
			log.Path(path),
			log.Error(err))
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, respBody)
		slog.Debug("HTTP error",
			log.Method(method),
			log.Path(path),
			log.StatusCode(resp.StatusCode),
			slog.String("message", apiErr.Message))
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		slog.Error("Failed to unmarshal response",
			log.Path(path),
			log.Error(err))
		return err
	}
	return nil
}
