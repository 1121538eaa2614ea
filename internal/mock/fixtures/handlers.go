package fixtures

import (
	"net/http"
	"strconv"

	"github.com/kode4food/flowdesk/internal/mock"
	"github.com/kode4food/flowdesk/pkg/api"
)

// Defaults returns the default console API rules in registration order
func Defaults() []mock.Rule {
	return []mock.Rule{
		mock.Post(LoginPath, login),
		mock.Post(ResolvePath, resolve),
		mock.Get(PermissionsPath, permissions),
		mock.Get(LoginMethodsPath, Providers(DefaultProviders()...)),
		mock.Post(ResendVerificationPath, resendVerification),
		mock.Get(PlatformSettingsPath, Platform(api.PlatformCloud)),
		mock.Post(RefreshTokenPath, mock.Static(mock.OK(RefreshedToken()))),
		mock.Get(AgentflowsPath, ListAgentflows(DefaultAgentflows())),
	}
}

// NewRouter creates a router preloaded with the default rules
func NewRouter(cfg mock.Config) *mock.Router {
	return mock.New(cfg, Defaults()...)
}

func login(req *mock.Request) *mock.Response {
	var body api.LoginRequest
	if err := req.Decode(&body); err != nil {
		return mock.Message(http.StatusBadRequest, api.MsgInvalidBody)
	}
	email, password := body.Email, body.Password

	switch {
	case email == UnverifiedEmail:
		return unverified()
	case email == RedirectEmail:
		return redirect()
	case email == InvalidEmail || password == WrongPassword:
		return invalidCredentials()
	case email == RateLimitEmail:
		return mock.JSON(http.StatusTooManyRequests, api.ErrorResponse{
			Message: api.MsgTooManyRequests,
			Type:    api.ErrorTypeRateLimit,
		})
	default:
		return mock.OK(LoginSuccess())
	}
}

func resolve(req *mock.Request) *mock.Response {
	if req.Get("token").String() == "" {
		return mock.Message(http.StatusBadRequest, api.MsgTokenRequired)
	}
	user := LoginSuccess()
	return mock.OK(api.ResolveResponse{Resolved: true, User: &user})
}

func permissions(req *mock.Request) *mock.Response {
	typ := req.Param("type")
	if typ == "invalid" {
		return mock.Message(http.StatusBadRequest, api.MsgInvalidPermission)
	}
	return mock.OK(api.PermissionsResponse{
		Type:        typ,
		Permissions: DefaultPermissions(),
	})
}

func resendVerification(req *mock.Request) *mock.Response {
	var body api.ResendVerificationRequest
	if err := req.Decode(&body); err != nil {
		return mock.Message(http.StatusBadRequest, api.MsgEmailRequired)
	}
	switch body.Email {
	case "":
		return mock.Message(http.StatusBadRequest, api.MsgEmailRequired)
	case ResendFailEmail:
		return verificationFailed()
	default:
		return mock.OK(api.ResendVerificationResponse{
			Success: true,
			Message: api.MsgVerificationSent,
		})
	}
}

// Providers returns a handler listing the given SSO providers
func Providers(names ...string) mock.Handler {
	if names == nil {
		names = []string{}
	}
	return mock.Static(mock.OK(api.ProvidersResponse{Providers: names}))
}

// Platform returns a handler reporting the given platform type
func Platform(t api.PlatformType) mock.Handler {
	return mock.Static(mock.OK(api.PlatformSettings{PlatformType: t}))
}

// ListAgentflows returns a handler that filters flows by the "type" query
// parameter and paginates them with "page" (1-based) and "limit"
func ListAgentflows(flows []api.Agentflow) mock.Handler {
	return func(req *mock.Request) *mock.Response {
		q := req.URL.Query()
		typ := api.FlowType(q.Get("type"))

		matched := make([]api.Agentflow, 0, len(flows))
		for _, f := range flows {
			if typ == "" || f.Type == typ {
				matched = append(matched, f)
			}
		}

		page := positiveInt(q.Get("page"), 1)
		limit := positiveInt(q.Get("limit"), DefaultPageLimit)
		start := min((page-1)*limit, len(matched))
		end := min(start+limit, len(matched))

		return mock.OK(api.AgentflowsResponse{
			Data:  matched[start:end],
			Total: len(matched),
		})
	}
}

func unverified() *mock.Response {
	return mock.Message(http.StatusUnauthorized, api.MsgUnverified)
}

func invalidCredentials() *mock.Response {
	return mock.Message(http.StatusUnauthorized, api.MsgInvalidCredentials)
}

func redirect() *mock.Response {
	return mock.JSON(http.StatusUnauthorized, api.ErrorResponse{
		Message:     api.MsgRedirectRequired,
		RedirectURL: true,
		Data:        &api.RedirectData{RedirectURL: api.DefaultSSORedirectPath},
	})
}

func verificationFailed() *mock.Response {
	return mock.Message(
		http.StatusInternalServerError, api.MsgVerificationFailed,
	)
}

func positiveInt(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
