package fixtures

import (
	"slices"

	"github.com/kode4food/flowdesk/pkg/api"
)

// APIBase prefixes every console API path
const APIBase = "/api/v1"

// Console API paths
const (
	LoginPath              = APIBase + "/auth/login"
	ResolvePath            = APIBase + "/auth/resolve"
	PermissionsPath        = APIBase + "/auth/permissions/:type"
	LoginMethodsPath       = APIBase + "/loginmethod/default"
	ResendVerificationPath = APIBase + "/account/resend-verification"
	PlatformSettingsPath   = APIBase + "/platformsettings/settings"
	RefreshTokenPath       = APIBase + "/auth/refreshToken"
	AgentflowsPath         = APIBase + "/chatflows"
)

// Literal emails that select canned login failures
const (
	UnverifiedEmail = "unverified@example.com"
	RedirectEmail   = "redirect@example.com"
	InvalidEmail    = "invalid@example.com"
	RateLimitEmail  = "ratelimit@example.com"
	ResendFailEmail = "error@example.com"
	WrongPassword   = "wrongpassword"
)

// DefaultPageLimit is the page size used when a list request omits limit
const DefaultPageLimit = 12

// LoginSuccess returns the user produced by a successful login
func LoginSuccess() api.User {
	return api.User{
		ID:              "user-123",
		Email:           "test@example.com",
		Name:            "Test User",
		Token:           "mock-token-123",
		IsAuthenticated: true,
		Permissions:     []string{"read", "write"},
		Features:        []string{"feature1", "feature2"},
		AssignedWorkspaces: []api.Workspace{
			{ID: "workspace-1", Name: "Default Workspace"},
		},
	}
}

// DefaultProviders lists the SSO providers offered by default
func DefaultProviders() []string {
	return []string{
		api.ProviderAzure,
		api.ProviderGoogle,
		api.ProviderAuth0,
		api.ProviderGitHub,
	}
}

// DefaultPermissions lists the permissions granted for any valid type
func DefaultPermissions() []string {
	return []string{"read", "write", "delete"}
}

// RefreshedToken returns the session produced by a token refresh
func RefreshedToken() api.RefreshTokenResponse {
	return api.RefreshTokenResponse{
		ID:    "user-123",
		Token: "new-mock-token-123",
	}
}

// DefaultAgentflows returns the flows listed by the agentflow view
func DefaultAgentflows() []api.Agentflow {
	return slices.Clone(agentflows)
}

var agentflows = []api.Agentflow{
	{
		ID:       "af-support",
		Name:     "Support Triage",
		Category: "Customer Service",
		Type:     api.FlowTypeAgentflow,
		FlowData: `{"nodes":[` +
			`{"data":{"name":"startAgentflow","label":"Start"}},` +
			`{"data":{"name":"agentAgentflow","label":"Agent"}},` +
			`{"data":{"name":"stickyNoteAgentflow","label":"Note"}},` +
			`{"data":{"name":"chatOpenAI","label":"ChatOpenAI"}},` +
			`{"data":{"name":"chatOpenAI","label":"ChatOpenAI 2"}}` +
			`]}`,
	},
	{
		ID:       "af-research",
		Name:     "Research Assistant",
		Category: "Knowledge",
		Type:     api.FlowTypeAgentflow,
		FlowData: `{"nodes":[` +
			`{"data":{"name":"llmAgentflow","label":"LLM"}},` +
			`{"data":{"name":"retrieverAgentflow","label":"Retriever"}}` +
			`]}`,
	},
	{
		ID:       "af-broken",
		Name:     "Draft Flow",
		Type:     api.FlowTypeAgentflow,
		FlowData: `{"nodes":[`,
	},
	{
		ID:       "ma-sales",
		Name:     "Sales Team",
		Category: "Sales",
		Type:     api.FlowTypeMultiAgent,
		FlowData: `{"nodes":[` +
			`{"data":{"name":"supervisor","label":"Supervisor"}},` +
			`{"data":{"name":"worker","label":"Worker"}},` +
			`{"data":{"name":"stickyNote","label":"Note"}}` +
			`]}`,
	},
	{
		ID:       "ma-empty",
		Name:     "Empty Crew",
		Type:     api.FlowTypeMultiAgent,
		FlowData: `{}`,
	},
}
