package api

type (
	// LoginRequest carries credentials for POST /auth/login
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// User is the authenticated session returned by login and resolve
	User struct {
		ID                 string      `json:"id"`
		Email              string      `json:"email"`
		Name               string      `json:"name"`
		Token              string      `json:"token"`
		IsAuthenticated    bool        `json:"isAuthenticated"`
		Permissions        []string    `json:"permissions"`
		Features           []string    `json:"features"`
		AssignedWorkspaces []Workspace `json:"assignedWorkspaces"`
	}

	// Workspace is a workspace the user may act within
	Workspace struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// ResolveRequest carries a token for POST /auth/resolve
	ResolveRequest struct {
		Token string `json:"token"`
	}

	// ResolveResponse is returned by POST /auth/resolve
	ResolveResponse struct {
		Resolved bool  `json:"resolved"`
		User     *User `json:"user"`
	}

	// PermissionsResponse is returned by GET /auth/permissions/:type
	PermissionsResponse struct {
		Type        string   `json:"type"`
		Permissions []string `json:"permissions"`
	}

	// ProvidersResponse lists the SSO providers offered on the sign-in page
	ProvidersResponse struct {
		Providers []string `json:"providers"`
	}

	// ResendVerificationRequest asks for a new verification email
	ResendVerificationRequest struct {
		Email string `json:"email"`
	}

	// ResendVerificationResponse reports the outcome of a resend
	ResendVerificationResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	// RefreshTokenResponse is returned by POST /auth/refreshToken
	RefreshTokenResponse struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
)

// SSO provider identifiers
const (
	ProviderAzure  = "azure"
	ProviderGoogle = "google"
	ProviderAuth0  = "auth0"
	ProviderGitHub = "github"
)

// ProviderLabels maps provider identifiers to their sign-in button labels
var ProviderLabels = map[string]string{
	ProviderAzure:  "Sign In With Microsoft",
	ProviderGoogle: "Sign In With Google",
	ProviderAuth0:  "Sign In With Auth0",
	ProviderGitHub: "Sign In With Github",
}
