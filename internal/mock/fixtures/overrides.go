package fixtures

import (
	"net/http"
	"time"

	"github.com/kode4food/flowdesk/internal/mock"
	"github.com/kode4food/flowdesk/pkg/api"
)

// LoginError fails every login with invalid credentials
func LoginError() mock.Rule {
	return mock.Post(LoginPath, mock.Static(invalidCredentials()))
}

// LoginUnverified fails every login as an unverified email
func LoginUnverified() mock.Rule {
	return mock.Post(LoginPath, mock.Static(unverified()))
}

// LoginRedirect fails every login with an SSO redirect
func LoginRedirect() mock.Rule {
	return mock.Post(LoginPath, mock.Static(redirect()))
}

// LoginMessage fails every login with status and an arbitrary message
func LoginMessage(status int, msg string) mock.Rule {
	return mock.Post(LoginPath, mock.Static(mock.Message(status, msg)))
}

// LoginSlow succeeds after d, for observing the loading state
func LoginSlow(d time.Duration) mock.Rule {
	return Delayed(mock.Post(LoginPath, login), d)
}

// NoSSOProviders reports that no SSO providers are configured
func NoSSOProviders() mock.Rule {
	return SSOProviders()
}

// SSOProviders reports exactly the given SSO providers
func SSOProviders(names ...string) mock.Rule {
	return mock.Get(LoginMethodsPath, Providers(names...))
}

// EnterprisePlatform reports an enterprise deployment
func EnterprisePlatform() mock.Rule {
	return mock.Get(PlatformSettingsPath, Platform(api.PlatformEnterprise))
}

// OpenSourcePlatform reports an open source deployment
func OpenSourcePlatform() mock.Rule {
	return mock.Get(PlatformSettingsPath, Platform(api.PlatformOpenSource))
}

// ResendVerificationError fails every verification resend
func ResendVerificationError() mock.Rule {
	return mock.Post(ResendVerificationPath, mock.Static(verificationFailed()))
}

// Agentflows lists the given flows instead of the defaults
func Agentflows(flows ...api.Agentflow) mock.Rule {
	return mock.Get(AgentflowsPath, ListAgentflows(flows))
}

// AgentflowsError fails the flow list with a server error
func AgentflowsError(msg string) mock.Rule {
	return mock.Get(AgentflowsPath,
		mock.Static(mock.Message(http.StatusInternalServerError, msg)),
	)
}

// Delayed returns rule with an added response delay
func Delayed(rule mock.Rule, d time.Duration) mock.Rule {
	return rule.WithDelay(rule.Delay + d)
}
