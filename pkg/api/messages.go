package api

type (
	// ErrorResponse is the body of every non-2xx console API response
	ErrorResponse struct {
		Message     string        `json:"message"`
		Type        string        `json:"type,omitempty"`
		RedirectURL bool          `json:"redirectUrl,omitempty"`
		Data        *RedirectData `json:"data,omitempty"`
	}

	// RedirectData carries the SSO redirect target for a redirect failure
	RedirectData struct {
		RedirectURL string `json:"redirectUrl"`
	}

	// HealthResponse provides service health information
	HealthResponse struct {
		Service string `json:"service"`
		Version string `json:"version"`
		Status  string `json:"status"`
		Rules   int    `json:"rules"`
	}

	// SettingsResponse lists persisted preference values
	SettingsResponse struct {
		Settings map[string]string `json:"settings"`
	}

	// SettingRequest updates a single preference
	SettingRequest struct {
		Value string `json:"value"`
	}

	// SettingResponse carries a single preference value
	SettingResponse struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}

	// SettingsEvent is pushed over the settings WebSocket. The first
	// message is a snapshot, every later one a single change
	SettingsEvent struct {
		Type     string            `json:"type"`
		Key      string            `json:"key,omitempty"`
		Value    string            `json:"value,omitempty"`
		Settings map[string]string `json:"settings,omitempty"`
	}

	// RulesResponse lists active mock rules in match order
	RulesResponse struct {
		Rules []string `json:"rules"`
	}

	// CallsResponse lists requests observed by the mock router
	CallsResponse struct {
		Calls []MockCall `json:"calls"`
		Count int        `json:"count"`
	}

	// MockCall describes one observed request
	MockCall struct {
		ID      string `json:"id"`
		Method  string `json:"method"`
		Path    string `json:"path"`
		Query   string `json:"query,omitempty"`
		Rule    string `json:"rule,omitempty"`
		Handled bool   `json:"handled"`
	}

	// LanguagesResponse lists selectable UI languages
	LanguagesResponse struct {
		Languages []LanguageOption `json:"languages"`
		Active    string           `json:"active"`
	}

	// LanguageOption is one selectable UI language
	LanguageOption struct {
		Code   string `json:"code"`
		Name   string `json:"name"`
		Flag   string `json:"flag"`
		Active bool   `json:"active"`
	}

	// TranslationsResponse carries the resolved messages for a language
	TranslationsResponse struct {
		Language string            `json:"language"`
		Messages map[string]string `json:"messages"`
	}
)

// SettingsEvent types
const (
	SettingsEventSnapshot = "snapshot"
	SettingsEventChanged  = "changed"
)

// Error types reported in ErrorResponse.Type
const (
	ErrorTypeRateLimit = "authentication_rate_limit"
)

// Fixed messages surfaced by the console API
const (
	MsgUnverified         = "User Email Unverified"
	MsgInvalidCredentials = "Invalid credentials"
	MsgRedirectRequired   = "Redirect required"
	MsgTooManyRequests    = "Too many requests"
	MsgTokenRequired      = "Token required"
	MsgInvalidPermission  = "Invalid permission type"
	MsgEmailRequired      = "Email is required"
	MsgInvalidBody        = "Invalid request body"
	MsgVerificationFailed = "Failed to send verification email"
	MsgVerificationSent   = "Verification email sent"
	MsgVerificationResent = "Verification email has been sent successfully."
)

// DefaultSSORedirectPath is where redirect failures send the browser
const DefaultSSORedirectPath = "/sso-redirect"
