package view

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"sync"

	"github.com/kode4food/flowdesk/internal/client"
	"github.com/kode4food/flowdesk/pkg/api"
	"github.com/kode4food/flowdesk/pkg/log"
)

type (
	// BannerKind distinguishes error and success banners
	BannerKind int

	// Banner is the alert shown above the sign-in form
	Banner struct {
		Kind    BannerKind
		Message string
	}

	// ProviderButton is a rendered SSO sign-in button
	ProviderButton struct {
		Provider string
		Label    string
	}

	// SignInState is a snapshot of the sign-in screen
	SignInState struct {
		Banner     Banner
		ShowResend bool
		Loading    bool
		Resending  bool
		Providers  []ProviderButton
		User       *api.User
		Navigate   string
	}

	// SignIn drives the sign-in screen
	SignIn struct {
		client     client.Client
		login      *Fetch[api.LoginRequest, *api.User]
		resend     *Fetch[string, *api.ResendVerificationResponse]
		providers  *Fetch[struct{}, []string]
		email      string
		banner     Banner
		showResend bool
		navigate   string
		mu         sync.Mutex
	}
)

const (
	BannerNone BannerKind = iota
	BannerError
	BannerSuccess
)

// HomePath is where a successful sign-in navigates
const HomePath = "/"

// ErrQuery is the query parameter carrying an error from an SSO redirect
const ErrQuery = "error"

var ErrResendUnavailable = errors.New("resend verification not available")

// NewSignIn creates a sign-in view model over c
func NewSignIn(c client.Client) *SignIn {
	s := &SignIn{client: c}
	s.login = NewFetch(func(
		ctx context.Context, req api.LoginRequest,
	) (*api.User, error) {
		return c.Login(ctx, req.Email, req.Password)
	})
	s.resend = NewFetch(c.ResendVerification)
	s.providers = NewFetch(func(
		ctx context.Context, _ struct{},
	) ([]string, error) {
		return c.LoginMethods(ctx)
	})
	return s
}

// Load shows any error passed in the page query and fetches the SSO
// providers. A provider failure leaves the form usable with no buttons
func (s *SignIn) Load(ctx context.Context, query url.Values) error {
	if raw := query.Get(ErrQuery); raw != "" {
		s.setBanner(BannerError, queryErrorMessage(raw))
	}

	_, err := s.providers.Request(ctx, struct{}{})
	if err != nil && !Discarded(err) {
		slog.Warn("Failed to load SSO providers", log.Error(err))
		return err
	}
	return nil
}

// Submit attempts a sign-in. API failures are mapped onto the banner and
// also returned
func (s *SignIn) Submit(ctx context.Context, email, password string) error {
	s.mu.Lock()
	s.email = email
	s.banner = Banner{}
	s.showResend = false
	s.navigate = ""
	s.mu.Unlock()

	_, ticket, err := s.login.RequestTicket(ctx, api.LoginRequest{
		Email:    email,
		Password: password,
	})
	if Discarded(err) {
		return nil
	}

	var res error
	cerr := s.login.Commit(ticket, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		res = s.applyLogin(err)
	})
	if Discarded(cerr) {
		return nil
	}
	return res
}

// Resend requests a new verification email for the last submitted
// address. It is only available after an unverified sign-in failure
func (s *SignIn) Resend(ctx context.Context) error {
	s.mu.Lock()
	if !s.showResend {
		s.mu.Unlock()
		return ErrResendUnavailable
	}
	email := s.email
	s.mu.Unlock()

	_, ticket, err := s.resend.RequestTicket(ctx, email)
	if Discarded(err) {
		return nil
	}

	var res error
	cerr := s.resend.Commit(ticket, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// a newer sign-in attempt owns the banner now
		if !s.showResend || s.email != email {
			return
		}
		res = s.applyResend(err)
	})
	if Discarded(cerr) {
		return nil
	}
	return res
}

func (s *SignIn) applyLogin(err error) error {
	if err == nil {
		s.navigate = HomePath
		return nil
	}

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		s.banner = Banner{Kind: BannerError, Message: err.Error()}
		return err
	}
	if target, ok := apiErr.Redirect(); ok {
		s.navigate = target
		return err
	}
	s.banner = Banner{Kind: BannerError, Message: apiErr.Message}
	s.showResend = apiErr.Message == api.MsgUnverified
	return err
}

func (s *SignIn) applyResend(err error) error {
	if err != nil {
		var apiErr *client.APIError
		msg := err.Error()
		if errors.As(err, &apiErr) {
			msg = apiErr.Message
		}
		s.banner = Banner{Kind: BannerError, Message: msg}
		return err
	}
	s.banner = Banner{Kind: BannerSuccess, Message: api.MsgVerificationResent}
	s.showResend = false
	return nil
}

// DismissBanner hides the current banner
func (s *SignIn) DismissBanner() {
	s.setBanner(BannerNone, "")
}

// State returns a snapshot of the screen
func (s *SignIn) State() SignInState {
	login := s.login.State()
	resend := s.resend.State()
	providers := s.providers.State()

	s.mu.Lock()
	defer s.mu.Unlock()

	return SignInState{
		Banner:     s.banner,
		ShowResend: s.showResend,
		Loading:    login.Status == Loading,
		Resending:  resend.Status == Loading,
		Providers:  providerButtons(providers.Data),
		User:       login.Data,
		Navigate:   s.navigate,
	}
}

// Close discards any responses still in flight
func (s *SignIn) Close() {
	s.login.Close()
	s.resend.Close()
	s.providers.Close()
}

func (s *SignIn) setBanner(kind BannerKind, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banner = Banner{Kind: kind, Message: msg}
}

func providerButtons(providers []string) []ProviderButton {
	res := make([]ProviderButton, 0, len(providers))
	for _, p := range providers {
		label, ok := api.ProviderLabels[p]
		if !ok {
			continue
		}
		res = append(res, ProviderButton{Provider: p, Label: label})
	}
	return res
}

func queryErrorMessage(raw string) string {
	var body api.ErrorResponse
	if err := json.Unmarshal([]byte(raw), &body); err == nil &&
		body.Message != "" {
		return body.Message
	}
	return raw
}
