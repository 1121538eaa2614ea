package mock

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kode4food/flowdesk/pkg/log"
)

type (
	// Config controls construction of a Router
	Config struct {
		// Policy decides what happens to requests no rule matches
		Policy BypassPolicy

		// Fallback receives bypassed requests. Defaults to
		// http.DefaultTransport
		Fallback http.RoundTripper

		// Delay is added before every synthesized response
		Delay time.Duration
	}

	// Router dispatches intercepted requests to the first matching rule
	Router struct {
		config    Config
		defaults  []Rule
		overrides []Rule
		calls     []Call
		mu        sync.RWMutex
	}

	// Call records a single request observed by the router
	Call struct {
		ID      string
		Method  string
		Path    string
		Query   string
		Body    []byte
		Rule    string
		Handled bool
	}
)

// RequestIDHeader carries the router-assigned call id on responses
const RequestIDHeader = "X-Mock-Request-Id"

var (
	ErrUnhandledRequest = errors.New("no mock rule matched request")
	ErrDuplicateRule    = errors.New("mock rule already registered")
	ErrUnknownPolicy    = errors.New("unknown bypass policy")
	ErrNilHandler       = errors.New("mock rule requires a handler")
)

var (
	_ http.RoundTripper = (*Router)(nil)
	_ http.Handler      = (*Router)(nil)
)

// New creates a router whose default rule list is rules, in order
func New(cfg Config, rules ...Rule) *Router {
	if cfg.Fallback == nil {
		cfg.Fallback = http.DefaultTransport
	}
	return &Router{
		config:   cfg,
		defaults: slices.Clone(rules),
	}
}

// Register appends a default rule. A rule with the same method and pattern
// as an existing default is rejected; use Use to shadow a default
func (r *Router) Register(rule Rule) error {
	if rule.Handler == nil {
		return fmt.Errorf("%w: %s", ErrNilHandler, rule.Key())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.defaults {
		if existing.Key() == rule.Key() {
			return fmt.Errorf("%w: %s", ErrDuplicateRule, rule.Key())
		}
	}
	r.defaults = append(r.defaults, rule)
	return nil
}

// Use installs test-local override rules ahead of the defaults. Later calls
// take precedence over earlier ones; within a call the first rule wins
func (r *Router) Use(rules ...Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = append(slices.Clone(rules), r.overrides...)
}

// Reset discards overrides and recorded calls, restoring the default list
func (r *Router) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = nil
	r.calls = nil
}

// Rules returns the keys of the active rules in match order
func (r *Router) Rules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]string, 0, len(r.overrides)+len(r.defaults))
	for _, rule := range r.overrides {
		res = append(res, rule.Key())
	}
	for _, rule := range r.defaults {
		res = append(res, rule.Key())
	}
	return res
}

// Calls returns the requests observed since the last Reset
func (r *Router) Calls() []Call {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.calls)
}

// Client returns an http.Client whose transport is this router
func (r *Router) Client() *http.Client {
	return &http.Client{Transport: r}
}

// Policy returns the configured bypass policy
func (r *Router) Policy() BypassPolicy {
	return r.config.Policy
}

// RoundTrip implements http.RoundTripper
func (r *Router) RoundTrip(req *http.Request) (*http.Response, error) {
	return r.Dispatch(req)
}

// Dispatch produces the synthetic response for req, or applies the bypass
// policy when no rule matches
func (r *Router) Dispatch(req *http.Request) (*http.Response, error) {
	body, err := readBody(req)
	if err != nil {
		return nil, err
	}

	rule, params, ok := r.match(req.Method, req.URL.Path)
	call := r.record(req, body, rule, ok)

	if !ok {
		return r.bypass(req, body)
	}

	res, err := r.respond(req, rule, params, body)
	if err != nil {
		return nil, err
	}
	hres := res.toHTTP(req)
	hres.Header.Set(RequestIDHeader, call.ID)
	return hres, nil
}

// ServeHTTP implements http.Handler. Unmatched requests receive a 404 JSON
// body since there is no upstream to forward to
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, err := readBody(req)
	if err != nil {
		writeResponse(w, Message(http.StatusBadRequest, err.Error()))
		return
	}

	rule, params, ok := r.match(req.Method, req.URL.Path)
	call := r.record(req, body, rule, ok)
	w.Header().Set(RequestIDHeader, call.ID)

	if !ok {
		r.logUnhandled(req)
		writeResponse(w, Message(http.StatusNotFound,
			fmt.Sprintf("%s: %s %s",
				ErrUnhandledRequest, req.Method, req.URL.Path),
		))
		return
	}

	res, err := r.respond(req, rule, params, body)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		writeResponse(w, Message(http.StatusBadGateway, err.Error()))
		return
	}
	writeResponse(w, res)
}

func (r *Router) match(
	method, path string,
) (Rule, map[string]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rules := range [][]Rule{r.overrides, r.defaults} {
		for _, rule := range rules {
			if params, ok := rule.match(method, path); ok {
				return rule, params, true
			}
		}
	}
	return Rule{}, nil, false
}

func (r *Router) respond(
	req *http.Request, rule Rule, params map[string]string, body []byte,
) (*Response, error) {
	if err := wait(req.Context(), r.config.Delay+rule.Delay); err != nil {
		return nil, err
	}

	res := rule.Handler(&Request{
		Request: req,
		Params:  params,
		Body:    body,
	})
	if res == nil {
		res = &Response{Status: http.StatusNoContent}
	}
	if res.Err != nil {
		return nil, res.Err
	}

	slog.Debug("Mock request handled",
		log.Method(req.Method),
		log.Path(req.URL.Path),
		log.Pattern(rule.Pattern.String()),
		log.StatusCode(res.Status))
	return res, nil
}

func (r *Router) bypass(req *http.Request, body []byte) (*http.Response, error) {
	r.logUnhandled(req)
	if r.config.Policy == Error {
		return nil, fmt.Errorf("%w: %s %s",
			ErrUnhandledRequest, req.Method, req.URL.Path)
	}

	out := req.Clone(req.Context())
	out.Body = io.NopCloser(bytes.NewReader(body))
	return r.config.Fallback.RoundTrip(out)
}

func (r *Router) logUnhandled(req *http.Request) {
	attrs := []any{
		log.Method(req.Method),
		log.Path(req.URL.Path),
		slog.String("policy", r.config.Policy.String()),
	}
	switch r.config.Policy {
	case Error:
		slog.Error("Unhandled mock request", attrs...)
	case Warn:
		slog.Warn("Unhandled mock request", attrs...)
	default:
		slog.Debug("Unhandled mock request", attrs...)
	}
}

func (r *Router) record(
	req *http.Request, body []byte, rule Rule, handled bool,
) Call {
	call := Call{
		ID:      uuid.NewString(),
		Method:  req.Method,
		Path:    req.URL.Path,
		Query:   req.URL.RawQuery,
		Body:    body,
		Handled: handled,
	}
	if handled {
		call.Rule = rule.Key()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	return call
}

func readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer func() { _ = req.Body.Close() }()
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("read mock request body: %w", err)
	}
	return body, nil
}

func writeResponse(w http.ResponseWriter, res *Response) {
	for k, vs := range res.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(res.Body)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
