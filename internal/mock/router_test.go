package mock_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kode4food/flowdesk/internal/mock"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func greeting(name string) mock.Rule {
	return mock.Get("/greet", func(*mock.Request) *mock.Response {
		return mock.OK(map[string]string{"hello": name})
	})
}

func readAll(t *testing.T, res *http.Response) string {
	t.Helper()
	defer func() { _ = res.Body.Close() }()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}

func TestDispatchReturnsRegisteredResponse(t *testing.T) {
	r := mock.New(mock.Config{}, greeting("world"))

	res, err := r.Client().Get("http://console.test/greet")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
	assert.NotEmpty(t, res.Header.Get(mock.RequestIDHeader))
	assert.JSONEq(t, `{"hello":"world"}`, readAll(t, res))
}

func TestDispatchMatchesMethod(t *testing.T) {
	r := mock.New(mock.Config{Policy: mock.Error}, greeting("world"))

	_, err := r.Client().Post("http://console.test/greet", "", nil)
	assert.ErrorIs(t, err, mock.ErrUnhandledRequest)
}

func TestDispatchCapturesParamsAndBody(t *testing.T) {
	r := mock.New(mock.Config{}, mock.Post("/echo/:name",
		func(req *mock.Request) *mock.Response {
			return mock.OK(map[string]any{
				"name":  req.Param("name"),
				"email": req.Get("email").String(),
			})
		},
	))

	res, err := r.Client().Post(
		"http://console.test/echo/bob", "application/json",
		strings.NewReader(`{"email":"bob@example.com"}`),
	)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"name":"bob","email":"bob@example.com"}`, readAll(t, res),
	)
}

func TestFirstRegisteredRuleWins(t *testing.T) {
	r := mock.New(mock.Config{}, greeting("first"))
	require.NoError(t, r.Register(mock.NewRule(mock.AnyMethod, "/greet",
		func(*mock.Request) *mock.Response {
			return mock.OK("second")
		},
	)))

	res, err := r.Client().Get("http://console.test/greet")
	require.NoError(t, err)
	assert.JSONEq(t, `{"hello":"first"}`, readAll(t, res))
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := mock.New(mock.Config{}, greeting("first"))

	err := r.Register(greeting("again"))
	assert.ErrorIs(t, err, mock.ErrDuplicateRule)

	err = r.Register(mock.Rule{
		Method: http.MethodGet, Pattern: mock.MustParsePattern("/x"),
	})
	assert.ErrorIs(t, err, mock.ErrNilHandler)
}

func TestUseShadowsDefaultsUntilReset(t *testing.T) {
	r := mock.New(mock.Config{}, greeting("default"))
	client := r.Client()

	r.Use(greeting("override"))
	res, err := client.Get("http://console.test/greet")
	require.NoError(t, err)
	assert.JSONEq(t, `{"hello":"override"}`, readAll(t, res))

	r.Use(greeting("newest"))
	res, err = client.Get("http://console.test/greet")
	require.NoError(t, err)
	assert.JSONEq(t, `{"hello":"newest"}`, readAll(t, res))

	r.Reset()
	res, err = client.Get("http://console.test/greet")
	require.NoError(t, err)
	assert.JSONEq(t, `{"hello":"default"}`, readAll(t, res))
}

func TestResetIsIdempotent(t *testing.T) {
	r := mock.New(mock.Config{},
		greeting("a"),
		mock.Post("/login", mock.Static(mock.Message(401, "nope"))),
	)
	defaults := r.Rules()

	r.Use(greeting("b"))
	assert.Len(t, r.Rules(), 3)

	r.Reset()
	once := r.Rules()
	r.Reset()
	twice := r.Rules()

	assert.Equal(t, defaults, once)
	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"GET /greet", "POST /login"}, twice)
}

func TestRegisteredRulesSurviveReset(t *testing.T) {
	r := mock.New(mock.Config{})
	require.NoError(t, r.Register(greeting("kept")))
	r.Reset()
	assert.Equal(t, []string{"GET /greet"}, r.Rules())
}

func TestBypassForwardsToFallback(t *testing.T) {
	var forwarded string
	fallback := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(req.Body)
		forwarded = req.Method + " " + req.URL.Path + " " + string(b)
		return &http.Response{
			StatusCode: http.StatusTeapot,
			Body:       io.NopCloser(strings.NewReader("real")),
			Request:    req,
		}, nil
	})

	for _, policy := range []mock.BypassPolicy{mock.Bypass, mock.Warn} {
		t.Run(policy.String(), func(t *testing.T) {
			r := mock.New(mock.Config{Policy: policy, Fallback: fallback})
			res, err := r.Client().Post(
				"http://console.test/unknown", "text/plain",
				strings.NewReader("payload"),
			)
			require.NoError(t, err)
			assert.Equal(t, http.StatusTeapot, res.StatusCode)
			assert.Equal(t, "real", readAll(t, res))
			assert.Equal(t, "POST /unknown payload", forwarded)
		})
	}
}

func TestBypassToRealServer(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("upstream"))
		},
	))
	defer upstream.Close()

	r := mock.New(mock.Config{}, greeting("mocked"))
	res, err := r.Client().Get(upstream.URL + "/anything")
	require.NoError(t, err)
	assert.Equal(t, "upstream", readAll(t, res))
}

func TestErrorPolicyFailsClosed(t *testing.T) {
	r := mock.New(mock.Config{Policy: mock.Error})
	assert.Equal(t, mock.Error, r.Policy())

	_, err := r.Client().Get("http://console.test/missing")
	assert.ErrorIs(t, err, mock.ErrUnhandledRequest)
}

func TestNetworkErrorResponse(t *testing.T) {
	boom := errors.New("connection reset")
	r := mock.New(mock.Config{},
		mock.Get("/flaky", mock.Static(mock.NetworkError(boom))),
	)

	_, err := r.Client().Get("http://console.test/flaky")
	assert.ErrorIs(t, err, boom)
}

func TestNilResponseIsNoContent(t *testing.T) {
	r := mock.New(mock.Config{},
		mock.NewRule(http.MethodDelete, "/thing/:id",
			func(*mock.Request) *mock.Response {
				return nil
			},
		),
	)

	req, _ := http.NewRequest(
		http.MethodDelete, "http://console.test/thing/1", nil,
	)
	res, err := r.Client().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}

func TestDelayHonorsCancellation(t *testing.T) {
	r := mock.New(mock.Config{},
		greeting("slow").WithDelay(time.Second),
	)

	ctx, cancel := context.WithTimeout(
		context.Background(), 20*time.Millisecond,
	)
	defer cancel()

	req, _ := http.NewRequestWithContext(
		ctx, http.MethodGet, "http://console.test/greet", nil,
	)
	start := time.Now()
	_, err := r.Client().Do(req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestDelayIsApplied(t *testing.T) {
	r := mock.New(mock.Config{Delay: 30 * time.Millisecond},
		greeting("slow"),
	)

	start := time.Now()
	res, err := r.Client().Get("http://console.test/greet")
	require.NoError(t, err)
	_ = readAll(t, res)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestCallsRecordedAndCleared(t *testing.T) {
	r := mock.New(mock.Config{Policy: mock.Error}, greeting("x"))
	client := r.Client()

	res, err := client.Get("http://console.test/greet?page=2")
	require.NoError(t, err)
	_ = readAll(t, res)
	_, _ = client.Get("http://console.test/nothing")

	calls := r.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "GET /greet", calls[0].Rule)
	assert.Equal(t, "page=2", calls[0].Query)
	assert.True(t, calls[0].Handled)
	assert.False(t, calls[1].Handled)
	assert.Empty(t, calls[1].Rule)
	assert.NotEqual(t, calls[0].ID, calls[1].ID)

	r.Reset()
	assert.Empty(t, r.Calls())
}

func TestServeHTTP(t *testing.T) {
	r := mock.New(mock.Config{}, greeting("server"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/greet", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hello":"server"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no mock rule matched")
}

func TestServeHTTPNetworkError(t *testing.T) {
	r := mock.New(mock.Config{},
		mock.Get("/down", mock.Static(mock.NetworkError(errors.New("down")))),
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/down", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestStaticResponsesAreIndependent(t *testing.T) {
	h := mock.Static(mock.OK(map[string]int{"n": 1}))
	first := h(nil)
	first.Body[0] = 'X'
	assert.JSONEq(t, `{"n":1}`, string(h(nil).Body))
}

func TestJSONMarshalFailure(t *testing.T) {
	res := mock.JSON(http.StatusOK, func() {})
	assert.Error(t, res.Err)
}
