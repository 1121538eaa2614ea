package view

import (
	"context"
	"errors"
	"sync"
)

type (
	// Status is the lifecycle position of a Fetch
	Status int

	// FetchFunc performs the request behind a Fetch
	FetchFunc[A, T any] func(ctx context.Context, args A) (T, error)

	// FetchState is a snapshot of a Fetch
	FetchState[T any] struct {
		Status Status
		Data   T
		Err    error
	}

	// Fetch tracks a single logical request. Starting a new request cancels
	// the one in flight, and results from superseded or closed requests
	// never reach the state
	Fetch[A, T any] struct {
		fn     FetchFunc[A, T]
		state  FetchState[T]
		gen    uint64
		cancel context.CancelFunc
		closed bool
		mu     sync.Mutex
	}

	// Ticket identifies one completed Request so that state derived from
	// its result can be applied through Commit
	Ticket struct {
		gen uint64
	}
)

const (
	Idle Status = iota
	Loading
	Success
	Failed
)

var (
	ErrClosed     = errors.New("view closed")
	ErrSuperseded = errors.New("request superseded")
)

var statusNames = map[Status]string{
	Idle:    "idle",
	Loading: "loading",
	Success: "success",
	Failed:  "failed",
}

// NewFetch wraps fn in request state tracking
func NewFetch[A, T any](fn FetchFunc[A, T]) *Fetch[A, T] {
	return &Fetch[A, T]{fn: fn}
}

// Request runs the fetch with args and blocks until it completes. A
// result that arrives after a newer Request or after Close is discarded
// and reported as ErrSuperseded or ErrClosed
func (f *Fetch[A, T]) Request(ctx context.Context, args A) (T, error) {
	res, _, err := f.RequestTicket(ctx, args)
	return res, err
}

// RequestTicket is Request that also returns the Ticket of the call. The
// ticket is valid for failed results too
func (f *Fetch[A, T]) RequestTicket(
	ctx context.Context, args A,
) (T, Ticket, error) {
	var zero T

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return zero, Ticket{}, ErrClosed
	}
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	gen := f.gen
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.state.Status = Loading
	f.state.Err = nil
	f.mu.Unlock()

	defer cancel()
	data, err := f.fn(ctx, args)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return zero, Ticket{}, ErrClosed
	}
	if gen != f.gen {
		return zero, Ticket{}, ErrSuperseded
	}
	f.cancel = nil
	if err != nil {
		f.state = FetchState[T]{Status: Failed, Err: err}
		return zero, Ticket{gen: gen}, err
	}
	f.state = FetchState[T]{Status: Success, Data: data}
	return data, Ticket{gen: gen}, nil
}

// Commit calls apply while holding the fetch lock, but only if t belongs
// to the most recent request and the fetch is still open. Otherwise apply
// is skipped and ErrSuperseded or ErrClosed is returned
func (f *Fetch[A, T]) Commit(t Ticket, apply func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	if t.gen == 0 || t.gen != f.gen {
		return ErrSuperseded
	}
	apply()
	return nil
}

// State returns the current snapshot
func (f *Fetch[A, T]) State() FetchState[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Close cancels any request in flight and discards every later result
func (f *Fetch[A, T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// Discarded reports whether err means the result was thrown away rather
// than failed
func Discarded(err error) bool {
	return errors.Is(err, ErrClosed) || errors.Is(err, ErrSuperseded)
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}
