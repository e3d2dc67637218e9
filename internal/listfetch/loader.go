// Package listfetch implements the shared contract for loading filtered,
// paginated record lists from the upstream API: one loader per screen,
// dependency-change triggering, debounce while a search term is present,
// and stale-response fencing so rapid filter changes cannot apply an old
// result over a newer one.
package listfetch

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shht-tools/tradedesk/internal/apiclient"
)

// FetchFunc performs the upstream list request for a body.
type FetchFunc func(ctx context.Context, body any) apiclient.Envelope

// Options configure a Loader.
type Options struct {
	// DebounceDelay delays fetches while the body carries a search term,
	// collapsing rapid dependency changes into the last one.
	DebounceDelay time.Duration
	// Skip bypasses fetching entirely, e.g. while a prerequisite filter
	// has not been chosen yet.
	Skip bool
	// OnUnauthorized receives 401 envelopes. The loader never handles
	// session expiry itself; it delegates to the auth layer.
	OnUnauthorized func(apiclient.Envelope)
	// OnError receives the user-facing message for non-200, non-401 codes.
	OnError func(message string)
}

// State is the observable result of the most recent fetch. It is replaced
// wholesale on every response; nothing is merged or cached.
type State struct {
	DataList     json.RawMessage
	DataCount    int
	AllResponse  apiclient.Envelope
	IsLoading    bool
	IsError      bool
	ErrorMessage string
}

// Loader tracks list-fetch state for one screen.
type Loader struct {
	mu      sync.Mutex
	fn      FetchFunc
	body    any
	opts    Options
	lastDep string
	hasDep  bool
	timer   *time.Timer
	gen     uint64
	state   State
	done    chan struct{}
	closed  bool
}

// NewLoader constructs a Loader. The state starts loading unless Skip is set.
func NewLoader(fn FetchFunc, body any, opts Options) *Loader {
	return &Loader{
		fn:    fn,
		body:  body,
		opts:  opts,
		state: State{IsLoading: !opts.Skip},
		done:  make(chan struct{}),
	}
}

// SetSkip flips the skip flag for subsequent triggers.
func (l *Loader) SetSkip(skip bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opts.Skip = skip
}

// SetCallbacks swaps the per-cycle callbacks. Session-scoped loaders call
// this at the start of each request so notifications land on the live
// session, not the one captured at construction.
func (l *Loader) SetCallbacks(onUnauthorized func(apiclient.Envelope), onError func(string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opts.OnUnauthorized = onUnauthorized
	l.opts.OnError = onError
}

// DebounceDelay is the standard search debounce used by listing screens.
const DebounceDelay = 500 * time.Millisecond

// State returns a copy of the current state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Observe records the body and dependency values for this cycle. When the
// dependencies differ by value from the previous call the loader behaves
// like a dependency change: it fetches immediately, or after the debounce
// delay when the body carries a search term. Unchanged dependencies return
// the current state without a request.
func (l *Loader) Observe(ctx context.Context, body any, deps ...any) State {
	encoded, _ := json.Marshal(deps)
	key := string(encoded)

	l.mu.Lock()
	l.body = body
	changed := !l.hasDep || l.lastDep != key
	l.hasDep = true
	l.lastDep = key
	l.mu.Unlock()

	if changed {
		return l.trigger(ctx)
	}
	return l.State()
}

// Refetch re-runs the fetch immediately, outside the dependency-change
// path. Callers use it after a create, update or delete completes.
func (l *Loader) Refetch(ctx context.Context) State {
	l.mu.Lock()
	if l.opts.Skip || l.closed {
		l.state.IsLoading = false
		l.signalLocked()
		l.mu.Unlock()
		return l.State()
	}
	l.mu.Unlock()
	l.fetch(ctx)
	return l.State()
}

// Close cancels any pending debounce timer. Pending waiters are released.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.signalLocked()
}

func (l *Loader) trigger(ctx context.Context) State {
	l.mu.Lock()
	if l.opts.Skip || l.closed {
		l.state.IsLoading = false
		l.signalLocked()
		l.mu.Unlock()
		return l.State()
	}
	debounced := l.opts.DebounceDelay > 0 && hasSearch(l.body)
	if !debounced {
		l.mu.Unlock()
		l.fetch(ctx)
		return l.State()
	}

	// Reset the pending timer so only the last change in the window fires.
	if l.timer != nil {
		l.timer.Stop()
	}
	fetchCtx := context.WithoutCancel(ctx)
	l.timer = time.AfterFunc(l.opts.DebounceDelay, func() {
		l.fetch(fetchCtx)
	})
	wait := l.done
	l.mu.Unlock()

	select {
	case <-wait:
	case <-ctx.Done():
	}
	return l.State()
}

func (l *Loader) fetch(ctx context.Context) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.gen++
	gen := l.gen
	l.state.IsLoading = true
	l.state.IsError = false
	fn := l.fn
	body := l.body
	l.mu.Unlock()

	env := fn(ctx, body)

	var unauthorized func(apiclient.Envelope)
	var onError func(string)
	var errMessage string

	l.mu.Lock()
	if gen < l.gen || l.closed {
		// A newer trigger superseded this response; drop it.
		l.mu.Unlock()
		return
	}
	l.state.IsLoading = false
	switch {
	case env.OK():
		l.state.DataList = normalizeData(env.Data)
		l.state.DataCount = env.Total.Int()
		l.state.AllResponse = env
		l.state.IsError = false
		l.state.ErrorMessage = ""
	case env.Unauthorized():
		unauthorized = l.opts.OnUnauthorized
	default:
		l.state.IsError = true
		l.state.ErrorMessage = env.ErrorMessage()
		errMessage = l.state.ErrorMessage
		onError = l.opts.OnError
	}
	l.signalLocked()
	l.mu.Unlock()

	if unauthorized != nil {
		unauthorized(env)
	}
	if onError != nil {
		onError(errMessage)
	}
}

// signalLocked releases waiters for the current cycle.
func (l *Loader) signalLocked() {
	close(l.done)
	l.done = make(chan struct{})
}

// normalizeData passes objects and arrays through unchanged and defaults
// null or absent data to an empty array.
func normalizeData(data json.RawMessage) json.RawMessage {
	if len(data) == 0 || string(data) == "null" {
		return json.RawMessage("[]")
	}
	return data
}

// hasSearch reports whether the body carries a truthy search field.
func hasSearch(body any) bool {
	raw, err := json.Marshal(body)
	if err != nil {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	v, ok := fields["search"]
	if !ok {
		return false
	}
	switch string(v) {
	case "", "null", `""`, "0", "false":
		return false
	}
	return true
}

// DecodeList unmarshals the state's data list into a typed slice.
func DecodeList[T any](state State) []T {
	var out []T
	if len(state.DataList) == 0 {
		return out
	}
	if err := json.Unmarshal(state.DataList, &out); err != nil {
		return nil
	}
	return out
}
