package pulse

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Backend is the part of the API the Client needs.
type Backend interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	TriggerUpdate(ctx context.Context) (string, error)
}

// Client owns the ClientState and issues requests to the backend.
//
// Every fetch takes a request token; only the most recently issued token may
// commit its result, so an older fetch resolving late never overwrites a
// newer one. At most one refresh cycle runs at a time.
type Client struct {
	backend Backend
	logger  *zap.Logger
	clock   func() time.Time

	// Journal, when set, receives one entry per backend call, the way the
	// web interface narrates its API calls. It is never reset by the Client.
	Journal *Journal

	mu    sync.Mutex
	state ClientState
	token uuid.UUID
	subs  []func(ClientState)

	notifyMu sync.Mutex // serializes notifications in mutation order
}

// NewClient returns an Idle client. logger is the diagnostic sink for
// failure causes; it may be nil.
func NewClient(b Backend, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{backend: b, logger: logger, clock: time.Now}
}

// State returns a copy of the current state.
func (c *Client) State() ClientState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn to receive a copy of the state after every change,
// in order. fn must not call FetchSnapshot, RequestRefresh or Refresh
// synchronously.
func (c *Client) Subscribe(fn func(ClientState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// update applies mutate under the lock and notifies subscribers.
func (c *Client) update(mutate func(s *ClientState)) {
	c.commit(uuid.Nil, mutate)
}

// commit applies mutate and notifies subscribers, in one critical section
// with the token check: when token is not uuid.Nil and no longer the
// current one, nothing changes and commit reports false.
func (c *Client) commit(token uuid.UUID, mutate func(s *ClientState)) bool {
	c.mu.Lock()
	if token != uuid.Nil && token != c.token {
		c.mu.Unlock()
		return false
	}
	mutate(&c.state)
	st := c.state.clone()
	subs := c.subs
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()
	for _, fn := range subs {
		fn(st)
	}
	return true
}

// FetchSnapshot requests the current snapshot.
//
// The phase is Loading while the request is in flight, then Ready with the
// summary and assets replaced together, or Error with GenericErrorMessage.
// If a more recent fetch was issued meanwhile, the result is dropped and
// ErrSuperseded is returned.
func (c *Client) FetchSnapshot(ctx context.Context) error {
	var token uuid.UUID
	c.update(func(s *ClientState) {
		token = uuid.New()
		c.token = token
		s.Phase = Loading
	})

	snap, err := c.backend.Snapshot(ctx)
	c.narrate(PathSnapshot, err)

	if err != nil {
		if !c.fail(token, "fetch snapshot", err) {
			return ErrSuperseded
		}
		return err
	}

	now := c.clock()
	committed := c.commit(token, func(s *ClientState) {
		s.Phase = Ready
		s.Summary = snap.Summary
		s.Assets = snap.Assets
		s.Categories = snap.Categories
		s.ErrorMessage = ""
		s.LastUpdate = now
	})
	if !committed {
		c.logger.Debug("dropping superseded snapshot", zap.Stringer("token", token))
		return ErrSuperseded
	}
	return nil
}

// RequestRefresh triggers a backend recomputation and then re-fetches the
// snapshot. It returns once both calls completed.
//
// If a refresh is already running, or a fetch is loading, it does nothing
// and returns ErrBusy. If the trigger fails the re-fetch is skipped.
func (c *Client) RequestRefresh(ctx context.Context) error {
	token, ok := c.acquire()
	if !ok {
		return ErrBusy
	}
	defer c.release()

	_, err := c.backend.TriggerUpdate(ctx)
	c.narrate(PathUpdate, err)
	if err != nil {
		c.fail(token, "trigger update", err)
		return err
	}
	return c.FetchSnapshot(ctx)
}

// Refresh runs a whole refresh cycle narrated by o, then re-fetches the
// snapshot. The same busy rule as RequestRefresh applies.
func (c *Client) Refresh(ctx context.Context, o *Orchestrator) error {
	token, ok := c.acquire()
	if !ok {
		return ErrBusy
	}
	defer c.release()

	if err := o.Run(ctx); err != nil {
		c.fail(token, "refresh pipeline", err)
		return err
	}
	return c.FetchSnapshot(ctx)
}

func (c *Client) acquire() (token uuid.UUID, ok bool) {
	c.update(func(s *ClientState) {
		if s.Busy || s.Phase == Loading {
			return
		}
		ok = true
		s.Busy = true
		s.Phase = Loading
		// a fetch issued before the cycle must not commit over it.
		token = uuid.New()
		c.token = token
	})
	if !ok {
		c.logger.Debug("refresh rejected, one is already running")
	}
	return token, ok
}

func (c *Client) release() {
	c.update(func(s *ClientState) { s.Busy = false })
}

// fail moves to the Error phase, unless a more recent request was issued
// since token. Previous data is discarded. It reports whether the failure
// was committed.
func (c *Client) fail(token uuid.UUID, op string, err error) bool {
	committed := c.commit(token, func(s *ClientState) {
		s.Phase = Error
		s.Summary = nil
		s.Assets = nil
		s.Categories = nil
		s.ErrorMessage = GenericErrorMessage
	})
	if !committed {
		c.logger.Debug(op+" failure superseded", zap.Stringer("token", token), zap.Error(err))
		return false
	}
	c.logger.Warn(op+" failed", zap.String("kind", Kind(err)), zap.Error(err))
	return true
}

func (c *Client) narrate(path string, err error) {
	if c.Journal == nil {
		return
	}
	if err != nil {
		c.Journal.Append(Failure, "Chamada à API %s falhou.", path)
		return
	}
	c.Journal.Append(Success, "Chamada à API %s bem-sucedida.", path)
}
