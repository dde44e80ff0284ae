// internal/session/controller.go
package session

import (
	"context"
	"sync"
	"time"

	"creator-pilot/internal/agent"
	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/common/logger"
	"creator-pilot/internal/common/metrics"
	"creator-pilot/internal/models"
	"creator-pilot/internal/normalizer"
	"creator-pilot/internal/prompt"
	"creator-pilot/internal/router"
	"creator-pilot/internal/sequence"
)

const DefaultSyncDelay = 2 * time.Second

type Dependencies struct {
	Invoker    agent.Invoker
	Router     *router.Router
	Normalizer *normalizer.Normalizer
	Prompts    *prompt.Builder
	Tracker    sequence.Tracker
	SyncDelay  time.Duration
	Logger     logger.Logger
	Now        func() time.Time
}

// Controller owns the session State. Capability calls run without the
// lock held; their results are applied only if no newer request was
// issued for the same slot.
type Controller struct {
	mu    sync.Mutex
	state State

	invoker    agent.Invoker
	router     *router.Router
	normalizer *normalizer.Normalizer
	prompts    *prompt.Builder
	tracker    sequence.Tracker
	syncDelay  time.Duration
	now        func() time.Time
	logger     logger.Logger
}

func NewController(deps Dependencies) *Controller {
	c := &Controller{
		state:      NewState(),
		invoker:    deps.Invoker,
		router:     deps.Router,
		normalizer: deps.Normalizer,
		prompts:    deps.Prompts,
		tracker:    deps.Tracker,
		syncDelay:  deps.SyncDelay,
		now:        deps.Now,
		logger:     deps.Logger,
	}
	if c.prompts == nil {
		c.prompts = prompt.NewBuilder(prompt.DefaultMaxFieldRunes)
	}
	if c.tracker == nil {
		c.tracker = sequence.NewMemoryTracker()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = logger.NewNoOpLogger()
	}
	c.logger = c.logger.WithFields(map[string]interface{}{"component": "session"})
	return c
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// update runs fn under the lock and returns a snapshot when it succeeds.
// fn must leave the state untouched when it returns an error.
func (c *Controller) update(fn func(s *State) error) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := fn(&c.state); err != nil {
		return State{}, err
	}
	return c.state.clone(), nil
}

// Navigate moves to a screen reachable by plain navigation.
func (c *Controller) Navigate(to models.Screen) (State, error) {
	if !to.IsValid() {
		return State{}, apperrors.NewInvalidInputError("unknown screen " + string(to))
	}
	return c.update(func(s *State) error {
		if !CanNavigate(s.Screen, to) {
			return apperrors.NewInvalidTransitionError(string(s.Screen), string(to))
		}
		s.Screen = to
		return nil
	})
}

// request is one in-flight capability call for a slot.
type request struct {
	slot  sequence.Slot
	token uint64
}

// begin issues a sequence token for slot and marks it loading. prepare
// runs under the same lock so preconditions and prompt inputs are read
// consistently.
func (c *Controller) begin(ctx context.Context, slot sequence.Slot, prepare func(s *State) error) (*request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prepare != nil {
		if err := prepare(&c.state); err != nil {
			return nil, err
		}
	}
	token, err := c.tracker.Next(ctx, slot)
	if err != nil {
		return nil, err
	}
	c.state.Loading[slot] = true
	metrics.SlotsLoading.WithLabelValues(string(slot)).Set(1)
	return &request{slot: slot, token: token}, nil
}

// commit applies a finished request. A superseded request changes nothing
// and returns STALE_RESPONSE. Otherwise the loading flag is cleared and,
// if apply is non-nil, apply runs; a failing apply must not mutate state.
func (c *Controller) commit(ctx context.Context, req *request, apply func(s *State) error) (State, error) {
	ctx = context.WithoutCancel(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()

	latest, current, err := sequence.IsLatest(ctx, c.tracker, req.slot, req.token)
	if err != nil {
		c.clearLoading(req.slot)
		return State{}, err
	}
	if !latest {
		metrics.StaleResponses.WithLabelValues(string(req.slot)).Inc()
		c.logger.Warn("discarding stale response", map[string]interface{}{
			"slot":   string(req.slot),
			"token":  req.token,
			"latest": current,
		})
		return State{}, apperrors.NewStaleResponseError(string(req.slot), req.token, current)
	}

	c.clearLoading(req.slot)
	if apply != nil {
		if err := apply(&c.state); err != nil {
			return State{}, err
		}
	}
	return c.state.clone(), nil
}

// fail clears the loading flag of a request whose call failed and returns
// err unchanged. A superseded request leaves the flag to the newer one.
func (c *Controller) fail(ctx context.Context, req *request, err error) error {
	ctx = context.WithoutCancel(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()

	if latest, _, lerr := sequence.IsLatest(ctx, c.tracker, req.slot, req.token); lerr != nil || latest {
		c.clearLoading(req.slot)
	}
	c.logger.Error("capability call failed", map[string]interface{}{
		"slot":  string(req.slot),
		"error": err.Error(),
	})
	return err
}

func (c *Controller) clearLoading(slot sequence.Slot) {
	c.state.Loading[slot] = false
	metrics.SlotsLoading.WithLabelValues(string(slot)).Set(0)
}

// invoke runs a static-policy call for slot.
func (c *Controller) invoke(ctx context.Context, req *request, capability models.Capability, text string) (*agent.Response, error) {
	decision, err := router.Static(capability, text)
	if err != nil {
		return nil, c.fail(ctx, req, err)
	}
	resp, err := c.invoker.Invoke(ctx, decision.Capability, decision.Prompt)
	if err != nil {
		return nil, c.fail(ctx, req, err)
	}
	return resp, nil
}

func (s *State) record(slot sequence.Slot, report *normalizer.Report) {
	if report != nil {
		s.Diagnostics[slot] = report
	}
}
