// Package agenttest provides an in-memory agent.Invoker for tests.
package agenttest

import (
	"context"
	"sync"

	"creator-pilot/internal/agent"
	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/models"
)

type Call struct {
	Capability models.Capability
	Prompt     string
}

type HandlerFunc func(ctx context.Context, capability models.Capability, prompt string) (*agent.Response, error)

// Fake records every call and answers from per-capability handlers.
// Capabilities without a handler fail with CAPABILITY_CALL_FAILED.
type Fake struct {
	mu       sync.Mutex
	handlers map[models.Capability]HandlerFunc
	calls    []Call
}

func New() *Fake {
	return &Fake{handlers: make(map[models.Capability]HandlerFunc)}
}

func (f *Fake) On(capability models.Capability, h HandlerFunc) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[capability] = h
	return f
}

// Returns answers capability with a fixed success result.
func (f *Fake) Returns(capability models.Capability, result map[string]interface{}) *Fake {
	return f.On(capability, func(context.Context, models.Capability, string) (*agent.Response, error) {
		return Success(result), nil
	})
}

// Fails answers capability with err.
func (f *Fake) Fails(capability models.Capability, err error) *Fake {
	return f.On(capability, func(context.Context, models.Capability, string) (*agent.Response, error) {
		return nil, err
	})
}

func (f *Fake) Invoke(ctx context.Context, capability models.Capability, prompt string) (*agent.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Capability: capability, Prompt: prompt})
	h, ok := f.handlers[capability]
	f.mu.Unlock()

	if !ok {
		return nil, apperrors.NewCapabilityCallFailedError(string(capability), nil)
	}
	return h(ctx, capability, prompt)
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsFor returns the calls made to one capability.
func (f *Fake) CallsFor(capability models.Capability) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Capability == capability {
			out = append(out, c)
		}
	}
	return out
}

func Success(result map[string]interface{}) *agent.Response {
	if result == nil {
		result = map[string]interface{}{}
	}
	return &agent.Response{Status: agent.StatusSuccess, Result: result}
}
