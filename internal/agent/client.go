// internal/agent/client.go
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "creator-pilot/internal/common/errors"
	httpx "creator-pilot/internal/common/http"
	"creator-pilot/internal/common/logger"
	"creator-pilot/internal/common/metrics"
	"creator-pilot/internal/common/observability"
	"creator-pilot/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const invokePath = "/api/agent"

// Invoker calls one remote capability with a natural-language prompt.
// A non-nil error means the call failed (transport, timeout or a
// non-success status); the returned Response is then informational only.
type Invoker interface {
	Invoke(ctx context.Context, capability models.Capability, prompt string) (*Response, error)
}

type Client struct {
	config *Config
	http   httpx.Doer
	obs    *observability.Observability
	logger logger.Logger
}

func NewClient(config *Config, obs *observability.Observability, log logger.Logger) *Client {
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &Client{
		config: config,
		http:   httpx.NewClient(0).WithHeader("Authorization", bearer(config.APIKey)),
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "agent"}),
	}
}

func bearer(key string) string {
	if key == "" {
		return ""
	}
	return "Bearer " + key
}

// AgentID returns the opaque identifier configured for capability.
func (c *Client) AgentID(capability models.Capability) (string, bool) {
	id, ok := c.config.AgentIDs[capability]
	return id, ok && id != ""
}

func (c *Client) Invoke(ctx context.Context, capability models.Capability, prompt string) (*Response, error) {
	if !capability.IsValid() {
		return nil, apperrors.NewUnknownCapabilityError(string(capability))
	}
	agentID, ok := c.AgentID(capability)
	if !ok {
		return nil, apperrors.NewUnknownCapabilityError(string(capability)).
			WithMetadata("reason", "no agent id configured")
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.NewEmptyRequestError(string(capability))
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	ctx, span := c.obs.StartSpan(ctx, "agent.invoke",
		attribute.String("capability", string(capability)),
		attribute.Int("prompt.length", len(prompt)),
	)
	defer span.End()

	start := time.Now()
	resp, err := c.execute(ctx, capability, agentID, prompt)
	elapsed := time.Since(start)

	status := "success"
	if err != nil {
		status = string(apperrors.CodeOf(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
	}
	metrics.CapabilityCalls.WithLabelValues(string(capability), status).Inc()
	metrics.CapabilityDuration.WithLabelValues(string(capability)).Observe(elapsed.Seconds())
	c.obs.RecordCapabilityCall(ctx, string(capability), status, elapsed)

	fields := map[string]interface{}{
		"capability": string(capability),
		"durationMs": elapsed.Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
		c.logger.Error("capability call failed", fields)
		return resp, err
	}
	fields["resultFields"] = len(resp.Result)
	c.logger.Info("capability call completed", fields)
	return resp, nil
}

func (c *Client) execute(ctx context.Context, capability models.Capability, agentID, prompt string) (*Response, error) {
	body, err := json.Marshal(request{Message: prompt, AgentID: agentID})
	if err != nil {
		return nil, apperrors.NewCapabilityCallFailedError(string(capability), err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, c.contextError(ctx, capability)
			}
		}

		resp, err := c.post(ctx, body)
		if ctx.Err() != nil {
			return nil, c.contextError(ctx, capability)
		}
		if err != nil {
			lastErr = err
			continue
		}
		return c.decode(capability, resp)
	}

	return nil, apperrors.NewCapabilityCallFailedError(string(capability), lastErr)
}

func (c *Client) post(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+invokePath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

func (c *Client) decode(capability models.Capability, resp *http.Response) (*Response, error) {
	defer resp.Body.Close()

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, apperrors.NewCapabilityCallFailedError(string(capability), fmt.Errorf("decode error: %w", err))
	}

	message := wire.Message
	if message == "" {
		message = wire.Error
	}
	result := wire.Result
	if result == nil {
		result = wire.Response
	}

	out := &Response{
		Status:  strings.ToLower(strings.TrimSpace(wire.Status)),
		Result:  coerceResult(result),
		Message: message,
	}
	if !out.OK() {
		status := out.Status
		if status == "" {
			status = "missing"
		}
		return out, apperrors.NewCapabilityStatusError(string(capability), status, message)
	}
	if out.Result == nil {
		out.Result = map[string]interface{}{}
	}
	return out, nil
}

func (c *Client) contextError(ctx context.Context, capability models.Capability) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewCapabilityTimeoutError(string(capability), ctx.Err())
	}
	return apperrors.NewCapabilityCallFailedError(string(capability), ctx.Err())
}
