// internal/adapters/llm/client.go
package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"

	"rate_desk/internal/adapters/observability"
	"rate_desk/internal/domain"
)

const endpoint = "chat.completions"

// Client talks to any OpenAI-compatible chat completion endpoint.
type Client struct {
	api     openai.Client
	service string
	model   string
	timeout time.Duration
	rl      *rate.Limiter
}

// New returns domain.ErrAssistantDisabled when key is empty so callers can
// decide whether a missing credential is fatal. A zero timeout leaves the call
// unbounded.
func New(base, key, model string, rps int, timeout time.Duration) (*Client, error) {
	if key == "" {
		return nil, domain.ErrAssistantDisabled
	}
	if rps <= 0 {
		rps = 2
	}
	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0), // every failure goes straight back to the user
		option.WithHTTPClient(&http.Client{}),
	}
	if base != "" {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	return &Client{
		api:     openai.NewClient(opts...),
		service: serviceName(base),
		model:   model,
		timeout: timeout,
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return "", &domain.RemoteCallFailure{Reason: "network", Err: err}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}
	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: messages(req),
	}

	start := time.Now()
	res, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			observability.ObserveExternal(c.service, endpoint, apiErr.StatusCode, time.Since(start))
			reason := "status"
			if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
				reason = "credential"
			}
			return "", &domain.RemoteCallFailure{Reason: reason, Err: err}
		}
		observability.ObserveExternal(c.service, endpoint, 0, time.Since(start))
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &domain.RemoteCallFailure{Reason: "timeout", Err: err}
		}
		return "", &domain.RemoteCallFailure{Reason: "network", Err: err}
	}
	observability.ObserveExternal(c.service, endpoint, http.StatusOK, time.Since(start))

	if len(res.Choices) == 0 || strings.TrimSpace(res.Choices[0].Message.Content) == "" {
		return "", &domain.RemoteCallFailure{Reason: "response", Err: errors.New("empty completion")}
	}
	return res.Choices[0].Message.Content, nil
}

// messages lays out persona, replayed turns, then the new prompt.
func messages(req domain.CompletionRequest) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if req.System != "" {
		out = append(out, openai.SystemMessage(req.System))
	}
	for _, t := range req.History {
		if t.Role == domain.RoleAssistant {
			out = append(out, openai.AssistantMessage(t.Text))
			continue
		}
		out = append(out, openai.UserMessage(t.Text))
	}
	return append(out, openai.UserMessage(req.Prompt))
}

func serviceName(base string) string {
	switch {
	case base == "" || strings.Contains(base, "api.openai.com"):
		return "openai"
	case strings.Contains(base, "googleapis.com"):
		return "gemini"
	}
	return "llm"
}
