package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"rate_desk/internal/adapters/observability"
	"rate_desk/internal/domain"
)

// ContextScope selects which rate data goes along with a question.
type ContextScope string

const (
	ScopeTable     ContextScope = "table"     // the whole sheet
	ScopeSelection ContextScope = "selection" // only the rows on screen
	ScopeNone      ContextScope = "none"      // persona only
)

func ParseScope(s string) (ContextScope, error) {
	switch ContextScope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeTable:
		return ScopeTable, nil
	case ScopeSelection, "":
		return ScopeSelection, nil
	case ScopeNone:
		return ScopeNone, nil
	}
	return "", fmt.Errorf("unknown assistant context scope %q", s)
}

type AssistantConfig struct {
	Tool           string // metrics/log label: rates|chat
	Model          string
	Persona        string
	Scope          ContextScope
	IncludeHistory bool
}

// Assistant forwards questions to the language model. A nil model means the
// assistant is disabled.
type Assistant struct {
	model domain.ChatModel
	cfg   AssistantConfig
}

func NewAssistant(m domain.ChatModel, cfg AssistantConfig) *Assistant {
	if cfg.Scope == "" {
		cfg.Scope = ScopeSelection
	}
	return &Assistant{model: m, cfg: cfg}
}

func (a *Assistant) Enabled() bool { return a != nil && a.model != nil }

func (a *Assistant) Scope() ContextScope { return a.cfg.Scope }

// Ask records question in hist, calls the model, and records the answer on
// success. On failure the user turn stays and no answer is recorded.
func (a *Assistant) Ask(ctx context.Context, hist *domain.History, data RatesContext, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil
	}
	if !a.Enabled() {
		observability.ObserveAssistant(a.tool(), "disabled")
		return "", domain.ErrAssistantDisabled
	}

	var prior []domain.Turn
	if a.cfg.IncludeHistory {
		prior = hist.All()
	}
	hist.Append(domain.Turn{Role: domain.RoleUser, Text: question})

	if a.cfg.Scope == ScopeNone {
		data = RatesContext{}
	}
	req := domain.CompletionRequest{
		Model:   a.cfg.Model,
		System:  a.cfg.Persona,
		History: prior,
		Prompt:  BuildPrompt(data, question),
	}

	answer, err := a.model.Complete(ctx, req)
	if err != nil {
		var rf *domain.RemoteCallFailure
		if !errors.As(err, &rf) {
			err = &domain.RemoteCallFailure{Reason: "network", Err: err}
		}
		observability.ObserveAssistant(a.tool(), "failed")
		log.Warn().Err(err).Str("tool", a.tool()).Int("turns", hist.Len()).Msg("assistant call failed")
		return "", err
	}

	hist.Append(domain.Turn{Role: domain.RoleAssistant, Text: answer})
	observability.ObserveAssistant(a.tool(), "answered")
	log.Info().
		Str("tool", a.tool()).
		Str("scope", string(a.cfg.Scope)).
		Int("rows", len(data.Rows)).
		Int("prior_turns", len(prior)).
		Msg("assistant answered")
	return answer, nil
}

func (a *Assistant) tool() string {
	if a == nil || a.cfg.Tool == "" {
		return "rates"
	}
	return a.cfg.Tool
}
