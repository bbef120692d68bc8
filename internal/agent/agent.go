// Package agent implements the todo-action intent parser and orchestrator:
// it turns a free-text user request into a structured
// create/update/delete/list action by combining keyword classification of
// the request with best-effort field extraction from a language-model reply.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/pkg/types"
)

// systemPrompt is sent with every completion call. It pins the model to the
// todo domain and asks for the labeled fields the extractor understands.
const systemPrompt = `You are an assistant for a todo application.
Users ask you to create, list, update or delete todos.
A todo has a title, a priority (low, medium or high) and an optional due date.
When the user wants to create a todo, include lines of the form:
title: <title>
priority: <low|medium|high>
due: <date>
When the user targets an existing todo, include lines of the form:
id: <number>
status: <complete|incomplete>
Otherwise answer clearly and concisely.`

// User-facing failure messages. Internal detail is logged, never returned.
const (
	msgNotConfigured  = "AI service is not configured properly."
	msgEmptyRequest   = "Request cannot be empty."
	msgInvalidKey     = "Invalid API key."
	msgRateLimited    = "Rate limit exceeded."
	msgUnavailable    = "Service unavailable."
	msgGenericFailure = "Unable to process request."
)

// Completer produces a model reply for a sanitized user request plus an
// optional todo snapshot.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userRequest string, todos []types.TodoContext) (string, error)
}

// Agent orchestrates a single todo request end to end: validate, call the
// model, classify intent and extract the action payload. It holds no
// per-call state and is safe for concurrent use.
type Agent struct {
	completer       Completer
	apiKey          string
	maxRequestChars int
	defaultPriority types.Priority
}

// New creates an agent backed by the given completer.
func New(completer Completer, cfg *config.Config) *Agent {
	defaultPriority := types.Priority(cfg.Todo.AgentPriority)
	if !defaultPriority.Valid() {
		defaultPriority = types.PriorityMedium
	}
	return &Agent{
		completer:       completer,
		apiKey:          cfg.AI.APIKey,
		maxRequestChars: cfg.AI.MaxRequestChars,
		defaultPriority: defaultPriority,
	}
}

// ProcessRequest runs the full orchestration for one user request. Every
// failure comes back as a success=false response with a user-safe message;
// no error escapes to the caller. At most one completion call is made and
// nothing is retried.
func (a *Agent) ProcessRequest(ctx context.Context, userRequest string, todosContext []types.TodoContext) types.AgentResponse {
	if strings.TrimSpace(a.apiKey) == "" {
		return types.AgentResponse{Success: false, Message: msgNotConfigured}
	}

	if strings.TrimSpace(userRequest) == "" {
		return types.AgentResponse{Success: false, Message: msgEmptyRequest}
	}

	sanitized := Sanitize(userRequest, a.maxRequestChars)
	if sanitized == "" {
		return types.AgentResponse{Success: false, Message: msgEmptyRequest}
	}

	reply, err := a.completer.Complete(ctx, systemPrompt, sanitized, todosContext)
	if err != nil {
		slog.Error("completion call failed", "error", err)
		return types.AgentResponse{Success: false, Message: failureMessage(err)}
	}

	return types.AgentResponse{
		Success: true,
		Message: reply,
		// Intent comes from the user's own words; the reply is only mined
		// for parameters.
		Action: a.parseAction(strings.ToLower(userRequest), reply),
	}
}

func (a *Agent) parseAction(lowered, reply string) types.Action {
	switch Classify(lowered) {
	case types.ActionCreate:
		return ExtractCreate(reply, a.defaultPriority)
	case types.ActionUpdate:
		return ExtractUpdate(reply)
	case types.ActionDelete:
		return ExtractDelete(reply)
	case types.ActionList:
		return types.ListAction{}
	default:
		return types.OtherAction{Response: reply}
	}
}

// failureMessage maps the provider failure taxonomy onto the four user-safe
// messages.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, types.ErrProviderAuth):
		return msgInvalidKey
	case errors.Is(err, types.ErrProviderRateLimited):
		return msgRateLimited
	case errors.Is(err, types.ErrProviderUnavailable):
		return msgUnavailable
	default:
		return msgGenericFailure
	}
}
