// Package dispatch translates agent actions into persistence calls and
// shapes the merged response returned to the HTTP boundary.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/taskpilot/taskpilot/internal/agent"
	"github.com/taskpilot/taskpilot/pkg/types"
)

// TodoStore is the slice of persistence the dispatcher consumes. All
// operations are scoped by owner.
type TodoStore interface {
	ListForUser(ctx context.Context, userID string) ([]types.Todo, error)
	Insert(ctx context.Context, userID, content string, priority types.Priority, dueDate *time.Time) error
	SetCompleted(ctx context.Context, id int64, userID string, isCompleted bool) error
	Remove(ctx context.Context, id int64, userID string) error
}

// Result is an AgentResponse merged with the record(s) the dispatched action
// touched.
type Result struct {
	Success   bool                  `json:"success"`
	Message   string                `json:"message"`
	Action    *types.ActionEnvelope `json:"action,omitempty"`
	Todo      *types.Todo           `json:"todo,omitempty"`
	Todos     []types.Todo          `json:"todos,omitempty"`
	DeletedID *int64                `json:"deletedId,omitempty"`
}

// Dispatcher executes at most one persistence operation per agent response.
type Dispatcher struct {
	store           TodoStore
	defaultPriority types.Priority
}

// New creates a dispatcher. defaultPriority fills in creates whose priority
// could not be extracted; it is configured separately from the extractor's
// own default.
func New(store TodoStore, defaultPriority types.Priority) *Dispatcher {
	if !defaultPriority.Valid() {
		defaultPriority = types.PriorityMedium
	}
	return &Dispatcher{store: store, defaultPriority: defaultPriority}
}

// dueDateLayouts are the formats accepted when coercing an extracted due
// string. Anything else stores no due date at all.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04",
}

// ParseDueDate coerces a raw due string into a timestamp. Unparseable input
// yields nil rather than an error, consistent with the extraction policy.
func ParseDueDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// Dispatch performs the persistence call for the action carried by resp and
// attaches the affected record(s). An action missing a required field, or
// one targeting a record the user does not own, skips persistence silently
// so a low-confidence extraction never corrupts data. Other persistence
// errors propagate: a failed write must not be reported as success.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, resp types.AgentResponse) (*Result, error) {
	result := &Result{
		Success: resp.Success,
		Message: resp.Message,
		Action:  types.EncodeAction(resp.Action),
	}

	switch action := resp.Action.(type) {
	case types.CreateAction:
		title := action.Title
		if title == "" {
			title = agent.DefaultTitle
		}
		priority := action.Priority
		if !priority.Valid() {
			priority = d.defaultPriority
		}
		if err := d.store.Insert(ctx, userID, title, priority, ParseDueDate(action.DueDate)); err != nil {
			return nil, err
		}
		todos, err := d.store.ListForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(todos) > 0 {
			result.Todo = &todos[0]
		}

	case types.UpdateAction:
		if action.ID == nil || action.Status == nil {
			break
		}
		isCompleted := *action.Status == types.StatusComplete
		if err := d.store.SetCompleted(ctx, *action.ID, userID, isCompleted); err != nil {
			if errors.Is(err, types.ErrNotFound) {
				break
			}
			return nil, err
		}
		todos, err := d.store.ListForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		for i := range todos {
			if todos[i].ID == *action.ID {
				result.Todo = &todos[i]
				break
			}
		}

	case types.DeleteAction:
		if action.ID == nil {
			break
		}
		if err := d.store.Remove(ctx, *action.ID, userID); err != nil {
			if errors.Is(err, types.ErrNotFound) {
				break
			}
			return nil, err
		}
		id := *action.ID
		result.DeletedID = &id

	case types.ListAction:
		todos, err := d.store.ListForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		result.Todos = todos
	}

	// Other actions and failed responses pass through unchanged.
	return result, nil
}
