package types

import "encoding/json"

// ActionKind identifies which todo operation was inferred from a user request.
type ActionKind string

const (
	ActionCreate ActionKind = "create"
	ActionUpdate ActionKind = "update"
	ActionDelete ActionKind = "delete"
	ActionList   ActionKind = "list"
	ActionOther  ActionKind = "other"
)

// Action is the structured intent derived from a user utterance. Exactly one
// concrete variant is active per action. Pointer fields on a variant mean
// "could not be confidently extracted", not zero.
type Action interface {
	Kind() ActionKind
	isAction()
}

// CreateAction asks for a new todo.
type CreateAction struct {
	Title    string   `json:"title"`
	Priority Priority `json:"priority"`
	DueDate  string   `json:"dueDate,omitempty"`
}

// UpdateAction changes the completion state of an existing todo.
type UpdateAction struct {
	ID     *int64  `json:"id,omitempty"`
	Status *Status `json:"status,omitempty"`
}

// DeleteAction removes an existing todo.
type DeleteAction struct {
	ID *int64 `json:"id,omitempty"`
}

// ListAction asks for the full todo list. It carries no payload.
type ListAction struct{}

// OtherAction carries the model's free-form reply when no todo operation was
// recognized in the request.
type OtherAction struct {
	Response string `json:"response"`
}

func (CreateAction) Kind() ActionKind { return ActionCreate }
func (UpdateAction) Kind() ActionKind { return ActionUpdate }
func (DeleteAction) Kind() ActionKind { return ActionDelete }
func (ListAction) Kind() ActionKind   { return ActionList }
func (OtherAction) Kind() ActionKind  { return ActionOther }

func (CreateAction) isAction() {}
func (UpdateAction) isAction() {}
func (DeleteAction) isAction() {}
func (ListAction) isAction()   {}
func (OtherAction) isAction()  {}

// ActionEnvelope is the wire form of an Action: a type tag plus the variant
// payload. List actions omit the payload entirely.
type ActionEnvelope struct {
	Type ActionKind `json:"type"`
	Data any        `json:"data,omitempty"`
}

// EncodeAction wraps an Action in its wire envelope. A nil action encodes to
// a nil envelope so it disappears from JSON output.
func EncodeAction(a Action) *ActionEnvelope {
	switch a.(type) {
	case nil:
		return nil
	case ListAction:
		return &ActionEnvelope{Type: ActionList}
	default:
		return &ActionEnvelope{Type: a.Kind(), Data: a}
	}
}

// AgentResponse is the orchestrator's result for one request. A failed
// response never carries an action, and its message is always safe to show
// to an end user.
type AgentResponse struct {
	Success bool
	Message string
	Action  Action
}

// MarshalJSON emits the boundary shape {success, message, action?} with the
// action in its tagged envelope form.
func (r AgentResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Action  *ActionEnvelope `json:"action,omitempty"`
	}{r.Success, r.Message, EncodeAction(r.Action)})
}
