package types

import (
	"encoding/json"
	"testing"
)

func TestEncodeAction(t *testing.T) {
	id := int64(42)
	status := StatusComplete

	tests := []struct {
		name   string
		action Action
		want   string
	}{
		{
			"create",
			CreateAction{Title: "Buy milk", Priority: PriorityHigh, DueDate: "2025-02-03"},
			`{"type":"create","data":{"title":"Buy milk","priority":"high","dueDate":"2025-02-03"}}`,
		},
		{
			"create without due date",
			CreateAction{Title: "Buy milk", Priority: PriorityLow},
			`{"type":"create","data":{"title":"Buy milk","priority":"low"}}`,
		},
		{
			"update",
			UpdateAction{ID: &id, Status: &status},
			`{"type":"update","data":{"id":42,"status":"complete"}}`,
		},
		{
			"update with nothing extracted",
			UpdateAction{},
			`{"type":"update","data":{}}`,
		},
		{
			"delete",
			DeleteAction{ID: &id},
			`{"type":"delete","data":{"id":42}}`,
		},
		{
			"list carries no payload",
			ListAction{},
			`{"type":"list"}`,
		},
		{
			"other",
			OtherAction{Response: "Hello!"},
			`{"type":"other","data":{"response":"Hello!"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(EncodeAction(tt.action))
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("got  %s\nwant %s", data, tt.want)
			}
		})
	}
}

func TestEncodeActionNil(t *testing.T) {
	if got := EncodeAction(nil); got != nil {
		t.Errorf("EncodeAction(nil) = %v, want nil", got)
	}
}

func TestAgentResponseJSON(t *testing.T) {
	data, err := json.Marshal(AgentResponse{
		Success: true,
		Message: "Added: Buy milk",
		Action:  ListAction{},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"success":true,"message":"Added: Buy milk","action":{"type":"list"}}`
	if string(data) != want {
		t.Errorf("got  %s\nwant %s", data, want)
	}
}

// A failed response carries no action key at all.
func TestAgentResponseJSONFailure(t *testing.T) {
	data, err := json.Marshal(AgentResponse{Success: false, Message: "Rate limit exceeded."})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"success":false,"message":"Rate limit exceeded."}`
	if string(data) != want {
		t.Errorf("got  %s\nwant %s", data, want)
	}
}

func TestActionKinds(t *testing.T) {
	tests := []struct {
		action Action
		want   ActionKind
	}{
		{CreateAction{}, ActionCreate},
		{UpdateAction{}, ActionUpdate},
		{DeleteAction{}, ActionDelete},
		{ListAction{}, ActionList},
		{OtherAction{}, ActionOther},
	}
	for _, tt := range tests {
		if got := tt.action.Kind(); got != tt.want {
			t.Errorf("%T.Kind() = %q, want %q", tt.action, got, tt.want)
		}
	}
}
