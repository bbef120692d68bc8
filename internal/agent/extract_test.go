package agent

import (
	"strings"
	"testing"

	"github.com/taskpilot/taskpilot/pkg/types"
)

func TestExtractCreate(t *testing.T) {
	tests := []struct {
		name         string
		reply        string
		wantTitle    string
		wantPriority types.Priority
		wantDue      string
	}{
		{
			name:         "all fields labeled",
			reply:        "title: Buy groceries\npriority: high\ndue: 2025-01-15",
			wantTitle:    "Buy groceries",
			wantPriority: types.PriorityHigh,
			wantDue:      "2025-01-15",
		},
		{
			name:         "task label and quoted value",
			reply:        `Sure! task: "Finish report" is on the list.`,
			wantTitle:    "Finish report",
			wantPriority: types.PriorityMedium,
		},
		{
			name:         "no labels at all",
			reply:        "I created that for you.",
			wantTitle:    DefaultTitle,
			wantPriority: types.PriorityMedium,
		},
		{
			name:         "empty reply",
			reply:        "",
			wantTitle:    DefaultTitle,
			wantPriority: types.PriorityMedium,
		},
		{
			name:         "unknown priority falls back",
			reply:        "title: Call mom\npriority: urgent",
			wantTitle:    "Call mom",
			wantPriority: types.PriorityMedium,
		},
		{
			name:         "priority is case-insensitive",
			reply:        "Title: Water plants\nPriority: HIGH",
			wantTitle:    "Water plants",
			wantPriority: types.PriorityHigh,
		},
		{
			name:         "title is sanitized",
			reply:        "title: Report <final> {draft}",
			wantTitle:    "Report final draft",
			wantPriority: types.PriorityMedium,
		},
		{
			name:         "date label works for due",
			reply:        "title: Taxes\ndate: 2025-04-15",
			wantTitle:    "Taxes",
			wantPriority: types.PriorityMedium,
			wantDue:      "2025-04-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCreate(tt.reply, types.PriorityMedium)
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Priority != tt.wantPriority {
				t.Errorf("Priority = %q, want %q", got.Priority, tt.wantPriority)
			}
			if got.DueDate != tt.wantDue {
				t.Errorf("DueDate = %q, want %q", got.DueDate, tt.wantDue)
			}
		})
	}
}

func TestExtractCreateBounds(t *testing.T) {
	longTitle := strings.Repeat("a", 150)
	got := ExtractCreate("title: "+longTitle, types.PriorityMedium)
	if len(got.Title) != 100 {
		t.Errorf("title length = %d, want 100", len(got.Title))
	}

	longDue := strings.Repeat("9", 40)
	got = ExtractCreate("due: "+longDue, types.PriorityMedium)
	if len(got.DueDate) != 20 {
		t.Errorf("due length = %d, want 20", len(got.DueDate))
	}
}

func TestExtractCreateDefaultPriority(t *testing.T) {
	got := ExtractCreate("no labels here", types.PriorityLow)
	if got.Priority != types.PriorityLow {
		t.Errorf("Priority = %q, want %q", got.Priority, types.PriorityLow)
	}
}

func TestExtractUpdate(t *testing.T) {
	t.Run("id and status", func(t *testing.T) {
		got := ExtractUpdate("id: 42\nstatus: done")
		if got.ID == nil || *got.ID != 42 {
			t.Errorf("ID = %v, want 42", got.ID)
		}
		if got.Status == nil || *got.Status != types.StatusComplete {
			t.Errorf("Status = %v, want complete", got.Status)
		}
	})

	t.Run("unrecognized status normalizes to incomplete", func(t *testing.T) {
		got := ExtractUpdate("id: 3\nstatus: maybe")
		if got.Status == nil || *got.Status != types.StatusIncomplete {
			t.Errorf("Status = %v, want incomplete", got.Status)
		}
	})

	t.Run("no labels leaves both absent", func(t *testing.T) {
		got := ExtractUpdate("happy to help!")
		if got.ID != nil {
			t.Errorf("ID = %v, want nil", got.ID)
		}
		if got.Status != nil {
			t.Errorf("Status = %v, want nil", got.Status)
		}
	})
}

func TestExtractDelete(t *testing.T) {
	got := ExtractDelete("id: 7")
	if got.ID == nil || *got.ID != 7 {
		t.Errorf("ID = %v, want 7", got.ID)
	}

	got = ExtractDelete("nothing to target")
	if got.ID != nil {
		t.Errorf("ID = %v, want nil", got.ID)
	}
}

func TestExtractIDBounds(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  *int64
	}{
		{"zero rejected", "id: 0", nil},
		{"one accepted", "id: 1", ptr(int64(1))},
		{"max safe integer accepted", "id: 9007199254740991", ptr(int64(9007199254740991))},
		{"beyond max safe integer rejected", "id: 9007199254740992", nil},
		{"overflow rejected", "id: 99999999999999999999999999", nil},
		{"non-numeric absent", "id: abc", nil},
		{"no label absent", "the task", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractID(tt.reply)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("extractID(%q) = %d, want nil", tt.reply, *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("extractID(%q) = %v, want %d", tt.reply, got, *tt.want)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
