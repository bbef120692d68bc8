package agent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/taskpilot/taskpilot/pkg/types"
)

// DefaultTitle is used when no title can be extracted from the model reply.
const DefaultTitle = "New Task"

const (
	maxTitleChars = 100
	maxDueChars   = 20
)

// maxTargetID matches JavaScript's Number.MAX_SAFE_INTEGER. Ids beyond it
// cannot round-trip through JSON callers without precision loss.
const maxTargetID = int64(1)<<53 - 1

// Labeled-value patterns over the model's free-text reply. A value runs to
// the end of the line or a closing quote. Every pattern is independently
// optional: a reply with no recognizable labels degrades to defaults instead
// of surfacing a parse error.
var (
	titlePattern    = regexp.MustCompile(`(?i)(?:title|task):\s*"?([^"\n]+)`)
	priorityPattern = regexp.MustCompile(`(?i)priority:\s*"?([a-zA-Z]+)`)
	duePattern      = regexp.MustCompile(`(?i)(?:due|date):\s*"?([^"\n]+)`)
	idPattern       = regexp.MustCompile(`(?i)\bid:\s*"?(\d+)`)
	statusPattern   = regexp.MustCompile(`(?i)status:\s*"?([a-zA-Z]+)`)
)

// ExtractCreate pulls title, priority and due date from a model reply.
// Missing or invalid fields take safe defaults; the due date string is not
// calendar-validated here, that is the dispatcher's concern.
func ExtractCreate(reply string, defaultPriority types.Priority) types.CreateAction {
	action := types.CreateAction{Title: DefaultTitle, Priority: defaultPriority}

	if m := titlePattern.FindStringSubmatch(reply); m != nil {
		if title := Sanitize(m[1], maxTitleChars); title != "" {
			action.Title = title
		}
	}
	if m := priorityPattern.FindStringSubmatch(reply); m != nil {
		if p := types.Priority(strings.ToLower(m[1])); p.Valid() {
			action.Priority = p
		}
	}
	if m := duePattern.FindStringSubmatch(reply); m != nil {
		action.DueDate = Sanitize(m[1], maxDueChars)
	}

	return action
}

// ExtractUpdate pulls the target id and normalized status from a model
// reply. Either field may be absent.
func ExtractUpdate(reply string) types.UpdateAction {
	action := types.UpdateAction{ID: extractID(reply)}

	if m := statusPattern.FindStringSubmatch(reply); m != nil {
		status := types.NormalizeStatus(m[1])
		action.Status = &status
	}

	return action
}

// ExtractDelete pulls the target id from a model reply.
func ExtractDelete(reply string) types.DeleteAction {
	return types.DeleteAction{ID: extractID(reply)}
}

// extractID returns the first labeled id in the reply, or nil when no id is
// present or the candidate falls outside (0, maxTargetID].
func extractID(reply string) *int64 {
	m := idPattern.FindStringSubmatch(reply)
	if m == nil {
		return nil
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 || id > maxTargetID {
		return nil
	}
	return &id
}
