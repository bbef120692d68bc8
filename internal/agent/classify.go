package agent

import (
	"strings"

	"github.com/taskpilot/taskpilot/pkg/types"
)

// intentKeywords are checked in fixed order. The first group with a hit
// decides the intent, so "add and then delete the old one" classifies as
// create. Classification runs on the user's own words, which are a more
// reliable intent signal than the model's reply.
var intentKeywords = []struct {
	kind     types.ActionKind
	keywords []string
}{
	{types.ActionCreate, []string{"create", "add", "new"}},
	{types.ActionUpdate, []string{"update", "change", "complete"}},
	{types.ActionDelete, []string{"delete", "remove"}},
	{types.ActionList, []string{"list", "show", "all"}},
}

// Classify maps a lower-cased user request to an action kind by keyword
// containment. Requests matching no group classify as other.
func Classify(lowered string) types.ActionKind {
	for _, group := range intentKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lowered, kw) {
				return group.kind
			}
		}
	}
	return types.ActionOther
}
