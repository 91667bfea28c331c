package workflowctx

import (
	"fmt"
	"regexp"
	"strings"
)

// scheduleSuffix matches one or more scheduling timestamps appended to the
// last identifier segment by recurring executions, e.g.
// "ticket-42-2026-02-17T13:31:53Z" or "...T13:31:53.123Z".
var scheduleSuffix = regexp.MustCompile(`(?:-\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?Z)+$`)

// Identifier is the structured form of a workflow identifier string:
//
//	{tenantId}:{agentName}:{workflowName}[:{idPostfix}]
//
// The agent name may be absent, in which case the type is just the workflow
// name. Identifiers are parsed and formatted here exclusively; no other
// package constructs them ad hoc.
type Identifier struct {
	TenantID     string
	AgentName    string
	WorkflowName string
	IDPostfix    string
}

// ParseIdentifier parses a workflow identifier string. At least two colon
// separated segments are required: segment 0 is always the tenant, segment 1
// (optionally with segment 2) is the workflow type. Anything after the type
// is the correlation suffix; a missing suffix is not an error.
func ParseIdentifier(s string) (Identifier, error) {
	segs := strings.Split(s, ":")
	if len(segs) < 2 || segs[0] == "" {
		return Identifier{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}

	id := Identifier{TenantID: segs[0]}
	switch len(segs) {
	case 2:
		id.WorkflowName = segs[1]
	default:
		id.AgentName = segs[1]
		id.WorkflowName = segs[2]
		if len(segs) > 3 {
			// The suffix is free-form and may itself contain colons.
			id.IDPostfix = strings.Join(segs[3:], ":")
		}
	}
	return id, nil
}

// String formats the identifier back into its wire form. Parsing the result
// yields an equal Identifier.
func (id Identifier) String() string {
	segs := make([]string, 0, 4)
	segs = append(segs, id.TenantID)
	if id.AgentName != "" {
		segs = append(segs, id.AgentName)
	}
	segs = append(segs, id.WorkflowName)
	if id.IDPostfix != "" {
		segs = append(segs, id.IDPostfix)
	}
	return strings.Join(segs, ":")
}

// WorkflowType returns the type portion of the identifier, i.e. the
// {agentName}:{workflowName} compound, or just the workflow name when no
// agent is present.
func (id Identifier) WorkflowType() string {
	if id.AgentName == "" {
		return id.WorkflowName
	}
	return id.AgentName + ":" + id.WorkflowName
}

// CorrelationValue returns the correlation suffix with any trailing
// scheduling timestamps removed. Scheduled recurring executions append
// timestamps to the suffix; the stripped value is the semantically
// meaningful one.
func (id Identifier) CorrelationValue() string {
	return StripScheduleSuffix(id.IDPostfix)
}

// StripScheduleSuffix removes one or more trailing scheduling timestamp
// groups of the form -YYYY-MM-DDTHH:MM:SS(.fraction)?Z from s.
func StripScheduleSuffix(s string) string {
	return scheduleSuffix.ReplaceAllString(s, "")
}
