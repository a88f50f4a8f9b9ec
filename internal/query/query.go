// Package query defines the client-side query lifecycle: the target
// entity kinds, the transport contract for fetching result pages, and
// the cursor that turns repeated page fetches into a single lazy
// sequence.
package query

import (
	"fmt"
	"strings"
	"time"

	"roboql/internal/schema"
)

// Target is the kind of resource a query requests.
type Target string

const (
	TargetDatasets          Target = "datasets"
	TargetFiles             Target = "files"
	TargetTopics            Target = "topics"
	TargetTopicMessagePaths Target = "topic_message_paths"
	TargetEvents            Target = "events"
)

// ParseTarget converts a string to a Target, case-insensitively.
func ParseTarget(value string) (Target, error) {
	switch Target(strings.ToLower(value)) {
	case TargetDatasets:
		return TargetDatasets, nil
	case TargetFiles:
		return TargetFiles, nil
	case TargetTopics:
		return TargetTopics, nil
	case TargetTopicMessagePaths:
		return TargetTopicMessagePaths, nil
	case TargetEvents:
		return TargetEvents, nil
	}
	return "", fmt.Errorf("unrecognized query target %q", value)
}

// RootEntity returns the schema entity kind queries against this target
// resolve their field paths from.
func (t Target) RootEntity() schema.EntityKind {
	switch t {
	case TargetDatasets:
		return schema.EntityDataset
	case TargetFiles:
		return schema.EntityFile
	case TargetTopics:
		return schema.EntityTopic
	case TargetTopicMessagePaths:
		return schema.EntityMessagePath
	case TargetEvents:
		return schema.EntityEvent
	}
	return ""
}

// Status is the lifecycle state of a submitted query.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record is the backend's bookkeeping for a submitted query.
type Record struct {
	QueryID     string    `json:"query_id"`
	OrgID       string    `json:"org_id"`
	Status      Status    `json:"status"`
	ResultCount int64     `json:"result_count"`
	Submitted   time.Time `json:"submitted"`
	SubmittedBy string    `json:"submitted_by"`
	Modified    time.Time `json:"modified"`
	Target      Target    `json:"target"`
}
