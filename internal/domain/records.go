// Package domain holds the typed records the search backend returns for
// each query target. Field names follow the backend's snake_case wire
// format.
package domain

import (
	"strconv"
	"time"
)

// DatasetRecord describes a dataset: a logical grouping of files
// captured together, carrying tags and free-form metadata.
type DatasetRecord struct {
	DatasetID   string         `json:"dataset_id"`
	OrgID       string         `json:"org_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	DeviceID    string         `json:"device_id,omitempty"`
	Created     time.Time      `json:"created"`
	CreatedBy   string         `json:"created_by"`
	Modified    time.Time      `json:"modified"`
	ModifiedBy  string         `json:"modified_by"`
	Tags        []string       `json:"tags,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// FileRecord describes a single file within a dataset.
type FileRecord struct {
	FileID          string         `json:"file_id"`
	DatasetID       string         `json:"dataset_id"`
	OrgID           string         `json:"org_id"`
	RelativePath    string         `json:"relative_path"`
	Size            int64          `json:"size"`
	IngestionStatus string         `json:"ingestion_status"`
	Created         time.Time      `json:"created"`
	CreatedBy       string         `json:"created_by"`
	Modified        time.Time      `json:"modified"`
	ModifiedBy      string         `json:"modified_by"`
	Tags            []string       `json:"tags,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// TopicRecord describes a recorded data stream within a file.
type TopicRecord struct {
	TopicID      string         `json:"topic_id"`
	FileID       string         `json:"file_id"`
	OrgID        string         `json:"org_id"`
	Name         string         `json:"name"`
	SchemaName   string         `json:"schema_name,omitempty"`
	MessageCount int64          `json:"message_count"`
	StartTimeNs  *int64         `json:"start_time,omitempty"`
	EndTimeNs    *int64         `json:"end_time,omitempty"`
	Created      time.Time      `json:"created"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// MessagePathRecord describes a named, leaf-level signal within a
// topic's recorded data. Precomputed statistics (min, max, mean, median,
// count, true_count) are carried in Metadata, keyed by statistic name.
type MessagePathRecord struct {
	TopicID           string         `json:"topic_id"`
	OrgID             string         `json:"org_id"`
	MessagePath       string         `json:"message_path"`
	DataType          string         `json:"data_type"`
	CanonicalDataType string         `json:"canonical_data_type"`
	Created           time.Time      `json:"created"`
	Modified          time.Time      `json:"modified"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// Stat returns a precomputed statistic by name. The backend stores
// statistic values as strings or numbers depending on ingestion path, so
// both are accepted.
func (r MessagePathRecord) Stat(name string) (float64, bool) {
	raw, ok := r.Metadata[name]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// EventRecord describes an annotated time span on a dataset, file, or
// topic.
type EventRecord struct {
	EventID     string         `json:"event_id"`
	OrgID       string         `json:"org_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	StartTimeNs int64          `json:"start_time"`
	EndTimeNs   int64          `json:"end_time"`
	Created     time.Time      `json:"created"`
	CreatedBy   string         `json:"created_by"`
	Tags        []string       `json:"tags,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
