package models

import "time"

type JobStatus string

const (
	StatusQueued       JobStatus = "queued"
	StatusProcessing   JobStatus = "processing"
	StatusDownloading  JobStatus = "downloading"
	StatusNormalizing  JobStatus = "normalizing"
	StatusTransforming JobStatus = "transforming"
	StatusUploading    JobStatus = "uploading"
	StatusCompleted    JobStatus = "completed"
	StatusFailed       JobStatus = "failed"
)

var statusRank = map[JobStatus]int{
	StatusQueued:       0,
	StatusProcessing:   1,
	StatusDownloading:  2,
	StatusNormalizing:  3,
	StatusTransforming: 4,
	StatusUploading:    5,
	StatusCompleted:    6,
	StatusFailed:       6,
}

func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next keeps the pipeline's
// forward-only ordering. Terminal states never transition; failed is reachable
// from any non-terminal state.
func (s JobStatus) CanTransition(next JobStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusFailed {
		return true
	}
	return statusRank[next] >= statusRank[s]
}

// Metadata keys shared between the executor and status-polling clients.
const (
	MetaError        = "error"
	MetaInputCount   = "input_count"
	MetaFailedInput  = "failed_input"
	MetaOutputBucket = "output_bucket"
	MetaOutputKey    = "output_key"
	MetaDownloadURL  = "download_url"
	MetaURLExpiresAt = "url_expires_at"
)

// StatusDocument is the sole externally observable record of a job's
// progress. One document per job, overwritten on each transition.
type StatusDocument struct {
	JobID     string                 `json:"job_id"`
	Status    JobStatus              `json:"status"`
	Progress  int                    `json:"progress"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func NewStatusDocument(jobID string) *StatusDocument {
	return &StatusDocument{
		JobID:     jobID,
		Status:    StatusQueued,
		Progress:  0,
		Timestamp: time.Now().UTC(),
		Metadata:  map[string]interface{}{},
	}
}

func (d *StatusDocument) SetMeta(key string, value interface{}) {
	if d.Metadata == nil {
		d.Metadata = map[string]interface{}{}
	}
	d.Metadata[key] = value
}

func (d *StatusDocument) ErrorMessage() string {
	if d.Metadata == nil {
		return ""
	}
	if msg, ok := d.Metadata[MetaError].(string); ok {
		return msg
	}
	return ""
}
