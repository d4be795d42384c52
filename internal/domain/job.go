package domain

import (
	"time"
)

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobSkipped    JobStatus = "skipped"
	JobFailed     JobStatus = "failed"
)

// CompressionJob is the ledger record of one media item going through the worker.
type CompressionJob struct {
	MediaID              string     `json:"media_id"`
	ExternalIDFull       string     `json:"external_id_full"`
	ExternalIDCompressed string     `json:"external_id_compressed"`
	ContentType          string     `json:"content_type"`
	OutputContentType    string     `json:"output_content_type,omitempty"`
	Status               JobStatus  `json:"status"`
	Outcome              string     `json:"outcome,omitempty"`
	Attempts             int        `json:"attempts"`
	OriginalSize         int64      `json:"original_size,omitempty"`
	CompressedSize       int64      `json:"compressed_size,omitempty"`
	Width                int        `json:"width,omitempty"`
	Height               int        `json:"height,omitempty"`
	ErrorMessage         string     `json:"error_message,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

func NewCompressionJob(event UploadEvent) *CompressionJob {
	now := time.Now()
	return &CompressionJob{
		MediaID:              event.MediaID.String(),
		ExternalIDFull:       event.ExternalIDFull,
		ExternalIDCompressed: event.ExternalIDCompressed,
		ContentType:          event.ContentType,
		Status:               JobPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func (j *CompressionJob) IsFinished() bool {
	return j.Status == JobCompleted || j.Status == JobSkipped
}

func (j *CompressionJob) MarkAsProcessing() {
	j.Status = JobProcessing
	j.Attempts++
	j.UpdatedAt = time.Now()
}

// MarkAsDone records a stored outcome. Unrecognized formats end up as skipped.
func (j *CompressionJob) MarkAsDone(o Outcome) {
	j.Status = JobCompleted
	if !o.Stored() {
		j.Status = JobSkipped
	}
	j.Outcome = string(o.Kind)
	j.OutputContentType = o.ContentType
	j.OriginalSize = o.OriginalSize
	j.CompressedSize = o.CompressedSize
	j.Width = o.Width
	j.Height = o.Height
	j.ErrorMessage = ""
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

func (j *CompressionJob) MarkAsFailed(errMsg string) {
	j.Status = JobFailed
	j.ErrorMessage = errMsg
	j.UpdatedAt = time.Now()
}
