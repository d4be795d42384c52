package dto

import (
	"time"

	"github.com/yokitheyo/mediacompressor/internal/domain"
)

type JobResponse struct {
	MediaID              string     `json:"media_id"`
	ExternalIDFull       string     `json:"external_id_full"`
	ExternalIDCompressed string     `json:"external_id_compressed"`
	ContentType          string     `json:"content_type"`
	OutputContentType    string     `json:"output_content_type,omitempty"`
	Status               string     `json:"status"`
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

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func MapJobToResponse(job *domain.CompressionJob) *JobResponse {
	if job == nil {
		return nil
	}

	return &JobResponse{
		MediaID:              job.MediaID,
		ExternalIDFull:       job.ExternalIDFull,
		ExternalIDCompressed: job.ExternalIDCompressed,
		ContentType:          job.ContentType,
		OutputContentType:    job.OutputContentType,
		Status:               string(job.Status),
		Outcome:              job.Outcome,
		Attempts:             job.Attempts,
		OriginalSize:         job.OriginalSize,
		CompressedSize:       job.CompressedSize,
		Width:                job.Width,
		Height:               job.Height,
		ErrorMessage:         job.ErrorMessage,
		CreatedAt:            job.CreatedAt,
		UpdatedAt:            job.UpdatedAt,
		CompletedAt:          job.CompletedAt,
	}
}
