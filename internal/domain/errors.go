package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedEvent     = errors.New("malformed upload event")
	ErrUnrecognizedFormat = errors.New("unrecognized image format")
	ErrObjectNotFound     = errors.New("object not found")
	ErrInvalidImageData   = errors.New("invalid image data")
	ErrJobNotFound        = errors.New("compression job not found")
	ErrLedgerDisabled     = errors.New("job ledger is disabled")
)

type Stage string

const (
	StageFetch  Stage = "fetch"
	StageDecode Stage = "decode"
	StageResize Stage = "resize"
	StageEncode Stage = "encode"
	StageUpload Stage = "upload"
)

// ProcessingError is a failure of one pipeline stage for a specific media item.
// It is always retryable from the broker's point of view.
type ProcessingError struct {
	MediaID MediaID
	Stage   Stage
	Err     error
}

func NewProcessingError(id MediaID, stage Stage, err error) *ProcessingError {
	return &ProcessingError{MediaID: id, Stage: stage, Err: err}
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("media %s: %s: %v", e.MediaID, e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
