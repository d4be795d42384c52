package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yokitheyo/mediacompressor/internal/domain"
)

// MediaUploadedMessage is the body published with routing key media.uploaded.
type MediaUploadedMessage struct {
	MediaID              domain.MediaID `json:"mediaId"`
	ExternalIDFull       string         `json:"externalIdFull"`
	ExternalIDCompressed string         `json:"externalIdCompressed"`
	ContentType          string         `json:"contentType"`
}

// MediaCompressedMessage is the body published with routing key media.compressed.
type MediaCompressedMessage struct {
	MediaID              domain.MediaID `json:"mediaId"`
	ExternalIDCompressed string         `json:"externalIdCompressed"`
}

// ParseUploadEvent decodes and validates a delivery body. Every failure wraps
// domain.ErrMalformedEvent.
func ParseUploadEvent(body []byte) (domain.UploadEvent, error) {
	var msg MediaUploadedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return domain.UploadEvent{}, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}
	if err := msg.Validate(); err != nil {
		return domain.UploadEvent{}, err
	}
	return msg.ToEvent(), nil
}

func (m *MediaUploadedMessage) Validate() error {
	var missing []string
	if m.MediaID.IsZero() {
		missing = append(missing, "mediaId")
	}
	if strings.TrimSpace(m.ExternalIDFull) == "" {
		missing = append(missing, "externalIdFull")
	}
	if strings.TrimSpace(m.ExternalIDCompressed) == "" {
		missing = append(missing, "externalIdCompressed")
	}
	if strings.TrimSpace(m.ContentType) == "" {
		missing = append(missing, "contentType")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrMalformedEvent, strings.Join(missing, ", "))
	}
	return nil
}

func (m *MediaUploadedMessage) ToEvent() domain.UploadEvent {
	return domain.UploadEvent{
		MediaID:              m.MediaID,
		ExternalIDFull:       m.ExternalIDFull,
		ExternalIDCompressed: m.ExternalIDCompressed,
		ContentType:          m.ContentType,
		Format:               domain.FormatFromContentType(m.ContentType),
	}
}

func NewMediaCompressedMessage(event domain.CompletionEvent) MediaCompressedMessage {
	return MediaCompressedMessage{
		MediaID:              event.MediaID,
		ExternalIDCompressed: event.ExternalIDCompressed,
	}
}
