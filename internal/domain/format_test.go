package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFromContentType(t *testing.T) {
	tests := map[string]Format{
		"image/jpeg":                FormatJPEG,
		"image/pjpeg":               FormatJPEG,
		"Image/JPEG":                FormatJPEG,
		"image/jpeg; q=0.9":         FormatJPEG,
		"image/png":                 FormatPNG,
		"image/heif":                FormatHEIF,
		"image/heic":                FormatHEIF,
		"image/heic-sequence":       FormatHEIF,
		"image/webp":                FormatUnrecognized,
		"application/unknown":       FormatUnrecognized,
		"application/octet-stream":  FormatUnrecognized,
		"":                          FormatUnrecognized,
		"not a mime type at all///": FormatUnrecognized,
	}

	for ct, want := range tests {
		t.Run(ct, func(t *testing.T) {
			assert.Equal(t, want, FormatFromContentType(ct))
		})
	}
}

func TestFormatNames(t *testing.T) {
	assert.Equal(t, "jpg", FormatJPEG.Extension())
	assert.Equal(t, "png", FormatPNG.Extension())
	assert.Equal(t, "heif", FormatHEIF.Extension())
	assert.Equal(t, "", FormatUnrecognized.Extension())
	assert.Equal(t, "unrecognized", FormatUnrecognized.String())
	assert.False(t, FormatUnrecognized.Recognized())
	assert.True(t, FormatHEIF.Recognized())
}
