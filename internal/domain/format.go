package domain

import (
	"mime"
	"strings"
)

// Format is the closed set of image encodings the worker knows how to compress.
type Format int

const (
	FormatUnrecognized Format = iota
	FormatJPEG
	FormatPNG
	FormatHEIF
)

var contentTypeExtensions = map[string]string{
	"image/jpeg":          "jpg",
	"image/jpg":           "jpg",
	"image/pjpeg":         "jpg",
	"image/png":           "png",
	"image/x-png":         "png",
	"image/heif":          "heif",
	"image/heic":          "heif",
	"image/heif-sequence": "heif",
	"image/heic-sequence": "heif",
}

var extensionFormats = map[string]Format{
	"jpg":  FormatJPEG,
	"png":  FormatPNG,
	"heif": FormatHEIF,
}

// FormatFromContentType maps a MIME type to a Format through its file extension.
// Parameters such as "; charset=" are ignored.
func FormatFromContentType(contentType string) Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(contentType)
	}
	ext, ok := contentTypeExtensions[strings.ToLower(mediaType)]
	if !ok {
		return FormatUnrecognized
	}
	return extensionFormats[ext]
}

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatHEIF:
		return "heif"
	default:
		return "unrecognized"
	}
}

func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatPNG:
		return "png"
	case FormatHEIF:
		return "heif"
	default:
		return ""
	}
}

func (f Format) Recognized() bool {
	return f != FormatUnrecognized
}
