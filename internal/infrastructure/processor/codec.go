package processor

import (
	"image"
	"io"

	"github.com/yokitheyo/mediacompressor/internal/domain"
)

// codec decodes one source format and encodes the compressed rendition.
type codec interface {
	Format() domain.Format
	// DecodeConfig reads only the header.
	DecodeConfig(data []byte) (image.Config, error)
	Decode(data []byte) (image.Image, error)
	// Prepare runs after resize and before Encode.
	Prepare(img image.Image) image.Image
	Encode(w io.Writer, img image.Image) error
	OutputContentType() string
}

func newCodecs(quality, colors int) map[domain.Format]codec {
	all := []codec{
		&jpegCodec{quality: quality},
		&pngCodec{colors: colors},
		&heifCodec{jpeg: jpegCodec{quality: quality}},
	}

	codecs := make(map[domain.Format]codec, len(all))
	for _, c := range all {
		codecs[c.Format()] = c
	}
	return codecs
}
