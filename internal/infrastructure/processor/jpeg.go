package processor

import (
	"bytes"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
	"github.com/yokitheyo/mediacompressor/internal/domain"
)

type jpegCodec struct {
	quality int
}

func (c *jpegCodec) Format() domain.Format { return domain.FormatJPEG }

func (c *jpegCodec) DecodeConfig(data []byte) (image.Config, error) {
	return jpeg.DecodeConfig(bytes.NewReader(data))
}

func (c *jpegCodec) Decode(data []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

func (c *jpegCodec) Prepare(img image.Image) image.Image { return img }

func (c *jpegCodec) Encode(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(c.quality))
}

func (c *jpegCodec) OutputContentType() string { return "image/jpeg" }
