package processor

import (
	"bytes"
	"image"
	"io"

	"github.com/gen2brain/heic"
	"github.com/yokitheyo/mediacompressor/internal/domain"
	"golang.org/x/image/draw"
)

// heifCodec reads HEIF/HEIC containers and always writes JPEG.
type heifCodec struct {
	jpeg jpegCodec
}

func (c *heifCodec) Format() domain.Format { return domain.FormatHEIF }

func (c *heifCodec) DecodeConfig(data []byte) (image.Config, error) {
	return heic.DecodeConfig(bytes.NewReader(data))
}

func (c *heifCodec) Decode(data []byte) (image.Image, error) {
	src, err := heic.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return toNRGBA(src), nil
}

func (c *heifCodec) Prepare(img image.Image) image.Image { return img }

func (c *heifCodec) Encode(w io.Writer, img image.Image) error {
	return c.jpeg.Encode(w, img)
}

func (c *heifCodec) OutputContentType() string { return c.jpeg.OutputContentType() }

// toNRGBA copies decoded pixels into a plain NRGBA buffer anchored at 0,0.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
	return dst
}
