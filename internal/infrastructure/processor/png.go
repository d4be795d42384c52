package processor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/yokitheyo/mediacompressor/internal/domain"
	"golang.org/x/image/draw"
)

type pngCodec struct {
	colors int
}

func (c *pngCodec) Format() domain.Format { return domain.FormatPNG }

func (c *pngCodec) DecodeConfig(data []byte) (image.Config, error) {
	return png.DecodeConfig(bytes.NewReader(data))
}

func (c *pngCodec) Decode(data []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

// Prepare reduces the image to an adaptive palette of at most c.colors entries.
func (c *pngCodec) Prepare(img image.Image) image.Image {
	return quantizeImage(img, c.colors)
}

func (c *pngCodec) Encode(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
}

func (c *pngCodec) OutputContentType() string { return "image/png" }

func quantizeImage(img image.Image, colors int) *image.Paletted {
	bounds := img.Bounds()
	q := quantize.MedianCutQuantizer{}
	palette := q.Quantize(make(color.Palette, 0, colors), img)

	out := image.NewPaletted(bounds, palette)
	draw.FloydSteinberg.Draw(out, bounds, img, bounds.Min)
	return out
}
