package processor

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/yokitheyo/mediacompressor/internal/domain"
)

// wideRatio is the landscape cut-off: anything wider is bound by height.
const wideRatio = 1.777

// FitDimensions returns the target size for an image of width x height.
// Images within maxWidth x maxHeight are returned unchanged. Otherwise the
// aspect ratio decides the binding axis; extreme ratios may still exceed the
// other bound.
func FitDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	ratio := float64(width) / float64(height)
	if ratio > wideRatio {
		return int(math.Round(float64(maxHeight) * ratio)), maxHeight
	}
	return maxWidth, int(math.Round(float64(maxWidth) / ratio))
}

// resize fits img into the bounding box. Targets over the pixel budget are
// refused before any buffer is allocated.
func (p *ImageProcessor) resize(img image.Image) (image.Image, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	newW, newH := FitDimensions(w, h, p.cfg.MaxWidth, p.cfg.MaxHeight)
	if newW == w && newH == h {
		return img, nil
	}
	if err := p.checkPixels(newW, newH); err != nil {
		return nil, fmt.Errorf("resize %dx%d: %w", w, h, err)
	}
	return imaging.Resize(img, newW, newH, imaging.Lanczos), nil
}

func (p *ImageProcessor) checkPixels(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: empty %dx%d image", domain.ErrInvalidImageData, width, height)
	}
	if pixels := int64(width) * int64(height); pixels > p.cfg.MaxPixels {
		return fmt.Errorf("%w: %dx%d is %d pixels, limit %d", domain.ErrInvalidImageData, width, height, pixels, p.cfg.MaxPixels)
	}
	return nil
}
