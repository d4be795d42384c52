package processor

import (
	"bytes"
	"fmt"

	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacompressor/internal/config"
	"github.com/yokitheyo/mediacompressor/internal/domain"
)

type ImageProcessor struct {
	cfg    *config.ProcessingConfig
	codecs map[domain.Format]codec
}

func NewImageProcessor(cfg *config.ProcessingConfig) *ImageProcessor {
	if cfg.MaxWidth <= 0 || cfg.MaxHeight <= 0 {
		zlog.Logger.Warn().
			Int("max_width", cfg.MaxWidth).
			Int("max_height", cfg.MaxHeight).
			Msg("Invalid bounding box, using defaults")
		cfg.MaxWidth = 1920
		cfg.MaxHeight = 1080
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = 75
	}
	if cfg.PNGColors <= 0 || cfg.PNGColors > 256 {
		cfg.PNGColors = 256
	}
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = config.DefaultMaxPixels
	}

	zlog.Logger.Info().
		Int("max_width", cfg.MaxWidth).
		Int("max_height", cfg.MaxHeight).
		Int("jpeg_quality", cfg.JPEGQuality).
		Int("png_colors", cfg.PNGColors).
		Int64("max_pixels", cfg.MaxPixels).
		Msg("ImageProcessor initialized")

	return &ImageProcessor{
		cfg:    cfg,
		codecs: newCodecs(cfg.JPEGQuality, cfg.PNGColors),
	}
}

func (p *ImageProcessor) codecFor(format domain.Format) (codec, error) {
	c, ok := p.codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnrecognizedFormat, format)
	}
	return c, nil
}

// Compress decodes data, fits it into the bounding box and re-encodes it.
// Failures are returned as *domain.ProcessingError without a media id.
func (p *ImageProcessor) Compress(format domain.Format, data []byte) (out *domain.CompressedImage, err error) {
	c, err := p.codecFor(format)
	if err != nil {
		return nil, err
	}

	stage := domain.StageDecode
	defer func() {
		if r := recover(); r != nil {
			zlog.Logger.Error().
				Interface("panic", r).
				Str("format", format.String()).
				Str("stage", string(stage)).
				Msg("codec panicked")
			out = nil
			err = domain.NewProcessingError(domain.MediaID{}, stage, fmt.Errorf("%w: codec panic: %v", domain.ErrInvalidImageData, r))
		}
	}()

	header, err := c.DecodeConfig(data)
	if err != nil {
		return nil, domain.NewProcessingError(domain.MediaID{}, stage, fmt.Errorf("decode %s header: %w", format, err))
	}
	if err := p.checkPixels(header.Width, header.Height); err != nil {
		return nil, domain.NewProcessingError(domain.MediaID{}, stage, fmt.Errorf("source: %w", err))
	}

	img, err := c.Decode(data)
	if err != nil {
		return nil, domain.NewProcessingError(domain.MediaID{}, stage, fmt.Errorf("decode %s: %w", format, err))
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, domain.NewProcessingError(domain.MediaID{}, stage, fmt.Errorf("%w: decoded image is empty", domain.ErrInvalidImageData))
	}

	origW, origH := img.Bounds().Dx(), img.Bounds().Dy()

	stage = domain.StageResize
	fitted, err := p.resize(img)
	if err != nil {
		return nil, domain.NewProcessingError(domain.MediaID{}, stage, err)
	}

	stage = domain.StageEncode
	resized := c.Prepare(fitted)

	var buf bytes.Buffer
	if err := c.Encode(&buf, resized); err != nil {
		return nil, domain.NewProcessingError(domain.MediaID{}, stage, fmt.Errorf("encode %s: %w", c.OutputContentType(), err))
	}
	if buf.Len() == 0 {
		return nil, domain.NewProcessingError(domain.MediaID{}, stage, fmt.Errorf("empty buffer after encoding"))
	}

	zlog.Logger.Debug().
		Str("format", format.String()).
		Int("original_width", origW).
		Int("original_height", origH).
		Int("width", resized.Bounds().Dx()).
		Int("height", resized.Bounds().Dy()).
		Int("input_bytes", len(data)).
		Int("output_bytes", buf.Len()).
		Msg("image compressed")

	return &domain.CompressedImage{
		Data:        buf.Bytes(),
		ContentType: c.OutputContentType(),
		Width:       resized.Bounds().Dx(),
		Height:      resized.Bounds().Dy(),
	}, nil
}
