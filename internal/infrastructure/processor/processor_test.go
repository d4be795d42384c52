package processor

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacompressor/internal/config"
	"github.com/yokitheyo/mediacompressor/internal/domain"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func smallBoxProcessor() *ImageProcessor {
	return NewImageProcessor(&config.ProcessingConfig{
		MaxWidth:    64,
		MaxHeight:   36,
		JPEGQuality: 75,
		PNGColors:   256,
	})
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"within bounds", 800, 600, 800, 600},
		{"exactly on bounds", 1920, 1080, 1920, 1080},
		{"very wide is bound by height", 3840, 1080, 3840, 1080},
		{"portrait is bound by width", 1000, 2000, 1920, 3840},
		{"4:3 landscape", 4000, 3000, 1920, 1440},
		{"16:9 just above the cut-off", 3840, 2160, 1920, 1080},
		{"square", 3000, 3000, 1920, 1920},
		{"zero height untouched", 10, 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitDimensions(tt.width, tt.height, 1920, 1080)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestFitDimensionsIdentityWithinBox(t *testing.T) {
	for w := 1; w <= 1920; w += 97 {
		for h := 1; h <= 1080; h += 53 {
			gotW, gotH := FitDimensions(w, h, 1920, 1080)
			require.Equal(t, w, gotW)
			require.Equal(t, h, gotH)
		}
	}
}

func TestCodecForContentType(t *testing.T) {
	p := smallBoxProcessor()

	tests := []struct {
		contentType string
		want        domain.Format
		wantErr     bool
	}{
		{"image/jpeg", domain.FormatJPEG, false},
		{"image/jpeg; charset=binary", domain.FormatJPEG, false},
		{"IMAGE/PNG", domain.FormatPNG, false},
		{"image/heif", domain.FormatHEIF, false},
		{"image/heic", domain.FormatHEIF, false},
		{"image/gif", domain.FormatUnrecognized, true},
		{"application/unknown", domain.FormatUnrecognized, true},
		{"", domain.FormatUnrecognized, true},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			c, err := p.codecFor(domain.FormatFromContentType(tt.contentType))
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnrecognizedFormat)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Format())
		})
	}
}

func TestCompressJPEGWithinDefaultBounds(t *testing.T) {
	p := NewImageProcessor(&config.ProcessingConfig{})
	src := encodeJPEG(t, gradient(2400, 1200))

	out, err := p.Compress(domain.FormatJPEG, src)
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", out.ContentType)
	assert.Equal(t, 2160, out.Width)
	assert.Equal(t, 1080, out.Height)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 2160, cfg.Width)
	assert.Equal(t, 1080, cfg.Height)
}

func TestCompressJPEGSmallImageKeepsDimensions(t *testing.T) {
	p := smallBoxProcessor()
	src := encodeJPEG(t, gradient(40, 20))

	out, err := p.Compress(domain.FormatJPEG, src)
	require.NoError(t, err)
	assert.Equal(t, 40, out.Width)
	assert.Equal(t, 20, out.Height)
}

func TestCompressPNGQuantizes(t *testing.T) {
	p := smallBoxProcessor()
	src := encodePNG(t, gradient(128, 96))

	out, err := p.Compress(domain.FormatPNG, src)
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.ContentType)
	assert.Equal(t, 64, out.Width)
	assert.Equal(t, 48, out.Height)

	decoded, err := png.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	paletted, ok := decoded.(*image.Paletted)
	require.True(t, ok, "expected a paletted png, got %T", decoded)
	assert.LessOrEqual(t, len(paletted.Palette), 256)
}

func TestCompressIsDeterministic(t *testing.T) {
	p := smallBoxProcessor()

	tests := []struct {
		name   string
		format domain.Format
		data   []byte
	}{
		{"jpeg", domain.FormatJPEG, encodeJPEG(t, gradient(100, 80))},
		{"png", domain.FormatPNG, encodePNG(t, gradient(100, 80))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := p.Compress(tt.format, tt.data)
			require.NoError(t, err)
			second, err := p.Compress(tt.format, tt.data)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(first.Data, second.Data))
		})
	}
}

func TestCompressRejectsGarbage(t *testing.T) {
	p := smallBoxProcessor()

	for _, format := range []domain.Format{domain.FormatJPEG, domain.FormatPNG, domain.FormatHEIF} {
		t.Run(format.String(), func(t *testing.T) {
			out, err := p.Compress(format, []byte("definitely not an image"))
			require.Error(t, err)
			assert.Nil(t, out)

			var perr *domain.ProcessingError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, domain.StageDecode, perr.Stage)
		})
	}
}

func TestCompressUnrecognizedFormat(t *testing.T) {
	p := smallBoxProcessor()
	_, err := p.Compress(domain.FormatUnrecognized, []byte{1, 2, 3})
	require.ErrorIs(t, err, domain.ErrUnrecognizedFormat)
}

func TestToNRGBAAnchorsAtOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 14, 12))
	src.Set(10, 10, color.RGBA{R: 200, A: 255})

	dst := toNRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 4, 2), dst.Bounds())
	assert.Equal(t, color.NRGBA{R: 200, A: 255}, dst.NRGBAAt(0, 0))
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestCompressHEIFProducesJPEG(t *testing.T) {
	src := readFixture(t, "sample.heic")

	tests := []struct {
		name         string
		processor    *ImageProcessor
		wantW, wantH int
	}{
		{"within bounds", NewImageProcessor(&config.ProcessingConfig{}), 512, 512},
		{"fitted to box", smallBoxProcessor(), 64, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.processor.Compress(domain.FormatHEIF, src)
			require.NoError(t, err)

			assert.Equal(t, "image/jpeg", out.ContentType)
			assert.Equal(t, tt.wantW, out.Width)
			assert.Equal(t, tt.wantH, out.Height)

			decoded, err := jpeg.Decode(bytes.NewReader(out.Data))
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, decoded.Bounds().Dx())
			assert.Equal(t, tt.wantH, decoded.Bounds().Dy())
		})
	}
}

func TestCompressRefusesTallImageOverPixelBudget(t *testing.T) {
	p := NewImageProcessor(&config.ProcessingConfig{})
	// 8x60000 fits by width, which would need 1920x14400000 pixels.
	src := encodePNG(t, gradient(8, 60000))

	out, err := p.Compress(domain.FormatPNG, src)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrInvalidImageData)

	var perr *domain.ProcessingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, domain.StageResize, perr.Stage)
}

func TestCompressRefusesSourceOverPixelBudget(t *testing.T) {
	tests := []struct {
		name   string
		format domain.Format
		data   []byte
	}{
		{"jpeg", domain.FormatJPEG, encodeJPEG(t, gradient(50, 40))},
		{"png", domain.FormatPNG, encodePNG(t, gradient(50, 40))},
		{"heif", domain.FormatHEIF, readFixture(t, "sample.heic")},
	}

	p := NewImageProcessor(&config.ProcessingConfig{MaxPixels: 1000})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := p.Compress(tt.format, tt.data)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, domain.ErrInvalidImageData)

			var perr *domain.ProcessingError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, domain.StageDecode, perr.Stage)
		})
	}
}
