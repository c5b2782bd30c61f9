package codec

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capdex/capdex/internal/config"
)

// pngImage encodes a solid-color PNG of the given size.
func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageCodec_Compress_SmallImagePassesThrough(t *testing.T) {
	ctx := context.Background()
	codec := New(config.NewCodecConfig(), nil)

	data, width, height, err := codec.Compress(ctx, pngImage(t, 320, 240))
	require.NoError(t, err)

	assert.Equal(t, 320, width)
	assert.Equal(t, 240, height)
	assert.NotEmpty(t, data)

	// Default output is JPEG.
	decoded, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 320, decoded.Bounds().Dx())
	assert.Equal(t, 240, decoded.Bounds().Dy())
}

func TestImageCodec_Compress_DownscalesLongerSide(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewCodecConfig()
	cfg.MaxSide = 100
	codec := New(cfg, nil)

	_, width, height, err := codec.Compress(ctx, pngImage(t, 400, 200))
	require.NoError(t, err)

	assert.Equal(t, 100, width)
	assert.Equal(t, 50, height, "aspect ratio must be preserved")
}

func TestImageCodec_Compress_PortraitDownscale(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewCodecConfig()
	cfg.MaxSide = 100
	codec := New(cfg, nil)

	_, width, height, err := codec.Compress(ctx, pngImage(t, 200, 400))
	require.NoError(t, err)

	assert.Equal(t, 50, width)
	assert.Equal(t, 100, height)
}

func TestImageCodec_Compress_PNGOutput(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewCodecConfig()
	cfg.Format = "png"
	codec := New(cfg, nil)

	data, _, _, err := codec.Compress(ctx, pngImage(t, 64, 64))
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestImageCodec_Compress_JPEGInput(t *testing.T) {
	ctx := context.Background()
	codec := New(config.NewCodecConfig(), nil)

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	_, width, height, err := codec.Compress(ctx, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 32, width)
	assert.Equal(t, 32, height)
}

func TestImageCodec_Compress_MalformedInput(t *testing.T) {
	ctx := context.Background()
	codec := New(config.NewCodecConfig(), nil)

	_, _, _, err := codec.Compress(ctx, []byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrMalformedImage)
}

func TestImageCodec_Compress_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	codec := New(config.NewCodecConfig(), nil)

	_, _, _, err := codec.Compress(ctx, pngImage(t, 8, 8))
	assert.ErrorIs(t, err, context.Canceled)
}
