// Package codec resizes and re-encodes raw images before storage.
package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoding
	"image/jpeg"
	"image/png"
	"log/slog"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WEBP decoding

	"github.com/capdex/capdex/internal/config"
)

// ErrMalformedImage indicates the input bytes could not be decoded as an
// image in any supported format (JPEG, PNG, GIF, WEBP).
var ErrMalformedImage = errors.New("malformed image")

// Compressor turns raw image bytes into the compressed payload stored in a
// record, along with the final pixel dimensions.
type Compressor interface {
	Compress(ctx context.Context, raw []byte) (data []byte, width, height int, err error)
}

// ImageCodec downscales images so the longer side fits MaxSide (preserving
// aspect ratio) and re-encodes them in the configured format.
type ImageCodec struct {
	cfg    config.CodecConfig
	logger *slog.Logger
}

// New creates an ImageCodec.
func New(cfg config.CodecConfig, logger *slog.Logger) *ImageCodec {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageCodec{cfg: cfg, logger: logger}
}

var _ Compressor = (*ImageCodec)(nil)

// Compress decodes, downscales and re-encodes the image.
func (c *ImageCodec) Compress(ctx context.Context, raw []byte) ([]byte, int, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, 0, err
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %w", ErrMalformedImage, err)
	}

	img = c.downscale(img)
	bounds := img.Bounds()

	var buf bytes.Buffer
	switch c.cfg.Format {
	case "png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.cfg.Quality})
	}
	if err != nil {
		return nil, 0, 0, fmt.Errorf("encode %s: %w", c.cfg.Format, err)
	}

	c.logger.Debug("image compressed",
		"input_format", format,
		"input_bytes", len(raw),
		"output_bytes", buf.Len(),
		"width", bounds.Dx(),
		"height", bounds.Dy(),
	)

	return buf.Bytes(), bounds.Dx(), bounds.Dy(), nil
}

// downscale shrinks img so its longer side is at most MaxSide, preserving
// aspect ratio. Images already within bounds pass through untouched.
// Catmull-Rom resampling gives quality comparable to Lanczos at this scale.
func (c *ImageCodec) downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	longer := w
	if h > longer {
		longer = h
	}
	if longer <= c.cfg.MaxSide {
		return img
	}

	scale := float64(c.cfg.MaxSide) / float64(longer)
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}
