package presskit

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// maxImagePixels bounds decoding work for a single press shot.
const maxImagePixels = 64 << 20

// rasterImage is a decoded image re-encoded as an 8-bit PNG the PDF
// engine can embed regardless of the source format.
type rasterImage struct {
	png    []byte
	format string
	width  int
	height int
}

// decodeRaster decodes JPEG, PNG, GIF, BMP, TIFF or WebP data and
// normalises it to 8-bit NRGBA PNG. The engine rejects 16-bit and
// interlaced PNGs, so every format goes through the same path.
func decodeRaster(data []byte) (*rasterImage, error) {
	if len(data) == 0 {
		return nil, errors.New("empty buffer")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%s image has no pixels", format)
	}
	if cfg.Width*cfg.Height > maxImagePixels {
		return nil, fmt.Errorf("%s image is %dx%d, above the %d pixel limit", format, cfg.Width, cfg.Height, maxImagePixels)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return &rasterImage{
		png:    buf.Bytes(),
		format: format,
		width:  bounds.Dx(),
		height: bounds.Dy(),
	}, nil
}

// scaledHeight returns the placed height of an image drawn widthPt wide
// with the aspect ratio of a pxW×pxH raster.
func scaledHeight(widthPt float64, pxW, pxH int) float64 {
	return widthPt * float64(pxH) / float64(pxW)
}
