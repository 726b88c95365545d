package media

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"catalog-backend/application/ports"
	apperrors "catalog-backend/pkg/errors"
)

const (
	// maxDimension is the bounding box for stored images
	maxDimension = 512
	// maxEncodedBytes is the target ceiling for the stored JPEG
	maxEncodedBytes = 200 * 1024
	// minQuality stops the quality walk-down; below this the image is
	// stored at whatever size it encodes to
	minQuality = 30
)

// Processor normalizes uploaded images to a bounded JPEG
type Processor struct{}

// NewProcessor creates an image processor
func NewProcessor() ports.ImageProcessor {
	return &Processor{}
}

// Process decodes an uploaded image, scales it to fit the bounding box,
// and re-encodes it as JPEG, stepping quality down toward the size
// ceiling.
func (p *Processor) Process(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewValidationError("unsupported or corrupt image").WithCause(err)
	}

	scaled := scaleToFit(src, maxDimension)

	for quality := 85; ; quality -= 10 {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: quality}); err != nil {
			return nil, apperrors.NewInternalError("image encoding failed").WithCause(err)
		}
		if buf.Len() <= maxEncodedBytes || quality-10 < minQuality {
			return buf.Bytes(), nil
		}
	}
}

// scaleToFit downscales src so both dimensions fit within max, preserving
// aspect ratio. Images already within bounds are returned as-is.
func scaleToFit(src image.Image, max int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= max && h <= max {
		return src
	}

	if w >= h {
		h = h * max / w
		w = max
	} else {
		w = w * max / h
		h = max
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
