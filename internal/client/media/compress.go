// Package media prepares picked photos and documents for upload.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
)

const (
	startQuality = 90
	minQuality   = 20
	qualityStep  = 10
	minDimension = 64
)

var (
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrTooLarge         = errors.New("image cannot be compressed below the size limit")
)

// ContentType sniffs the MIME type of a blob: image/jpeg, image/png,
// application/pdf or application/octet-stream.
func ContentType(b []byte) string {
	switch {
	case len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8:
		return "image/jpeg"
	case bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n")):
		return "image/png"
	case bytes.HasPrefix(b, []byte("%PDF-")):
		return "application/pdf"
	}
	ct := http.DetectContentType(b)
	if ct == "image/jpeg" || ct == "image/png" || ct == "application/pdf" {
		return ct
	}
	return "application/octet-stream"
}

// Compress returns data re-encoded as JPEG so that it fits in maxBytes.
// Quality is lowered step by step first; when even the lowest quality is too
// big the image is halved and the quality ladder restarts. Input that already
// fits is returned untouched with its own content type.
func Compress(data []byte, maxBytes int) ([]byte, string, error) {
	ct := ContentType(data)
	if maxBytes <= 0 || len(data) <= maxBytes {
		return data, ct, nil
	}

	img, err := decode(data, ct)
	if err != nil {
		return nil, "", err
	}

	for {
		for q := startQuality; q >= minQuality; q -= qualityStep {
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
				return nil, "", fmt.Errorf("encode jpeg: %w", err)
			}
			if buf.Len() <= maxBytes {
				return buf.Bytes(), "image/jpeg", nil
			}
		}

		b := img.Bounds()
		w, h := b.Dx()/2, b.Dy()/2
		if w < minDimension || h < minDimension {
			return nil, "", ErrTooLarge
		}
		img = scaleDown(img, w, h)
	}
}

func decode(data []byte, ct string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch ct {
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ct, err)
	}
	return img, nil
}

// scaleDown is a nearest-neighbour resize; recipe photos only need to stay
// legible for OCR.
func scaleDown(src image.Image, newW, newH int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	sb := src.Bounds()
	srcW, srcH := sb.Dx(), sb.Dy()
	for y := 0; y < newH; y++ {
		sy := sb.Min.Y + (y*srcH)/newH
		for x := 0; x < newW; x++ {
			sx := sb.Min.X + (x*srcW)/newW
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst
}
