// Package imaging normalises uploaded pet photos: any JPEG, PNG or WebP is
// scaled down to fit MaxDimension and re-encoded as WebP.
package imaging

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	MaxDimension   = 800
	MaxUploadBytes = 5 << 20
	ContentType    = "image/webp"
	quality        = 80
)

var (
	ErrUnsupportedImage = errors.New("unsupported_image")
	ErrTooLarge         = errors.New("image_too_large")
)

// ToWebP decodes r, fits it inside MaxDimension x MaxDimension keeping the
// aspect ratio and returns the WebP bytes.
func ToWebP(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	img := Fit(src, MaxDimension)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Fit returns src unchanged when it already fits in limit x limit.
func Fit(src image.Image, limit int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return src
	}

	nw, nh := limit, limit
	if w >= h {
		nh = h * limit / w
	} else {
		nw = w * limit / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
