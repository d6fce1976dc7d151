// Package imageutil shrinks uploaded catalog images before they are stored.
// Images are bounded to MaxDim on their longest side and re-encoded as JPEG
// so a raw camera photo never bloats the record it is embedded in.
package imageutil

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
)

const (
	// MaxDim is the largest allowed width or height after shrinking.
	MaxDim = 800
	// JpegQuality matches the quality the catalog was originally built with.
	JpegQuality = 70
)

// Shrink decodes an uploaded image, scales it down to fit MaxDim×MaxDim while
// preserving its aspect ratio, and returns it as a JPEG data URL ready to be
// stored on a catalog record. Images already within bounds are only
// re-encoded.
func Shrink(data []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "decode image")
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return "", errors.New("image has no pixels")
	}

	if w > MaxDim || h > MaxDim {
		scale := float64(MaxDim) / float64(w)
		if h > w {
			scale = float64(MaxDim) / float64(h)
		}
		dw := int(float64(w) * scale)
		dh := int(float64(h) * scale)
		if dw < 1 {
			dw = 1
		}
		if dh < 1 {
			dh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: JpegQuality}); err != nil {
		return "", errors.Wrap(err, "encode jpeg")
	}
	return fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}
