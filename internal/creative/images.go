package creative

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/azulcreative/server/internal/genai"
)

// maxImageDimension caps the longest side of uploaded assets before they
// are sent to the model, keeping request payloads small.
const maxImageDimension = 1024

const jpegQuality = 90

// NormalizeImage decodes an uploaded asset, downscales it so its longest
// side is at most maxImageDimension, and re-encodes it. PNG inputs stay
// PNG to preserve logo transparency; everything else becomes JPEG.
func NormalizeImage(input ImageInput) (genai.Blob, error) {
	src, _, err := image.Decode(bytes.NewReader(input.Data))
	if err != nil {
		return genai.Blob{}, fmt.Errorf("creative: decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	scaledW, scaledH := fitWithin(width, height, maxImageDimension)

	out := src
	if scaledW != width || scaledH != height {
		dst := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
		xdraw.BiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	mimeType := "image/jpeg"
	if input.MimeType == "image/png" {
		mimeType = "image/png"
		if err := png.Encode(&buf, out); err != nil {
			return genai.Blob{}, fmt.Errorf("creative: encode png: %w", err)
		}
	} else {
		if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return genai.Blob{}, fmt.Errorf("creative: encode jpeg: %w", err)
		}
	}

	return genai.Blob{MimeType: mimeType, Data: buf.Bytes()}, nil
}

// fitWithin scales (w, h) so the longest side equals max, preserving
// aspect ratio. Images already inside the bound are untouched.
func fitWithin(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w > h {
		return max, h * max / w
	}
	return w * max / h, max
}
