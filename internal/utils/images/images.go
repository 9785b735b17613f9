// Package images decodes inline recipe images and derives their placeholders.
package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"strings"

	"github.com/bbrks/go-blurhash"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// placeholderSize is the edge of the thumbnail the BlurHash is computed from.
	placeholderSize = 64
	// MaxDimension bounds both edges of an accepted image.
	MaxDimension = 8192
)

var (
	ErrEmptyPayload = errors.New("image payload is empty")
	ErrUnsupported  = errors.New("unsupported image format")
	ErrTooLarge     = fmt.Errorf("image exceeds %dx%d pixels", MaxDimension, MaxDimension)
)

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Decoded is an inline image that passed decoding.
type Decoded struct {
	Data        []byte
	Format      string
	ContentType string
	Image       image.Image
}

func (d *Decoded) Extension() string {
	if d.Format == "jpeg" {
		return "jpg"
	}
	return d.Format
}

// DecodeDataURL accepts "data:image/<type>;base64,<data>" or bare base64 and
// decodes the image it carries.
func DecodeDataURL(payload string) (*Decoded, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	if strings.HasPrefix(payload, "data:") {
		comma := strings.Index(payload, ",")
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, fmt.Errorf("malformed data url")
		}
		payload = payload[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}

	// The header is read first so the pixel buffer is never sized from an
	// oversized declaration.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, ErrTooLarge
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, ErrUnsupported
	}

	return &Decoded{
		Data:        data,
		Format:      format,
		ContentType: contentType,
		Image:       img,
	}, nil
}

// Placeholder computes a BlurHash of the image with 4x3 components.
func Placeholder(img image.Image) (string, error) {
	hash, err := blurhash.Encode(4, 3, thumbnail(img))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// thumbnail scales the image down with nearest-neighbour sampling.
func thumbnail(img image.Image) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= placeholderSize && srcHeight <= placeholderSize {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = placeholderSize
		dstHeight = max(srcHeight*placeholderSize/srcWidth, 1)
	} else {
		dstHeight = placeholderSize
		dstWidth = max(srcWidth*placeholderSize/srcHeight, 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)
	for y := 0; y < dstHeight; y++ {
		for x := 0; x < dstWidth; x++ {
			srcX := int(float64(x) * xRatio)
			srcY := int(float64(y) * yRatio)
			dst.Set(x, y, img.At(bounds.Min.X+srcX, bounds.Min.Y+srcY))
		}
	}
	return dst
}
