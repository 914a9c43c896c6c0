// Package qrcode renders PNG QR codes.
package qrcode

import (
	"github.com/pkg/errors"
	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels used when none is configured.
const DefaultSize = 256

// Encoder renders content as a square PNG of Size pixels.
type Encoder struct {
	Size int
}

// NewEncoder returns an Encoder; sizes below 64 pixels use DefaultSize.
func NewEncoder(size int) *Encoder {
	if size < 64 {
		size = DefaultSize
	}
	return &Encoder{Size: size}
}

// Encode returns the PNG bytes of a medium error-recovery QR code for content.
func (e *Encoder) Encode(content string) ([]byte, error) {
	if content == "" {
		return nil, errors.New("qrcode: empty content")
	}
	png, err := goqrcode.Encode(content, goqrcode.Medium, e.Size)
	if err != nil {
		return nil, errors.Wrap(err, "qrcode: encode")
	}
	return png, nil
}
