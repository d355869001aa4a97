package qr

import (
	"fmt"

	"github.com/skip2/go-qrcode"

	"qrcheckin/internal/domain"
)

type pngRenderer struct {
	level qrcode.RecoveryLevel
}

// NewRenderer returns a QRRenderer producing black-on-white PNGs with the highest error correction level.
func NewRenderer() domain.QRRenderer {
	return &pngRenderer{level: qrcode.Highest}
}

func (r *pngRenderer) PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr content is empty")
	}
	png, err := qrcode.Encode(content, r.level, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
