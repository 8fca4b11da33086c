// Package qrcode renders warranty codes as PNG QR images.
package qrcode

import (
	"errors"
	"fmt"

	warrantyapp "github.com/phonestore/backend/internal/application/warranty"
	"github.com/skip2/go-qrcode"
)

// Ensure Encoder implements QRCodeEncoder
var _ warrantyapp.QRCodeEncoder = (*Encoder)(nil)

// ErrEmptyContent is returned when there is nothing to encode
var ErrEmptyContent = errors.New("qr code content is empty")

// Encoder produces PNG QR codes at a fixed recovery level
type Encoder struct {
	level qrcode.RecoveryLevel
}

// NewEncoder creates an encoder. The level is one of L, M, Q or H and
// falls back to M.
func NewEncoder(level string) *Encoder {
	return &Encoder{level: recoveryLevel(level)}
}

func recoveryLevel(level string) qrcode.RecoveryLevel {
	switch level {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// EncodePNG renders content as a size x size PNG
func (e *Encoder) EncodePNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	code, err := qrcode.New(content, e.level)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}
	png, err := code.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return png, nil
}
