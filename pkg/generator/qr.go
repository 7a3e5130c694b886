// qr.go — QR code images for the generated card ID.
package generator

import (
	"fmt"
	"image"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ParseQRLevel maps a config name to a recovery level. Empty means medium.
func ParseQRLevel(name string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(name) {
	case "", "medium":
		return qrcode.Medium, nil
	case "low":
		return qrcode.Low, nil
	case "high":
		return qrcode.High, nil
	case "highest":
		return qrcode.Highest, nil
	default:
		return qrcode.Medium, fmt.Errorf("unknown QR level %q (low, medium, high, highest)", name)
	}
}

// QRImage returns a size×size QR code of content without the quiet-zone
// border, so it fills its box on the card.
func QRImage(content string, size int, level string) (image.Image, error) {
	lvl, _ := ParseQRLevel(level)
	q, err := qrcode.New(content, lvl)
	if err != nil {
		return nil, fmt.Errorf("encode QR: %w", err)
	}
	q.DisableBorder = true
	return q.Image(size), nil
}
