// Package qr draws QR codes on the terminal.
package qr

import (
	"errors"
	"io"

	"github.com/mdp/qrterminal/v3"
)

// MaxBytes is the largest payload rendered. Level M codes top out a little
// above this.
const MaxBytes = 2000

// ErrTooLarge is returned for payloads longer than MaxBytes.
var ErrTooLarge = errors.New("text is too long to render as a QR code")

// Render writes text to w as a half-block QR code.
func Render(w io.Writer, text string) error {
	if len(text) > MaxBytes {
		return ErrTooLarge
	}
	qrterminal.GenerateWithConfig(text, qrterminal.Config{
		Level:          qrterminal.M,
		Writer:         w,
		HalfBlocks:     true,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		QuietZone:      1,
	})
	return nil
}
