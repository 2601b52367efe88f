package ui

import (
	"errors"

	"github.com/atotto/clipboard"
)

// Clipboard receives exported records.
type Clipboard interface {
	WriteAll(text string) error
}

// ErrClipboardUnsupported is returned when no clipboard utility is available.
var ErrClipboardUnsupported = errors.New("clipboard not supported on this system")

// SystemClipboard writes to the OS clipboard (pbcopy, xclip, xsel,
// wl-copy or the Windows API).
type SystemClipboard struct{}

// WriteAll replaces the clipboard contents.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}
