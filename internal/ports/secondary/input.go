package secondary

import "context"

// Named keys delivered by a KeySource.
const (
	KeyEnter     = "Enter"
	KeyTab       = "Tab"
	KeyEscape    = "Escape"
	KeyBackspace = "Backspace"
	KeyInterrupt = "Interrupt" // Ctrl+C
)

// KeySource defines the secondary port for raw keyboard input.
// A HID barcode scanner is read through the same port as a keyboard.
type KeySource interface {
	// ReadKey blocks until the next keystroke. It returns io.EOF when the
	// source is exhausted and ctx.Err() when ctx is cancelled.
	ReadKey(ctx context.Context) (Key, error)

	// Close restores the device to its previous mode.
	Close() error
}

// Key is one keystroke. Name is set for named keys, otherwise Rune holds
// the printable character.
type Key struct {
	Name string
	Rune rune
}

// IsNamed reports whether k is a named (non-printable) key.
func (k Key) IsNamed() bool { return k.Name != "" }
