// Package terminal provides KeySource adapters over a terminal or any byte
// stream. A HID barcode scanner is a keyboard, so the same decoder serves
// both a raw TTY and piped input.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"unicode"

	"golang.org/x/term"

	"github.com/example/shiptrack/internal/ports/secondary"
)

// ErrNotTerminal is returned by OpenKeyboard when the file is not a TTY.
var ErrNotTerminal = errors.New("input is not a terminal")

// Names for keys decoded from CSI escape sequences.
const (
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeyUnknown    = "Unidentified"
)

const (
	ctrlC     = 0x03
	ctrlD     = 0x04
	backspace = 0x08
	escape    = 0x1b
	del       = 0x7f
)

// Source decodes keys from a byte stream on a background goroutine.
type Source struct {
	keys      chan secondary.Key
	ended     chan struct{} // closed when the stream fails or ends
	err       error         // set before ended is closed
	done      chan struct{}
	closeOnce sync.Once
	restore   func() error
}

// OpenKeyboard switches f into raw mode and returns a source reading from
// it. Close restores the previous terminal state.
func OpenKeyboard(f *os.File) (*Source, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	s := newSource(f)
	s.restore = func() error { return term.Restore(fd, old) }
	return s, nil
}

// NewReaderSource returns a source over r without touching terminal modes.
// Each newline is delivered as Enter, so a file of codes, one per line,
// replays as a run of scans.
func NewReaderSource(r io.Reader) *Source {
	return newSource(r)
}

func newSource(r io.Reader) *Source {
	s := &Source{
		keys:  make(chan secondary.Key),
		ended: make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.readLoop(bufio.NewReader(r))
	return s
}

// ReadKey returns the next key. It returns io.EOF once the stream ends or
// the source is closed, and ctx.Err() if ctx is cancelled first.
func (s *Source) ReadKey(ctx context.Context) (secondary.Key, error) {
	select {
	case <-ctx.Done():
		return secondary.Key{}, ctx.Err()
	case <-s.done:
		return secondary.Key{}, io.EOF
	case key := <-s.keys:
		return key, nil
	case <-s.ended:
		return secondary.Key{}, s.err
	}
}

// Close stops delivery and restores the terminal. A read already blocked
// in the underlying file returns on the next byte and is discarded.
func (s *Source) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		if s.restore != nil {
			err = s.restore()
		}
	})
	return err
}

func (s *Source) readLoop(r *bufio.Reader) {
	for {
		key, err := decodeKey(r)
		if errors.Is(err, errSkip) {
			continue
		}
		if err != nil {
			s.err = err
			close(s.ended)
			return
		}
		select {
		case s.keys <- key:
		case <-s.done:
			return
		}
	}
}

var errSkip = errors.New("skip")

// decodeKey reads one key from r.
func decodeKey(r *bufio.Reader) (secondary.Key, error) {
	ch, _, err := r.ReadRune()
	if err != nil {
		return secondary.Key{}, err
	}

	switch ch {
	case '\r', '\n':
		return secondary.Key{Name: secondary.KeyEnter}, nil
	case '\t':
		return secondary.Key{Name: secondary.KeyTab}, nil
	case ctrlC:
		return secondary.Key{Name: secondary.KeyInterrupt}, nil
	case ctrlD:
		return secondary.Key{}, io.EOF
	case backspace, del:
		return secondary.Key{Name: secondary.KeyBackspace}, nil
	case escape:
		return decodeEscape(r), nil
	}

	if unicode.IsControl(ch) {
		return secondary.Key{}, errSkip
	}
	return secondary.Key{Rune: ch}, nil
}

// decodeEscape distinguishes a lone Escape from a CSI or SS3 sequence. A
// terminal writes a whole sequence at once, so its bytes are already
// buffered when ESC is read.
func decodeEscape(r *bufio.Reader) secondary.Key {
	if r.Buffered() == 0 {
		return secondary.Key{Name: secondary.KeyEscape}
	}
	next, err := r.Peek(1)
	if err != nil || (next[0] != '[' && next[0] != 'O') {
		return secondary.Key{Name: secondary.KeyEscape}
	}
	_, _ = r.ReadByte()

	// Parameters and intermediates run until a final byte in 0x40-0x7e
	for r.Buffered() > 0 {
		b, err := r.ReadByte()
		if err != nil {
			break
		}
		if b >= 0x40 && b <= 0x7e {
			return secondary.Key{Name: csiName(b)}
		}
	}
	return secondary.Key{Name: KeyUnknown}
}

func csiName(final byte) string {
	switch final {
	case 'A':
		return KeyArrowUp
	case 'B':
		return KeyArrowDown
	case 'C':
		return KeyArrowRight
	case 'D':
		return KeyArrowLeft
	default:
		return KeyUnknown
	}
}

// Ensure Source implements the interface
var _ secondary.KeySource = (*Source)(nil)
