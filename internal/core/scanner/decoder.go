// Package scanner decodes keystroke bursts from HID barcode scanners.
//
// A dedicated scanner "types" its payload as a rapid run of key presses
// terminated by Enter or Tab. The Decoder accumulates printable keys while
// armed and emits the trimmed buffer as one scan when the terminator
// arrives. A per-keystroke inactivity timer discards a partial buffer if
// the next key does not arrive in time, so slow human typing never turns
// into a scan.
//
// Transition table:
//
//	state   input               effect                                  next
//	Idle    Arm                 clear buffer                            Armed
//	Idle    any key             ignored                                 Idle
//	Armed   printable rune      append, restart inactivity timer        Armed
//	Armed   Enter / Tab         emit trimmed buffer if non-empty, clear Armed
//	Armed   other named key     ignored                                 Armed
//	Armed   inactivity timeout  clear buffer                            Armed
//	Armed   Disarm              clear buffer, cancel timer              Idle
package scanner

import (
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

// State is the decoder state.
type State int

const (
	Idle State = iota
	Armed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	default:
		return "unknown"
	}
}

// Terminator key names.
const (
	KeyEnter = "Enter"
	KeyTab   = "Tab"
)

// DefaultTimeout is the inactivity window between two keystrokes of a burst.
const DefaultTimeout = 1200 * time.Millisecond

// Timer is the subset of *time.Timer the decoder needs.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so the inactivity window can be driven by tests.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Option configures a Decoder.
type Option func(*Decoder)

// WithTimeout sets the inactivity window. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(dec *Decoder) {
		if d > 0 {
			dec.timeout = d
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(dec *Decoder) {
		if c != nil {
			dec.clock = c
		}
	}
}

// Decoder turns keystroke bursts into scan strings. It is safe for use from
// the input goroutine and the timer goroutine concurrently.
type Decoder struct {
	mu      sync.Mutex
	state   State
	buf     []rune
	timeout time.Duration
	clock   Clock
	timer   Timer
	gen     uint64 // bumped whenever the pending timer becomes stale
	onScan  func(code string)
}

// NewDecoder creates a disarmed decoder that calls onScan for every decoded
// scan. onScan runs on the caller's goroutine, outside the decoder lock.
func NewDecoder(onScan func(code string), opts ...Option) *Decoder {
	d := &Decoder{
		state:   Idle,
		timeout: DefaultTimeout,
		clock:   realClock{},
		onScan:  onScan,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Timeout returns the configured inactivity window.
func (d *Decoder) Timeout() time.Duration { return d.timeout }

// State returns the current state.
func (d *Decoder) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Buffered returns the pending, not yet terminated input.
func (d *Decoder) Buffered() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return string(d.buf)
}

// Arm starts accumulating keystrokes with an empty buffer.
func (d *Decoder) Arm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
	d.state = Armed
}

// Disarm stops accumulating. The buffer is cleared and any pending timer is
// cancelled unconditionally; no scan can fire after Disarm returns.
func (d *Decoder) Disarm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
	d.state = Idle
}

// Press feeds one key event. key is either a single character or a named
// key such as "Enter", "Tab" or "Shift".
func (d *Decoder) Press(key string) {
	d.mu.Lock()
	if d.state != Armed {
		d.mu.Unlock()
		return
	}

	if key == KeyEnter || key == KeyTab {
		code := strings.TrimSpace(string(d.buf))
		d.resetLocked()
		d.mu.Unlock()
		if code != "" && d.onScan != nil {
			d.onScan(code)
		}
		return
	}

	r, ok := printableRune(key)
	if !ok {
		d.mu.Unlock()
		return
	}
	d.buf = append(d.buf, r)
	d.restartTimerLocked()
	d.mu.Unlock()
}

// PressRune is a convenience for feeding raw runes: '\r' and '\n' map to
// Enter, '\t' to Tab.
func (d *Decoder) PressRune(r rune) {
	switch r {
	case '\r', '\n':
		d.Press(KeyEnter)
	case '\t':
		d.Press(KeyTab)
	default:
		d.Press(string(r))
	}
}

func (d *Decoder) resetLocked() {
	d.buf = d.buf[:0]
	d.stopTimerLocked()
}

func (d *Decoder) stopTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

func (d *Decoder) restartTimerLocked() {
	d.stopTimerLocked()
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.timeout, func() { d.expire(gen) })
}

// expire clears a stale partial buffer. A timer superseded by a later key,
// a terminator or a disarm carries an old generation and does nothing.
func (d *Decoder) expire(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Armed || gen != d.gen {
		return
	}
	d.buf = d.buf[:0]
	d.timer = nil
	d.gen++
}

func printableRune(key string) (rune, bool) {
	if utf8.RuneCountInString(key) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return 0, false
	}
	return r, true
}
