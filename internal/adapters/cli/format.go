// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting and
// confirmation prompts, but delegate business logic to services.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const rule = "────────────────────────────────────────────────────────────────"

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
)

// colorStatus renders a shipment or billing status in its status color.
func colorStatus(status string) string {
	switch status {
	case "PENDING", "SCANNING":
		return color.New(color.FgYellow).Sprint(status)
	case "IN_PROGRESS":
		return color.New(color.FgCyan).Sprint(status)
	case "COMPLETED":
		return color.New(color.FgGreen).Sprint(status)
	case "CANCELLED":
		return color.New(color.FgRed).Sprint(status)
	default:
		return status
	}
}

func activeMarker(active bool) string {
	if !active {
		return ""
	}
	return color.New(color.FgHiMagenta).Sprint(" ← active")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Prompter asks yes/no questions on the operator's terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter reading answers from in.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Confirm prints msg and reports whether the answer was yes. An unreadable
// or empty answer is a no.
func (p *Prompter) Confirm(msg string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", msg)
	answer, err := p.in.ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(p.out)
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
