// Package shell renders status and warning lines for the install flow.
package shell

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/cask-pm/cask/internal/terminal"
)

// Shell writes status lines of the form `        Verb message` with the
// verb right-aligned and colored. Color is enabled only when the writer is
// an interactive terminal.
type Shell struct {
	mu          sync.Mutex
	out         io.Writer
	statusColor *color.Color
	warnColor   *color.Color
}

// New builds a shell writing to out. A nil out discards all output.
func New(out io.Writer) *Shell {
	if out == nil {
		out = io.Discard
	}
	s := &Shell{
		out:         out,
		statusColor: color.New(color.FgGreen, color.Bold),
		warnColor:   color.New(color.FgYellow, color.Bold),
	}
	if !terminal.WriterIsTerminal(out) {
		s.statusColor.DisableColor()
		s.warnColor.DisableColor()
	}
	return s
}

// Status prints a status line. verb is the action ("Updating",
// "Installing"); format/args form the rest of the line.
func (s *Shell) Status(verb, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.statusColor.Fprintf(s.out, "%12s", verb)
	_, _ = fmt.Fprintf(s.out, " "+format+"\n", args...)
}

// Warn prints a warning line.
func (s *Shell) Warn(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.warnColor.Fprint(s.out, "warning:")
	_, _ = fmt.Fprintf(s.out, " "+format+"\n", args...)
}
