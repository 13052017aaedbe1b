package fsdiag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// ANSI foreground colours used for status markers
const (
	ansiGreen   = "\x1b[32m"
	ansiRed     = "\x1b[31m"
	ansiYellow  = "\x1b[33m"
	ansiDefault = "\x1b[39m"
)

// Console writes the human-readable status lines: [+] success in green,
// [-] failure in red and [+] discovery in yellow
type Console struct {
	w     io.Writer
	color bool
}

// NewConsole creates a console writing to w. In auto mode colour is only used
// when w is a terminal.
func NewConsole(w io.Writer, mode string) (*Console, error) {
	if err := ValidateColorMode(mode); err != nil {
		return nil, err
	}

	c := &Console{w: w}
	switch strings.ToLower(mode) {
	case ColorAlways:
		c.color = true
	case ColorAuto:
		c.color = isTerminal(w)
	}
	return c, nil
}

// isTerminal reports whether w is a file attached to a tty
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	_, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	return err == nil
}

// Success prints a green [+] line
func (c *Console) Success(format string, args ...interface{}) {
	c.line(ansiGreen, "[+]", format, args...)
}

// Failure prints a red [-] line
func (c *Console) Failure(format string, args ...interface{}) {
	c.line(ansiRed, "[-]", format, args...)
}

// Found prints a yellow [+] line
func (c *Console) Found(format string, args ...interface{}) {
	c.line(ansiYellow, "[+]", format, args...)
}

func (c *Console) line(colour, marker, format string, args ...interface{}) {
	if c.color {
		marker = colour + marker + ansiDefault
	}
	fmt.Fprintf(c.w, "%s %s\n", marker, fmt.Sprintf(format, args...))
}
