package render

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

const (
	ClearScreen    = "\033[2J"
	ClearLine      = "\033[2K"
	CursorHome     = "\033[H"
	CursorHide     = "\033[?25l"
	CursorShow     = "\033[?25h"
	AltScreenEnter = "\033[?1049h"
	AltScreenExit  = "\033[?1049l"
)

// Terminal handles raw mode and screen control.
type Terminal struct {
	fd       int
	out      io.Writer
	original unix.Termios
	raw      bool
}

// NewTerminal creates a terminal controller reading from in and drawing to out.
func NewTerminal(in *os.File, out io.Writer) (*Terminal, error) {
	fd := int(in.Fd())
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("terminal: reading mode: %w", err)
	}
	return &Terminal{fd: fd, out: out, original: *termios}, nil
}

// Open switches to the alternate screen, hides the cursor and enters raw
// mode. On failure the screen is switched back before returning.
func (t *Terminal) Open() error {
	EnterAltScreen(t.out)
	if err := t.EnterRawMode(); err != nil {
		ExitAltScreen(t.out)
		return fmt.Errorf("terminal: entering raw mode: %w", err)
	}
	return nil
}

// Close restores the original mode and the main screen. It is safe to call
// more than once.
func (t *Terminal) Close() error {
	var err error
	if t.raw {
		err = t.RestoreMode()
	}
	ExitAltScreen(t.out)
	if err != nil {
		return fmt.Errorf("terminal: restoring mode: %w", err)
	}
	return nil
}

// EnterRawMode puts the terminal into raw mode for direct character input.
// Reads block until at least one byte is available.
func (t *Terminal) EnterRawMode() error {
	raw := t.original
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, &raw); err != nil {
		return err
	}
	t.raw = true
	return nil
}

// RestoreMode restores the original terminal mode.
func (t *Terminal) RestoreMode() error {
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, &t.original); err != nil {
		return err
	}
	t.raw = false
	return nil
}

// EnterAltScreen switches to the alternate screen buffer.
func EnterAltScreen(w io.Writer) {
	io.WriteString(w, AltScreenEnter+CursorHide+ClearScreen)
}

// ExitAltScreen returns to the main screen buffer.
func ExitAltScreen(w io.Writer) {
	io.WriteString(w, CursorShow+AltScreenExit)
}
