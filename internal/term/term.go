// Package term owns the controlling tty: raw-mode keyboard input, size
// queries and resize notifications. Sweep data usually arrives on stdin, so
// keys are read from /dev/tty rather than from the data stream.
package term

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal is the raw-mode control channel for the UI.
type Terminal struct {
	tty  *os.File
	out  *os.File
	prev *term.State
}

// Open puts /dev/tty into raw mode. The caller must Close to restore the
// terminal state.
func Open() (*Terminal, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening /dev/tty: %w", err)
	}

	prev, err := term.MakeRaw(int(tty.Fd()))
	if err != nil {
		tty.Close()
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}

	return &Terminal{tty: tty, out: os.Stdout, prev: prev}, nil
}

// Out returns the writer the UI should draw to.
func (t *Terminal) Out() *os.File {
	return t.out
}

// Size returns the current terminal dimensions in character cells.
func (t *Terminal) Size() (width, height int, err error) {
	return term.GetSize(int(t.tty.Fd()))
}

// Keys starts a reader goroutine delivering one byte per keypress. The
// channel closes when the tty read fails, which includes Close being called.
func (t *Terminal) Keys() <-chan byte {
	keys := make(chan byte)

	go func() {
		defer close(keys)

		buf := make([]byte, 1)
		for {
			n, err := t.tty.Read(buf)
			if err != nil {
				return
			}
			if n == 1 {
				keys <- buf[0]
			}
		}
	}()

	return keys
}

// Resize delivers a signal each time the terminal window changes size, until
// ctx is cancelled.
func (t *Terminal) Resize(ctx context.Context) <-chan os.Signal {
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, unix.SIGWINCH)

	go func() {
		<-ctx.Done()
		signal.Stop(winch)
	}()

	return winch
}

// Close restores the previous terminal state and releases the tty.
func (t *Terminal) Close() error {
	if err := term.Restore(int(t.tty.Fd()), t.prev); err != nil {
		t.tty.Close()
		return fmt.Errorf("restoring terminal state: %w", err)
	}
	return t.tty.Close()
}
