// Package clipboard writes the combined string to wherever the user can paste
// it from: the system clipboard, the terminal via OSC 52, or plain stdout.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	sysclip "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// ErrWriteFailed wraps every failed clipboard write.
var ErrWriteFailed = errors.New("clipboard write failed")

// Writer places text on a clipboard.
type Writer interface {
	Write(ctx context.Context, text string) error
	Name() string
}

// Backends lists the accepted backend names.
var Backends = []string{"auto", "system", "osc52", "stdout"}

// New returns the writer for backend. "auto" prefers the system clipboard,
// then OSC 52 when tty is a terminal, then out.
func New(backend string, tty *os.File, out io.Writer) (Writer, error) {
	switch strings.ToLower(backend) {
	case "auto", "":
		if !sysclip.Unsupported {
			return System{}, nil
		}
		if tty != nil && term.IsTerminal(int(tty.Fd())) {
			return &OSC52{Out: tty}, nil
		}
		return &Stdout{Out: out}, nil
	case "system":
		if sysclip.Unsupported {
			return nil, fmt.Errorf("system clipboard unsupported: install xclip, xsel or wl-clipboard")
		}
		return System{}, nil
	case "osc52":
		if tty == nil {
			return &OSC52{}, nil
		}
		return &OSC52{Out: tty}, nil
	case "stdout":
		return &Stdout{Out: out}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q (valid: %s)", backend, strings.Join(Backends, ", "))
	}
}

// System uses the platform clipboard (pbcopy, xclip/xsel, wl-copy, Win32).
type System struct{}

func (System) Name() string { return "system" }

func (System) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if err := sysclip.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// OSC52 asks the terminal emulator to set the clipboard. It works over SSH
// but the terminal gives no confirmation, so success only means the escape
// sequence was written.
type OSC52 struct {
	Out io.Writer
}

func (o *OSC52) Name() string { return "osc52" }

func (o *OSC52) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if o.Out == nil {
		return fmt.Errorf("%w: no terminal", ErrWriteFailed)
	}

	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(os.Getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(o.Out); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Stdout prints the text on its own line, for piping into other tools.
type Stdout struct {
	Out io.Writer
}

func (s *Stdout) Name() string { return "stdout" }

func (s *Stdout) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if _, err := fmt.Fprintln(s.Out, text); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Read returns the current system clipboard contents.
func Read() (string, error) {
	if sysclip.Unsupported {
		return "", fmt.Errorf("system clipboard unsupported")
	}
	text, err := sysclip.ReadAll()
	if err != nil {
		return "", fmt.Errorf("reading clipboard: %w", err)
	}
	return text, nil
}
