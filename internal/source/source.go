// Package source loads the document an extraction cycle runs against: a saved
// page on disk, standard input, or the focused tab of a running browser.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"pokeflix/internal/page"
)

// ErrNoDocumentAccess wraps every failure to reach the page.
var ErrNoDocumentAccess = errors.New("no document access")

// Source hands the active document to an extraction cycle.
type Source interface {
	// Load returns a fresh snapshot of the document.
	Load(ctx context.Context) (page.Document, error)

	// Name describes the source for logs and status lines.
	Name() string
}

// FromArg picks a source for a command-line argument: "-" reads stdin,
// "" or "browser" attaches to the browser at browserURL, and anything else
// is a path to a saved HTML page.
func FromArg(arg, browserURL string) Source {
	switch arg {
	case "", "browser":
		return NewBrowser(browserURL)
	case "-":
		return NewReader(os.Stdin, "stdin")
	default:
		return &File{Path: arg}
	}
}

// File reads a saved HTML page. The file is re-read on every Load.
type File struct {
	Path string
}

func (f *File) Name() string { return f.Path }

func (f *File) Load(ctx context.Context) (page.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDocumentAccess, err)
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDocumentAccess, err)
	}
	defer fh.Close()

	doc, err := page.Parse(io.LimitReader(fh, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoDocumentAccess, f.Path, err)
	}
	return doc, nil
}

// maxDocumentSize bounds how much of a page is read.
const maxDocumentSize = 32 * 1024 * 1024

// Reader serves a document read once from r. Later loads re-parse the same
// bytes, so every cycle sees an identical snapshot.
type Reader struct {
	name string

	once sync.Once
	r    io.Reader
	data []byte
	err  error
}

// NewReader creates a Reader source over r.
func NewReader(r io.Reader, name string) *Reader {
	return &Reader{r: r, name: name}
}

func (r *Reader) Name() string { return r.name }

func (r *Reader) Load(ctx context.Context) (page.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDocumentAccess, err)
	}
	r.once.Do(func() {
		r.data, r.err = io.ReadAll(io.LimitReader(r.r, maxDocumentSize))
	})
	if r.err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrNoDocumentAccess, r.name, r.err)
	}

	doc, err := page.Parse(bytes.NewReader(r.data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoDocumentAccess, r.name, err)
	}
	return doc, nil
}
