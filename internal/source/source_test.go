package source

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-rod/rod"
)

func TestFromArg(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"", "*source.Browser"},
		{"browser", "*source.Browser"},
		{"-", "*source.Reader"},
		{"page.html", "*source.File"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			src := FromArg(tt.arg, "")
			var got string
			switch src.(type) {
			case *Browser:
				got = "*source.Browser"
			case *Reader:
				got = "*source.Reader"
			case *File:
				got = "*source.File"
			}
			if got != tt.want {
				t.Errorf("FromArg(%q) = %T, want %s", tt.arg, src, tt.want)
			}
		})
	}
}

func TestNewBrowserDefaultURL(t *testing.T) {
	b := NewBrowser("")
	if b.Name() != "browser "+DefaultBrowserURL {
		t.Errorf("Name() = %q", b.Name())
	}
}

func TestFileLoad(t *testing.T) {
	src := &File{Path: filepath.Join("testdata", "episode.html")}

	doc, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, ok := doc.Root().FindFirst("div.page-header > h2"); !ok {
		t.Error("loaded document is missing the header")
	}
}

func TestFileLoadMissing(t *testing.T) {
	src := &File{Path: filepath.Join(t.TempDir(), "missing.html")}

	_, err := src.Load(context.Background())
	if !errors.Is(err, ErrNoDocumentAccess) {
		t.Errorf("Load() error = %v, want ErrNoDocumentAccess", err)
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sources := []Source{
		&File{Path: filepath.Join("testdata", "episode.html")},
		NewReader(strings.NewReader("<p>x</p>"), "test"),
	}
	for _, src := range sources {
		if _, err := src.Load(ctx); !errors.Is(err, ErrNoDocumentAccess) {
			t.Errorf("%s: Load() error = %v, want ErrNoDocumentAccess", src.Name(), err)
		}
	}
}

func TestReaderServesSameSnapshot(t *testing.T) {
	src := NewReader(strings.NewReader(`<script>"https://a.example.com/playlist.m3u8"</script>`), "stdin")

	for i := 0; i < 2; i++ {
		doc, err := src.Load(context.Background())
		if err != nil {
			t.Fatalf("Load() #%d error: %v", i, err)
		}
		scripts := doc.Scripts()
		if len(scripts) != 1 {
			t.Fatalf("Load() #%d: got %d scripts, want 1", i, len(scripts))
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestReaderError(t *testing.T) {
	src := NewReader(failingReader{}, "broken")

	_, err := src.Load(context.Background())
	if !errors.Is(err, ErrNoDocumentAccess) {
		t.Errorf("Load() error = %v, want ErrNoDocumentAccess", err)
	}
}

type closeCounter struct{ n int }

func (c *closeCounter) Close() error {
	c.n++
	return nil
}

func TestBrowserResetClosesConnection(t *testing.T) {
	conn := &closeCounter{}
	b := NewBrowser("")
	b.browser = rod.New()
	b.conn = conn

	b.reset()
	if conn.n != 1 {
		t.Errorf("Close() called %d times, want 1", conn.n)
	}
	if b.browser != nil || b.conn != nil {
		t.Error("reset() kept the stale connection")
	}

	b.reset()
	if conn.n != 1 {
		t.Errorf("second reset() closed again: %d", conn.n)
	}
}
