package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/rs/zerolog/log"

	"pokeflix/internal/page"
)

// DefaultBrowserURL is where Chromium listens when started with
// --remote-debugging-port=9222.
const DefaultBrowserURL = "127.0.0.1:9222"

// tabTimeout bounds each DevTools call against a single tab.
const tabTimeout = 5 * time.Second

// focusScript reports whether a tab is the one the user is looking at.
const focusScript = `() => document.visibilityState === "visible" && document.hasFocus()`

// visibleScript is the weaker fallback when no tab holds focus.
const visibleScript = `() => document.visibilityState === "visible"`

// Browser snapshots the focused tab of a running Chromium over the DevTools
// protocol. It never navigates or opens tabs.
type Browser struct {
	controlURL string

	mu      sync.Mutex
	browser *rod.Browser
	conn    io.Closer // DevTools websocket behind browser
}

// NewBrowser creates a Browser source. controlURL may be a port, host:port,
// or a full ws:// DevTools URL; empty means DefaultBrowserURL.
func NewBrowser(controlURL string) *Browser {
	if controlURL == "" {
		controlURL = DefaultBrowserURL
	}
	return &Browser{controlURL: controlURL}
}

func (b *Browser) Name() string { return "browser " + b.controlURL }

func (b *Browser) Load(ctx context.Context) (page.Document, error) {
	br, err := b.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDocumentAccess, err)
	}

	p, err := activeTab(ctx, br)
	if err != nil {
		// The connection may have gone stale; reconnect on the next cycle.
		b.reset()
		return nil, fmt.Errorf("%w: %w", ErrNoDocumentAccess, err)
	}

	if info, err := p.Info(); err == nil {
		log.Debug().Str("url", info.URL).Str("title", info.Title).Msg("active tab")
	}

	raw, err := p.HTML()
	if err != nil {
		b.reset()
		return nil, fmt.Errorf("%w: reading tab HTML: %w", ErrNoDocumentAccess, err)
	}

	doc, err := page.ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDocumentAccess, err)
	}
	return doc, nil
}

func (b *Browser) connect(ctx context.Context) (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	wsURL, err := launcher.ResolveURL(b.controlURL)
	if err != nil {
		return nil, fmt.Errorf("resolving DevTools URL %q: %w", b.controlURL, err)
	}

	ws := &cdp.WebSocket{}
	if err := ws.Connect(ctx, wsURL, nil); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	br := rod.New().Client(cdp.New().Start(ws))
	if err := br.Connect(); err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	log.Debug().Str("url", wsURL).Msg("connected to browser")

	b.browser = br
	b.conn = ws
	return br, nil
}

// reset drops the connection so the next Load dials again. Only the
// websocket is closed; the user's browser keeps running.
func (b *Browser) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil {
		if err := b.conn.Close(); err != nil {
			log.Debug().Err(err).Msg("closing DevTools connection")
		}
	}
	b.browser = nil
	b.conn = nil
}

var errNoActiveTab = errors.New("no active tab")

// activeTab prefers the focused tab, then any visible one.
func activeTab(ctx context.Context, br *rod.Browser) (*rod.Page, error) {
	pages, err := br.Context(ctx).Pages()
	if err != nil {
		return nil, fmt.Errorf("listing tabs: %w", err)
	}
	if len(pages) == 0 {
		return nil, errNoActiveTab
	}

	var visible *rod.Page
	for _, p := range pages {
		focused, isVisible := tabState(ctx, p)
		if focused {
			return p, nil
		}
		if isVisible && visible == nil {
			visible = p
		}
	}
	if visible != nil {
		return visible, nil
	}
	return nil, errNoActiveTab
}

func tabState(ctx context.Context, p *rod.Page) (focused, visible bool) {
	tctx, cancel := context.WithTimeout(ctx, tabTimeout)
	defer cancel()

	tp := p.Context(tctx)
	if res, err := tp.Eval(focusScript); err == nil && res.Value.Bool() {
		return true, true
	}
	if res, err := tp.Eval(visibleScript); err == nil && res.Value.Bool() {
		return false, true
	}
	return false, false
}
