package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// FrameLoader loads the embedded-frame viewer page and reports the size the
// surface ended up with.
type FrameLoader interface {
	Load(ctx context.Context, url string, frame Size) (Size, error)
}

// HTTPFrameLoader probes the viewer page with a GET. The surface takes the
// full frame it is given, so a successful load reports that size.
type HTTPFrameLoader struct {
	Client *http.Client
}

// Load implements FrameLoader.
func (l *HTTPFrameLoader) Load(ctx context.Context, url string, frame Size) (Size, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Size{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Size{}, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Size{}, fmt.Errorf("viewer page returned %d", resp.StatusCode)
	}
	return frame, nil
}

// PlaywrightFrameLoader renders the viewer page in headless Chromium and
// reads the laid-out document size.
type PlaywrightFrameLoader struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	initialized bool
}

// NewPlaywrightFrameLoader creates a loader. Playwright is installed and
// started on the first Load.
func NewPlaywrightFrameLoader() *PlaywrightFrameLoader {
	return &PlaywrightFrameLoader{}
}

func (l *PlaywrightFrameLoader) initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initialized {
		return nil
	}

	// output would corrupt the terminal UI
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	l.pw = pw
	l.initialized = true
	return nil
}

// Load implements FrameLoader.
func (l *PlaywrightFrameLoader) Load(ctx context.Context, url string, frame Size) (Size, error) {
	if err := l.initialize(); err != nil {
		return Size{}, err
	}

	timeout := 30 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	browser, err := l.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return Size{}, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer browser.Close()

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: frame.Width, Height: frame.Height},
	})
	if err != nil {
		return Size{}, fmt.Errorf("failed to create context: %w", err)
	}
	defer bctx.Close()

	page, err := bctx.NewPage()
	if err != nil {
		return Size{}, fmt.Errorf("failed to create page: %w", err)
	}

	waitUntil := playwright.WaitUntilState("load")
	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: &waitUntil,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	}); err != nil {
		return Size{}, fmt.Errorf("failed to load viewer: %w", err)
	}

	raw, err := page.Evaluate(`() => [document.documentElement.clientWidth, document.documentElement.clientHeight]`)
	if err != nil {
		return Size{}, fmt.Errorf("failed to measure viewer: %w", err)
	}
	return sizeFromEvaluate(raw, frame), nil
}

// Close stops the playwright driver.
func (l *PlaywrightFrameLoader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.initialized {
		return nil
	}
	l.initialized = false
	return l.pw.Stop()
}

func sizeFromEvaluate(raw interface{}, fallback Size) Size {
	pair, ok := raw.([]interface{})
	if !ok || len(pair) != 2 {
		return fallback
	}
	w, okW := toInt(pair[0])
	h, okH := toInt(pair[1])
	if !okW || !okH {
		return fallback
	}
	return Size{Width: w, Height: h}
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
