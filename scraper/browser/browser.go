// Package browser renders JavaScript-heavy listing pages in headless Chrome.
package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"travel-scraper/scraper"
	"travel-scraper/utils"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Requests for these never reach the network.
var blockedURLPatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.svg", "*.ico",
	"*.css",
	"*.woff", "*.woff2", "*.ttf", "*.otf",
	"*.mp4", "*.webm", "*.mp3", "*.m3u8",
}

// Options configures a browser session.
type Options struct {
	ChromeBin         string
	UserAgent         string
	NavigationTimeout time.Duration
	// WaitSelector is awaited for at most WaitTimeout after navigation. Not
	// finding it is not an error; extraction decides what the page holds.
	WaitSelector string
	WaitTimeout  time.Duration
	SettleDelay  time.Duration
	Logger       *utils.Logger
}

// Session is a running headless browser. Each Render opens a fresh tab.
type Session struct {
	opts          Options
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	closeOnce     sync.Once
}

// NewOpener returns a scraper.Opener that launches a browser with opts.
func NewOpener(opts Options) scraper.Opener {
	return func(ctx context.Context) (scraper.Session, error) {
		return Open(ctx, opts)
	}
}

// Open launches Chrome. The browser lives until Close or until ctx ends.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 30 * time.Second
	}

	chromeBin := opts.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	opts.Logger.Debug("[browser] Using browser binary: %q", chromeBin)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent(opts.UserAgent),
	)
	if chromeBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// An empty Run starts the browser so launch failures surface here.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("browser: launch: %w", err)
	}

	return &Session{
		opts:          opts,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}, nil
}

// Render navigates a new tab to pageURL with heavy resources blocked, waits
// for the page to settle and returns the document's outer HTML.
func (s *Session) Render(ctx context.Context, pageURL string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var html string
	err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetBlockedURLS(blockedURLPatterns),
		chromedp.ActionFunc(func(ctx context.Context) error {
			navCtx, cancel := context.WithTimeout(ctx, s.opts.NavigationTimeout)
			defer cancel()
			return chromedp.Navigate(pageURL).Do(navCtx)
		}),
		chromedp.ActionFunc(s.waitForListing),
		chromedp.Sleep(s.opts.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("browser: render %s: %w", pageURL, err)
	}
	return html, nil
}

func (s *Session) waitForListing(ctx context.Context) error {
	if s.opts.WaitSelector == "" || s.opts.WaitTimeout <= 0 {
		return nil
	}
	waitCtx, cancel := context.WithTimeout(ctx, s.opts.WaitTimeout)
	defer cancel()
	if err := chromedp.WaitReady(s.opts.WaitSelector, chromedp.ByQuery).Do(waitCtx); err != nil {
		s.opts.Logger.Warn("[browser] %q not found within %v, reading page anyway",
			s.opts.WaitSelector, s.opts.WaitTimeout)
	}
	return nil
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancelBrowser()
		s.cancelAlloc()
	})
	return nil
}

// findChromeBinary locates a Chrome or Chromium executable. An empty result
// lets chromedp fall back to its own search.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
