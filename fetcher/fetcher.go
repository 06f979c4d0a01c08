// Package fetcher retrieves wiki pages over HTTP, with an optional headless
// browser for pages that only render with JavaScript.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the page address prefix an id is appended to.
const DefaultBaseURL = "https://scp-wiki.wikidot.com/scp-"

// FetchResult contains the fetched HTML and metadata.
type FetchResult struct {
	HTML        string
	FinalURL    string // URL after following redirects
	UsedBrowser bool
	FetchTime   time.Duration
}

// ErrFetch matches every *FetchError.
var ErrFetch = errors.New("fetch failed")

// FetchError reports a page that could not be retrieved. Status is zero
// when no response arrived.
type FetchError struct {
	URL    string
	Status int
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("fetching %s: status %d", e.URL, e.Status)
	case e.Reason != "":
		return fmt.Sprintf("fetching %s: %s", e.URL, e.Reason)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// Options configures the fetcher behavior.
type Options struct {
	BaseURL        string
	UserAgent      string
	TimeoutSeconds int
	UseBrowser     bool
	ChromePath     string // Path to Chrome binary (empty = auto-detect)
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		BaseURL:        DefaultBaseURL,
		UserAgent:      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		TimeoutSeconds: 30,
	}
}

// Package-level options (set via Configure)
var opts = DefaultOptions()

// Configure sets the package-level options. Zero values keep the current
// setting, except ChromePath and UseBrowser which are always taken.
func Configure(o Options) {
	if o.BaseURL != "" {
		opts.BaseURL = o.BaseURL
	}
	if o.UserAgent != "" {
		opts.UserAgent = o.UserAgent
	}
	if o.TimeoutSeconds > 0 {
		opts.TimeoutSeconds = o.TimeoutSeconds
	}
	opts.UseBrowser = o.UseBrowser
	opts.ChromePath = o.ChromePath
}

// UserAgent returns the currently configured user agent string.
func UserAgent() string {
	return opts.UserAgent
}

// Timeout returns the currently configured timeout duration.
func Timeout() time.Duration {
	return time.Duration(opts.TimeoutSeconds) * time.Second
}

// UsesBrowser reports whether Fetch goes through headless Chrome.
func UsesBrowser() bool {
	return opts.UseBrowser
}

// PageURL returns the address of page id under base. An empty base means
// the configured one.
func PageURL(base, id string) string {
	if base == "" {
		base = opts.BaseURL
	}
	return base + id
}

// Fetch retrieves url with the configured method.
func Fetch(ctx context.Context, url string) (*FetchResult, error) {
	if opts.UseBrowser {
		return WithBrowser(ctx, url)
	}
	result, err := Simple(ctx, url)
	if err != nil {
		return nil, err
	}
	if blocked, reason := IsBlockedResponse(result.HTML); blocked {
		return nil, &FetchError{URL: url, Reason: "blocked by " + reason + " (try --browser)"}
	}
	return result, nil
}

// Simple fetches a URL using standard HTTP (fast, low bandwidth).
func Simple(ctx context.Context, url string) (*FetchResult, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	client := &http.Client{Timeout: Timeout()}
	log.Debug().Str("url", url).Dur("timeout", client.Timeout).Msg("fetching page")
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	result := &FetchResult{
		HTML:      string(body),
		FinalURL:  resp.Request.URL.String(),
		FetchTime: time.Since(start),
	}
	log.Debug().
		Str("url", result.FinalURL).
		Int("bytes", len(body)).
		Dur("took", result.FetchTime).
		Msg("page fetched")
	return result, nil
}

// userDataDir returns a persistent directory for Chrome user data so
// cookies survive between fetches.
func userDataDir() string {
	dir, _ := os.UserCacheDir()
	return filepath.Join(dir, "scpterm-chrome-profile")
}

// stealthScript hides the most common automation markers.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
window.chrome = { runtime: {} };
`

// WithBrowser fetches a URL using headless Chrome to execute JavaScript.
func WithBrowser(ctx context.Context, targetURL string) (*FetchResult, error) {
	start := time.Now()

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("headless", "new"),
		chromedp.UserAgent(opts.UserAgent),
		chromedp.WindowSize(1280, 1024),
		chromedp.UserDataDir(userDataDir()),
	}
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	// Browser start-up eats into the budget, so it gets extra time.
	timeout := Timeout() + 15*time.Second
	bctx, cancel := context.WithTimeout(allocCtx, timeout)
	defer cancel()

	bctx, cancel = chromedp.NewContext(bctx)
	defer cancel()

	log.Debug().Str("url", targetURL).Str("chrome", opts.ChromePath).Msg("fetching page with browser")

	var html, finalURL string
	err := chromedp.Run(bctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
		network.SetExtraHTTPHeaders(network.Headers(map[string]interface{}{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		})),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("#page-content", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return nil, &FetchError{URL: targetURL, Err: fmt.Errorf("browser fetch: %w", err)}
	}

	return &FetchResult{
		HTML:        html,
		FinalURL:    finalURL,
		UsedBrowser: true,
		FetchTime:   time.Since(start),
	}, nil
}

// IsBlockedResponse reports whether html is a bot-protection challenge
// rather than the page itself.
func IsBlockedResponse(html string) (bool, string) {
	switch {
	case strings.Contains(html, "Just a moment..."),
		strings.Contains(html, "Checking your browser"),
		strings.Contains(html, "cf-browser-verification"):
		return true, "Cloudflare challenge"
	case strings.Contains(html, "captcha-delivery.com"):
		return true, "DataDome bot protection"
	}
	return false, ""
}
