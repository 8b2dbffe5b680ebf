package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/previewar/product-image-selector/internal/models"
)

type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	logger  *slog.Logger
}

type Options struct {
	Headless       bool
	Timeout        time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	TimezoneID     string
	Locale         string
	ProxyServer    string
	ExtraHeaders   map[string]string
}

func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		Timeout:        30 * time.Second,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		ViewportWidth:  1280,
		ViewportHeight: 1024,
		AcceptLanguage: "en-US,en;q=0.9",
		TimezoneID:     "America/New_York",
		Locale:         "en-US",
		ExtraHeaders: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Encoding": "gzip, deflate, br",
			"DNT":             "1",
		},
	}
}

func New(opts *Options) (*Browser, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-gpu",
			fmt.Sprintf("--window-size=%d,%d", opts.ViewportWidth, opts.ViewportHeight),
			"--user-agent=" + opts.UserAgent,
		},
	}

	if opts.ProxyServer != "" {
		launchOpts.Proxy = &playwright.Proxy{
			Server: opts.ProxyServer,
		}
	}

	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		UserAgent:         &opts.UserAgent,
		AcceptDownloads:   playwright.Bool(false),
		JavaScriptEnabled: playwright.Bool(true),
		Locale:            &opts.Locale,
		TimezoneId:        &opts.TimezoneID,
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
		ExtraHttpHeaders: opts.ExtraHeaders,
	}

	browserCtx, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	return &Browser{
		pw:      pw,
		browser: browser,
		context: browserCtx,
		logger:  slog.Default().With("component", "browser"),
	}, nil
}

func (b *Browser) NewPage() (playwright.Page, error) {
	page, err := b.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create new page: %w", err)
	}

	page.SetDefaultTimeout(float64(DefaultOptions().Timeout.Milliseconds()))

	return page, nil
}

func (b *Browser) Close() error {
	var errs []error

	if b.context != nil {
		if err := b.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
	}

	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}

	return nil
}

// RenderOptions control a single RenderPage call.
type RenderOptions struct {
	// Company is the retailer hint. Amazon triggers interstitial handling,
	// Wayfair triggers a press-and-hold attempt.
	Company         string
	DOMReadyTimeout time.Duration
	SettleDelay     time.Duration
	NavRetries      int
}

// RenderPage navigates to url and returns the fully rendered HTML. The DOM
// readiness wait is bounded and best-effort: on timeout the page content is
// captured anyway. Interstitial handling failures are logged, never fatal.
func (b *Browser) RenderPage(ctx context.Context, page playwright.Page, url string, opts RenderOptions) (string, error) {
	if opts.NavRetries < 1 {
		opts.NavRetries = 1
	}

	if err := b.NavigateWithRetry(page, url, opts.NavRetries); err != nil {
		return "", fmt.Errorf("navigate %s: %v: %w", url, err, models.ErrBrowser)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	b.waitForDOMReady(page, opts.DOMReadyTimeout)

	company := strings.ToLower(strings.TrimSpace(opts.Company))
	switch {
	case company == "amazon":
		if b.ResolveInterstitial(page) {
			b.logger.Info("interstitial resolved", "url", url)
		} else {
			b.logger.Warn("interstitial not resolved, proceeding with available content", "url", url)
		}
	case strings.Contains(company, "wayfair"):
		if b.PressAndHold(page, 4*time.Second) {
			b.logger.Info("press-and-hold verification completed", "url", url)
		}
	}

	if opts.SettleDelay > 0 {
		time.Sleep(opts.SettleDelay)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("capture page content: %v: %w", err, models.ErrBrowser)
	}

	return content, nil
}

func (b *Browser) NavigateWithRetry(page playwright.Page, url string, maxRetries int) error {
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			b.logger.Info("retrying navigation", "attempt", i+1, "url", url)
			time.Sleep(time.Duration(i+1) * time.Second)
		}

		_, err := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(30000),
		})

		if err == nil {
			return nil
		}

		lastErr = err
		b.logger.Error("navigation failed", "error", err, "attempt", i+1)
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

// waitForDOMReady polls document.readyState until complete or the deadline
// passes. Rendering is best-effort, so a timeout only logs.
func (b *Browser) waitForDOMReady(page playwright.Page, timeout time.Duration) {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		state, err := page.Evaluate(`document.readyState`)
		if err == nil {
			if s, ok := state.(string); ok && s == "complete" {
				return
			}
		}
		time.Sleep(250 * time.Millisecond)
	}

	b.logger.Warn("document did not reach readyState complete, proceeding", "timeout", timeout)
}
