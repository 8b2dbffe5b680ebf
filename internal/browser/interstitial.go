package browser

import (
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Selectors that only exist on a real product page. Finding any of them
// means the interstitial is absent.
var contentIndicators = []string{
	"#productTitle",
	"#landingImage",
	"#productDetails_techSpec_section_1",
	"#add-to-cart-button",
	"[data-asin]",
}

// Safeguard button patterns in priority order; first visible match wins.
var safeguardSelectors = []string{
	`button:has-text("Continue shopping")`,
	`button:has-text("Show me the product")`,
	`button:has-text("Proceed")`,
	`button:has-text("Continue")`,
	`button:has-text("Try a different image")`,
	`a:has-text("Continue shopping")`,
	`a:has-text("Show me the product")`,
	`input[type="submit"][value*="Continue"]`,
	`button[id*="captcha"]`,
	`button[class*="captcha"]`,
	`button[id*="verify"]`,
	`button[class*="verify"]`,
	`#continue-button`,
	`#continue`,
	`.a-button-primary`,
	`button[data-action="continue"]`,
	`button[aria-label*="Continue"]`,
	`form button[type="submit"]`,
	`form input[type="submit"]`,
}

// ResolveInterstitial detects and dismisses a bot-verification screen shown
// before the product page. It reports whether the underlying content page is
// reachable. The interstitial UI is adversarial and unstable, so every
// failure mode collapses to false rather than an error.
func (b *Browser) ResolveInterstitial(page playwright.Page) bool {
	time.Sleep(2 * time.Second)

	if b.contentVisible(page) {
		b.logger.Debug("already on product page, no interstitial")
		return true
	}

	target := b.findSafeguardButton(page)
	if target == nil {
		b.logger.Debug("no safeguard button found")
		// One more look: the page may have finished loading meanwhile.
		return b.contentVisible(page)
	}

	if err := target.ScrollIntoViewIfNeeded(); err != nil {
		b.logger.Debug("scroll into view failed", "error", err)
	}
	time.Sleep(500 * time.Millisecond)

	if err := target.Click(); err != nil {
		b.logger.Debug("native click failed, trying scripted click", "error", err)
		if _, err := target.Evaluate(`el => el.click()`, nil); err != nil {
			b.logger.Warn("scripted click failed", "error", err)
			return false
		}
	}

	time.Sleep(3 * time.Second)

	if b.waitForContent(page, 10*time.Second) {
		return true
	}

	// URL shape is a weaker but acceptable signal of the product page.
	url := page.URL()
	if strings.Contains(url, "amazon.com/dp/") || strings.Contains(url, "amazon.com/product/") {
		b.logger.Debug("URL suggests product page", "url", url)
		return true
	}

	return false
}

// findSafeguardButton searches the priority list on the main document
// first, then inside each frame.
func (b *Browser) findSafeguardButton(page playwright.Page) playwright.Locator {
	for _, selector := range safeguardSelectors {
		if loc := usableLocator(page.Locator(selector).First()); loc != nil {
			b.logger.Info("found safeguard button", "selector", selector)
			return loc
		}
	}

	for _, frame := range page.Frames() {
		for _, selector := range safeguardSelectors {
			if loc := usableLocator(frame.Locator(selector).First()); loc != nil {
				b.logger.Info("found safeguard button in frame", "selector", selector, "frame", frame.URL())
				return loc
			}
		}
	}

	return nil
}

func usableLocator(loc playwright.Locator) playwright.Locator {
	count, err := loc.Count()
	if err != nil || count == 0 {
		return nil
	}

	visible, err := loc.IsVisible()
	if err != nil || !visible {
		return nil
	}

	enabled, err := loc.IsEnabled()
	if err != nil || !enabled {
		return nil
	}

	return loc
}

func (b *Browser) contentVisible(page playwright.Page) bool {
	for _, indicator := range contentIndicators {
		count, err := page.Locator(indicator).Count()
		if err == nil && count > 0 {
			b.logger.Debug("content indicator present", "selector", indicator)
			return true
		}
	}
	return false
}

func (b *Browser) waitForContent(page playwright.Page, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if b.contentVisible(page) {
			return true
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}
