// Package scraper renders a product page, reduces the HTML to the fragments
// worth sending to a model, and extracts dimension candidates and image URLs
// from the reduced markup.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/previewar/product-image-selector/internal/browser"
	"github.com/previewar/product-image-selector/internal/config"
	"github.com/previewar/product-image-selector/internal/llm"
	"github.com/previewar/product-image-selector/internal/models"
	"github.com/previewar/product-image-selector/internal/reducer"
)

const extractionPrompt = `You are a precise information extraction model. Extract product DIMENSIONS and IMAGE URLS from raw product-page HTML.

# INPUT
The HTML of the product page:
<HTML>
%s
</HTML>

# TASK
1) Find the product's physical dimensions anywhere in the HTML (bullets, specs tables, description blocks, etc.).
2) Collect ALL product image URLs (primary + gallery). Prefer full-resolution URLs.

# HOW TO EXTRACT
- Consider common dimension locations:
  - Tech details/spec tables (e.g., "Product Dimensions", "Item Dimensions LxWxH")
  - Bullets and description blocks
  - Image blocks (e.g., image gallery JSON, "data-old-hires", "hiRes", "mainImageUrl")
- Dimension patterns to look for (examples):
  - "Dimensions: 12.5 x 8 x 3 inches"
  - "Item Dimensions LxWxH: 10 x 5 x 2 in"
  - "Height: 15 cm", "Width: 8.2 in", "Length: 20 cm"
- If units are in cm/mm, convert to inches (1 inch = 2.54 cm; 10 mm = 1 cm).
- Do NOT return CSS selectors. Return actual values and absolute image URLs.
- Deduplicate image URLs.

# IMAGE URL RULES
- Prefer highest-resolution URLs available.
- If URLs are relative, resolve against the page origin (if unknown, return as-is).
- Include ALL product images in the list; order with primary first if identifiable.

# OUTPUT FORMAT (STRICT)
Return ONLY a single JSON object. No prose, no markdown, no explanations.

{
  "potential_dimension_values": [<string>, ...],
  "image_urls": [<string>, ...]
}

# CONVERSION & VALIDATION
- Normalize units to inches in the strings above (e.g., "31.8 cm" -> "12.52 in").
- If you can only partially infer, fill what you can and set the rest to null.
- The JSON must be valid and parseable. No trailing commas. No comments in the JSON.`

type Scraper struct {
	browser *browser.Browser
	llm     *llm.Client
	cfg     config.ScraperConfig
	logger  *slog.Logger
}

func New(b *browser.Browser, client *llm.Client, cfg config.ScraperConfig) *Scraper {
	return &Scraper{
		browser: b,
		llm:     client,
		cfg:     cfg,
		logger:  slog.Default().With("component", "scraper"),
	}
}

// Scrape renders url, reduces the HTML, and extracts the scrape payload.
// runID names the diagnostic dumps so concurrent runs never clobber each
// other. A malformed extraction response yields an empty payload, not an
// error; only navigation failures are fatal.
func (s *Scraper) Scrape(ctx context.Context, url, company, runID string) (models.ScrapePayload, error) {
	page, err := s.browser.NewPage()
	if err != nil {
		return models.ScrapePayload{}, fmt.Errorf("create page: %v: %w", err, models.ErrBrowser)
	}
	defer page.Close()

	html, err := s.browser.RenderPage(ctx, page, url, browser.RenderOptions{
		Company:         company,
		DOMReadyTimeout: s.cfg.DOMReadyTimeout,
		SettleDelay:     s.cfg.SettleDelay,
		NavRetries:      s.cfg.NavRetries,
	})
	if err != nil {
		return models.ScrapePayload{}, err
	}

	s.writeDump(runID+".html", html)

	reduced := reducer.Reduce(html, reducer.Options{
		IncludeListItems: strings.Contains(strings.ToLower(company), "ikea"),
	})
	s.writeDump(runID+"_reduced.html", reduced)

	s.logger.Info("reduced page HTML", "url", url, "rawBytes", len(html), "reducedBytes", len(reduced))

	return s.extract(ctx, reduced), nil
}

// extract asks the model for dimension strings and image URLs. Non-JSON
// output is recovered as an empty payload.
func (s *Scraper) extract(ctx context.Context, reducedHTML string) models.ScrapePayload {
	content, err := s.llm.Complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(extractionPrompt, reducedHTML)},
	})
	if err != nil {
		s.logger.Warn("extraction model call failed, continuing with empty payload", "error", err)
		return models.ScrapePayload{}
	}

	var payload models.ScrapePayload
	if !llm.DecodeObject(content, &payload) {
		s.logger.Warn("extraction response was not valid JSON, continuing with empty payload")
		return models.ScrapePayload{}
	}

	return payload
}

func (s *Scraper) writeDump(name, content string) {
	path := filepath.Join(s.cfg.OutputDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		s.logger.Warn("failed to write HTML dump", "path", path, "error", err)
	}
}
