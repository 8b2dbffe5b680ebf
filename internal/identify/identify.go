// Package identify resolves a product URL to the retailer hosting it and a
// set of seed product names, using a model call enriched with a best-effort
// page-title probe and a domain-derived brand hint.
package identify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	openai "github.com/sashabaranov/go-openai"

	"github.com/previewar/product-image-selector/internal/llm"
	"github.com/previewar/product-image-selector/internal/models"
)

const instructions = "Identify the e-commerce company/retailer hosting this product page " +
	"and the names for the product being sold on the url page. " +
	"For example, names can be: sectional, couch, table, bed, chair, lamp, etc. " +
	`Output the information in the following JSON format: {"company_name": str, "product_name": list of str}`

type Identifier struct {
	llm    *llm.Client
	http   *http.Client
	logger *slog.Logger
}

func New(client *llm.Client) *Identifier {
	return &Identifier{
		llm: client,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: slog.Default().With("component", "identify"),
	}
}

// Extract identifies the retailer and product names for rawURL. The result
// shape is validated strictly: a non-object response or missing required
// fields is a fatal upstream error.
func (i *Identifier) Extract(ctx context.Context, rawURL string) (models.ExtractionResult, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return models.ExtractionResult{}, fmt.Errorf("parse url %q: %v: %w", rawURL, err, models.ErrUpstreamShape)
	}

	userContext := map[string]string{
		"url":                    rawURL,
		"hostname":               parsed.Hostname(),
		"brand_hint_from_domain": brandFromDomain(parsed.Hostname()),
		"page_title":             i.fetchTitle(ctx, rawURL),
		"instructions":           instructions,
	}
	contextJSON, _ := json.Marshal(userContext)

	content, err := i.llm.Complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: string(contextJSON)},
	})
	if err != nil {
		return models.ExtractionResult{}, fmt.Errorf("identify %s: %w", rawURL, err)
	}

	return parseExtraction(content)
}

func parseExtraction(content string) (models.ExtractionResult, error) {
	var raw map[string]any
	if !llm.DecodeObject(content, &raw) {
		return models.ExtractionResult{}, fmt.Errorf("identification response is not a JSON object: %w", models.ErrUpstreamShape)
	}

	companyRaw, ok := raw["company_name"]
	if !ok {
		return models.ExtractionResult{}, fmt.Errorf("identification response missing company_name: %w", models.ErrUpstreamShape)
	}
	company, ok := companyRaw.(string)
	if !ok {
		return models.ExtractionResult{}, fmt.Errorf("company_name is not a string: %w", models.ErrUpstreamShape)
	}

	namesRaw, ok := raw["product_name"]
	if !ok {
		return models.ExtractionResult{}, fmt.Errorf("identification response missing product_name: %w", models.ErrUpstreamShape)
	}

	var names []string
	switch v := namesRaw.(type) {
	case string:
		names = []string{v}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				names = append(names, strings.TrimSpace(s))
			}
		}
	default:
		return models.ExtractionResult{}, fmt.Errorf("product_name is neither string nor list: %w", models.ErrUpstreamShape)
	}

	return models.ExtractionResult{
		CompanyName:  strings.TrimSpace(company),
		ProductNames: names,
	}, nil
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// fetchTitle grabs the page <title> over plain HTTP to boost model accuracy.
// Best-effort: any failure returns an empty string.
func (i *Identifier) fetchTitle(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := i.http.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	return whitespaceRe.ReplaceAllString(title, " ")
}

// A few retailer spellings the prettifier gets wrong.
var brandFixes = map[string]string{
	"Ikea":           "IKEA",
	"Ebay":           "eBay",
	"Bestbuy":        "Best Buy",
	"Crateandbarrel": "Crate & Barrel",
}

// brandFromDomain guesses the retailer from the registrable domain token.
// The model still decides; this is only a hint.
func brandFromDomain(hostname string) string {
	labels := strings.Split(strings.ToLower(hostname), ".")
	if len(labels) < 2 {
		return ""
	}

	domain := labels[len(labels)-2]
	// amazon.co.uk and friends
	if len(labels) >= 3 {
		switch domain {
		case "co", "com", "org", "net", "gov", "ac":
			domain = labels[len(labels)-3]
		}
	}
	if domain == "" {
		return ""
	}

	brand := strings.ReplaceAll(strings.ReplaceAll(domain, "-", " "), "_", " ")
	words := strings.Fields(brand)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	brand = strings.Join(words, " ")

	if fixed, ok := brandFixes[brand]; ok {
		return fixed
	}
	return brand
}
