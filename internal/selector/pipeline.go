// Package selector orchestrates the full image-selection pipeline: identify
// the retailer and product, scrape the page, resolve dimensions, expand
// product-name aliases, and rank the candidate images.
package selector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/previewar/product-image-selector/internal/identify"
	"github.com/previewar/product-image-selector/internal/llm"
	"github.com/previewar/product-image-selector/internal/models"
	"github.com/previewar/product-image-selector/internal/scraper"
)

type Pipeline struct {
	identifier *identify.Identifier
	scraper    *scraper.Scraper
	llm        *llm.Client
	logger     *slog.Logger
}

func NewPipeline(identifier *identify.Identifier, s *scraper.Scraper, client *llm.Client) *Pipeline {
	return &Pipeline{
		identifier: identifier,
		scraper:    s,
		llm:        client,
		logger:     slog.Default().With("component", "selector"),
	}
}

type RunOptions struct {
	// MaxImages caps the normalized candidate set; zero means no cap.
	MaxImages int
	// PrintScrape emits the raw scrape payload to stderr for diagnosis.
	PrintScrape bool
}

// Run processes one product URL start to finish and returns the result
// record plus the seed extraction it was built from. Every stage consumes
// only prior stages' outputs; an empty image list or a failed model response
// degrades the affected slot instead of failing the run.
func (p *Pipeline) Run(ctx context.Context, url string, opts RunOptions) (*models.Result, models.ExtractionResult, error) {
	runID := uuid.New().String()
	p.logger.Info("starting pipeline run", "runID", runID, "url", url)

	info, err := p.identifier.Extract(ctx, url)
	if err != nil {
		return nil, models.ExtractionResult{}, fmt.Errorf("identify product: %w", err)
	}
	p.logger.Info("identified product", "company", info.CompanyName, "seedNames", info.ProductNames)

	payload, err := p.scraper.Scrape(ctx, url, info.CompanyName, runID)
	if err != nil {
		return nil, info, fmt.Errorf("scrape page: %w", err)
	}

	if opts.PrintScrape {
		if raw, err := json.MarshalIndent(payload, "", "  "); err == nil {
			fmt.Fprintf(os.Stderr, "=== RAW SCRAPE PAYLOAD ===\n%s\n", raw)
		}
	}

	images := NormalizeImageURLs(payload.ImageURLs, opts.MaxImages)
	dims := p.ResolveDimensions(ctx, payload.PotentialDimensionValues)
	names := p.ExpandAliases(ctx, info.ProductNames)
	ranking := p.RankImages(ctx, images, names, dims)

	result := &models.Result{
		RunID:        runID,
		URL:          url,
		CompanyName:  info.CompanyName,
		ProductNames: names,
		Dimensions:   dims,
		AllImageURLs: images,
		BestImage: models.BestImage{
			ImageURL:  ranking.BestImageURL,
			Reasoning: ranking.Reasoning,
		},
		Scores: ranking.Scores,
	}

	p.logger.Info("pipeline run complete", "runID", runID,
		"imageCount", len(images), "hasBestImage", ranking.BestImageURL != nil)

	return result, info, nil
}
