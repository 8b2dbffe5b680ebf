package models

// ExtractionResult identifies the retailer and the product on a page.
// Produced once per URL and immutable afterwards.
type ExtractionResult struct {
	CompanyName  string   `json:"company_name"`
	ProductNames []string `json:"product_names"`
}

// ScrapePayload is the raw output of the structured extractor. Image URLs
// may be duplicated, relative, or otherwise unusable until normalized.
type ScrapePayload struct {
	PotentialDimensionValues []string `json:"potential_dimension_values"`
	ImageURLs                []string `json:"image_urls"`
}

// Dimensions are product dimensions in inches. A nil field means the value
// could not be resolved from the scraped candidates.
type Dimensions struct {
	Length *float64 `json:"length"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

// ImageScore is the ranker's per-image judgement. Lower occlusion is better.
type ImageScore struct {
	OcclusionScore int    `json:"occlusion_score"`
	Notes          string `json:"notes"`
}

// RankingResult holds the ranker's choice. BestImageURL is nil when no image
// could be chosen; when non-nil it is always a member of the candidate set
// it was chosen from.
type RankingResult struct {
	BestImageURL *string               `json:"best_image_url"`
	Reasoning    string                `json:"reasoning"`
	Scores       map[string]ImageScore `json:"scores"`
}

// NegativePromptResult lists non-target objects visible in the chosen image,
// for suppression in downstream image generation.
type NegativePromptResult struct {
	TargetObject    string   `json:"target_object"`
	NegativeObjects []string `json:"negative_objects"`
}

// BestImage is the chosen image plus the model's rationale.
type BestImage struct {
	ImageURL  *string `json:"image_url"`
	Reasoning string  `json:"reasoning"`
}

// Result is the final record emitted for one pipeline run.
type Result struct {
	RunID        string                `json:"run_id"`
	URL          string                `json:"url"`
	CompanyName  string                `json:"company_name"`
	ProductNames []string              `json:"product_names"`
	Dimensions   Dimensions            `json:"dimensions"`
	AllImageURLs []string              `json:"all_image_urls"`
	BestImage    BestImage             `json:"best_image"`
	Scores       map[string]ImageScore `json:"scores"`
}
