package selector

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/previewar/product-image-selector/internal/llm"
	"github.com/previewar/product-image-selector/internal/models"
)

const rankInstruction = `You are ranking candidate product images by how unobstructed the MAIN object is.
Consider the product identity from the provided names. Measurement overlays are permitted.
Hard rules:
 - Minimize objects covering/obscuring the main object (occlusions). Best is 0.
 - If tie: prefer front-facing, centered, entire object in frame.
 - Okay to have an image with measurement overlays.
 - Output strictly in JSON with keys: best_image_url, reasoning, scores.
   Where 'scores' maps each URL to an object with: occlusion_score (integer; lower is better), notes.
`

type rankPayload struct {
	ProductNames   []string          `json:"product_names"`
	DimensionsHint models.Dimensions `json:"dimensions_hint"`
	ImageURLs      []string          `json:"image_urls"`
}

type rankResponse struct {
	BestImageURL *string                      `json:"best_image_url"`
	Reasoning    string                       `json:"reasoning"`
	Scores       map[string]models.ImageScore `json:"scores"`
}

// RankImages asks the model to choose the candidate where the main object is
// most visible and least occluded. The model sees only the URL list and
// product names, so it reasons from filename and path tokens; only the
// negative-prompt step looks at actual pixels. An empty candidate list
// short-circuits without a model call; a malformed response degrades to no
// best image. A chosen URL outside the candidate set is discarded.
func (p *Pipeline) RankImages(ctx context.Context, imageURLs, productNames []string, dims models.Dimensions) models.RankingResult {
	if len(imageURLs) == 0 {
		return models.RankingResult{
			Reasoning: "No images provided.",
			Scores:    map[string]models.ImageScore{},
		}
	}

	payloadJSON, _ := json.Marshal(rankPayload{
		ProductNames:   productNames,
		DimensionsHint: dims,
		ImageURLs:      imageURLs,
	})

	content, err := p.llm.Complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "You are a meticulous product image judge."},
		{Role: openai.ChatMessageRoleUser, Content: rankInstruction},
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Payload:\n%s", payloadJSON)},
	})
	if err != nil {
		p.logger.Warn("image ranking failed", "error", err)
		return models.RankingResult{Scores: map[string]models.ImageScore{}}
	}

	var resp rankResponse
	if !llm.DecodeObject(content, &resp) {
		p.logger.Warn("ranking response was not valid JSON")
		return models.RankingResult{Scores: map[string]models.ImageScore{}}
	}

	if resp.Scores == nil {
		resp.Scores = map[string]models.ImageScore{}
	}

	if resp.BestImageURL != nil && !contains(imageURLs, *resp.BestImageURL) {
		p.logger.Warn("model chose an image outside the candidate set, discarding", "url", *resp.BestImageURL)
		resp.BestImageURL = nil
	}

	return models.RankingResult{
		BestImageURL: resp.BestImageURL,
		Reasoning:    resp.Reasoning,
		Scores:       resp.Scores,
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
