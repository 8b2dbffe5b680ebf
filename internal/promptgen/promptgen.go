// Package promptgen derives a negative-prompt object list for downstream
// image generation: given the chosen best product image, a vision-capable
// model lists the physical objects in frame that are not the target product.
package promptgen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/previewar/product-image-selector/internal/llm"
	"github.com/previewar/product-image-selector/internal/models"
	"github.com/previewar/product-image-selector/internal/selector"
)

const visionInstruction = `You are given a product image and the target object name.
Target/main object: '%s'.

1) Look at the image and identify physical objects that are NOT the target object.
   Examples for a couch: blankets, pillows, throws, people, pets, tables, lamps, rugs,
   background furniture, decor, plants, clutter, text, logos, watermarks, reflections.
2) Only list objects that could reasonably be suppressed or excluded when inpainting
   or generating images.
3) Do NOT include the main target object or clear synonyms of it.
4) Return ONLY JSON of the form:
   {"negative_objects": ["blanket", "pillow", "person", ...]}
   No extra text, no markdown.`

type Generator struct {
	pipeline *selector.Pipeline
	llm      *llm.Client
	logger   *slog.Logger
}

func New(pipeline *selector.Pipeline, client *llm.Client) *Generator {
	return &Generator{
		pipeline: pipeline,
		llm:      client,
		logger:   slog.Default().With("component", "promptgen"),
	}
}

// Generate runs the selection pipeline for url and derives the negative
// prompt from the chosen best image. Without a best image the vision model
// is never called and the negative list is empty.
func (g *Generator) Generate(ctx context.Context, url string, opts selector.RunOptions) (models.NegativePromptResult, *models.Result, error) {
	result, info, err := g.pipeline.Run(ctx, url, opts)
	if err != nil {
		return models.NegativePromptResult{}, nil, err
	}

	target := "product"
	if len(info.ProductNames) > 0 {
		if t := strings.TrimSpace(info.ProductNames[0]); t != "" {
			target = t
		}
	}

	npr := models.NegativePromptResult{
		TargetObject:    target,
		NegativeObjects: []string{},
	}

	if result.BestImage.ImageURL == nil {
		g.logger.Info("no best image chosen, skipping vision call", "url", url)
		return npr, result, nil
	}

	npr.NegativeObjects = g.NegativeObjects(ctx, *result.BestImage.ImageURL, target)
	return npr, result, nil
}

// NegativeObjects inspects imageURL with the vision model and returns the
// lowercased, deduplicated non-target objects it sees. Empty imageURL or a
// malformed response yields an empty list.
func (g *Generator) NegativeObjects(ctx context.Context, imageURL, target string) []string {
	if imageURL == "" {
		return []string{}
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You are a concise vision assistant that outputs strict JSON only.",
		},
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeText,
					Text: fmt.Sprintf(visionInstruction, target),
				},
				{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: imageURL},
				},
			},
		},
	}

	content, err := g.llm.CompleteVision(ctx, messages)
	if err != nil {
		g.logger.Warn("vision call failed, returning empty negative prompt", "error", err)
		return []string{}
	}

	var resp struct {
		NegativeObjects []string `json:"negative_objects"`
	}
	if !llm.DecodeObject(content, &resp) {
		g.logger.Warn("vision response was not valid JSON")
		return []string{}
	}

	return llm.Normalize(resp.NegativeObjects)
}

// NegativePrompt joins the object list into the comma-separated form handed
// to image generators.
func NegativePrompt(objects []string) string {
	return strings.Join(objects, ", ")
}
