package selector

import (
	"context"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/previewar/product-image-selector/internal/llm"
	"github.com/previewar/product-image-selector/internal/models"
)

const dimensionRules = `
Rules:
- Prefer explicitly labeled product/item dimensions.
- Prefer product/item over package/box dimensions.
- Resolve synonyms: depth=breadth=width (unless clearly LxWxH triplet says otherwise); height is vertical.
- Normalize to inches (1 in = 2.54 cm; 25.4 mm = 1 in).
- Return ONLY JSON per the schema, no extra text.
- Depth is the same as width.
Return a json in the format: {"length": <length value>, "width": <width value>, "height": <height value>}`

// ResolveDimensions asks the model to pick one length/width/height triple,
// in inches, out of the noisy candidate strings. Unresolvable fields stay
// nil; so does everything on a malformed response or with no candidates.
func (p *Pipeline) ResolveDimensions(ctx context.Context, candidates []string) models.Dimensions {
	if len(candidates) == 0 {
		return models.Dimensions{}
	}

	var b strings.Builder
	b.WriteString("Candidate dimension strings:\n")
	for _, c := range candidates {
		b.WriteString("- ")
		b.WriteString(c)
		b.WriteString("\n")
	}
	b.WriteString(dimensionRules)

	content, err := p.llm.Complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: b.String()},
	})
	if err != nil {
		p.logger.Warn("dimension resolution failed", "error", err)
		return models.Dimensions{}
	}

	var raw map[string]any
	if !llm.DecodeObject(content, &raw) {
		p.logger.Warn("dimension response was not valid JSON")
		return models.Dimensions{}
	}

	return models.Dimensions{
		Length: numberField(raw, "length"),
		Width:  numberField(raw, "width"),
		Height: numberField(raw, "height"),
	}
}

// numberField coerces a JSON number or numeric string; negative or missing
// values resolve to nil, since dimensions are non-negative by contract.
func numberField(raw map[string]any, key string) *float64 {
	var value float64
	switch v := raw[key].(type) {
	case float64:
		value = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		value = parsed
	default:
		return nil
	}

	if value < 0 {
		return nil
	}
	return &value
}
