package selector

import (
	"context"
	"fmt"
	"sort"

	openai "github.com/sashabaranov/go-openai"

	"github.com/previewar/product-image-selector/internal/llm"
)

const aliasPrompt = `You are helping expand concise product nouns for ranking images.
Rules:
 - Return ONLY a JSON array of short names.
 - Include plural/singular variants if common (e.g., 'sofa','sofas').
 - Include things that you may also have with the object. For example couches may have pillows.
 - Exclude brands, model numbers, materials unless essential to identity.
 - Keep each item <= 3 words. No duplicates. Lowercase.

Seed names: %v
`

// ExpandAliases asks the model for synonym/alias nouns for the seed product
// names. The result is a sorted union of the normalized seeds and whatever
// the model suggested; any model failure degrades to the seeds alone, so the
// alias set is always a superset of the seeds.
func (p *Pipeline) ExpandAliases(ctx context.Context, seeds []string) []string {
	pool := llm.Normalize(seeds)
	if len(pool) == 0 {
		return nil
	}

	content, err := p.llm.Complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "You are a precise, terse product taxonomy assistant."},
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(aliasPrompt, seeds)},
	})
	if err != nil {
		p.logger.Warn("alias expansion failed, keeping seed names", "error", err)
		sort.Strings(pool)
		return pool
	}

	if aliases, ok := llm.DecodeStringList(content); ok {
		pool = llm.Normalize(append(pool, aliases...))
	} else {
		p.logger.Warn("alias response was not a JSON list, keeping seed names")
	}

	sort.Strings(pool)
	return pool
}
