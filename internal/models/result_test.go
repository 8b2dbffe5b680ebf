package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultRoundTrip(t *testing.T) {
	length := 84.5
	width := 35.0
	best := "https://cdn.example.com/front.jpg"

	original := Result{
		RunID:        "6cb7b1e2-0a44-4f3b-96a1-2f1d15a4c9e0",
		URL:          "https://www.example.com/p/sofa",
		CompanyName:  "Example",
		ProductNames: []string{"couch", "sofa"},
		Dimensions: Dimensions{
			Length: &length,
			Width:  &width,
			Height: nil,
		},
		AllImageURLs: []string{best, "https://cdn.example.com/side.jpg"},
		BestImage: BestImage{
			ImageURL:  &best,
			Reasoning: "front-facing, unobstructed",
		},
		Scores: map[string]ImageScore{
			best: {OcclusionScore: 0, Notes: "clean"},
		},
	}

	encoded, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	assert.Equal(t, original, decoded)
}

func TestResultNullFieldsSurviveRoundTrip(t *testing.T) {
	original := Result{
		RunID:        "run",
		URL:          "https://www.example.com/p/sofa",
		ProductNames: []string{"sofa"},
		AllImageURLs: []string{},
		Scores:       map[string]ImageScore{},
	}

	encoded, err := json.Marshal(original)
	require.NoError(t, err)

	// Degraded slots are emitted as explicit nulls, not dropped.
	assert.Contains(t, string(encoded), `"image_url":null`)
	assert.Contains(t, string(encoded), `"length":null`)

	var decoded Result
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, original, decoded)
}
