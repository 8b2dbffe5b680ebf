package identify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/previewar/product-image-selector/internal/models"
)

func TestParseExtraction(t *testing.T) {
	t.Run("list of product names", func(t *testing.T) {
		got, err := parseExtraction(`{"company_name": "Amazon", "product_name": ["sectional", "couch"]}`)
		require.NoError(t, err)
		assert.Equal(t, "Amazon", got.CompanyName)
		assert.Equal(t, []string{"sectional", "couch"}, got.ProductNames)
	})

	t.Run("scalar product name wrapped into a list", func(t *testing.T) {
		got, err := parseExtraction(`{"company_name": "IKEA", "product_name": "sofa"}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"sofa"}, got.ProductNames)
	})

	t.Run("fenced response tolerated", func(t *testing.T) {
		got, err := parseExtraction("```json\n{\"company_name\": \"Wayfair\", \"product_name\": [\"sofa\"]}\n```")
		require.NoError(t, err)
		assert.Equal(t, "Wayfair", got.CompanyName)
	})

	t.Run("non-object response is an upstream shape error", func(t *testing.T) {
		_, err := parseExtraction(`just some prose`)
		assert.True(t, errors.Is(err, models.ErrUpstreamShape))
	})

	t.Run("missing company_name", func(t *testing.T) {
		_, err := parseExtraction(`{"product_name": ["sofa"]}`)
		assert.True(t, errors.Is(err, models.ErrUpstreamShape))
	})

	t.Run("missing product_name", func(t *testing.T) {
		_, err := parseExtraction(`{"company_name": "Amazon"}`)
		assert.True(t, errors.Is(err, models.ErrUpstreamShape))
	})

	t.Run("product_name of wrong type", func(t *testing.T) {
		_, err := parseExtraction(`{"company_name": "Amazon", "product_name": 42}`)
		assert.True(t, errors.Is(err, models.ErrUpstreamShape))
	})
}

func TestBrandFromDomain(t *testing.T) {
	tests := []struct {
		hostname string
		expected string
	}{
		{"www.amazon.com", "Amazon"},
		{"www.amazon.co.uk", "Amazon"},
		{"www.ikea.com", "IKEA"},
		{"www.ebay.com", "eBay"},
		{"www.bestbuy.com", "Best Buy"},
		{"www.crateandbarrel.com", "Crate & Barrel"},
		{"www.wayfair.com", "Wayfair"},
		{"some-shop.example.org", "Example"},
		{"localhost", ""},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			assert.Equal(t, tt.expected, brandFromDomain(tt.hostname))
		})
	}
}
