// internal/catalog/normalize_test.go
package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecord(t *testing.T, raw string) RawProductRecord {
	t.Helper()
	var rec RawProductRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	return rec
}

func TestNormalizeStringEncodedImagesAndPrice(t *testing.T) {
	n := NewNormalizer(Options{})
	rec := decodeRecord(t, `{"id": 1, "images": "[\"a.jpg\",\"b.jpg\"]", "price": "19.99"}`)

	p := n.Normalize(rec)

	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
	assert.Equal(t, 19.99, p.Price)
	assert.Equal(t, "1", p.ID)
}

func TestNormalizeSingleImageFallback(t *testing.T) {
	n := NewNormalizer(Options{})
	rec := decodeRecord(t, `{"id": "p1", "image_url": "x.jpg"}`)

	p := n.Normalize(rec)

	assert.Equal(t, []string{"x.jpg"}, p.Images)
}

func TestNormalizeImageObjects(t *testing.T) {
	n := NewNormalizer(Options{})
	rec := decodeRecord(t, `{"id": "p1", "images": [{"url": "a.jpg"}, "b.jpg", {"bogus": true}]}`)

	p := n.Normalize(rec)

	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
}

func TestNormalizePlaceholderWhenNoImages(t *testing.T) {
	n := NewNormalizer(Options{PlaceholderImage: "/img/none.jpg"})
	rec := decodeRecord(t, `{"id": "p1", "name": "Bare"}`)

	p := n.Normalize(rec)

	require.Len(t, p.Images, 1)
	assert.Equal(t, "/img/none.jpg", p.Images[0])
}

func TestNormalizeQualifiesRelativeURLs(t *testing.T) {
	n := NewNormalizer(Options{AssetOrigin: "https://shop.example.com/"})
	rec := decodeRecord(t, `{"id": "p1", "images": ["/a.jpg", "https://cdn.example.com/b.jpg"]}`)

	p := n.Normalize(rec)

	assert.Equal(t, []string{
		"https://shop.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
	}, p.Images)
}

func TestNormalizeIsTotalOnMalformedInput(t *testing.T) {
	n := NewNormalizer(Options{})
	cases := []string{
		`{}`,
		`{"id": null, "images": 42, "colors": "not json", "price": "-5"}`,
		`{"id": "x", "images": "{broken", "sizes": 7, "stock": "many", "price": {"amount": 3}}`,
		`{"id": 9, "price": "NaN", "old_price": [1,2], "colors": ["Red", 3, null]}`,
	}

	for _, raw := range cases {
		p := n.Normalize(decodeRecord(t, raw))

		assert.NotEmpty(t, p.Images, "images must never be empty for %s", raw)
		assert.GreaterOrEqual(t, p.Price, 0.0, "price must be non-negative for %s", raw)
		assert.GreaterOrEqual(t, p.Stock, 0)
	}
}

func TestNormalizeColorsAndSizes(t *testing.T) {
	n := NewNormalizer(Options{})

	p := n.Normalize(decodeRecord(t, `{"id": "p1", "colors": "[\"Red\",\"Blue\"]", "sizes": ["M", "L"], "category": "clothing"}`))
	assert.Equal(t, []string{"Red", "Blue"}, p.Colors)
	assert.Equal(t, []string{"M", "L"}, p.Sizes)
}

func TestNormalizeDefaultSizesForSizedCategories(t *testing.T) {
	n := NewNormalizer(Options{DefaultSizes: []string{"S", "M"}})

	bike := n.Normalize(decodeRecord(t, `{"id": "b1", "category": "bikes"}`))
	assert.Equal(t, []string{"S", "M"}, bike.Sizes)

	// Unsized categories keep their empty size list.
	part := n.Normalize(decodeRecord(t, `{"id": "t1", "category": "tools"}`))
	assert.Empty(t, part.Sizes)
}

func TestNormalizeDefaultsCategory(t *testing.T) {
	n := NewNormalizer(Options{DefaultCategory: "accessories"})

	p := n.Normalize(decodeRecord(t, `{"id": "p1"}`))
	assert.Equal(t, "accessories", p.Category)
}

func TestNormalizeStockCoercion(t *testing.T) {
	n := NewNormalizer(Options{})

	assert.Equal(t, 4, n.Normalize(decodeRecord(t, `{"id": "p1", "stock": 4}`)).Stock)
	assert.Equal(t, 3, n.Normalize(decodeRecord(t, `{"id": "p1", "stock": "3"}`)).Stock)
	assert.Equal(t, 0, n.Normalize(decodeRecord(t, `{"id": "p1", "stock": -2}`)).Stock)
}

func TestNormalizeAllPreservesOrder(t *testing.T) {
	n := NewNormalizer(Options{})
	records := []RawProductRecord{
		decodeRecord(t, `{"id": "a"}`),
		decodeRecord(t, `{"id": "b"}`),
		decodeRecord(t, `{"id": "c"}`),
	}

	products := n.NormalizeAll(records)

	require.Len(t, products, 3)
	assert.Equal(t, "a", products[0].ID)
	assert.Equal(t, "b", products[1].ID)
	assert.Equal(t, "c", products[2].ID)
}
