// internal/catalog/normalize.go
package catalog

import (
	"strings"
)

// NormalizedProduct is the canonical catalog shape every page renders from.
// Invariants: Images is never empty, Price is finite and non-negative.
type NormalizedProduct struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Price       float64  `json:"price"`
	OldPrice    float64  `json:"old_price,omitempty"`
	Images      []string `json:"images"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	Stock       int      `json:"stock"`
}

// Options tune normalization per deployment. Zero values fall back to the
// package defaults below.
type Options struct {
	// AssetOrigin qualifies relative image URLs.
	AssetOrigin string
	// PlaceholderImage substitutes for records with no usable image.
	PlaceholderImage string
	// DefaultSizes backfills sized categories whose records carry none.
	DefaultSizes []string
	// DefaultCategory is assigned to records with no category.
	DefaultCategory string
}

const (
	defaultPlaceholderImage = "/images/placeholder.jpg"
	defaultCategory         = "accessories"
)

var defaultSizes = []string{"S", "M", "L", "XL"}

// sizedCategories get the default size set when a record has none. A display
// convenience, not inventory truth.
var sizedCategories = map[string]bool{
	"bikes":       true,
	"clothing":    true,
	"accessories": true,
}

// Normalizer converts raw records into NormalizedProducts. It performs no
// I/O and is safe for concurrent use.
type Normalizer struct {
	opts Options
}

func NewNormalizer(opts Options) *Normalizer {
	if opts.PlaceholderImage == "" {
		opts.PlaceholderImage = defaultPlaceholderImage
	}
	if len(opts.DefaultSizes) == 0 {
		opts.DefaultSizes = defaultSizes
	}
	if opts.DefaultCategory == "" {
		opts.DefaultCategory = defaultCategory
	}
	return &Normalizer{opts: opts}
}

// Normalize is total: any record, however malformed, yields a usable
// product. Parse failures degrade to defaults instead of aborting the batch.
func (n *Normalizer) Normalize(raw RawProductRecord) NormalizedProduct {
	category := raw.Category
	if category == "" {
		category = n.opts.DefaultCategory
	}

	sizes := decodeStringList(raw.Sizes)
	if len(sizes) == 0 && sizedCategories[category] {
		sizes = append([]string(nil), n.opts.DefaultSizes...)
	}

	return NormalizedProduct{
		ID:          raw.ID.String(),
		Name:        raw.Name,
		Description: raw.Description,
		Category:    category,
		Brand:       raw.Brand,
		Model:       raw.Model,
		Price:       decodeNumber(raw.Price),
		OldPrice:    decodeNumber(raw.OldPrice),
		Images:      n.resolveImages(raw),
		Colors:      decodeStringList(raw.Colors),
		Sizes:       sizes,
		Stock:       int(decodeNumber(raw.Stock)),
	}
}

// NormalizeAll maps a fetched batch, preserving order.
func (n *Normalizer) NormalizeAll(raws []RawProductRecord) []NormalizedProduct {
	out := make([]NormalizedProduct, 0, len(raws))
	for _, raw := range raws {
		out = append(out, n.Normalize(raw))
	}
	return out
}

func (n *Normalizer) resolveImages(raw RawProductRecord) []string {
	images, ok := decodeImageList(raw.Images)
	if !ok || len(images) == 0 {
		// The images field was absent, unparsable or empty: fall back to the
		// single-image columns.
		if single := firstNonEmpty(raw.ImageURL, raw.Image); single != "" {
			images = []string{single}
		}
	}

	if len(images) == 0 {
		images = []string{n.opts.PlaceholderImage}
	}

	for i, img := range images {
		images[i] = n.qualifyURL(img)
	}
	return images
}

func (n *Normalizer) qualifyURL(url string) string {
	if n.opts.AssetOrigin == "" || isAbsoluteURL(url) {
		return url
	}
	return strings.TrimRight(n.opts.AssetOrigin, "/") + "/" + strings.TrimLeft(url, "/")
}

func isAbsoluteURL(url string) bool {
	return strings.HasPrefix(url, "http://") ||
		strings.HasPrefix(url, "https://") ||
		strings.HasPrefix(url, "data:")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
