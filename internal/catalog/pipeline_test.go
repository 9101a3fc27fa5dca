// internal/catalog/pipeline_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []NormalizedProduct {
	return []NormalizedProduct{
		{ID: "1", Name: "Trail Bike", Description: "Hardtail trail bike", Category: "bikes", Brand: "ProOMTB", Price: 100, Images: []string{"a.jpg"}},
		{ID: "2", Name: "Enduro Bike", Description: "Full suspension", Category: "bikes", Brand: "Ridge", Price: 200, Images: []string{"b.jpg"}},
		{ID: "3", Name: "Helmet", Description: "Trail helmet", Category: "accessories", Brand: "ProOMTB", Price: 300, Images: []string{"c.jpg"}},
	}
}

func TestFilterPriceCeiling(t *testing.T) {
	filtered := Filter(testCatalog(), FilterState{Category: CategoryAll, PriceCeiling: 250})

	require.Len(t, filtered, 2)
	assert.Equal(t, "1", filtered[0].ID)
	assert.Equal(t, "2", filtered[1].ID)
}

func TestFilterIsDeterministic(t *testing.T) {
	products := testCatalog()
	state := FilterState{Category: "bikes", SearchTerm: "trail"}

	first := Filter(products, state)
	second := Filter(products, state)

	assert.Equal(t, first, second)
}

func TestFilterTighteningCeilingNeverGrowsResult(t *testing.T) {
	products := testCatalog()
	prev := len(Filter(products, FilterState{PriceCeiling: 1000}))
	for _, ceiling := range []float64{300, 250, 150, 50} {
		got := len(Filter(products, FilterState{PriceCeiling: ceiling}))
		assert.LessOrEqual(t, got, prev)
		prev = got
	}
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	products := testCatalog()
	Filter(products, FilterState{Category: "bikes"})

	assert.Equal(t, testCatalog(), products)
}

func TestFilterSearchMatchesNameDescriptionModel(t *testing.T) {
	products := []NormalizedProduct{
		{ID: "1", Name: "Alpha", Description: "nothing"},
		{ID: "2", Name: "nothing", Description: "ALPHA rated"},
		{ID: "3", Name: "nothing", Description: "nothing", Model: "alpha-9"},
		{ID: "4", Name: "nothing", Description: "nothing"},
	}

	filtered := Filter(products, FilterState{SearchTerm: "alpha"})

	require.Len(t, filtered, 3)
}

func TestFilterBrandIsCaseInsensitive(t *testing.T) {
	filtered := Filter(testCatalog(), FilterState{Brand: "proomtb"})

	require.Len(t, filtered, 2)
	assert.Equal(t, "1", filtered[0].ID)
	assert.Equal(t, "3", filtered[1].ID)
}

func TestPipelineRevealAndLoadMore(t *testing.T) {
	p := NewPipeline(2, testCatalog())

	assert.Len(t, p.Visible(), 2)
	assert.True(t, p.HasMore())

	p.LoadMore()
	assert.Len(t, p.Visible(), 3)
	assert.False(t, p.HasMore())
}

func TestPipelineResetsWindowOnFilterChange(t *testing.T) {
	p := NewPipeline(1, testCatalog())
	p.LoadMore()
	p.LoadMore()
	require.Equal(t, 3, p.VisibleCount())

	p.SetCategory("bikes")

	assert.Equal(t, 1, p.VisibleCount())
	assert.Len(t, p.Visible(), 1)
	assert.True(t, p.HasMore())
}

func TestPipelineSettingSameValueKeepsWindow(t *testing.T) {
	p := NewPipeline(1, testCatalog())
	p.SetCategory("bikes")
	p.LoadMore()
	require.Equal(t, 2, p.VisibleCount())

	p.SetCategory("bikes")

	assert.Equal(t, 2, p.VisibleCount())
}

func TestPipelineHasMoreExactBoundary(t *testing.T) {
	p := NewPipeline(3, testCatalog())

	// visibleCount == len(filtered): nothing more to load.
	assert.False(t, p.HasMore())
	assert.Len(t, p.Visible(), 3)
}

func TestPipelineCatalogSwapKeepsWindow(t *testing.T) {
	p := NewPipeline(1, testCatalog())
	p.LoadMore()
	require.Equal(t, 2, p.VisibleCount())

	// A late fetch result replaces the catalog; the window survives.
	p.SetCatalog(testCatalog()[:2])

	assert.Equal(t, 2, p.VisibleCount())
	assert.Len(t, p.Visible(), 2)
	assert.False(t, p.HasMore())
}

func TestPipelineEachFilterFieldResets(t *testing.T) {
	grow := func(p *Pipeline) {
		p.LoadMore()
		p.LoadMore()
	}

	p := NewPipeline(1, testCatalog())
	grow(p)
	p.SetSearchTerm("bike")
	assert.Equal(t, 1, p.VisibleCount())

	grow(p)
	p.SetPriceCeiling(250)
	assert.Equal(t, 1, p.VisibleCount())

	grow(p)
	p.SetBrand("Ridge")
	assert.Equal(t, 1, p.VisibleCount())
}
