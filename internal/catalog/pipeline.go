// internal/catalog/pipeline.go
package catalog

import (
	"strings"
)

// CategoryAll is the sentinel meaning "no category filter".
const CategoryAll = "all"

// DefaultPageSize is the incremental-reveal step used when a pipeline is
// built without an explicit page size.
const DefaultPageSize = 9

// FilterState fully determines the filtered subset for a given catalog.
// There is no hidden state: same catalog + same FilterState = same result.
type FilterState struct {
	Category     string  `json:"category"`
	SearchTerm   string  `json:"search_term"`
	PriceCeiling float64 `json:"price_ceiling"`
	Brand        string  `json:"brand"`
}

// Filter derives the visible subset. It is pure and order-preserving and
// never mutates products. A PriceCeiling <= 0 means "no ceiling".
func Filter(products []NormalizedProduct, state FilterState) []NormalizedProduct {
	out := make([]NormalizedProduct, 0, len(products))
	term := strings.ToLower(state.SearchTerm)

	for _, p := range products {
		if state.Brand != "" && !strings.EqualFold(p.Brand, state.Brand) {
			continue
		}
		if state.Category != "" && state.Category != CategoryAll && p.Category != state.Category {
			continue
		}
		if term != "" && !matchesTerm(p, term) {
			continue
		}
		if state.PriceCeiling > 0 && p.Price > state.PriceCeiling {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesTerm(p NormalizedProduct, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Model), term)
}

// Pipeline pairs a filter state with incremental reveal. The visible window
// starts at one page, grows one page per LoadMore, and snaps back to one
// page whenever any filter field actually changes. Swapping the catalog
// (e.g. after a refresh) re-filters without resetting the window.
type Pipeline struct {
	pageSize int
	catalog  []NormalizedProduct
	state    FilterState
	filtered []NormalizedProduct
	visible  int
}

func NewPipeline(pageSize int, products []NormalizedProduct) *Pipeline {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	p := &Pipeline{
		pageSize: pageSize,
		catalog:  products,
		visible:  pageSize,
	}
	p.filtered = Filter(p.catalog, p.state)
	return p
}

func (p *Pipeline) State() FilterState {
	return p.state
}

// SetState replaces the whole filter state, resetting the window if any
// field differs from the current state.
func (p *Pipeline) SetState(state FilterState) {
	if state == p.state {
		return
	}
	p.state = state
	p.visible = p.pageSize
	p.filtered = Filter(p.catalog, p.state)
}

func (p *Pipeline) SetCategory(category string) {
	next := p.state
	next.Category = category
	p.SetState(next)
}

func (p *Pipeline) SetSearchTerm(term string) {
	next := p.state
	next.SearchTerm = term
	p.SetState(next)
}

func (p *Pipeline) SetPriceCeiling(ceiling float64) {
	next := p.state
	next.PriceCeiling = ceiling
	p.SetState(next)
}

func (p *Pipeline) SetBrand(brand string) {
	next := p.state
	next.Brand = brand
	p.SetState(next)
}

// SetCatalog installs a newly fetched product list and re-filters. The
// visible window is kept: only filter changes reset it.
func (p *Pipeline) SetCatalog(products []NormalizedProduct) {
	p.catalog = products
	p.filtered = Filter(p.catalog, p.state)
}

// LoadMore grows the window by one page.
func (p *Pipeline) LoadMore() {
	p.visible += p.pageSize
}

// Visible returns the revealed prefix of the filtered set.
func (p *Pipeline) Visible() []NormalizedProduct {
	if p.visible >= len(p.filtered) {
		return append([]NormalizedProduct(nil), p.filtered...)
	}
	return append([]NormalizedProduct(nil), p.filtered[:p.visible]...)
}

func (p *Pipeline) HasMore() bool {
	return p.visible < len(p.filtered)
}

// FilteredLen reports the size of the filtered set regardless of the window.
func (p *Pipeline) FilteredLen() int {
	return len(p.filtered)
}

func (p *Pipeline) VisibleCount() int {
	return p.visible
}
