// internal/cart/store.go
package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrInvalidItem rejects adds with no product identifier.
var ErrInvalidItem = errors.New("cart: item has no product id")

const defaultLineName = "Unnamed product"

// Item is what a product page hands to Add. Only ID is required; everything
// else is defaulted.
type Item struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  float64  `json:"price"`
	Image  string   `json:"image"`
	Images []string `json:"images"`
	Color  string   `json:"color"`
	Size   string   `json:"size"`
}

// Line is one cart entry. Two lines with the same variant key are the same
// line; Add merges into it instead of appending.
type Line struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
}

// VariantKey is the full cart-line identity: product id plus selected color
// and size. Every mutation keys by it, matching the merge identity used by
// Add.
func VariantKey(productID, color, size string) string {
	return productID + "|" + color + "|" + size
}

func (l Line) VariantKey() string {
	return VariantKey(l.ProductID, l.Color, l.Size)
}

// reducedLine is the degraded persistence projection used when the full
// serialization cannot be stored.
type reducedLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// Storage is the durable mirror of the cart: one opaque blob, read once at
// startup and rewritten on every mutation.
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Store holds the authoritative in-memory cart. The mirror may lag one
// write; in-memory state is the source of truth. Mirror failures never
// surface to callers.
type Store struct {
	mu      sync.Mutex
	lines   []Line
	storage Storage
	log     *logrus.Entry
}

// NewStore loads the mirror if one exists. A missing or corrupt mirror
// yields an empty cart, never an error.
func NewStore(storage Storage, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Store{
		storage: storage,
		log:     logger.WithField("component", "cart"),
	}
	s.restore()
	return s
}

func (s *Store) restore() {
	if s.storage == nil {
		return
	}

	data, err := s.storage.Load()
	if err != nil {
		s.log.WithError(err).Warn("Failed to load cart mirror, starting empty")
		return
	}
	if len(data) == 0 {
		return
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		s.log.WithError(err).Warn("Cart mirror is corrupt, starting empty")
		return
	}

	// Drop lines the mirror should never contain.
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity < 1 {
			continue
		}
		s.lines = append(s.lines, l)
	}
}

// Add merges qty of item into the cart, keyed by variant. Returns false
// (and leaves state untouched) when the item carries no id. Quantities
// below 1 count as 1.
func (s *Store) Add(item Item, qty int) bool {
	if item.ID == "" {
		s.log.WithError(ErrInvalidItem).Warn("Rejected add to cart")
		return false
	}
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := VariantKey(item.ID, item.Color, item.Size)
	for i := range s.lines {
		if s.lines[i].VariantKey() == key {
			s.lines[i].Quantity += qty
			s.persist()
			return true
		}
	}

	line := Line{
		ProductID: item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  qty,
		Image:     item.Image,
		Color:     item.Color,
		Size:      item.Size,
	}
	if line.Name == "" {
		line.Name = defaultLineName
	}
	if line.UnitPrice < 0 {
		line.UnitPrice = 0
	}
	if line.Image == "" && len(item.Images) > 0 {
		line.Image = item.Images[0]
	}

	s.lines = append(s.lines, line)
	s.persist()
	return true
}

// Remove drops the line with the given variant key. Removing an absent key
// is a no-op.
func (s *Store) Remove(variantKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(variantKey)
}

func (s *Store) removeLocked(variantKey string) {
	kept := s.lines[:0]
	removed := false
	for _, l := range s.lines {
		if l.VariantKey() == variantKey {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	s.lines = kept
	if removed {
		s.persist()
	}
}

// RemoveProduct drops every variant of a product id. This is the explicit
// "remove this product entirely" affordance; normal removal keys by variant.
func (s *Store) RemoveProduct(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lines[:0]
	removed := false
	for _, l := range s.lines {
		if l.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	s.lines = kept
	if removed {
		s.persist()
	}
}

// SetQuantity sets a line's quantity to exactly qty. A quantity below 1
// removes the line; the cart never holds a line with quantity <= 0.
func (s *Store) SetQuantity(variantKey string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty < 1 {
		s.removeLocked(variantKey)
		return
	}
	for i := range s.lines {
		if s.lines[i].VariantKey() == variantKey {
			s.lines[i].Quantity = qty
			s.persist()
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) == 0 {
		return
	}
	s.lines = nil
	s.persist()
}

// Lines returns a copy of the current cart.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}

// Total is recomputed from the lines on every call; no counter to drift.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, l := range s.lines {
		total += l.UnitPrice * float64(l.Quantity)
	}
	return total
}

// Count sums quantities across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// persist mirrors the cart. On failure it retries with the reduced
// projection; if that fails too, the in-memory cart stays authoritative and
// the failure is only logged.
func (s *Store) persist() {
	if s.storage == nil {
		return
	}

	err := s.saveFull()
	if err == nil {
		return
	}
	s.log.WithError(err).Warn("Full cart persist failed, retrying with reduced projection")

	if err := s.saveReduced(); err != nil {
		s.log.WithError(err).Error("Cart mirror write failed, in-memory state is unpersisted")
	}
}

func (s *Store) saveFull() error {
	data, err := json.Marshal(s.lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	return s.storage.Save(data)
}

func (s *Store) saveReduced() error {
	reduced := make([]reducedLine, 0, len(s.lines))
	for _, l := range s.lines {
		reduced = append(reduced, reducedLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Image:     l.Image,
		})
	}

	data, err := json.Marshal(reduced)
	if err != nil {
		return fmt.Errorf("marshal reduced cart: %w", err)
	}
	return s.storage.Save(data)
}
