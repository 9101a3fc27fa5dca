// internal/services/cart_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javiei/proomtb-backend/internal/cart"
	"github.com/javiei/proomtb-backend/internal/models"
	"github.com/javiei/proomtb-backend/internal/utils"
)

var ErrEmptyCart = errors.New("cart is empty")

// CartService wraps the in-memory cart store with the order-producing
// checkout. Payment and fulfillment are out of scope; checkout records the
// order and stops.
type CartService struct {
	db    *gorm.DB
	store *cart.Store
	log   *logrus.Entry
}

func NewCartService(db *gorm.DB, store *cart.Store, logger *logrus.Logger) *CartService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CartService{
		db:    db,
		store: store,
		log:   logger.WithField("component", "cart_service"),
	}
}

func (s *CartService) Store() *cart.Store {
	return s.store
}

// Checkout snapshots the current cart into an order, atomically, and clears
// the cart on success.
func (s *CartService) Checkout(ctx context.Context, userID string) (*models.Order, error) {
	if userID == "" {
		return nil, errors.New("checkout requires an authenticated user")
	}

	lines := s.store.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		UserID: userID,
		Status: models.OrderStatusPending,
		Total:  s.store.Total(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: l.ProductID,
				Name:      l.Name,
				UnitPrice: l.UnitPrice,
				Quantity:  l.Quantity,
				Image:     l.Image,
				Color:     l.Color,
				Size:      l.Size,
			})
		}

		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.store.Clear()

	// Reload with items for the response. The order is already committed;
	// a reload failure only degrades the response payload.
	if err := s.db.WithContext(ctx).Preload("Items").First(order, order.ID).Error; err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).
			Warn("Failed to reload order with items after checkout")
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.Total,
	}).Info("Order created")

	return order, nil
}

// ListOrders pages through a user's order history, newest first.
func (s *CartService) ListOrders(ctx context.Context, userID string, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ?", userID).Preload("Items")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "total", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}
