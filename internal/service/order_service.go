package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"medmarket/internal/model"
	"medmarket/internal/queue"
)

// Actor is the authenticated caller, resolved upstream by the auth
// collaborator.
type Actor struct {
	ID   string
	Role string
}

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// OrderService manages the persisted order aggregate: status transitions,
// address edits and buyer/seller reads.
type OrderService struct {
	db     *gorm.DB
	logger *zap.Logger
	events EventPublisher
}

func NewOrderService(db *gorm.DB, logger *zap.Logger, events EventPublisher) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{db: db, logger: logger, events: events}
}

// Get returns full order detail to the buyer or the owning seller only.
func (s *OrderService) Get(ctx context.Context, id uint, actor Actor) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("History").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	if err := s.authorize(ctx, &order, actor); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo is the buyer-scoped lookup behind the payment read endpoint.
func (s *OrderService) GetByOrderNo(ctx context.Context, orderNo, buyerID string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("History").
		Where("order_no = ?", orderNo).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderNo)
		}
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, ErrUnauthorized
	}
	return &order, nil
}

// ListByBuyer returns the buyer's orders, newest first.
func (s *OrderService) ListByBuyer(ctx context.Context, buyerID string) ([]model.Order, error) {
	var out []model.Order
	err := s.db.WithContext(ctx).Preload("History").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ListBySeller returns orders for products owned by the seller, newest
// first. Ownership joins through the catalog table.
func (s *OrderService) ListBySeller(ctx context.Context, sellerID string) ([]model.Order, error) {
	var out []model.Order
	err := s.db.WithContext(ctx).Preload("History").
		Where("product_id IN (?)",
			s.db.Model(&model.Product{}).Select("id").Where("seller_id = ?", sellerID)).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// UpdateStatus moves an order along the fulfillment lifecycle. Only the
// seller owning the product may call it; illegal moves are rejected rather
// than written blindly.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, newStatus model.OrderStatus, message string, actor Actor) (*model.Order, error) {
	if !model.ValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	var order model.Order
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}

	var prod model.Product
	if err := s.db.WithContext(ctx).First(&prod, order.ProductID).Error; err != nil {
		return nil, err
	}
	if actor.Role != RoleSeller || prod.SellerID != actor.ID {
		return nil, ErrUnauthorized
	}

	if !model.CanTransition(order.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	now := time.Now().UTC()
	updates := map[string]any{"status": newStatus}
	switch newStatus {
	case model.OrderDelivered:
		updates["delivered_at"] = now
	case model.OrderCancelled:
		updates["cancelled_at"] = now
		updates["cancellation_reason"] = message
		// Reserved stock is written off, not returned to sale; cancelled
		// medical goods leave the fulfillment pipeline for good.
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}
		event := model.OrderStatusEvent{
			OrderID:   order.ID,
			Status:    newStatus,
			Message:   message,
			CreatedAt: now,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, &order, newStatus)

	return s.reload(ctx, order.ID)
}

// UpdateDeliveryAddress lets the buyer fix the address before fulfillment
// starts. Once the order is Processing or beyond it is locked. Only address
// columns are writable here; everything else on the aggregate is off-limits
// to this endpoint.
func (s *OrderService) UpdateDeliveryAddress(ctx context.Context, id uint, addr model.DeliveryAddress, actor Actor) (*model.Order, error) {
	if !addr.Complete() {
		return nil, ErrAddressIncomplete
	}

	var order model.Order
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	if order.BuyerID != actor.ID {
		return nil, ErrUnauthorized
	}
	if order.Status != model.OrderPending && order.Status != model.OrderConfirmed {
		return nil, ErrOrderLocked
	}

	err := s.db.WithContext(ctx).Model(&order).Updates(map[string]any{
		"addr_full_name":    addr.FullName,
		"addr_society":      addr.Society,
		"addr_pincode":      addr.Pincode,
		"addr_mobile":       addr.Mobile,
		"addr_landmark":     addr.Landmark,
		"addr_address_type": addr.AddressType,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, order.ID)
}

func (s *OrderService) reload(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := s.db.WithContext(ctx).Preload("History").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) authorize(ctx context.Context, order *model.Order, actor Actor) error {
	if order.BuyerID == actor.ID {
		return nil
	}
	var prod model.Product
	if err := s.db.WithContext(ctx).First(&prod, order.ProductID).Error; err == nil && prod.SellerID == actor.ID {
		return nil
	}
	return ErrUnauthorized
}

func (s *OrderService) publishStatusChanged(ctx context.Context, o *model.Order, status model.OrderStatus) {
	if s.events == nil {
		return
	}
	ev := queue.OrderEvent{
		Type:       queue.EventOrderStatusChanged,
		OrderNo:    o.OrderNo,
		BuyerID:    o.BuyerID,
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		Status:     string(status),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn("publish order.status_changed failed", zap.String("order_no", o.OrderNo), zap.Error(err))
	}
}
