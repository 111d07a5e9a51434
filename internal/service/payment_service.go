package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"medmarket/internal/gateway"
	"medmarket/internal/inventory"
	"medmarket/internal/model"
	"medmarket/internal/queue"
	rediskey "medmarket/pkg/redis"
)

// TaxRate applies to every order total. Single jurisdiction, single rate.
const TaxRate = 0.18

// Currency for all orders; multi-currency is out of scope.
const Currency = "INR"

// Order number prefixes make the money-handling path auditable at a glance.
const (
	prefixOnline = "ONL"
	prefixCOD    = "COD"
	prefixDemo   = "DEMO"
)

// EventPublisher is satisfied by queue.Producer; tests plug in a recorder.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.OrderEvent) error
}

// PaymentService owns checkout intents and payment finalization. The gateway
// client is nil when credentials are missing, which switches the online path
// into demo mode. Redis and the event publisher are optional collaborators;
// their absence or failure never blocks order placement.
type PaymentService struct {
	db      *gorm.DB
	ledger  *inventory.Ledger
	gateway gateway.Client
	secret  string
	logger  *zap.Logger
	events  EventPublisher
	rdb     *rd.Client
}

func NewPaymentService(db *gorm.DB, ledger *inventory.Ledger, gw gateway.Client, gatewaySecret string, logger *zap.Logger, events EventPublisher, rdb *rd.Client) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		db:      db,
		ledger:  ledger,
		gateway: gw,
		secret:  gatewaySecret,
		logger:  logger,
		events:  events,
		rdb:     rdb,
	}
}

// Intent is a tentative checkout: no stock is held and no order exists yet.
// Amount here is pre-tax and informational; the authoritative tax-inclusive
// total is recomputed at finalize.
type Intent struct {
	IntentID    string  `json:"order_id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	IsDemo      bool    `json:"is_demo"`
	IsCOD       bool    `json:"is_cod"`
	ProductName string  `json:"product_name"`
}

// CreateIntent validates the purchase and selects a payment path. It writes
// nothing and may be called repeatedly without consequence.
func (s *PaymentService) CreateIntent(ctx context.Context, productID uint, quantity int64, paymentMethod string) (Intent, error) {
	if quantity <= 0 {
		return Intent{}, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	var prod model.Product
	if err := s.db.WithContext(ctx).First(&prod, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Intent{}, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return Intent{}, err
	}
	if prod.Stock < quantity {
		return Intent{}, ErrInsufficientStock
	}

	amount := prod.Price * float64(quantity)

	switch paymentMethod {
	case model.MethodCOD:
		return Intent{
			IntentID:    "cod_" + uuid.NewString(),
			Amount:      amount,
			Currency:    Currency,
			IsCOD:       true,
			ProductName: prod.Name,
		}, nil
	case model.MethodOnline, "":
		if s.gateway == nil {
			// No usable gateway credentials: downgrade to the sandbox
			// path instead of blocking checkout.
			return Intent{
				IntentID:    "demo_" + uuid.NewString(),
				Amount:      amount,
				Currency:    Currency,
				IsDemo:      true,
				ProductName: prod.Name,
			}, nil
		}
		remote, err := s.gateway.CreateOrder(ctx, int64(math.Round(amount*100)), Currency, "rcpt_"+uuid.NewString())
		if err != nil {
			s.logger.Warn("gateway create order failed", zap.Uint("product_id", productID), zap.Error(err))
			return Intent{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}
		return Intent{
			IntentID:    remote.ID,
			Amount:      amount,
			Currency:    remote.Currency,
			ProductName: prod.Name,
		}, nil
	default:
		return Intent{}, fmt.Errorf("%w: unknown payment method %q", ErrValidation, paymentMethod)
	}
}

// FinalizeInput carries everything the verifier needs. Prices are absent on
// purpose: the client never supplies one.
type FinalizeInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string
	BuyerID          string
	ProductID        uint
	Quantity         int64
	Address          model.DeliveryAddress
	PaymentMethod    string
	IsDemo           bool
}

// VerifyAndFinalize validates the payment outcome, decrements stock and
// persists the order as one storage transaction. Preconditions are
// re-checked here independently of the intent step; the two calls may race
// against other buyers.
func (s *PaymentService) VerifyAndFinalize(ctx context.Context, in FinalizeInput) (*model.Order, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if !in.Address.Complete() {
		return nil, ErrAddressIncomplete
	}

	var prod model.Product
	if err := s.db.WithContext(ctx).First(&prod, in.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, in.ProductID)
		}
		return nil, err
	}
	if prod.Stock < in.Quantity {
		return nil, ErrOutOfStock
	}

	method, payStatus, prefix, err := s.settle(in)
	if err != nil {
		return nil, err
	}

	// Authoritative price: current catalog price, tax inclusive.
	total := math.Round(prod.Price * float64(in.Quantity) * (1 + TaxRate))

	now := time.Now().UTC()
	order := model.Order{
		OrderNo:       newOrderNo(prefix),
		BuyerID:       in.BuyerID,
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		UnitPrice:     prod.Price,
		TotalPrice:    total,
		PaymentMethod: method,
		PaymentStatus: payStatus,
		Status:        model.OrderConfirmed,
		Address:       in.Address,
		Gateway: model.GatewayRefs{
			GatewayOrderID:   in.GatewayOrderID,
			GatewayPaymentID: in.GatewayPaymentID,
			GatewaySignature: in.GatewaySignature,
		},
		History: []model.OrderStatusEvent{
			{Status: model.OrderConfirmed, Message: "order confirmed", CreatedAt: now},
		},
	}

	// Decrement and insert commit or roll back together. A create failure
	// after the decrement is unwound by the rollback, but it still gets an
	// error-severity log line: it means the finalize path is broken.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.Reserve(tx, in.ProductID, in.Quantity); err != nil {
			if errors.Is(err, inventory.ErrInsufficientStock) {
				return ErrOutOfStock
			}
			return err
		}
		if err := tx.Create(&order).Error; err != nil {
			s.logger.Error("order create failed after stock decrement, rolling back",
				zap.String("order_no", order.OrderNo),
				zap.Uint("product_id", in.ProductID),
				zap.Error(err))
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.syncProfileAddress(ctx, in.BuyerID, in.Address)
	s.publishPlaced(ctx, &order)

	return &order, nil
}

// settle resolves the per-path payment outcome without touching storage.
func (s *PaymentService) settle(in FinalizeInput) (method string, payStatus model.PaymentStatus, prefix string, err error) {
	switch {
	case in.IsDemo || in.PaymentMethod == model.MethodDemo:
		// Sandbox payments always succeed and never reach the gateway.
		return model.MethodDemo, model.PaymentCompleted, prefixDemo, nil
	case in.PaymentMethod == model.MethodCOD:
		// Cash settles physically on delivery.
		return model.MethodCOD, model.PaymentPending, prefixCOD, nil
	case in.PaymentMethod == model.MethodOnline, in.PaymentMethod == "":
		if in.GatewayPaymentID == "" || in.GatewaySignature == "" {
			return "", "", "", ErrPaymentVerificationFailed
		}
		if !gateway.VerifySignature(s.secret, in.GatewayOrderID, in.GatewayPaymentID, in.GatewaySignature) {
			return "", "", "", ErrPaymentVerificationFailed
		}
		return model.MethodOnline, model.PaymentCompleted, prefixOnline, nil
	default:
		return "", "", "", fmt.Errorf("%w: unknown payment method %q", ErrValidation, in.PaymentMethod)
	}
}

// syncProfileAddress mirrors the delivery address into the profile store so
// the next checkout can prefill it. Best effort only.
func (s *PaymentService) syncProfileAddress(ctx context.Context, buyerID string, addr model.DeliveryAddress) {
	if s.rdb == nil {
		return
	}
	if err := rediskey.SaveDefaultAddress(ctx, s.rdb, buyerID, addr); err != nil {
		s.logger.Warn("profile address sync failed", zap.String("buyer_id", buyerID), zap.Error(err))
	}
}

func (s *PaymentService) publishPlaced(ctx context.Context, o *model.Order) {
	if s.events == nil {
		return
	}
	ev := queue.OrderEvent{
		Type:       queue.EventOrderPlaced,
		OrderNo:    o.OrderNo,
		BuyerID:    o.BuyerID,
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		Status:     string(o.Status),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn("publish order.placed failed", zap.String("order_no", o.OrderNo), zap.Error(err))
	}
}

// newOrderNo builds a collision-resistant human-readable order number:
// {prefix}-{unix millis}-{3 random digits}.
func newOrderNo(prefix string) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, time.Now().UnixMilli(), rand.Intn(1000))
}
