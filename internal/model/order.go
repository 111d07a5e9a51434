package model

import (
	"time"

	"gorm.io/gorm"
)

// DeliveryAddress is embedded into the order as a snapshot; later profile
// changes never rewrite past orders.
type DeliveryAddress struct {
	FullName    string `gorm:"size:128" json:"full_name"`
	Society     string `gorm:"size:128" json:"society"`
	Pincode     string `gorm:"size:16" json:"pincode"`
	Mobile      string `gorm:"size:20" json:"mobile"`
	Landmark    string `gorm:"size:128" json:"landmark"`
	AddressType string `gorm:"size:32" json:"address_type"`
}

// Complete reports whether the fields required for dispatch are present.
func (a DeliveryAddress) Complete() bool {
	return a.FullName != "" && a.Mobile != "" && a.Pincode != ""
}

// GatewayRefs holds the external payment processor identifiers for the
// online path. Empty for COD and demo orders.
type GatewayRefs struct {
	GatewayOrderID   string `gorm:"size:64" json:"gateway_order_id"`
	GatewayPaymentID string `gorm:"size:64" json:"gateway_payment_id"`
	GatewaySignature string `gorm:"size:128" json:"gateway_signature"`
}

// Order is created exactly once, at successful payment finalize. Intents do
// not create orders and the core never hard-deletes one.
type Order struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OrderNo   string `gorm:"size:64;uniqueIndex;not null" json:"order_no"`
	BuyerID   string `gorm:"size:64;not null;index" json:"buyer_id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Quantity  int64  `gorm:"not null;default:1" json:"quantity"`

	// UnitPrice is the catalog price snapshot at finalize; TotalPrice is
	// tax-inclusive and recomputed server-side, never client-supplied.
	UnitPrice  float64 `gorm:"not null" json:"unit_price"`
	TotalPrice float64 `gorm:"not null" json:"total_price"`

	PaymentMethod string        `gorm:"size:16;not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"size:16;not null" json:"payment_status"`
	Status        OrderStatus   `gorm:"size:16;not null;index" json:"status"`

	Address DeliveryAddress `gorm:"embedded;embeddedPrefix:addr_" json:"delivery_address"`
	Gateway GatewayRefs     `gorm:"embedded" json:"gateway_refs"`

	History []OrderStatusEvent `gorm:"foreignKey:OrderID" json:"status_history"`

	DeliveredAt        *time.Time `json:"delivered_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `gorm:"size:255" json:"cancellation_reason,omitempty"`
}

func (Order) TableName() string { return "orders" }

// OrderStatusEvent is one append-only history entry; rows are never updated
// or removed once written.
type OrderStatusEvent struct {
	ID        uint        `gorm:"primarykey" json:"-"`
	OrderID   uint        `gorm:"not null;index" json:"-"`
	Status    OrderStatus `gorm:"size:16;not null" json:"status"`
	Message   string      `gorm:"size:255" json:"message"`
	CreatedAt time.Time   `json:"timestamp"`
}

func (OrderStatusEvent) TableName() string { return "order_status_events" }
