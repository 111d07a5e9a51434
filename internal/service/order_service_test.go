package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"medmarket/internal/model"
	"medmarket/internal/queue"
)

func placeOrder(t *testing.T, db *gorm.DB, buyerID string, productID uint, orderNo string) *model.Order {
	t.Helper()
	order := model.Order{
		OrderNo:       orderNo,
		BuyerID:       buyerID,
		ProductID:     productID,
		Quantity:      1,
		UnitPrice:     100,
		TotalPrice:    118,
		PaymentMethod: model.MethodCOD,
		PaymentStatus: model.PaymentPending,
		Status:        model.OrderConfirmed,
		Address:       validAddress(),
		History: []model.OrderStatusEvent{
			{Status: model.OrderConfirmed, Message: "order confirmed", CreatedAt: time.Now().UTC()},
		},
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return &order
}

func TestUpdateStatus_FulfillmentFlow(t *testing.T) {
	db := testDB(t)
	pid := seedProduct(t, db, "Oximeter", 100, 5, "seller-1")
	order := placeOrder(t, db, "buyer-1", pid, "COD-1-001")
	rec := &eventRecorder{}
	svc := NewOrderService(db, nil, rec)
	seller := Actor{ID: "seller-1", Role: RoleSeller}
	ctx := context.Background()

	for _, next := range []model.OrderStatus{model.OrderProcessing, model.OrderShipped, model.OrderDelivered} {
		updated, err := svc.UpdateStatus(ctx, order.ID, next, "moved to "+string(next), seller)
		if err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
		if updated.Status != next {
			t.Fatalf("status expected %s, got %s", next, updated.Status)
		}
	}

	final, err := svc.Get(ctx, order.ID, seller)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if final.DeliveredAt == nil {
		t.Fatal("DeliveredAt must be stamped on delivery")
	}
	// seed event plus three transitions
	if len(final.History) != 4 {
		t.Fatalf("expected 4 history events, got %d", len(final.History))
	}
	for _, ev := range rec.all() {
		if ev.Type != queue.EventOrderStatusChanged {
			t.Fatalf("expected status change events only, got %s", ev.Type)
		}
	}
	if len(rec.all()) != 3 {
		t.Fatalf("expected 3 published events, got %d", len(rec.all()))
	}
}

func TestUpdateStatus_Cancel(t *testing.T) {
	db := testDB(t)
	pid := seedProduct(t, db, "Oximeter", 100, 5, "seller-1")
	order := placeOrder(t, db, "buyer-1", pid, "COD-2-001")
	svc := NewOrderService(db, nil, nil)
	seller := Actor{ID: "seller-1", Role: RoleSeller}

	updated, err := svc.UpdateStatus(context.Background(), order.ID, model.OrderCancelled, "buyer requested", seller)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if updated.Status != model.OrderCancelled {
		t.Fatalf("status expected Cancelled, got %s", updated.Status)
	}
	if updated.CancelledAt == nil {
		t.Fatal("CancelledAt must be stamped")
	}
	if updated.CancellationReason != "buyer requested" {
		t.Fatalf("cancellation reason expected recorded, got %q", updated.CancellationReason)
	}
	// write-off policy: cancellation does not return stock to sale
	if got := productStock(t, db, pid); got != 5 {
		t.Fatalf("stock must not change on cancel, got %d", got)
	}
}

func TestUpdateStatus_Rejections(t *testing.T) {
	db := testDB(t)
	pid := seedProduct(t, db, "Oximeter", 100, 5, "seller-1")
	order := placeOrder(t, db, "buyer-1", pid, "COD-3-001")
	svc := NewOrderService(db, nil, nil)
	ctx := context.Background()
	seller := Actor{ID: "seller-1", Role: RoleSeller}

	if _, err := svc.UpdateStatus(ctx, order.ID, "Teleported", "", seller); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown status expected ErrValidation, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, order.ID, model.OrderShipped, "", seller); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Confirmed -> Shipped expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, order.ID, model.OrderProcessing, "", Actor{ID: "seller-2", Role: RoleSeller}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-owner seller expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, order.ID, model.OrderProcessing, "", Actor{ID: "buyer-1", Role: RoleBuyer}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("buyer expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, 9999, model.OrderProcessing, "", seller); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing order expected ErrNotFound, got %v", err)
	}

	// terminal state rejects further moves
	if _, err := svc.UpdateStatus(ctx, order.ID, model.OrderCancelled, "stop", seller); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, order.ID, model.OrderProcessing, "", seller); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("transition out of Cancelled expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateDeliveryAddress(t *testing.T) {
	db := testDB(t)
	pid := seedProduct(t, db, "Oximeter", 100, 5, "seller-1")
	order := placeOrder(t, db, "buyer-1", pid, "COD-4-001")
	svc := NewOrderService(db, nil, nil)
	ctx := context.Background()
	buyer := Actor{ID: "buyer-1", Role: RoleBuyer}

	next := validAddress()
	next.FullName = "Ravi Kumar"
	next.Society = "Lake View"

	updated, err := svc.UpdateDeliveryAddress(ctx, order.ID, next, buyer)
	if err != nil {
		t.Fatalf("update address: %v", err)
	}
	if updated.Address.FullName != "Ravi Kumar" || updated.Address.Society != "Lake View" {
		t.Fatalf("address not applied: %+v", updated.Address)
	}
	// address edits must not touch money or status
	if updated.TotalPrice != 118 || updated.Status != model.OrderConfirmed {
		t.Fatalf("address edit leaked into other fields: %+v", updated)
	}
}

func TestUpdateDeliveryAddress_Rejections(t *testing.T) {
	db := testDB(t)
	pid := seedProduct(t, db, "Oximeter", 100, 5, "seller-1")
	order := placeOrder(t, db, "buyer-1", pid, "COD-5-001")
	svc := NewOrderService(db, nil, nil)
	ctx := context.Background()
	buyer := Actor{ID: "buyer-1", Role: RoleBuyer}

	if _, err := svc.UpdateDeliveryAddress(ctx, order.ID, model.DeliveryAddress{FullName: "X"}, buyer); !errors.Is(err, ErrAddressIncomplete) {
		t.Fatalf("partial address expected ErrAddressIncomplete, got %v", err)
	}
	if _, err := svc.UpdateDeliveryAddress(ctx, order.ID, validAddress(), Actor{ID: "buyer-2", Role: RoleBuyer}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("other buyer expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.UpdateDeliveryAddress(ctx, 9999, validAddress(), buyer); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing order expected ErrNotFound, got %v", err)
	}

	// lock the order by starting fulfillment
	seller := Actor{ID: "seller-1", Role: RoleSeller}
	if _, err := svc.UpdateStatus(ctx, order.ID, model.OrderProcessing, "", seller); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if _, err := svc.UpdateDeliveryAddress(ctx, order.ID, validAddress(), buyer); !errors.Is(err, ErrOrderLocked) {
		t.Fatalf("processing order expected ErrOrderLocked, got %v", err)
	}
}

func TestGet_Authorization(t *testing.T) {
	db := testDB(t)
	pid := seedProduct(t, db, "Oximeter", 100, 5, "seller-1")
	order := placeOrder(t, db, "buyer-1", pid, "COD-6-001")
	svc := NewOrderService(db, nil, nil)
	ctx := context.Background()

	if _, err := svc.Get(ctx, order.ID, Actor{ID: "buyer-1", Role: RoleBuyer}); err != nil {
		t.Fatalf("buyer get: %v", err)
	}
	if _, err := svc.Get(ctx, order.ID, Actor{ID: "seller-1", Role: RoleSeller}); err != nil {
		t.Fatalf("owning seller get: %v", err)
	}
	if _, err := svc.Get(ctx, order.ID, Actor{ID: "buyer-2", Role: RoleBuyer}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("stranger expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Get(ctx, order.ID, Actor{ID: "seller-2", Role: RoleSeller}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("other seller expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Get(ctx, 9999, Actor{ID: "buyer-1", Role: RoleBuyer}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing order expected ErrNotFound, got %v", err)
	}
}

func TestGetByOrderNo_BuyerScoped(t *testing.T) {
	db := testDB(t)
	pid := seedProduct(t, db, "Oximeter", 100, 5, "seller-1")
	order := placeOrder(t, db, "buyer-1", pid, "COD-7-001")
	svc := NewOrderService(db, nil, nil)
	ctx := context.Background()

	got, err := svc.GetByOrderNo(ctx, order.OrderNo, "buyer-1")
	if err != nil {
		t.Fatalf("get by order no: %v", err)
	}
	if got.ID != order.ID {
		t.Fatalf("wrong order returned: %d vs %d", got.ID, order.ID)
	}
	if _, err := svc.GetByOrderNo(ctx, order.OrderNo, "buyer-2"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("other buyer expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.GetByOrderNo(ctx, "COD-0-000", "buyer-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing order expected ErrNotFound, got %v", err)
	}
}

func TestListByBuyer_NewestFirst(t *testing.T) {
	db := testDB(t)
	pid := seedProduct(t, db, "Oximeter", 100, 5, "seller-1")
	svc := NewOrderService(db, nil, nil)
	ctx := context.Background()

	first := placeOrder(t, db, "buyer-1", pid, "COD-8-001")
	time.Sleep(10 * time.Millisecond)
	second := placeOrder(t, db, "buyer-1", pid, "COD-8-002")
	placeOrder(t, db, "buyer-2", pid, "COD-8-003")

	orders, err := svc.ListByBuyer(ctx, "buyer-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders for buyer-1, got %d", len(orders))
	}
	if orders[0].ID != second.ID || orders[1].ID != first.ID {
		t.Fatalf("expected newest first, got [%d %d]", orders[0].ID, orders[1].ID)
	}
	if len(orders[0].History) == 0 {
		t.Fatal("history must be preloaded")
	}

	empty, err := svc.ListByBuyer(ctx, "buyer-9")
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no orders, got %d", len(empty))
	}
}

func TestListBySeller(t *testing.T) {
	db := testDB(t)
	mine := seedProduct(t, db, "Oximeter", 100, 5, "seller-1")
	theirs := seedProduct(t, db, "Bandage", 50, 5, "seller-2")
	svc := NewOrderService(db, nil, nil)
	ctx := context.Background()

	placeOrder(t, db, "buyer-1", mine, "COD-9-001")
	placeOrder(t, db, "buyer-2", mine, "COD-9-002")
	placeOrder(t, db, "buyer-1", theirs, "COD-9-003")

	orders, err := svc.ListBySeller(ctx, "seller-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders for seller-1, got %d", len(orders))
	}
	for _, o := range orders {
		if o.ProductID != mine {
			t.Fatalf("order %s belongs to another seller's product", o.OrderNo)
		}
	}
}
