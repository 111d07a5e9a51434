package inventory

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	"medmarket/internal/model"
)

// ErrInsufficientStock means the conditional decrement found less stock than
// requested. Nothing was changed.
var ErrInsufficientStock = errors.New("insufficient stock")

// Ledger performs the stock check-and-decrement as one indivisible step.
// The UPDATE itself is conditional ("decrement only if enough remains"), and
// a per-product mutex scopes contending finalize calls to the row they fight
// over, so two buyers of the last unit resolve to exactly one winner.
type Ledger struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewLedger() *Ledger {
	return &Ledger{locks: make(map[uint]*sync.Mutex)}
}

func (l *Ledger) lockFor(productID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[productID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[productID] = m
	}
	return m
}

// Reserve decrements stock for productID by quantity, failing with
// ErrInsufficientStock when the product would go negative. Callers pass the
// transaction handle so the decrement commits or rolls back together with
// the order insert.
func (l *Ledger) Reserve(tx *gorm.DB, productID uint, quantity int64) error {
	if quantity <= 0 {
		return ErrInsufficientStock
	}

	m := l.lockFor(productID)
	m.Lock()
	defer m.Unlock()

	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrInsufficientStock
	}
	return nil
}
