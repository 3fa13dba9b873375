// Package order defines the order record and its state machine, and
// the separate pending-stop record watched by the stop/trailing table.
package order

import (
	"fmt"

	"nanobook/internal/money"
)

// ID is a monotonically increasing identifier assigned by the engine
// at submission; it is never reused within an engine instance.
type ID uint64

// Status is an order's position in its life-cycle. Filled, Cancelled
// and Rejected are terminal: once reached, no further transitions
// occur.
type Status int

const (
	New Status = iota
	PartiallyFilled
	Filled
	Cancelled
	Rejected
)

func (s Status) String() string {
	switch s {
	case New:
		return "new"
	case PartiallyFilled:
		return "partiallyfilled"
	case Filled:
		return "filled"
	case Cancelled:
		return "cancelled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is a terminal status.
func (s Status) Terminal() bool {
	return s == Filled || s == Cancelled || s == Rejected
}

// Order is a single resting or fully/partially consumed limit or
// market order. Price is nil for market orders.
type Order struct {
	ID                ID
	Side              money.Side
	Price             *money.Price
	OriginalQuantity  money.Quantity
	RemainingQuantity money.Quantity
	FilledQuantity    money.Quantity
	Status            Status
	TimeInForce       money.TimeInForce
	Timestamp         uint64
}

// NewOrder constructs a fresh order in the New status. original =
// filled + remaining holds from construction onward.
func NewOrder(id ID, side money.Side, price *money.Price, qty money.Quantity, tif money.TimeInForce, ts uint64) *Order {
	return &Order{
		ID:                id,
		Side:              side,
		Price:             price,
		OriginalQuantity:  qty,
		RemainingQuantity: qty,
		Status:            New,
		TimeInForce:       tif,
		Timestamp:         ts,
	}
}

// Fill reduces the order's remaining quantity by qty and advances its
// status. qty must be <= RemainingQuantity; callers (the matching
// kernel) are expected to clamp before calling.
func (o *Order) Fill(qty money.Quantity) {
	o.RemainingQuantity -= qty
	o.FilledQuantity += qty
	if o.RemainingQuantity == 0 {
		o.Status = Filled
	} else {
		o.Status = PartiallyFilled
	}
}

// Cancel marks the order cancelled. It is a no-op on an already
// terminal order — callers must check Status.Terminal() first to
// surface OrderNotActive.
func (o *Order) Cancel() {
	if o.Status.Terminal() {
		return
	}
	o.Status = Cancelled
}

// Reject marks the order rejected (FOK pre-check failure). No trades
// or quantity changes may have happened before this is called.
func (o *Order) Reject() {
	o.Status = Rejected
}

func (o Order) String() string {
	price := "market"
	if o.Price != nil {
		price = fmt.Sprintf("%d", *o.Price)
	}
	return fmt.Sprintf(
		"Order{id:%d side:%s price:%s qty:%d/%d status:%s tif:%s ts:%d}",
		o.ID, o.Side, price, o.FilledQuantity, o.OriginalQuantity, o.Status, o.TimeInForce, o.Timestamp,
	)
}
