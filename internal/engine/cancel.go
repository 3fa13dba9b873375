package engine

import (
	"nanobook/internal/money"
	"nanobook/internal/order"
)

// Cancel cancels a live order or pending stop (spec §4.4). Returns
// OrderNotActive if id is unknown or already terminal.
func (e *Engine) Cancel(id order.ID) Result {
	if s, ok := e.stops[id]; ok {
		if s.Status != order.Pending {
			return rejectedWithID(id, money.ErrOrderNotActive)
		}
		s.Status = order.StopCancelled
		e.logEvent(Event{Kind: EventCancel, OrderID: id})
		return Result{OrderID: id, Success: true}
	}

	o := e.book.Get(id)
	if o == nil || o.Status.Terminal() {
		return rejectedWithID(id, money.ErrOrderNotActive)
	}

	o.Cancel()
	e.book.Remove(id)
	e.archive(o)
	e.logEvent(Event{Kind: EventCancel, OrderID: id})

	return Result{OrderID: id, Success: true}
}

// Modify cancels id and submits a fresh limit order on the same side
// and time-in-force at the new price/quantity (spec §4.4): priority
// is always lost, by contract. Fails identically to Cancel when id is
// not active.
func (e *Engine) Modify(id order.ID, newPrice money.Price, newQty money.Quantity) Result {
	o := e.book.Get(id)
	if o == nil || o.Status.Terminal() {
		return rejectedWithID(id, money.ErrOrderNotActive)
	}
	if newPrice <= 0 {
		return rejected(money.ErrInvalidPrice)
	}
	if newQty == 0 {
		return rejected(money.ErrInvalidQuantity)
	}

	side := o.Side
	tif := o.TimeInForce

	o.Cancel()
	e.book.Remove(id)
	e.archive(o)

	p := newPrice
	e.logEvent(Event{Kind: EventModify, OrderID: id, NewPrice: &p, NewQuantity: newQty})

	newID := e.allocID()
	ts := e.tick()
	fresh := order.NewOrder(newID, side, &p, newQty, tif, ts)

	e.cross(fresh, &p)
	e.settleResidual(fresh)

	return Result{OrderID: newID, Success: true, FilledQuantity: fresh.FilledQuantity}
}
