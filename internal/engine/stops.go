package engine

import (
	"nanobook/internal/money"
	"nanobook/internal/order"
)

// SubmitStopMarket enqueues a pending stop that converts to a market
// order once last-trade-price crosses stopPrice (spec §4.3).
func (e *Engine) SubmitStopMarket(side money.Side, stopPrice money.Price, qty money.Quantity) Result {
	if qty == 0 {
		return rejected(money.ErrInvalidQuantity)
	}
	id := e.allocID()
	s := &order.StopOrder{ID: id, Side: side, StopPrice: stopPrice, Quantity: qty, Status: order.Pending, Timestamp: e.tick()}
	e.addStop(s)
	e.logEvent(Event{Kind: EventSubmitStopMarket, AssignedID: id, Side: side, StopPrice: stopPrice, Quantity: qty})
	return Result{OrderID: id, Success: true}
}

// SubmitStopLimit enqueues a pending stop that converts to a limit
// order at limitPrice once triggered.
func (e *Engine) SubmitStopLimit(side money.Side, stopPrice, limitPrice money.Price, qty money.Quantity) Result {
	if qty == 0 {
		return rejected(money.ErrInvalidQuantity)
	}
	if limitPrice <= 0 {
		return rejected(money.ErrInvalidPrice)
	}
	id := e.allocID()
	lp := limitPrice
	s := &order.StopOrder{ID: id, Side: side, StopPrice: stopPrice, LimitPrice: &lp, Quantity: qty, Status: order.Pending, Timestamp: e.tick()}
	e.addStop(s)
	e.logEvent(Event{Kind: EventSubmitStopLimit, AssignedID: id, Side: side, StopPrice: stopPrice, LimitPrice: &lp, Quantity: qty})
	return Result{OrderID: id, Success: true}
}

// SubmitTrailingStopMarket enqueues a trailing stop that recomputes
// its trigger price on every observed trade and converts to a market
// order once triggered.
func (e *Engine) SubmitTrailingStopMarket(side money.Side, stopPrice money.Price, qty money.Quantity, trail order.TrailSpec) Result {
	if qty == 0 {
		return rejected(money.ErrInvalidQuantity)
	}
	id := e.allocID()
	s := &order.StopOrder{
		ID: id, Side: side, StopPrice: stopPrice, Quantity: qty,
		Status: order.Pending, Trail: trail, TrailRef: stopPrice, Timestamp: e.tick(),
	}
	e.addStop(s)
	e.logEvent(Event{Kind: EventSubmitTrailingStopMarket, AssignedID: id, Side: side, StopPrice: stopPrice, Quantity: qty, Trail: trail})
	return Result{OrderID: id, Success: true}
}

// SubmitTrailingStopLimit enqueues a trailing stop that recomputes its
// trigger price on every observed trade and converts to a limit order
// at limitPrice once triggered. limitPrice is the absolute price given
// here; it does not move with the trailing trigger price.
func (e *Engine) SubmitTrailingStopLimit(side money.Side, stopPrice, limitPrice money.Price, qty money.Quantity, trail order.TrailSpec) Result {
	if qty == 0 {
		return rejected(money.ErrInvalidQuantity)
	}
	if limitPrice <= 0 {
		return rejected(money.ErrInvalidPrice)
	}
	id := e.allocID()
	lp := limitPrice
	s := &order.StopOrder{
		ID: id, Side: side, StopPrice: stopPrice, LimitPrice: &lp, Quantity: qty,
		Status: order.Pending, Trail: trail, TrailRef: stopPrice, Timestamp: e.tick(),
	}
	e.addStop(s)
	e.logEvent(Event{Kind: EventSubmitTrailingStopLimit, AssignedID: id, Side: side, StopPrice: stopPrice, LimitPrice: &lp, Quantity: qty, Trail: trail})
	return Result{OrderID: id, Success: true}
}

func (e *Engine) addStop(s *order.StopOrder) {
	e.stops[s.ID] = s
	e.stopOrder = append(e.stopOrder, s.ID)
}

// onTrade polls the stop table after every trade (spec §4.3): each
// trailing stop recomputes its trigger price from lastTrade, then
// eligible stops trigger and are resubmitted to the kernel. A single
// forward pass over the insertion-ordered id list is enough to reach
// a fixed point — nested resubmissions recurse into cross(), which
// calls onTrade again and may trigger later entries in this same pass
// before this loop reaches them; entries no longer pending are skipped.
// A triggered stop stays in the map with status Triggered, so
// GetStopOrder keeps answering for it.
// Iteration is bounded by len(stopOrder), which never grows.
func (e *Engine) onTrade(lastTrade money.Price) {
	for _, id := range e.stopOrder {
		s, ok := e.stops[id]
		if !ok || s.Status != order.Pending {
			continue
		}
		s.RecomputeTrail(lastTrade)
		if !s.Eligible(lastTrade) {
			continue
		}
		s.Status = order.Triggered
		e.resubmitStop(s)
	}
}

// resubmitStop re-enters the kernel for a just-triggered stop.
// Stop-market becomes a market order; stop-limit becomes a limit
// order GTC at its limit price. Neither is logged as a new event.
func (e *Engine) resubmitStop(s *order.StopOrder) {
	if s.LimitPrice != nil {
		e.submitLimit(s.Side, *s.LimitPrice, s.Quantity, money.GTC, false)
		return
	}
	e.submitMarket(s.Side, s.Quantity, false)
}
