package engine

import (
	"nanobook/internal/money"
	"nanobook/internal/order"
)

// SubmitLimit submits a limit order (spec §4.2). On success the
// resting residual (if any) obeys tif: GTC/Day rest at price, IOC
// cancels the remainder, FOK is pre-checked atomically and rejects
// whole if unfillable.
func (e *Engine) SubmitLimit(side money.Side, price money.Price, qty money.Quantity, tif money.TimeInForce) Result {
	return e.submitLimit(side, price, qty, tif, true)
}

// SubmitMarket submits a market order (spec §4.2 step 4): no price
// constraint, any unfilled residual is cancelled rather than resting.
func (e *Engine) SubmitMarket(side money.Side, qty money.Quantity) Result {
	return e.submitMarket(side, qty, true)
}

// submitLimit is the shared core for both the public SubmitLimit and
// stop/stop-limit resubmissions: logEvent is false for the latter,
// since triggered stop resubmissions are re-derived by replay from
// the original stop submission, not logged separately (spec §4.5).
func (e *Engine) submitLimit(side money.Side, price money.Price, qty money.Quantity, tif money.TimeInForce, logEvent bool) Result {
	if price <= 0 {
		return rejected(money.ErrInvalidPrice)
	}
	if qty == 0 {
		return rejected(money.ErrInvalidQuantity)
	}

	if tif == money.FOK {
		if e.availableLiquidity(side, &price) < qty {
			id := e.allocID()
			e.tick()
			p := price
			o := order.NewOrder(id, side, &p, qty, tif, e.nextTS)
			o.Reject()
			e.archive(o)
			return rejectedWithID(id, money.ErrFillOrKillUnfillable)
		}
	}

	id := e.allocID()
	ts := e.tick()
	p := price
	o := order.NewOrder(id, side, &p, qty, tif, ts)

	if logEvent {
		e.logEvent(Event{
			Kind: EventSubmitLimit, AssignedID: id, Side: side, Price: &p,
			Quantity: qty, TimeInForce: tif,
		})
	}

	e.cross(o, &p)
	e.settleResidual(o)

	e.log.Debug().
		Uint64("order_id", uint64(id)).
		Str("side", side.String()).
		Uint64("filled", uint64(o.FilledQuantity)).
		Msg("submit_limit")

	return Result{OrderID: id, Success: true, FilledQuantity: o.FilledQuantity}
}

func (e *Engine) submitMarket(side money.Side, qty money.Quantity, logEvent bool) Result {
	if qty == 0 {
		return rejected(money.ErrInvalidQuantity)
	}

	id := e.allocID()
	ts := e.tick()
	o := order.NewOrder(id, side, nil, qty, money.IOC, ts)

	if logEvent {
		e.logEvent(Event{Kind: EventSubmitMarket, AssignedID: id, Side: side, Quantity: qty})
	}

	e.cross(o, nil)
	if o.RemainingQuantity > 0 {
		o.Cancel()
	}
	e.archive(o)

	return Result{OrderID: id, Success: true, FilledQuantity: o.FilledQuantity}
}

// settleResidual applies tif to a limit order's post-match residual:
// GTC/Day rest, IOC/FOK cancel the remainder (still success=true).
func (e *Engine) settleResidual(o *order.Order) {
	if o.RemainingQuantity == 0 {
		e.archive(o)
		return
	}
	switch o.TimeInForce {
	case money.IOC, money.FOK:
		o.Cancel()
		e.archive(o)
	default:
		e.book.Insert(o)
	}
}
