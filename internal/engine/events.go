package engine

import (
	"fmt"

	"nanobook/internal/money"
	"nanobook/internal/order"
)

// EventKind tags the variant of an Event — the replay unit (spec
// §3/§4.5). Trades, fills and derived order status are never events;
// they are outputs reconstructed by replay.
type EventKind string

const (
	EventSubmitLimit              EventKind = "submit_limit"
	EventSubmitMarket             EventKind = "submit_market"
	EventCancel                   EventKind = "cancel"
	EventModify                   EventKind = "modify"
	EventSubmitStopMarket         EventKind = "submit_stop_market"
	EventSubmitStopLimit          EventKind = "submit_stop_limit"
	EventSubmitTrailingStopMarket EventKind = "submit_trailing_stop_market"
	EventSubmitTrailingStopLimit  EventKind = "submit_trailing_stop_limit"
)

// Event is one logged intent: the parameters a fresh engine needs to
// reproduce the call that produced it, plus the id assigned at the
// time (informational — replay re-derives the same id by construction).
type Event struct {
	Kind        EventKind
	AssignedID  order.ID
	Side        money.Side
	Price       *money.Price // SubmitLimit resting price
	LimitPrice  *money.Price // SubmitStopLimit / SubmitTrailingStopLimit
	Quantity    money.Quantity
	TimeInForce money.TimeInForce
	StopPrice   money.Price
	Trail       order.TrailSpec
	OrderID     order.ID // Cancel / Modify: the target order id
	NewPrice    *money.Price
	NewQuantity money.Quantity
}

func (e Event) String() string {
	switch e.Kind {
	case EventSubmitLimit:
		return fmt.Sprintf("SubmitLimit{order_id: OrderId(%d), side: %s, price: Price(%d), quantity: %d, tif: %s}",
			e.AssignedID, e.Side, *e.Price, e.Quantity, e.TimeInForce)
	case EventSubmitMarket:
		return fmt.Sprintf("SubmitMarket{order_id: OrderId(%d), side: %s, quantity: %d}",
			e.AssignedID, e.Side, e.Quantity)
	case EventCancel:
		return fmt.Sprintf("Cancel{order_id: OrderId(%d)}", e.OrderID)
	case EventModify:
		return fmt.Sprintf("Modify{order_id: OrderId(%d), new_price: Price(%d), new_quantity: %d}",
			e.OrderID, *e.NewPrice, e.NewQuantity)
	case EventSubmitStopMarket:
		return fmt.Sprintf("SubmitStopMarket{order_id: OrderId(%d), side: %s, stop_price: Price(%d), quantity: %d}",
			e.AssignedID, e.Side, e.StopPrice, e.Quantity)
	case EventSubmitStopLimit:
		return fmt.Sprintf("SubmitStopLimit{order_id: OrderId(%d), side: %s, stop_price: Price(%d), limit_price: Price(%d), quantity: %d}",
			e.AssignedID, e.Side, e.StopPrice, *e.LimitPrice, e.Quantity)
	case EventSubmitTrailingStopMarket:
		return fmt.Sprintf("SubmitTrailingStopMarket{order_id: OrderId(%d), side: %s, stop_price: Price(%d), quantity: %d}",
			e.AssignedID, e.Side, e.StopPrice, e.Quantity)
	case EventSubmitTrailingStopLimit:
		return fmt.Sprintf("SubmitTrailingStopLimit{order_id: OrderId(%d), side: %s, stop_price: Price(%d), limit_price: Price(%d), quantity: %d}",
			e.AssignedID, e.Side, e.StopPrice, *e.LimitPrice, e.Quantity)
	default:
		return fmt.Sprintf("Event{kind: %s}", e.Kind)
	}
}
