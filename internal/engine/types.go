// Package engine is the matching kernel (spec §4.2), the stop/trailing
// trigger table (§4.3) and the event log/replay facility (§4.5) for a
// single symbol. It is the CORE the rest of this module routes to.
package engine

import (
	"nanobook/internal/money"
	"nanobook/internal/order"
)

// Result is the outcome of any submission call: the assigned id (zero
// if none was assigned), whether the call succeeded, how much was
// filled immediately, and a stable rejection kind name on failure.
type Result struct {
	OrderID        order.ID
	Success        bool
	FilledQuantity money.Quantity
	Error          string
}

func rejected(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

func rejectedWithID(id order.ID, err error) Result {
	return Result{OrderID: id, Success: false, Error: err.Error()}
}

// Trade records one match: the taker and maker order ids, the price
// (always the maker's resting price), quantity and logical timestamp.
type Trade struct {
	TakerID   order.ID
	MakerID   order.ID
	Price     money.Price
	Quantity  money.Quantity
	Timestamp uint64
}
