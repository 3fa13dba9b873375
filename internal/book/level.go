package book

import (
	"nanobook/internal/money"
	"nanobook/internal/order"
)

// Level is a FIFO of order handles resting at one exact price. A
// cancel marks a handle's slot nil (a tombstone) rather than
// reslicing the FIFO; compact() reclaims tombstones.
type Level struct {
	Price  money.Price
	Orders []*order.Order
	// live counts non-tombstoned entries, so callers can tell an
	// empty level from one that is merely all tombstones.
	live int
}

func newLevel(price money.Price) *Level {
	return &Level{Price: price}
}

// push appends a fresh order to the back of the FIFO.
func (l *Level) push(o *order.Order) {
	l.Orders = append(l.Orders, o)
	l.live++
}

// Head returns the first non-tombstoned order and its index, or (nil,
// -1) if the level is exhausted. Used by the matching kernel in
// another package, hence exported.
func (l *Level) Head() (*order.Order, int) {
	return l.head()
}

// Empty reports whether the level has no live orders left.
func (l *Level) Empty() bool {
	return l.empty()
}

// head returns the first non-tombstoned order and its index, or (nil,
// -1) if the level is exhausted.
func (l *Level) head() (*order.Order, int) {
	for i, o := range l.Orders {
		if o != nil {
			return o, i
		}
	}
	return nil, -1
}

// dropFilled removes a fully-filled head order (status already
// Filled) by tombstoning its slot and advancing past any leading
// tombstones.
func (l *Level) dropFilled(idx int) {
	l.Orders[idx] = nil
	l.live--
	l.trimLeading()
}

// trimLeading slices off any tombstones at the front so head() stays
// cheap for the common case of sequential consumption.
func (l *Level) trimLeading() {
	i := 0
	for i < len(l.Orders) && l.Orders[i] == nil {
		i++
	}
	if i > 0 {
		l.Orders = l.Orders[i:]
	}
}

// tombstone marks the order with the given id cancelled-in-place.
// Reports whether it was found.
func (l *Level) tombstone(id order.ID) bool {
	for i, o := range l.Orders {
		if o != nil && o.ID == id {
			l.Orders[i] = nil
			l.live--
			return true
		}
	}
	return false
}

// empty reports whether the level has no live orders left.
func (l *Level) empty() bool {
	return l.live == 0
}

// totalQuantity sums remaining quantity across live orders.
func (l *Level) totalQuantity() money.Quantity {
	var total money.Quantity
	for _, o := range l.Orders {
		if o != nil {
			total += o.RemainingQuantity
		}
	}
	return total
}

// orderCount counts live orders.
func (l *Level) orderCount() int {
	return l.live
}

// compact rebuilds Orders with tombstones purged.
func (l *Level) compact() {
	if l.live == len(l.Orders) {
		return
	}
	fresh := make([]*order.Order, 0, l.live)
	for _, o := range l.Orders {
		if o != nil {
			fresh = append(fresh, o)
		}
	}
	l.Orders = fresh
}
