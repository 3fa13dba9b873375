package order

import "nanobook/internal/money"

// StopStatus is a pending stop's life-cycle position, independent of
// the Status enum an order is given once it is reborn as a live order.
type StopStatus int

const (
	Pending StopStatus = iota
	Triggered
	StopCancelled
)

func (s StopStatus) String() string {
	switch s {
	case Triggered:
		return "triggered"
	case StopCancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// TrailKind selects how a trailing stop's offset is interpreted.
type TrailKind int

const (
	// NoTrail marks a plain (non-trailing) stop.
	NoTrail TrailKind = iota
	// TrailFixed trails by a constant minor-unit offset.
	TrailFixed
	// TrailPercentage trails by a fraction of the last trade price,
	// in (0, 1).
	TrailPercentage
)

// TrailSpec describes a trailing stop's recompute rule. Kind ==
// NoTrail for a plain stop.
type TrailSpec struct {
	Kind  TrailKind
	Value float64 // fixed: minor units; percentage: fraction in (0,1)
}

// StopOrder is a pending stop or stop-limit, possibly trailing. It
// lives in the engine's stop table until triggered, at which point it
// is removed and a fresh live Order is born in the book.
type StopOrder struct {
	ID         ID
	Side       money.Side
	StopPrice  money.Price
	LimitPrice *money.Price // nil => converts to market on trigger
	Quantity   money.Quantity
	Status     StopStatus
	Trail      TrailSpec
	TrailRef   money.Price // best observed extremum for trail recompute
	Timestamp  uint64
}

// Eligible reports whether lastTrade crosses this stop's trigger
// condition.
func (s *StopOrder) Eligible(lastTrade money.Price) bool {
	if s.Side == money.Buy {
		return lastTrade >= s.StopPrice
	}
	return lastTrade <= s.StopPrice
}

// RecomputeTrail updates StopPrice/TrailRef from the latest trade
// price per spec §4.3, in place. No-op for a non-trailing stop.
func (s *StopOrder) RecomputeTrail(lastTrade money.Price) {
	if s.Trail.Kind == NoTrail {
		return
	}

	var offset money.Price
	switch s.Trail.Kind {
	case TrailFixed:
		offset = money.Price(s.Trail.Value)
	case TrailPercentage:
		offset = money.Price(roundHalfAwayFromZero(float64(lastTrade) * s.Trail.Value))
	}

	if s.Side == money.Sell {
		if lastTrade > s.TrailRef {
			s.TrailRef = lastTrade
		}
		// Sell trailing stop: stop price only ever rises with price.
		candidate := lastTrade - offset
		if candidate > s.StopPrice {
			s.StopPrice = candidate
		}
	} else {
		if lastTrade < s.TrailRef {
			s.TrailRef = lastTrade
		}
		// Buy trailing stop: stop price only ever falls with price.
		candidate := lastTrade + offset
		if candidate < s.StopPrice {
			s.StopPrice = candidate
		}
	}
}

func roundHalfAwayFromZero(v float64) int64 {
	if v >= 0 {
		return int64(v + 0.5)
	}
	return int64(v - 0.5)
}
