// Package money holds the fixed-point primitives shared by the book,
// the order state machine and the matching kernel: prices in minor
// units, non-negative quantities, sides and time-in-force.
package money

import "errors"

// Price is a signed integer in minor units (e.g. cents). All arithmetic
// on it is exact; there is no implicit rounding anywhere in the engine.
type Price int64

// Quantity is a non-negative count of shares/contracts.
type Quantity uint64

// Side is which side of the book an order rests or crosses on.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// TimeInForce controls how a limit order's unfilled residual is handled.
type TimeInForce int

const (
	// GTC rests any unfilled residual on the book. The default.
	GTC TimeInForce = iota
	// IOC cancels any unfilled residual immediately after the initial
	// match pass.
	IOC
	// FOK requires the full quantity to be matchable in one pass, or
	// the whole order is rejected with no trades and no state change.
	FOK
	// Day behaves like GTC for the purposes of this engine; no
	// time-based expiry is implemented (spec Non-goals).
	Day
)

func (t TimeInForce) String() string {
	switch t {
	case IOC:
		return "ioc"
	case FOK:
		return "fok"
	case Day:
		return "day"
	default:
		return "gtc"
	}
}

// Rejection sentinels surfaced through a submission Result's Error field.
// State is unchanged and no event is logged when any of these fire.
var (
	ErrOrderNotActive       = errors.New("OrderNotActive")
	ErrFillOrKillUnfillable = errors.New("FillOrKillUnfillable")
	ErrInvalidPrice         = errors.New("InvalidPrice")
	ErrInvalidQuantity      = errors.New("InvalidQuantity")
)
