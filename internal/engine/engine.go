package engine

import (
	"nanobook/internal/book"
	"nanobook/internal/money"
	"nanobook/internal/order"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Engine is a single-symbol matching kernel: the order book, the
// pending stop/trailing table, the trade tape and the intent event
// log, plus the id/timestamp counters that drive them. It is not
// safe for concurrent use — spec §5 requires external callers to
// serialize access to one engine instance.
type Engine struct {
	book *book.Book

	stops     map[order.ID]*order.StopOrder
	stopOrder []order.ID // insertion order, for deterministic trigger scans

	trades []Trade
	events []Event

	orders map[order.ID]*order.Order // terminal-order archive for clear_order_history

	nextID order.ID
	nextTS uint64

	log zerolog.Logger
}

// New constructs a fresh, empty engine with its counters seeded at
// zero (spec §9: replay must not rely on wall clock, so both the id
// and timestamp counters are deterministic per-engine monotonics).
func New() *Engine {
	return &Engine{
		book:   book.New(),
		stops:  make(map[order.ID]*order.StopOrder),
		orders: make(map[order.ID]*order.Order),
		log:    log.Logger,
	}
}

// WithLogger overrides the engine's logger (defaults to the global
// zerolog logger), matching the way fenrir threads a logger/server
// through its constructors.
func (e *Engine) WithLogger(l zerolog.Logger) *Engine {
	e.log = l
	return e
}

func (e *Engine) allocID() order.ID {
	e.nextID++
	return e.nextID
}

func (e *Engine) tick() uint64 {
	e.nextTS++
	return e.nextTS
}

func (e *Engine) logEvent(ev Event) {
	e.events = append(e.events, ev)
}

// Events returns the intent log in order.
func (e *Engine) Events() []Event {
	return e.events
}

// Trades returns the trade tape in order.
func (e *Engine) Trades() []Trade {
	return e.trades
}

// BestBid, BestAsk, BestBidAsk, Depth, FullBook, LastTradePrice and
// PendingStopCount are pure queries, delegated to the book / stop
// table.

func (e *Engine) BestBid() *money.Price { return e.book.BestBid() }
func (e *Engine) BestAsk() *money.Price { return e.book.BestAsk() }
func (e *Engine) BestBidAsk() (*money.Price, *money.Price) { return e.book.BestBidAsk() }
func (e *Engine) LastTradePrice() *money.Price { return e.book.LastTradePrice() }

func (e *Engine) Depth(n int) book.Snapshot    { return e.book.Snapshot(n) }
func (e *Engine) FullBook() book.Snapshot      { return e.book.Snapshot(-1) }

// GetOrder returns the order for id, whether it is live in the book
// or archived after reaching a terminal state. Returns nil if id is
// unknown — never an error (spec §7: programmer errors on lookup
// return a null record).
func (e *Engine) GetOrder(id order.ID) *order.Order {
	if o := e.book.Get(id); o != nil {
		return o
	}
	return e.orders[id]
}

// GetStopOrder returns the pending/triggered/cancelled stop for id,
// or nil if unknown.
func (e *Engine) GetStopOrder(id order.ID) *order.StopOrder {
	return e.stops[id]
}

// PendingStopCount returns the number of stops still pending.
func (e *Engine) PendingStopCount() int {
	n := 0
	for _, s := range e.stops {
		if s.Status == order.Pending {
			n++
		}
	}
	return n
}

// ClearTrades empties the trade tape without touching book state.
func (e *Engine) ClearTrades() {
	e.trades = nil
}

// ClearOrderHistory drops archived terminal orders and returns how
// many were removed. Live orders are untouched.
func (e *Engine) ClearOrderHistory() int {
	n := len(e.orders)
	e.orders = make(map[order.ID]*order.Order)
	return n
}

// Compact rebuilds the book's price levels with tombstones purged.
func (e *Engine) Compact() {
	e.book.Compact()
}

// archive records a terminal order so GetOrder keeps answering for it
// after it leaves the book.
func (e *Engine) archive(o *order.Order) {
	if o.Status.Terminal() {
		e.orders[o.ID] = o
	}
}
