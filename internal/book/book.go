// Package book implements the price-time order book (spec §4.1): two
// sorted maps of price to FIFO level, plus an id→handle index,
// exposing best bid/ask, depth and an immutable full-book snapshot.
package book

import (
	"nanobook/internal/money"
	"nanobook/internal/order"

	"github.com/tidwall/btree"
)

// Levels is a sorted map of price to Level, ordered by the
// comparator supplied at construction (descending for bids,
// ascending for asks) — the same construction fenrir's
// orderbook.go uses for its PriceLevels btree.
type Levels = btree.BTreeG[*Level]

// handle is the book's weak id→location index: the level an order
// lives in plus its side, so Cancel/Get can find it without a scan.
type handle struct {
	side  money.Side
	price money.Price
}

// Book owns every live order. Bids are ordered price-descending, asks
// price-ascending; within a level, FIFO is strict.
type Book struct {
	Bids           *Levels
	Asks           *Levels
	byID           map[order.ID]*handle
	lastTradePrice *money.Price
}

// New constructs an empty order book.
func New() *Book {
	bids := btree.NewBTreeG(func(a, b *Level) bool {
		return a.Price > b.Price
	})
	asks := btree.NewBTreeG(func(a, b *Level) bool {
		return a.Price < b.Price
	})
	return &Book{
		Bids: bids,
		Asks: asks,
		byID: make(map[order.ID]*handle),
	}
}

func (b *Book) sideLevels(side money.Side) *Levels {
	if side == money.Buy {
		return b.Bids
	}
	return b.Asks
}

// LevelsFor exposes the sorted level map for side, so the matching
// kernel can walk it directly while crossing.
func (b *Book) LevelsFor(side money.Side) *Levels {
	return b.sideLevels(side)
}

// ConsumeHead removes a fully-filled head order from lvl (found at
// idx) and, if the level is now empty, removes the level itself from
// side's tree. o must already be in a terminal Filled status.
func (b *Book) ConsumeHead(side money.Side, lvl *Level, idx int, o *order.Order) {
	lvl.dropFilled(idx)
	delete(b.byID, o.ID)
	if lvl.empty() {
		b.sideLevels(side).Delete(lvl)
	}
}

// SumWhile sums remaining quantity across levels, in best-first tree
// order, stopping (and excluding) the first level for which pred
// returns false.
func SumWhile(levels *Levels, pred func(price money.Price) bool) money.Quantity {
	var total money.Quantity
	levels.Scan(func(lvl *Level) bool {
		if !pred(lvl.Price) {
			return false
		}
		if !lvl.empty() {
			total += lvl.totalQuantity()
		}
		return true
	})
	return total
}

// Insert places a fresh resting order at its limit price. The order
// must not already be present (structural invariant — a programmer
// error to insert the same id twice).
func (b *Book) Insert(o *order.Order) {
	levels := b.sideLevels(o.Side)
	price := *o.Price

	lvl, ok := levels.Get(&Level{Price: price})
	if !ok {
		lvl = newLevel(price)
		levels.Set(lvl)
	}
	lvl.push(o)
	b.byID[o.ID] = &handle{side: o.Side, price: price}
}

// Get returns the live order for id, or nil if it is unknown to the
// book (never found or already removed).
func (b *Book) Get(id order.ID) *order.Order {
	h, ok := b.byID[id]
	if !ok {
		return nil
	}
	levels := b.sideLevels(h.side)
	lvl, ok := levels.Get(&Level{Price: h.price})
	if !ok {
		return nil
	}
	for _, o := range lvl.Orders {
		if o != nil && o.ID == id {
			return o
		}
	}
	return nil
}

// Remove tombstones id's handle and drops the level if it becomes
// empty. Reports whether id was found live in the book.
func (b *Book) Remove(id order.ID) bool {
	h, ok := b.byID[id]
	if !ok {
		return false
	}
	delete(b.byID, id)

	levels := b.sideLevels(h.side)
	lvl, ok := levels.Get(&Level{Price: h.price})
	if !ok {
		return false
	}
	found := lvl.tombstone(id)
	if lvl.empty() {
		levels.Delete(lvl)
	}
	return found
}

// BestLevel returns the best (highest bid / lowest ask) non-empty
// level on the given side, or nil.
func (b *Book) BestLevel(side money.Side) *Level {
	levels := b.sideLevels(side)
	lvl, ok := levels.Min()
	if !ok {
		return nil
	}
	return lvl
}

// BestBid returns the highest resting bid price, or nil if the bid
// side is empty.
func (b *Book) BestBid() *money.Price {
	if lvl := b.BestLevel(money.Buy); lvl != nil {
		p := lvl.Price
		return &p
	}
	return nil
}

// BestAsk returns the lowest resting ask price, or nil if the ask
// side is empty.
func (b *Book) BestAsk() *money.Price {
	if lvl := b.BestLevel(money.Sell); lvl != nil {
		p := lvl.Price
		return &p
	}
	return nil
}

// BestBidAsk returns (best bid, best ask), either of which may be nil.
func (b *Book) BestBidAsk() (*money.Price, *money.Price) {
	return b.BestBid(), b.BestAsk()
}

// LastTradePrice returns the most recent trade price observed by this
// book, or nil if no trade has happened yet.
func (b *Book) LastTradePrice() *money.Price {
	return b.lastTradePrice
}

// SetLastTradePrice records the price of the most recent trade.
func (b *Book) SetLastTradePrice(p money.Price) {
	b.lastTradePrice = &p
}

// Compact purges tombstones from every level in the book.
func (b *Book) Compact() {
	b.Bids.Scan(func(lvl *Level) bool {
		lvl.compact()
		return true
	})
	b.Asks.Scan(func(lvl *Level) bool {
		lvl.compact()
		return true
	})
}

// LevelAggregate is one row of a depth query: a price and the
// aggregate remaining quantity/order count resting there.
type LevelAggregate struct {
	Price      money.Price
	Quantity   money.Quantity
	OrderCount int
}

// Depth returns the top n levels per side, aggregated.
func (b *Book) Depth(n int) (bids, asks []LevelAggregate) {
	bids = aggregateLevels(b.Bids, n)
	asks = aggregateLevels(b.Asks, n)
	return
}

// FullBook returns every level on each side, aggregated, in book
// order (best-first).
func (b *Book) FullBook() (bids, asks []LevelAggregate) {
	return b.Depth(-1)
}

func aggregateLevels(levels *Levels, n int) []LevelAggregate {
	out := make([]LevelAggregate, 0, levels.Len())
	levels.Scan(func(lvl *Level) bool {
		if n >= 0 && len(out) >= n {
			return false
		}
		if lvl.empty() {
			return true
		}
		out = append(out, LevelAggregate{
			Price:      lvl.Price,
			Quantity:   lvl.totalQuantity(),
			OrderCount: lvl.orderCount(),
		})
		return true
	})
	return out
}
