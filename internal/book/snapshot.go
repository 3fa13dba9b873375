package book

import "nanobook/internal/money"

// Snapshot is an immutable copy of the book's levels at the moment it
// was taken. Its analytics are pure functions of the copied data and
// never reflect later mutations to the originating Book.
type Snapshot struct {
	Bids []LevelAggregate
	Asks []LevelAggregate
}

// Snapshot takes an immutable copy of the top n levels per side. n < 0
// returns every level (full_book semantics).
func (b *Book) Snapshot(n int) Snapshot {
	bids, asks := b.Depth(n)
	return Snapshot{Bids: bids, Asks: asks}
}

func (s Snapshot) bestBid() (money.Price, bool) {
	if len(s.Bids) == 0 {
		return 0, false
	}
	return s.Bids[0].Price, true
}

func (s Snapshot) bestAsk() (money.Price, bool) {
	if len(s.Asks) == 0 {
		return 0, false
	}
	return s.Asks[0].Price, true
}

// MidPrice is (best_bid + best_ask) / 2 as a real, or nil if either
// side is empty.
func (s Snapshot) MidPrice() *float64 {
	bid, ok1 := s.bestBid()
	ask, ok2 := s.bestAsk()
	if !ok1 || !ok2 {
		return nil
	}
	mid := (float64(bid) + float64(ask)) / 2
	return &mid
}

// Spread is best_ask - best_bid, or nil if either side is empty.
func (s Snapshot) Spread() *money.Price {
	bid, ok1 := s.bestBid()
	ask, ok2 := s.bestAsk()
	if !ok1 || !ok2 {
		return nil
	}
	spread := ask - bid
	return &spread
}

// Imbalance is (bid_qty - ask_qty) / (bid_qty + ask_qty) across all
// levels; nil if both sides are empty, exactly 1.0/-1.0 for a
// one-sided book.
func (s Snapshot) Imbalance() *float64 {
	var bidQty, askQty money.Quantity
	for _, lvl := range s.Bids {
		bidQty += lvl.Quantity
	}
	for _, lvl := range s.Asks {
		askQty += lvl.Quantity
	}
	if bidQty == 0 && askQty == 0 {
		return nil
	}
	imbalance := (float64(bidQty) - float64(askQty)) / (float64(bidQty) + float64(askQty))
	return &imbalance
}

// WeightedMid is the microprice: best bid and ask weighted by the
// opposite side's quantity. Nil if either side is empty.
func (s Snapshot) WeightedMid() *float64 {
	bid, ok1 := s.bestBid()
	ask, ok2 := s.bestAsk()
	if !ok1 || !ok2 {
		return nil
	}
	bidQty := float64(s.Bids[0].Quantity)
	askQty := float64(s.Asks[0].Quantity)
	weighted := (askQty*float64(bid) + bidQty*float64(ask)) / (bidQty + askQty)
	return &weighted
}
