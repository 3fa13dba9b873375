package engine

import (
	"nanobook/internal/book"
	"nanobook/internal/money"
	"nanobook/internal/order"
)

func opposite(side money.Side) money.Side {
	if side == money.Buy {
		return money.Sell
	}
	return money.Buy
}

// priceWithinLimit returns a predicate testing whether a resting
// price is reachable by a taker on side at limit: <= limit for a
// buy, >= limit for a sell.
func priceWithinLimit(side money.Side, limit money.Price) func(money.Price) bool {
	if side == money.Buy {
		return func(p money.Price) bool { return p <= limit }
	}
	return func(p money.Price) bool { return p >= limit }
}

// availableLiquidity sums the resting quantity reachable by a taker
// on side at limit (nil limit = no price constraint, i.e. a market
// order's full depth).
func (e *Engine) availableLiquidity(side money.Side, limit *money.Price) money.Quantity {
	levels := e.book.LevelsFor(opposite(side))
	if limit == nil {
		return book.SumWhile(levels, func(money.Price) bool { return true })
	}
	return book.SumWhile(levels, priceWithinLimit(side, *limit))
}

// cross consumes taker against the opposite side of the book, in
// price-time priority, until taker is exhausted, the opposite side is
// empty, or (for a priced taker) the best opposite price no longer
// satisfies limit. Each fill emits a Trade, updates last-trade-price
// and polls the stop table — cascading stop resubmissions are
// processed depth-first, interleaved with the originating call's own
// trades, exactly as spec §5 requires.
func (e *Engine) cross(taker *order.Order, limit *money.Price) {
	oppSide := opposite(taker.Side)
	levels := e.book.LevelsFor(oppSide)

	for taker.RemainingQuantity > 0 {
		lvl, ok := levels.Min()
		if !ok {
			break
		}
		if limit != nil && !priceWithinLimit(taker.Side, *limit)(lvl.Price) {
			break
		}

		for taker.RemainingQuantity > 0 && !lvl.Empty() {
			maker, idx := lvl.Head()
			if maker == nil {
				break
			}

			fillQty := min(taker.RemainingQuantity, maker.RemainingQuantity)
			ts := e.tick()
			taker.Fill(fillQty)
			maker.Fill(fillQty)

			e.trades = append(e.trades, Trade{
				TakerID:   taker.ID,
				MakerID:   maker.ID,
				Price:     lvl.Price,
				Quantity:  fillQty,
				Timestamp: ts,
			})

			e.book.SetLastTradePrice(lvl.Price)

			if maker.Status == order.Filled {
				e.book.ConsumeHead(oppSide, lvl, idx, maker)
				e.archive(maker)
			}

			e.onTrade(lvl.Price)
		}
	}
}
