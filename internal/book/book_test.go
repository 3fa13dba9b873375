package book

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nanobook/internal/money"
	"nanobook/internal/order"
)

func resting(id order.ID, side money.Side, price money.Price, qty money.Quantity) *order.Order {
	p := price
	return order.NewOrder(id, side, &p, qty, money.GTC, uint64(id))
}

func TestInsertAndBestBidAsk(t *testing.T) {
	b := New()

	b.Insert(resting(1, money.Buy, 9900, 100))
	b.Insert(resting(2, money.Buy, 10000, 50))
	b.Insert(resting(3, money.Sell, 10100, 60))
	b.Insert(resting(4, money.Sell, 10050, 40))

	bid, ask := b.BestBidAsk()
	assert.Equal(t, money.Price(10000), *bid)
	assert.Equal(t, money.Price(10050), *ask)
}

func TestFIFOWithinLevel(t *testing.T) {
	b := New()
	b.Insert(resting(1, money.Sell, 10000, 50))
	b.Insert(resting(2, money.Sell, 10000, 50))

	lvl := b.BestLevel(money.Sell)
	head, idx := lvl.Head()
	assert.Equal(t, order.ID(1), head.ID)
	assert.Equal(t, 0, idx)
}

func TestRemoveTombstonesAndCleansEmptyLevel(t *testing.T) {
	b := New()
	b.Insert(resting(1, money.Buy, 10000, 100))

	assert.True(t, b.Remove(1))
	assert.Nil(t, b.Get(1))
	assert.Nil(t, b.BestBid())
}

func TestGetUnknownIDReturnsNil(t *testing.T) {
	b := New()
	assert.Nil(t, b.Get(999))
}

func TestDepthAggregatesMultipleOrdersPerLevel(t *testing.T) {
	b := New()
	b.Insert(resting(1, money.Buy, 10000, 30))
	b.Insert(resting(2, money.Buy, 10000, 70))
	b.Insert(resting(3, money.Buy, 9900, 10))

	bids, _ := b.Depth(-1)
	assert.Len(t, bids, 2)
	assert.Equal(t, money.Price(10000), bids[0].Price)
	assert.Equal(t, money.Quantity(100), bids[0].Quantity)
	assert.Equal(t, 2, bids[0].OrderCount)
}

func TestSumWhileRespectsPriceLimit(t *testing.T) {
	b := New()
	b.Insert(resting(1, money.Sell, 10000, 40))
	b.Insert(resting(2, money.Sell, 10050, 20))
	b.Insert(resting(3, money.Sell, 10200, 100))

	levels := b.LevelsFor(money.Sell)
	total := SumWhile(levels, func(p money.Price) bool { return p <= 10050 })
	assert.Equal(t, money.Quantity(60), total)
}

func TestCompactPurgesTombstones(t *testing.T) {
	b := New()
	b.Insert(resting(1, money.Buy, 10000, 10))
	b.Insert(resting(2, money.Buy, 10000, 20))
	b.Remove(1)

	lvl := b.BestLevel(money.Buy)
	assert.Equal(t, 2, len(lvl.Orders)) // tombstone still occupies a slot

	b.Compact()
	lvl = b.BestLevel(money.Buy)
	assert.Equal(t, 1, len(lvl.Orders))
}

func TestSnapshotIsImmutableUnderLaterMutation(t *testing.T) {
	b := New()
	b.Insert(resting(1, money.Buy, 10000, 100))
	b.Insert(resting(2, money.Sell, 10100, 100))

	snap := b.Snapshot(-1)
	mid := *snap.MidPrice()

	b.Insert(resting(3, money.Buy, 10050, 500))

	assert.Equal(t, mid, *snap.MidPrice())
	assert.Len(t, snap.Bids, 1)
}

func TestSnapshotAnalytics(t *testing.T) {
	b := New()
	b.Insert(resting(1, money.Buy, 9900, 100))
	b.Insert(resting(2, money.Sell, 10100, 300))

	snap := b.Snapshot(-1)

	assert.Equal(t, 10000.0, *snap.MidPrice())
	assert.Equal(t, money.Price(200), *snap.Spread())

	imbalance := *snap.Imbalance()
	assert.InDelta(t, -0.5, imbalance, 1e-9)

	wm := *snap.WeightedMid()
	assert.InDelta(t, (300.0*9900+100.0*10100)/400.0, wm, 1e-9)
}

func TestEmptyBookSnapshotHasNilAnalytics(t *testing.T) {
	b := New()
	snap := b.Snapshot(-1)
	assert.Nil(t, snap.MidPrice())
	assert.Nil(t, snap.Spread())
	assert.Nil(t, snap.Imbalance())
	assert.Nil(t, snap.WeightedMid())
}
