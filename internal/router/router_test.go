package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nanobook/internal/engine"
	"nanobook/internal/itch"
	"nanobook/internal/money"
)

func limitRecord(symbol string, side money.Side, price money.Price, qty money.Quantity) itch.Record {
	p := price
	return itch.Record{
		Symbol: symbol,
		Event: engine.Event{
			Kind:        engine.EventSubmitLimit,
			Side:        side,
			Price:       &p,
			Quantity:    qty,
			TimeInForce: money.GTC,
		},
	}
}

func TestDispatchRoutesBySymbol(t *testing.T) {
	r := New()

	r.Dispatch(limitRecord("AAPL", money.Buy, 10000, 100))
	r.Dispatch(limitRecord("MSFT", money.Sell, 20000, 50))

	assert.Equal(t, 2, r.Len())

	aaplBid, _ := r.BestPrices("AAPL")
	assert.Equal(t, money.Price(10000), *aaplBid)

	_, msftAsk := r.BestPrices("MSFT")
	assert.Equal(t, money.Price(20000), *msftAsk)
}

func TestDistinctSymbolsHaveIndependentEngines(t *testing.T) {
	r := New()

	r.Dispatch(limitRecord("AAPL", money.Sell, 10000, 40))
	r.Dispatch(limitRecord("AAPL", money.Buy, 10000, 100))

	bid, ask := r.BestPrices("MSFT")
	assert.Nil(t, bid)
	assert.Nil(t, ask)

	eng := r.GetOrCreate("AAPL")
	assert.Len(t, eng.Trades(), 1)
}

func TestBestPricesUnknownSymbol(t *testing.T) {
	r := New()
	bid, ask := r.BestPrices("GHOST")
	assert.Nil(t, bid)
	assert.Nil(t, ask)
}

func TestDispatchSkipsEmptyEvent(t *testing.T) {
	r := New()
	res := r.Dispatch(itch.Record{})
	assert.Equal(t, engine.Result{}, res)
	assert.Equal(t, 0, r.Len())
}
