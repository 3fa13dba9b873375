// Package router dispatches decoded ITCH records to one matching
// engine per symbol, and supervises one ingestion goroutine per
// streaming feed (one decoder, whose records may span many symbols).
package router

import (
	"context"
	"errors"
	"io"
	"sync"

	"nanobook/internal/engine"
	"nanobook/internal/itch"
	"nanobook/internal/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// PriceQuoter is the informational contract spec.md §6 describes for
// a portfolio/mark-to-market collaborator: it consumes (symbol, bid,
// ask) without the core persisting or introspecting any portfolio
// state. Router satisfies it; the collaborator itself is out of scope
// (spec.md §1 Non-goals).
type PriceQuoter interface {
	BestPrices(symbol string) (bid, ask *money.Price)
}

// Router owns one engine per symbol and routes decoded records to the
// right one. The core matching kernel is single-threaded (spec §5);
// the router's only concurrency is across distinct symbols, each
// guarded by its own mutex so a symbol's feed goroutine and any
// synchronous caller never race on that symbol's engine.
type Router struct {
	mu      sync.RWMutex
	engines map[string]*symbolEngine
	log     zerolog.Logger
}

type symbolEngine struct {
	mu  sync.Mutex
	eng *engine.Engine
}

// New constructs an empty router.
func New() *Router {
	return &Router{
		engines: make(map[string]*symbolEngine),
		log:     log.Logger,
	}
}

// WithLogger overrides the router's logger.
func (r *Router) WithLogger(l zerolog.Logger) *Router {
	r.log = l
	return r
}

// GetOrCreate returns the engine for symbol, creating it on first use.
func (r *Router) GetOrCreate(symbol string) *engine.Engine {
	return r.symbol(symbol).eng
}

func (r *Router) symbol(sym string) *symbolEngine {
	r.mu.RLock()
	se, ok := r.engines[sym]
	r.mu.RUnlock()
	if ok {
		return se
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if se, ok := r.engines[sym]; ok {
		return se
	}
	se = &symbolEngine{eng: engine.New()}
	r.engines[sym] = se
	return se
}

// Symbols returns the set of symbols the router has seen, in no
// particular order.
func (r *Router) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.engines))
	for sym := range r.engines {
		out = append(out, sym)
	}
	return out
}

// Len returns the number of distinct symbols routed so far.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}

// BestPrices reports the top-of-book for symbol, or (nil, nil) if the
// symbol is unknown.
func (r *Router) BestPrices(symbol string) (bid, ask *money.Price) {
	r.mu.RLock()
	se, ok := r.engines[symbol]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	se.mu.Lock()
	defer se.mu.Unlock()
	return se.eng.BestBidAsk()
}

// Dispatch applies one decoded record to its symbol's engine,
// replaying the record's intent event through the standard engine API
// so the call is logged exactly as a direct caller's would be.
// Records with an empty event kind (decoder-internal/skipped types)
// are no-ops.
func (r *Router) Dispatch(rec itch.Record) engine.Result {
	if rec.Event.Kind == "" {
		return engine.Result{}
	}

	se := r.symbol(rec.Symbol)
	se.mu.Lock()
	defer se.mu.Unlock()

	ev := rec.Event
	switch ev.Kind {
	case engine.EventSubmitLimit:
		return se.eng.SubmitLimit(ev.Side, *ev.Price, ev.Quantity, ev.TimeInForce)
	case engine.EventSubmitMarket:
		return se.eng.SubmitMarket(ev.Side, ev.Quantity)
	case engine.EventCancel:
		return se.eng.Cancel(ev.OrderID)
	case engine.EventModify:
		return se.eng.Modify(ev.OrderID, *ev.NewPrice, ev.NewQuantity)
	case engine.EventSubmitStopMarket:
		return se.eng.SubmitStopMarket(ev.Side, ev.StopPrice, ev.Quantity)
	case engine.EventSubmitStopLimit:
		return se.eng.SubmitStopLimit(ev.Side, ev.StopPrice, *ev.LimitPrice, ev.Quantity)
	case engine.EventSubmitTrailingStopMarket:
		return se.eng.SubmitTrailingStopMarket(ev.Side, ev.StopPrice, ev.Quantity, ev.Trail)
	case engine.EventSubmitTrailingStopLimit:
		return se.eng.SubmitTrailingStopLimit(ev.Side, ev.StopPrice, *ev.LimitPrice, ev.Quantity, ev.Trail)
	default:
		return engine.Result{}
	}
}

// Feed streams records from a decoder into the router until ctx is
// cancelled or the decoder is exhausted, tagging each batch with a
// correlation id for structured logging. One feed goroutine is
// supervised per call, in the teacher's tomb.Tomb worker idiom.
type Feed struct {
	t   tomb.Tomb
	r   *Router
	dec *itch.Decoder
}

// NewFeed wires dec's output into r.
func NewFeed(r *Router, dec *itch.Decoder) *Feed {
	return &Feed{r: r, dec: dec}
}

// Start launches the feed's ingestion goroutine under ctx.
func (f *Feed) Start(ctx context.Context) {
	f.t.Go(func() error {
		return f.run(ctx)
	})
}

// Stop signals the feed to stop and waits for it to exit.
func (f *Feed) Stop() error {
	f.t.Kill(nil)
	return f.t.Wait()
}

func (f *Feed) run(ctx context.Context) error {
	corrID := uuid.New().String()
	log := f.r.log.With().Str("correlation_id", corrID).Logger()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.t.Dying():
			return nil
		default:
		}

		rec, err := f.dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug().Msg("feed exhausted")
				return nil
			}
			log.Error().Err(err).Msg("itch decode failed")
			return err
		}

		res := f.r.Dispatch(rec)
		if rec.Event.Kind != "" && !res.Success {
			log.Warn().
				Str("symbol", rec.Symbol).
				Str("kind", string(rec.Event.Kind)).
				Str("error", res.Error).
				Msg("dispatch rejected")
		}
	}
}
