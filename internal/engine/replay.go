package engine

// Replay reconstructs an engine from scratch by re-issuing each logged
// intent event in order (spec §4.5/§9). Stop-triggered resubmissions
// are never logged, so they are naturally re-derived here by the same
// matching/onTrade cascade that produced them the first time — replay
// does not special-case them.
func Replay(events []Event) *Engine {
	e := New()
	for _, ev := range events {
		switch ev.Kind {
		case EventSubmitLimit:
			e.SubmitLimit(ev.Side, *ev.Price, ev.Quantity, ev.TimeInForce)
		case EventSubmitMarket:
			e.SubmitMarket(ev.Side, ev.Quantity)
		case EventCancel:
			e.Cancel(ev.OrderID)
		case EventModify:
			e.Modify(ev.OrderID, *ev.NewPrice, ev.NewQuantity)
		case EventSubmitStopMarket:
			e.SubmitStopMarket(ev.Side, ev.StopPrice, ev.Quantity)
		case EventSubmitStopLimit:
			e.SubmitStopLimit(ev.Side, ev.StopPrice, *ev.LimitPrice, ev.Quantity)
		case EventSubmitTrailingStopMarket:
			e.SubmitTrailingStopMarket(ev.Side, ev.StopPrice, ev.Quantity, ev.Trail)
		case EventSubmitTrailingStopLimit:
			e.SubmitTrailingStopLimit(ev.Side, ev.StopPrice, *ev.LimitPrice, ev.Quantity, ev.Trail)
		}
	}
	return e
}
