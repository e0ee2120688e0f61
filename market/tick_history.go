package market

import "time"

// TickHistory is the tick-fed history for one symbol, used when polling
// snapshots live. It keeps prices only, never highs/lows/volumes, so the
// bar-alignment invariant of PriceHistory cannot be broken by mixing
// ingestion modes on one instance.
type TickHistory struct {
	priceSeries
	lastTradeTimestamp time.Time
}

func NewTickHistory() *TickHistory {
	return &TickHistory{}
}

// AddPrice always appends. Backtest feeds use this form.
func (h *TickHistory) AddPrice(price float64) {
	h.push(price)
}

// AddPriceWithTimestamp appends unless the timestamp matches the last
// seen trade, which means the poll returned the same trade again. A zero
// timestamp always appends. Reports whether the price was taken.
func (h *TickHistory) AddPriceWithTimestamp(price float64, timestamp time.Time) bool {
	if !timestamp.IsZero() && timestamp.Equal(h.lastTradeTimestamp) {
		return false
	}
	h.lastTradeTimestamp = timestamp
	h.push(price)
	return true
}

func (h *TickHistory) LastTradeTimestamp() time.Time {
	return h.lastTradeTimestamp
}
