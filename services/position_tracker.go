package services

import (
	"time"

	"github.com/deanturpin/lft/models"
)

// PositionTracker owns the session's position attribution state: which
// strategy opened each symbol, when, the running peak price and any
// re-entry cooldown. It is passed into the entry and exit services, no
// package-level state exists.
type PositionTracker struct {
	refs      map[string]models.OrderRef
	peaks     map[string]float64
	cooldowns map[string]time.Time
}

func NewPositionTracker() *PositionTracker {
	return &PositionTracker{
		refs:      make(map[string]models.OrderRef),
		peaks:     make(map[string]float64),
		cooldowns: make(map[string]time.Time),
	}
}

func (t *PositionTracker) Track(ref models.OrderRef, entryPrice float64) {
	t.refs[ref.Symbol] = ref
	t.peaks[ref.Symbol] = entryPrice
}

func (t *PositionTracker) IsTracked(symbol string) bool {
	_, ok := t.refs[symbol]
	return ok
}

func (t *PositionTracker) Ref(symbol string) (models.OrderRef, bool) {
	ref, ok := t.refs[symbol]
	return ref, ok
}

func (t *PositionTracker) Strategy(symbol string) string {
	return t.refs[symbol].Strategy
}

// UpdatePeak raises the high-water mark, never lowers it, and returns
// the current peak.
func (t *PositionTracker) UpdatePeak(symbol string, price float64) float64 {
	if price > t.peaks[symbol] {
		t.peaks[symbol] = price
	}
	return t.peaks[symbol]
}

func (t *PositionTracker) Peak(symbol string) float64 {
	return t.peaks[symbol]
}

// Release drops all tracking for a symbol after a confirmed close.
func (t *PositionTracker) Release(symbol string) {
	delete(t.refs, symbol)
	delete(t.peaks, symbol)
}

func (t *PositionTracker) StartCooldown(symbol string, until time.Time) {
	t.cooldowns[symbol] = until
}

func (t *PositionTracker) InCooldown(symbol string, now time.Time) bool {
	until, ok := t.cooldowns[symbol]
	if !ok {
		return false
	}
	if now.Before(until) {
		return true
	}
	delete(t.cooldowns, symbol)
	return false
}

func (t *PositionTracker) Symbols() []string {
	symbols := make([]string, 0, len(t.refs))
	for symbol := range t.refs {
		symbols = append(symbols, symbol)
	}
	return symbols
}
