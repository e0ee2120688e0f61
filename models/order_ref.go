package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OrderRef is the structured client order ID. It embeds the owning
// strategy and the exit thresholds that applied at entry, the only
// cross-process record of why a position exists.
//
// Wire form: SYMBOL_strategy_name_1700000000000|tp:2.0|sl:-2.0|ts:1.0
// with the thresholds in percent (stop-loss negative on the wire).
type OrderRef struct {
	Symbol          string
	Strategy        string
	Timestamp       time.Time
	TakeProfitPct   float64
	StopLossPct     float64
	TrailingStopPct float64
}

func (r OrderRef) Encode() string {
	return fmt.Sprintf("%s_%s_%d|tp:%.1f|sl:%.1f|ts:%.1f",
		r.Symbol, r.Strategy, r.Timestamp.UnixMilli(),
		r.TakeProfitPct*100.0, -r.StopLossPct*100.0, r.TrailingStopPct*100.0)
}

// ParseOrderRef decodes a client order ID produced by Encode. Strategy
// names may themselves contain underscores, the first token is the
// symbol and the last is the millisecond timestamp.
func ParseOrderRef(s string) (OrderRef, error) {
	var ref OrderRef
	sections := strings.Split(s, "|")
	base := strings.Split(sections[0], "_")
	if len(base) < 3 {
		return ref, fmt.Errorf("malformed order ref %q", s)
	}

	ms, err := strconv.ParseInt(base[len(base)-1], 10, 64)
	if err != nil {
		return ref, fmt.Errorf("malformed order ref timestamp %q: %w", s, err)
	}
	ref.Symbol = base[0]
	ref.Strategy = strings.Join(base[1:len(base)-1], "_")
	ref.Timestamp = time.UnixMilli(ms)

	for _, section := range sections[1:] {
		key, value, found := strings.Cut(section, ":")
		if !found {
			continue
		}
		pct, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return ref, fmt.Errorf("malformed order ref threshold %q: %w", section, err)
		}
		switch key {
		case "tp":
			ref.TakeProfitPct = pct / 100.0
		case "sl":
			ref.StopLossPct = -pct / 100.0
		case "ts":
			ref.TrailingStopPct = pct / 100.0
		}
	}
	return ref, nil
}
