package models

import "time"

// Snapshot is the latest quote and trade state for a symbol.
type Snapshot struct {
	Symbol         string
	LastTradePrice float64
	Bid            float64
	Ask            float64
	PrevClose      float64
	Timestamp      time.Time
}

func (s *Snapshot) Mid() float64 {
	if s.Bid > 0.0 && s.Ask > 0.0 {
		return (s.Bid + s.Ask) / 2.0
	}
	return s.LastTradePrice
}

func (s *Snapshot) ChangePercent() float64 {
	if s.PrevClose == 0.0 {
		return 0.0
	}
	return (s.LastTradePrice - s.PrevClose) / s.PrevClose * 100.0
}
