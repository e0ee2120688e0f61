package models

import "time"

// Bar is one aggregated trade bar for a symbol.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}
