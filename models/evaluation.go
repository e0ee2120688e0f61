package models

import "time"

// SymbolEvaluation is a read-out of one symbol's indicator state and the
// signals the strategies produced on the latest cycle.
type SymbolEvaluation struct {
	Symbol            string
	LastPrice         float64
	ChangePercent     float64
	TickChangePercent float64
	MA5               float64
	MA20              float64
	Volatility        float64
	Noise             float64
	VolumeRatio       float64
	SpreadBps         float64
	RSI14             float64
	UpDownRatio       float64
	Tradeable         bool
	Signals           []StrategySignal
}

type MarketEvaluation struct {
	Timestamp time.Time
	Symbols   []SymbolEvaluation
}
