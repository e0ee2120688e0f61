package models

import "time"

// TradingConfig carries every tunable of a session. Percentages are
// fractions (0.02 = 2%) except where the name says bps.
type TradingConfig struct {
	Symbols []string

	TakeProfitPct   float64
	StopLossPct     float64
	TrailingStopPct float64
	PanicStopPct    float64

	TradeNotional     float64
	MinConfidence     float64
	MinTradesToEnable int

	MaxSpreadBpsStock   float64
	MaxSpreadBpsCrypto  float64
	MinVolumeRatio      float64
	MinEdgeBps          float64
	SlippageBufferBps   float64
	AdverseSelectionBps float64

	StockSpreadFraction  float64
	CryptoSpreadFraction float64

	CalibrationDays int
	StartingCash    float64

	SessionDuration time.Duration
	EntryCadence    time.Duration
	ExitCadence     time.Duration
	PanicCadence    time.Duration

	Cooldown      time.Duration
	RiskOffAfter  time.Duration
	AdaptiveExits bool

	PaperTrading bool
}

func NewTradingConfig() *TradingConfig {
	return &TradingConfig{
		TakeProfitPct:        0.02,
		StopLossPct:          0.02,
		TrailingStopPct:      0.01,
		PanicStopPct:         0.05,
		TradeNotional:        100.0,
		MinConfidence:        0.7,
		MinTradesToEnable:    3,
		MaxSpreadBpsStock:    50.0,
		MaxSpreadBpsCrypto:   100.0,
		MinVolumeRatio:       0.5,
		MinEdgeBps:           10.0,
		SlippageBufferBps:    2.0,
		AdverseSelectionBps:  3.0,
		StockSpreadFraction:  0.0002,
		CryptoSpreadFraction: 0.0010,
		CalibrationDays:      30,
		StartingCash:         10000.0,
		SessionDuration:      60 * time.Minute,
		EntryCadence:         15 * time.Minute,
		ExitCadence:          60 * time.Second,
		PanicCadence:         10 * time.Second,
		Cooldown:             0,
		RiskOffAfter:         0,
		AdaptiveExits:        false,
		PaperTrading:         false,
	}
}

// MaxSpreadBps is the entry spread cap for a symbol's asset class.
func (c *TradingConfig) MaxSpreadBps(crypto bool) float64 {
	if crypto {
		return c.MaxSpreadBpsCrypto
	}
	return c.MaxSpreadBpsStock
}

// SpreadFraction is the simulated half-spread basis used in calibration
// and paper fills.
func (c *TradingConfig) SpreadFraction(crypto bool) float64 {
	if crypto {
		return c.CryptoSpreadFraction
	}
	return c.StockSpreadFraction
}
