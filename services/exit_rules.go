package services

import "github.com/deanturpin/lft/models"

// Pure exit arithmetic. Everything here is deterministic and free of
// brokerage state so the boundary semantics stay testable in isolation.

// CalcPLPct is the unrealized P&L as a fraction of entry. Zero entry
// yields zero rather than a division blow-up.
func CalcPLPct(entryPrice float64, currentPrice float64) float64 {
	if entryPrice == 0.0 {
		return 0.0
	}
	return (currentPrice - entryPrice) / entryPrice
}

// IsTakeProfit triggers at the threshold inclusive.
func IsTakeProfit(entryPrice float64, currentPrice float64, takeProfitPct float64) bool {
	return CalcPLPct(entryPrice, currentPrice) >= takeProfitPct
}

// IsStopLoss triggers at the threshold inclusive.
func IsStopLoss(entryPrice float64, currentPrice float64, stopLossPct float64) bool {
	return CalcPLPct(entryPrice, currentPrice) <= -stopLossPct
}

func TrailingStopPrice(peakPrice float64, trailingStopPct float64) float64 {
	return peakPrice * (1.0 - trailingStopPct)
}

// IsTrailingStop is strict: a price exactly at the peak, or exactly at
// the trailing price, does not trigger.
func IsTrailingStop(peakPrice float64, currentPrice float64, trailingStopPct float64) bool {
	return currentPrice < TrailingStopPrice(peakPrice, trailingStopPct)
}

// ApplySpread moves a mid price half the spread against the taker.
func ApplySpread(midPrice float64, spreadFraction float64, buying bool) float64 {
	half := midPrice * spreadFraction / 2.0
	if buying {
		return midPrice + half
	}
	return midPrice - half
}

// ExitThresholds are the per-position exit parameters, usually recovered
// from the order ref written at entry.
type ExitThresholds struct {
	TakeProfitPct   float64
	StopLossPct     float64
	TrailingStopPct float64
}

// EvaluateExit decides whether a position should close. The decision is
// a plain OR of the three conditions; the returned trigger is only the
// reported label, with trailing taking precedence, then profit target
// when ahead, then stop loss.
func EvaluateExit(entryPrice float64, currentPrice float64, peakPrice float64, t ExitThresholds) (bool, models.ExitTrigger) {
	plPct := CalcPLPct(entryPrice, currentPrice)
	takeProfit := plPct >= t.TakeProfitPct
	stopLoss := plPct <= -t.StopLossPct
	trailing := IsTrailingStop(peakPrice, currentPrice, t.TrailingStopPct)

	if !takeProfit && !stopLoss && !trailing {
		return false, models.ExitTriggerNone
	}
	switch {
	case trailing:
		return true, models.ExitTriggerTrailingStop
	case plPct > 0.0:
		return true, models.ExitTriggerTakeProfit
	default:
		return true, models.ExitTriggerStopLoss
	}
}

// Reference per-bar noise for the adaptive thresholds, 1% of price.
const adaptiveReferenceNoise = 0.01

// AdaptiveThreshold scales a base exit threshold with recent bar noise,
// clamped to half and double the base so a wild noise estimate cannot
// disable an exit entirely. Optional behavior, off by default.
func AdaptiveThreshold(base float64, recentNoise float64) float64 {
	if recentNoise <= 0.0 {
		return base
	}
	scaled := base * (recentNoise / adaptiveReferenceNoise)
	if scaled < base/2.0 {
		return base / 2.0
	}
	if scaled > base*2.0 {
		return base * 2.0
	}
	return scaled
}
