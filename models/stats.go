package models

// StrategyStats accumulate over a calibration run or a live session.
// TotalLoss is a negative accumulator, so net profit is a plain sum.
type StrategyStats struct {
	StrategyName     string
	SignalsGenerated int
	TradesExecuted   int
	TradesClosed     int
	ProfitableTrades int
	LosingTrades     int
	TotalProfit      float64
	TotalLoss        float64
}

func (s *StrategyStats) WinRate() float64 {
	if s.TradesClosed == 0 {
		return 0.0
	}
	return float64(s.ProfitableTrades) / float64(s.TradesClosed) * 100.0
}

func (s *StrategyStats) NetProfit() float64 {
	return s.TotalProfit + s.TotalLoss
}

func (s *StrategyStats) RecordClose(profit float64) {
	s.TradesClosed++
	if profit > 0.0 {
		s.ProfitableTrades++
		s.TotalProfit += profit
	} else {
		s.LosingTrades++
		s.TotalLoss += profit
	}
}
