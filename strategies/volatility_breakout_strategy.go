package strategies

import (
	"fmt"
	"math"

	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/models"
)

const (
	breakoutMinHistory    = 20
	breakoutRecentReturns = 4
	breakoutMultiple      = 1.5
)

// VolatilityBreakoutStrategy buys when very recent movement runs well
// ahead of the window's overall volatility and the move points up.
type VolatilityBreakoutStrategy struct{}

func NewVolatilityBreakoutStrategy() *VolatilityBreakoutStrategy {
	return &VolatilityBreakoutStrategy{}
}

func (s *VolatilityBreakoutStrategy) Name() string {
	return "volatility_breakout"
}

func (s *VolatilityBreakoutStrategy) Evaluate(history *market.PriceHistory, all map[string]*market.PriceHistory) models.StrategySignal {
	signal := models.NoSignal(s.Name())
	prices := history.Prices()
	if len(prices) < breakoutMinHistory {
		return signal
	}

	total := 0.0
	for i := len(prices) - breakoutRecentReturns; i < len(prices); i++ {
		if prices[i-1] == 0.0 {
			return signal
		}
		total += math.Abs((prices[i] - prices[i-1]) / prices[i-1])
	}
	recentMove := total / float64(breakoutRecentReturns)

	if recentMove > breakoutMultiple*history.Volatility() && history.ChangePercent() > 0.0 {
		signal.ShouldBuy = true
		signal.Reason = fmt.Sprintf("recent move %.4f exceeds %.1fx window volatility, change %.2f%%",
			recentMove, breakoutMultiple, history.ChangePercent())
	}
	return signal
}
