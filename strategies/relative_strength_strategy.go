package strategies

import (
	"fmt"

	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/models"
)

// How far above the universe mean a symbol's change must be, in
// percentage points.
const relativeStrengthMargin = 0.5

// RelativeStrengthStrategy buys the symbol outrunning the mean change
// percent of the whole watchlist.
type RelativeStrengthStrategy struct{}

func NewRelativeStrengthStrategy() *RelativeStrengthStrategy {
	return &RelativeStrengthStrategy{}
}

func (s *RelativeStrengthStrategy) Name() string {
	return "relative_strength"
}

func (s *RelativeStrengthStrategy) Evaluate(history *market.PriceHistory, all map[string]*market.PriceHistory) models.StrategySignal {
	signal := models.NoSignal(s.Name())
	if !history.HasHistory() || len(all) == 0 {
		return signal
	}

	total := 0.0
	count := 0
	for _, other := range all {
		if !other.HasHistory() {
			continue
		}
		total += other.ChangePercent()
		count++
	}
	if count == 0 {
		return signal
	}
	marketMean := total / float64(count)

	change := history.ChangePercent()
	if change > marketMean+relativeStrengthMargin {
		signal.ShouldBuy = true
		signal.Reason = fmt.Sprintf("change %.2f%% leads market mean %.2f%% by more than %.1f points",
			change, marketMean, relativeStrengthMargin)
	}
	return signal
}
