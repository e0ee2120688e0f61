package strategies

import (
	"fmt"

	"github.com/deanturpin/lft/helpers"
	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/models"
)

const (
	maShortPeriods = 5
	maLongPeriods  = 20
)

// MACrossoverStrategy buys on the bar where the short moving average
// crosses above the long one. A short MA merely sitting above the long
// MA is not a cross, the transition itself is required.
type MACrossoverStrategy struct{}

func NewMACrossoverStrategy() *MACrossoverStrategy {
	return &MACrossoverStrategy{}
}

func (s *MACrossoverStrategy) Name() string {
	return "ma_crossover"
}

func (s *MACrossoverStrategy) Evaluate(history *market.PriceHistory, all map[string]*market.PriceHistory) models.StrategySignal {
	signal := models.NoSignal(s.Name())
	prices := history.Prices()
	if len(prices) < maLongPeriods+1 {
		return signal
	}

	shortNow := history.MovingAverage(maShortPeriods)
	longNow := history.MovingAverage(maLongPeriods)

	prior := prices[:len(prices)-1]
	shortPrev := helpers.Mean(prior[len(prior)-maShortPeriods:])
	longPrev := helpers.Mean(prior[len(prior)-maLongPeriods:])

	if shortPrev <= longPrev && shortNow > longNow {
		signal.ShouldBuy = true
		signal.Reason = fmt.Sprintf("%d MA %.2f crossed above %d MA %.2f",
			maShortPeriods, shortNow, maLongPeriods, longNow)
	}
	return signal
}
