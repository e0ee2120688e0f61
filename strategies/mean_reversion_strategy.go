package strategies

import (
	"fmt"

	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/models"
)

const (
	meanReversionPeriods = 20
	meanReversionSigmas  = 2.0
	// Below this the series is effectively flat and the z-score blows up.
	minVolatility = 0.0001
)

// MeanReversionStrategy buys when price stretches far below its recent
// mean, betting on a snap back.
type MeanReversionStrategy struct{}

func NewMeanReversionStrategy() *MeanReversionStrategy {
	return &MeanReversionStrategy{}
}

func (s *MeanReversionStrategy) Name() string {
	return "mean_reversion"
}

func (s *MeanReversionStrategy) Evaluate(history *market.PriceHistory, all map[string]*market.PriceHistory) models.StrategySignal {
	signal := models.NoSignal(s.Name())
	if history.Size() < meanReversionPeriods {
		return signal
	}

	volatility := history.Volatility()
	if volatility < minVolatility {
		return signal
	}

	mean := history.MovingAverage(meanReversionPeriods)
	price := history.LastPrice()
	zScore := (price - mean) / volatility

	if zScore < -meanReversionSigmas {
		signal.ShouldBuy = true
		signal.Reason = fmt.Sprintf("price %.2f is %.2f sigma below %d-period mean %.2f",
			price, -zScore, meanReversionPeriods, mean)
	}
	return signal
}
